// Package rules turns rule documents into match decisions.
//
// A MatchRules value carries an include group, an exclude group and a list
// of imports. Imports name other rule documents; Resolve walks them depth
// first, carrying the set of names on the current path so that cycles are
// dropped with a warning instead of recursing forever. The resolved value
// has no imports left and resolving it again yields an equal value.
//
// A Processor evaluates a resolved rule set:
//
//   - no rules at all: everything matches
//   - exclude only: matches unless the exclude group matches
//   - include only: matches only if the include group matches
//   - both: exclude is checked first and always wins
//
// Processors evaluate their groups on a pool.Pool. A processor built with
// WithParallelism owns its pool and shuts it down on Close; one built with
// WithPool (or with no option, which borrows pool.Shared) never does.
package rules
