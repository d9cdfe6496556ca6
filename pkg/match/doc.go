// Package match implements the primitive string predicates used by rule
// documents and the group evaluator that ORs them together.
//
// There are ten kinds: exact, prefix, suffix, substring and regular
// expression, each in a case-sensitive and a case-insensitive form.
// Ignore-case kinds compare Unicode case-folded text. Regular expressions
// must match the whole candidate.
//
// A Group owns one Matcher per kind that has at least one pattern. Its
// matchers are raced on a pool.Pool; the first positive result wins and the
// siblings that have not started yet are cancelled.
package match
