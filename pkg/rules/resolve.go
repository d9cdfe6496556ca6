package rules

import (
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
)

// Lookup returns the rule set registered under name
type Lookup func(name string) (*MatchRules, bool)

// Resolve returns a new rule set holding r's own rules merged with every
// rule set reachable through its imports. visited holds the names already on
// the import path and self is the name r is known by (may be empty). The
// result has no imports. Missing imports and cycles are logged and skipped.
func (r *MatchRules) Resolve(lookup Lookup, visited map[string]struct{}, self string) *MatchRules {
	logger := logging.GetLogger("rules.resolve")
	return r.resolve(lookup, visited, self, func(err error) {
		logger.Warn().Err(err).Str("rules", self).Msg("Import skipped")
	})
}

// ResolveRules resolves rules registered under name starting from an empty path
func ResolveRules(lookup Lookup, rules *MatchRules, name string) *MatchRules {
	if rules == nil {
		return &MatchRules{}
	}
	return rules.Resolve(lookup, map[string]struct{}{}, name)
}

// Diagnose resolves rules and returns the skipped imports as coded errors
// instead of logging them
func Diagnose(lookup Lookup, rules *MatchRules, name string) []error {
	var problems []error
	if rules == nil {
		return nil
	}
	rules.resolve(lookup, map[string]struct{}{}, name, func(err error) {
		problems = append(problems, err)
	})
	return problems
}

func (r *MatchRules) resolve(lookup Lookup, visited map[string]struct{}, self string, report func(error)) *MatchRules {
	merged := &MatchRules{
		Include: r.Include.Clone(),
		Exclude: r.Exclude.Clone(),
	}
	if len(r.Imports) == 0 {
		return merged
	}

	path := make(map[string]struct{}, len(visited)+1)
	for name := range visited {
		path[name] = struct{}{}
	}
	if self != "" {
		path[self] = struct{}{}
	}

	for _, name := range r.Imports {
		if _, seen := path[name]; seen {
			report(errors.Newf(errors.ErrImportCycle, "import cycle %s -> %s", self, name).
				WithDetail("from", self).
				WithDetail("import", name))
			continue
		}

		imported, ok := lookup(name)
		if !ok {
			report(errors.Newf(errors.ErrImportMissing, "imported rules %s not found", name).
				WithDetail("from", self).
				WithDetail("import", name))
			continue
		}
		if imported == nil {
			continue
		}

		merged.Merge(imported.resolve(lookup, path, name, report))
	}
	return merged
}
