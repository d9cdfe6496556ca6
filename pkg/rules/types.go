package rules

import "github.com/citizenwiki/locmerge/pkg/match"

// RuleGroup holds the pattern lists of one include or exclude block
type RuleGroup struct {
	Regex               []string `yaml:"regex,omitempty" mapstructure:"regex"`
	RegexIgnoreCase     []string `yaml:"regex_ignore_case,omitempty" mapstructure:"regex_ignore_case"`
	StartWith           []string `yaml:"start_with,omitempty" mapstructure:"start_with"`
	StartWithIgnoreCase []string `yaml:"start_with_ignore_case,omitempty" mapstructure:"start_with_ignore_case"`
	EndWith             []string `yaml:"end_with,omitempty" mapstructure:"end_with"`
	EndWithIgnoreCase   []string `yaml:"end_with_ignore_case,omitempty" mapstructure:"end_with_ignore_case"`
	Eq                  []string `yaml:"eq,omitempty" mapstructure:"eq"`
	EqIgnoreCase        []string `yaml:"eq_ignore_case,omitempty" mapstructure:"eq_ignore_case"`
	Contains            []string `yaml:"contains,omitempty" mapstructure:"contains"`
	ContainsIgnoreCase  []string `yaml:"contains_ignore_case,omitempty" mapstructure:"contains_ignore_case"`
}

// MatchRules is one rule document: include, exclude and imports
type MatchRules struct {
	Include *RuleGroup `yaml:"include,omitempty" mapstructure:"include"`
	Exclude *RuleGroup `yaml:"exclude,omitempty" mapstructure:"exclude"`
	Imports []string   `yaml:"imports,omitempty" mapstructure:"imports"`
}

// fields returns a pointer to every list keyed by its matcher kind
func (g *RuleGroup) fields() map[match.Kind]*[]string {
	return map[match.Kind]*[]string{
		match.Regex:                &g.Regex,
		match.RegexIgnoreCase:      &g.RegexIgnoreCase,
		match.StartsWith:           &g.StartWith,
		match.StartsWithIgnoreCase: &g.StartWithIgnoreCase,
		match.EndsWith:             &g.EndWith,
		match.EndsWithIgnoreCase:   &g.EndWithIgnoreCase,
		match.Exact:                &g.Eq,
		match.ExactIgnoreCase:      &g.EqIgnoreCase,
		match.Contains:             &g.Contains,
		match.ContainsIgnoreCase:   &g.ContainsIgnoreCase,
	}
}

// Patterns returns the non-empty pattern lists keyed by kind
func (g *RuleGroup) Patterns() map[match.Kind][]string {
	out := make(map[match.Kind][]string)
	if g == nil {
		return out
	}
	for kind, list := range g.fields() {
		for _, p := range *list {
			if p != "" {
				out[kind] = append(out[kind], p)
			}
		}
	}
	return out
}

// Set replaces the list for kind
func (g *RuleGroup) Set(kind match.Kind, patterns []string) {
	if f, ok := g.fields()[kind]; ok {
		*f = append([]string(nil), patterns...)
	}
}

// IsEmpty reports whether the group holds no usable pattern
func (g *RuleGroup) IsEmpty() bool {
	return len(g.Patterns()) == 0
}

// Clone returns a deep copy. Clone of nil is nil.
func (g *RuleGroup) Clone() *RuleGroup {
	if g == nil {
		return nil
	}
	out := &RuleGroup{}
	dst := out.fields()
	for kind, list := range g.fields() {
		if *list != nil {
			*dst[kind] = append([]string{}, *list...)
		}
	}
	return out
}

// Merge adds every pattern of other that g does not hold yet
func (g *RuleGroup) Merge(other *RuleGroup) {
	if other == nil {
		return
	}
	dst := g.fields()
	for kind, list := range other.fields() {
		*dst[kind] = appendUnique(*dst[kind], *list...)
	}
}

// Clone returns a deep copy of the rule set
func (r *MatchRules) Clone() *MatchRules {
	if r == nil {
		return nil
	}
	out := &MatchRules{
		Include: r.Include.Clone(),
		Exclude: r.Exclude.Clone(),
	}
	if r.Imports != nil {
		out.Imports = append([]string{}, r.Imports...)
	}
	return out
}

// Merge folds other into r: include into include, exclude into exclude and
// imports deduplicated
func (r *MatchRules) Merge(other *MatchRules) {
	if other == nil {
		return
	}
	if other.Include != nil {
		if r.Include == nil {
			r.Include = &RuleGroup{}
		}
		r.Include.Merge(other.Include)
	}
	if other.Exclude != nil {
		if r.Exclude == nil {
			r.Exclude = &RuleGroup{}
		}
		r.Exclude.Merge(other.Exclude)
	}
	r.Imports = appendUnique(r.Imports, other.Imports...)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
