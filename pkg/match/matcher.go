package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"golang.org/x/text/cases"
)

// ReasonNilCandidate is reported for every nil candidate
const ReasonNilCandidate = "candidate is null"

// Result is the outcome of one evaluation
type Result struct {
	Matched bool
	Reason  string
}

// Matched builds a positive result
func Matched(reason string) Result {
	return Result{Matched: true, Reason: reason}
}

// NotMatched builds a negative result
func NotMatched(reason string) Result {
	return Result{Matched: false, Reason: reason}
}

// Matcher is a predicate over a candidate string. Implementations are
// immutable and safe for concurrent use.
type Matcher interface {
	Kind() Kind
	Patterns() []string
	Evaluate(candidate *string) Result
}

// New builds the matcher for kind. Empty patterns are dropped; a list that
// is empty afterwards is a configuration error, as is an invalid regex.
func New(kind Kind, patterns []string) (Matcher, error) {
	cleaned := nonEmpty(patterns)
	if len(cleaned) == 0 {
		return nil, errors.Newf(errors.ErrConfigInvalid, "no patterns given for %s matcher", kind).
			WithDetail("kind", kind.String())
	}

	switch kind {
	case Regex, RegexIgnoreCase:
		return newRegexMatcher(kind, cleaned)
	case Exact, ExactIgnoreCase, StartsWith, StartsWithIgnoreCase,
		EndsWith, EndsWithIgnoreCase, Contains, ContainsIgnoreCase:
		return newTextMatcher(kind, cleaned), nil
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unknown matcher kind %d", int(kind))
	}
}

func nonEmpty(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fold returns the Unicode case-folded form of s. A Caser holds state, so
// one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

type textMatcher struct {
	kind     Kind
	patterns []string
	// folded holds case-folded patterns for ignore-case kinds
	folded []string
	test   func(candidate, pattern string) bool
	verb   string
}

func newTextMatcher(kind Kind, patterns []string) *textMatcher {
	m := &textMatcher{kind: kind, patterns: patterns}

	switch kind {
	case Exact, ExactIgnoreCase:
		m.test = func(c, p string) bool { return c == p }
		m.verb = "equals"
	case StartsWith, StartsWithIgnoreCase:
		m.test = strings.HasPrefix
		m.verb = "starts with"
	case EndsWith, EndsWithIgnoreCase:
		m.test = strings.HasSuffix
		m.verb = "ends with"
	case Contains, ContainsIgnoreCase:
		m.test = strings.Contains
		m.verb = "contains"
	}

	m.folded = patterns
	if kind.IgnoreCase() {
		m.folded = make([]string, len(patterns))
		for i, p := range patterns {
			m.folded[i] = fold(p)
		}
	}
	return m
}

func (m *textMatcher) Kind() Kind         { return m.kind }
func (m *textMatcher) Patterns() []string { return append([]string(nil), m.patterns...) }

func (m *textMatcher) Evaluate(candidate *string) Result {
	if candidate == nil {
		return NotMatched(ReasonNilCandidate)
	}

	c := *candidate
	suffix := ""
	if m.kind.IgnoreCase() {
		c = fold(c)
		suffix = " (ignore case)"
	}

	for i, p := range m.folded {
		if m.test(c, p) {
			return Matched(fmt.Sprintf("%s %q%s", m.verb, m.patterns[i], suffix))
		}
	}
	return NotMatched(fmt.Sprintf("not %s any of %q%s", m.verb, m.patterns, suffix))
}

type regexMatcher struct {
	kind     Kind
	patterns []string
	compiled []*regexp.Regexp
}

func newRegexMatcher(kind Kind, patterns []string) (*regexMatcher, error) {
	m := &regexMatcher{kind: kind, patterns: patterns}

	prefix := ""
	if kind == RegexIgnoreCase {
		prefix = "(?i)"
	}

	for _, p := range patterns {
		re, err := regexp.Compile(prefix + "^(?:" + p + ")$")
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidPattern, "invalid regular expression [%s]", p).
				WithDetail("pattern", p)
		}
		m.compiled = append(m.compiled, re)
	}
	return m, nil
}

func (m *regexMatcher) Kind() Kind         { return m.kind }
func (m *regexMatcher) Patterns() []string { return append([]string(nil), m.patterns...) }

func (m *regexMatcher) Evaluate(candidate *string) Result {
	if candidate == nil {
		return NotMatched(ReasonNilCandidate)
	}
	for i, re := range m.compiled {
		if re.MatchString(*candidate) {
			return Matched(fmt.Sprintf("matches regex %s", m.patterns[i]))
		}
	}
	return NotMatched(fmt.Sprintf("matches none of %d regex patterns", len(m.patterns)))
}
