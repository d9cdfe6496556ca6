package match

import "strings"

// Kind identifies one of the primitive matcher flavours
type Kind int

const (
	Exact Kind = iota
	ExactIgnoreCase
	StartsWith
	StartsWithIgnoreCase
	EndsWith
	EndsWithIgnoreCase
	Contains
	ContainsIgnoreCase
	Regex
	RegexIgnoreCase
)

// kindNames are the keys used for each kind in rule documents
var kindNames = [...]string{
	Exact:                "eq",
	ExactIgnoreCase:      "eq_ignore_case",
	StartsWith:           "start_with",
	StartsWithIgnoreCase: "start_with_ignore_case",
	EndsWith:             "end_with",
	EndsWithIgnoreCase:   "end_with_ignore_case",
	Contains:             "contains",
	ContainsIgnoreCase:   "contains_ignore_case",
	Regex:                "regex",
	RegexIgnoreCase:      "regex_ignore_case",
}

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the rule document key of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IgnoreCase reports whether the kind compares case-folded text
func (k Kind) IgnoreCase() bool {
	switch k {
	case ExactIgnoreCase, StartsWithIgnoreCase, EndsWithIgnoreCase, ContainsIgnoreCase, RegexIgnoreCase:
		return true
	default:
		return false
	}
}

// ParseKind maps a rule document key to its kind. Keys are matched case-insensitively.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
