package variant

import (
	"github.com/citizenwiki/locmerge/pkg/classifier"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/ruleconfig"
	"github.com/citizenwiki/locmerge/pkg/rules"
)

// Settings names the translation rules behind each variant
type Settings struct {
	// Rules maps a variant name to its translation rule name
	Rules map[string]string
	// LocationRules names the rules detecting location records for the
	// searchable variant. Empty reuses the searchable rules.
	LocationRules string
	Overrides     *ruleconfig.SearchableOverrides
	RuleOptions   []rules.Option
}

// Build creates the named variants from the rule store. On error every
// variant built so far is closed.
func Build(store *ruleconfig.Store, names []string, s Settings) ([]Variant, error) {
	var built []Variant
	fail := func(err error) ([]Variant, error) {
		for _, v := range built {
			v.Close()
		}
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if name == Full {
			built = append(built, NewFull())
			continue
		}
		if !known(name) {
			return fail(errors.Newf(errors.ErrConfigInvalid, "unknown variant %q", name).
				WithDetail("variant", name))
		}

		ruleName := s.Rules[name]
		if ruleName == "" {
			return fail(errors.Newf(errors.ErrConfigInvalid, "no translation rules configured for variant %s", name).
				WithDetail("variant", name))
		}
		cls, err := classifier.FromStore(store, ruleName, s.RuleOptions...)
		if err != nil {
			return fail(err)
		}

		switch name {
		case Half:
			built = append(built, NewHalf(cls))
		case Both:
			built = append(built, NewBoth(cls))
		case Pinyin:
			built = append(built, NewPinyin(cls))
		case Searchable:
			locations := cls
			if s.LocationRules != "" && s.LocationRules != ruleName {
				locations, err = classifier.FromStore(store, s.LocationRules, s.RuleOptions...)
				if err != nil {
					cls.Close()
					return fail(err)
				}
			}
			built = append(built, NewSearchable(cls, locations, s.Overrides))
		}
	}
	return built, nil
}

// CloseAll closes every variant
func CloseAll(variants []Variant) {
	for _, v := range variants {
		v.Close()
	}
}

func known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}
