package ruleconfig

import "github.com/citizenwiki/locmerge/pkg/rules"

// Document is one rule document
type Document struct {
	MatchRules *rules.MatchRules `yaml:"match_rules,omitempty" mapstructure:"match_rules"`
}

// Rules returns the document's rule set, or an empty one
func (d *Document) Rules() *rules.MatchRules {
	if d == nil || d.MatchRules == nil {
		return &rules.MatchRules{}
	}
	return d.MatchRules
}

// TranslationRule binds a rule document to each record field plus named
// extension rules
type TranslationRule struct {
	Key         *Document            `yaml:"key,omitempty" mapstructure:"key"`
	Original    *Document            `yaml:"original,omitempty" mapstructure:"original"`
	Translation *Document            `yaml:"translation,omitempty" mapstructure:"translation"`
	Ext         map[string]*Document `yaml:"ext,omitempty" mapstructure:"ext"`
}

// SearchableOverrides adjusts location suffixing in the searchable variant
type SearchableOverrides struct {
	// IgnoreKeys are record keys whose text is never rewritten
	IgnoreKeys []string `yaml:"ignore_keys,omitempty" mapstructure:"ignore_keys"`
	// OverrideMappings maps a translated location name to the text placed in brackets
	OverrideMappings map[string]string `yaml:"override_mappings,omitempty" mapstructure:"override_mappings"`
}

// translationRuleKeys are the top-level keys that mark a translation rule document
var translationRuleKeys = []string{"key", "original", "translation", "ext"}
