package ruleconfig

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// parseYAML reads a YAML mapping. An empty document yields a nil map.
func parseYAML(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decode maps raw into target. Field names match case-insensitively, a single
// scalar is accepted where a list is expected and unknown keys are ignored.
func decode(raw map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		MatchName:        strings.EqualFold,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// hasAnyKey reports whether raw holds one of keys, ignoring case
func hasAnyKey(raw map[string]interface{}, keys ...string) bool {
	for k := range raw {
		for _, want := range keys {
			if strings.EqualFold(k, want) {
				return true
			}
		}
	}
	return false
}
