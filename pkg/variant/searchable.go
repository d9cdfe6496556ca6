package variant

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/citizenwiki/locmerge/pkg/classifier"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/ruleconfig"
)

// MissionText is the extension rule selecting the keys whose text gets
// location names suffixed
const MissionText = "mission_text"

type searchableVariant struct {
	classified
	locations *classifier.Classifier
	overrides *ruleconfig.SearchableOverrides
	ignore    map[string]bool
	replacer  *LocationReplacer
}

// NewSearchable returns the variant that makes translated text findable by
// its original wording. cls classifies the records to suffix; locations
// detects location records and selects mission text keys, and may be cls
// itself. overrides may be nil.
func NewSearchable(cls, locations *classifier.Classifier, overrides *ruleconfig.SearchableOverrides) Variant {
	if locations == nil {
		locations = cls
	}
	if overrides == nil {
		overrides = &ruleconfig.SearchableOverrides{}
	}
	ignore := make(map[string]bool, len(overrides.IgnoreKeys))
	for _, key := range overrides.IgnoreKeys {
		ignore[key] = true
	}
	return &searchableVariant{
		classified: classified{cls},
		locations:  locations,
		overrides:  overrides,
		ignore:     ignore,
	}
}

func (v *searchableVariant) Name() string { return Searchable }

// Prepare collects location names from records
func (v *searchableVariant) Prepare(ctx context.Context, records []reconcile.Record) {
	mapping := make(map[string]string)
	for _, rec := range records {
		if rec.Original == rec.Translation {
			continue
		}
		if v.locations.IsMatch(ctx, rec.Key, rec.Original, rec.Translation) {
			mapping[rec.Translation] = rec.Original
		}
	}
	found := len(mapping)
	for name, original := range v.overrides.OverrideMappings {
		mapping[name] = original
	}
	v.replacer = NewLocationReplacer(mapping)

	logger := logging.GetLogger("variant")
	logger.Debug().
		Int("locations", found).
		Int("overrides", len(v.overrides.OverrideMappings)).
		Msg("Location names collected")
}

func (v *searchableVariant) Render(ctx context.Context, rec reconcile.Record) string {
	value := rec.Translation
	if v.match(ctx, rec) {
		value = value + "[" + rec.Original + "]"
	}
	if v.replacer == nil || v.ignore[rec.Key] {
		return value
	}
	if v.locations.IsExtMatch(ctx, MissionText, rec.Key) {
		value = v.replacer.Replace(value)
	}
	return value
}

func (v *searchableVariant) Close() {
	v.classified.Close()
	if v.locations != v.cls && v.locations != nil {
		v.locations.Close()
	}
}

// LocationReplacer suffixes translated location names with their original
// names, e.g. "派罗 V" becomes "派罗 V[Pyro V]"
type LocationReplacer struct {
	names   []string
	mapping map[string]string
}

// NewLocationReplacer builds a replacer from translated name to original name
func NewLocationReplacer(mapping map[string]string) *LocationReplacer {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		if name != "" {
			names = append(names, name)
		}
	}
	// longest first, so a name is never replaced inside a longer one
	sort.Slice(names, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(names[i]), utf8.RuneCountInString(names[j])
		if li != lj {
			return li > lj
		}
		return names[i] > names[j]
	})
	return &LocationReplacer{names: names, mapping: mapping}
}

// Len returns the number of known location names
func (r *LocationReplacer) Len() int {
	return len(r.names)
}

// Replace suffixes every location name found in text
func (r *LocationReplacer) Replace(text string) string {
	var replaced []string
	for _, name := range r.names {
		if !strings.Contains(text, name) || containedIn(replaced, name) {
			continue
		}
		text = strings.ReplaceAll(text, name, name+"["+r.mapping[name]+"]")
		replaced = append(replaced, name)
	}
	return text
}

func containedIn(words []string, name string) bool {
	for _, w := range words {
		if strings.Contains(w, name) {
			return true
		}
	}
	return false
}
