// Package classifier binds resolved rule sets to the fields of a
// translation record.
package classifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/ruleconfig"
	"github.com/citizenwiki/locmerge/pkg/rules"
)

// Classifier decides whether a record's key, original and translation all
// pass their rule sets. Extension rule sets are queried by name.
// A Classifier is read-only after construction and safe for concurrent use.
type Classifier struct {
	name        string
	key         *rules.Processor
	original    *rules.Processor
	translation *rules.Processor
	ext         map[string]*rules.Processor
}

// New resolves every rule set of tr through lookup and builds its processors.
// A facet that fails to build is an error; an extension rule set that fails
// is logged and left out.
func New(name string, tr *ruleconfig.TranslationRule, lookup rules.Lookup, opts ...rules.Option) (*Classifier, error) {
	logger := logging.GetLogger("classifier")
	if tr == nil {
		tr = &ruleconfig.TranslationRule{}
	}

	c := &Classifier{name: name, ext: make(map[string]*rules.Processor)}

	build := func(facet string, doc *ruleconfig.Document) (*rules.Processor, error) {
		resolved := rules.ResolveRules(lookup, doc.Rules(), name)
		p, err := rules.NewProcessor(resolved, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "%s: invalid %s rules", name, facet).
				WithDetail("rules", name).
				WithDetail("facet", facet)
		}
		return p, nil
	}

	var err error
	if c.key, err = build("key", tr.Key); err != nil {
		c.Close()
		return nil, err
	}
	if c.original, err = build("original", tr.Original); err != nil {
		c.Close()
		return nil, err
	}
	if c.translation, err = build("translation", tr.Translation); err != nil {
		c.Close()
		return nil, err
	}

	for extName, doc := range tr.Ext {
		if doc == nil {
			logger.Warn().Str("rules", name).Str("ext", extName).Msg("Extension rules are empty, skipping")
			continue
		}
		p, err := build("ext "+extName, doc)
		if err != nil {
			logger.Error().Err(err).Str("rules", name).Str("ext", extName).Msg("Failed to build extension rules, skipping")
			continue
		}
		c.ext[extName] = p
	}

	logger.Debug().Str("rules", name).Int("ext", len(c.ext)).Msg("Classifier built")
	return c, nil
}

// FromStore builds the classifier for the translation rule document named name
func FromStore(store *ruleconfig.Store, name string, opts ...rules.Option) (*Classifier, error) {
	tr, ok := store.TranslationRule(name)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigInvalid, "translation rules %s not found in %s", name, store.Dir()).
			WithDetail("rules", name)
	}
	return New(name, tr, store.Lookup(), opts...)
}

// Name returns the rule document name the classifier was built from
func (c *Classifier) Name() string {
	return c.name
}

// IsMatch reports whether all three fields pass. Evaluation stops at the
// first field that fails.
func (c *Classifier) IsMatch(ctx context.Context, key, original, translation string) bool {
	return c.key.Matches(ctx, &key) &&
		c.original.Matches(ctx, &original) &&
		c.translation.Matches(ctx, &translation)
}

// MatchReason explains the decision of every field
func (c *Classifier) MatchReason(ctx context.Context, key, original, translation string) string {
	return fmt.Sprintf("key: %s original: %s translation: %s",
		c.key.MatchReason(ctx, &key),
		c.original.MatchReason(ctx, &original),
		c.translation.MatchReason(ctx, &translation))
}

// IsExtMatch reports whether the extension rule set name accepts candidate.
// Unknown names never match.
func (c *Classifier) IsExtMatch(ctx context.Context, name, candidate string) bool {
	p, ok := c.ext[name]
	if !ok {
		return false
	}
	return p.Matches(ctx, &candidate)
}

// ExtMatchReason explains the decision of the extension rule set name
func (c *Classifier) ExtMatchReason(ctx context.Context, name, candidate string) string {
	p, ok := c.ext[name]
	if !ok {
		return fmt.Sprintf("ext rule '%s' does not exist", name)
	}
	return p.MatchReason(ctx, &candidate)
}

// HasExt reports whether the extension rule set name was built
func (c *Classifier) HasExt(name string) bool {
	_, ok := c.ext[name]
	return ok
}

// ExtNames returns the built extension rule names, sorted
func (c *Classifier) ExtNames() []string {
	names := make([]string, 0, len(c.ext))
	for name := range c.ext {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the pools owned by the processors
func (c *Classifier) Close() {
	for _, p := range []*rules.Processor{c.key, c.original, c.translation} {
		if p != nil {
			p.Close()
		}
	}
	for _, p := range c.ext {
		p.Close()
	}
}
