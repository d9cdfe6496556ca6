package variant

import (
	"context"

	"github.com/citizenwiki/locmerge/pkg/classifier"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
)

// Variant names
const (
	Full       = "full"
	Half       = "half"
	Both       = "both"
	Searchable = "searchable"
	Pinyin     = "pinyin"
)

// Names returns every known variant name in output order
func Names() []string {
	return []string{Full, Half, Both, Searchable, Pinyin}
}

// Variant renders the value written for one record
type Variant interface {
	Name() string
	Render(ctx context.Context, rec reconcile.Record) string
	Close()
}

// Preparer is implemented by variants that need the whole record set
// before rendering
type Preparer interface {
	Prepare(ctx context.Context, records []reconcile.Record)
}

// Classified is implemented by variants driven by a classifier
type Classified interface {
	Classifier() *classifier.Classifier
}

// Explanation describes how a variant treats one record
type Explanation struct {
	Variant string
	Rules   string
	Matched bool
	Reason  string
	Value   string
}

// Explain renders rec through v and reports the classifier decision behind it
func Explain(ctx context.Context, v Variant, rec reconcile.Record) Explanation {
	e := Explanation{
		Variant: v.Name(),
		Value:   v.Render(ctx, rec),
	}
	c, ok := v.(Classified)
	if !ok || c.Classifier() == nil {
		e.Reason = "not classified"
		return e
	}
	cls := c.Classifier()
	e.Rules = cls.Name()
	e.Matched = cls.IsMatch(ctx, rec.Key, rec.Original, rec.Translation)
	e.Reason = cls.MatchReason(ctx, rec.Key, rec.Original, rec.Translation)
	return e
}

// classified is embedded by the rule driven variants
type classified struct {
	cls *classifier.Classifier
}

func (c classified) Classifier() *classifier.Classifier {
	return c.cls
}

func (c classified) Close() {
	if c.cls != nil {
		c.cls.Close()
	}
}

func (c classified) match(ctx context.Context, rec reconcile.Record) bool {
	return c.cls.IsMatch(ctx, rec.Key, rec.Original, rec.Translation)
}
