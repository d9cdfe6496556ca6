package variant

import (
	"context"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/classifier"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/mozillazg/go-pinyin"
)

// JoinedWithBrackets is the extension rule that selects the bracket layout
// of the both variant
const JoinedWithBrackets = "joined_with_brackets"

type fullVariant struct{}

// NewFull returns the variant that writes translations unchanged
func NewFull() Variant {
	return fullVariant{}
}

func (fullVariant) Name() string { return Full }

func (fullVariant) Render(_ context.Context, rec reconcile.Record) string {
	return rec.Translation
}

func (fullVariant) Close() {}

type halfVariant struct {
	classified
}

// NewHalf returns the variant that writes the original text for classified records
func NewHalf(cls *classifier.Classifier) Variant {
	return &halfVariant{classified{cls}}
}

func (v *halfVariant) Name() string { return Half }

func (v *halfVariant) Render(ctx context.Context, rec reconcile.Record) string {
	if v.match(ctx, rec) {
		return rec.Original
	}
	return rec.Translation
}

type bothVariant struct {
	classified
}

// NewBoth returns the bilingual variant. Classified records whose key passes
// the joined_with_brackets extension rule are written as "original [translation]",
// the rest as original and translation separated by a literal \n.
func NewBoth(cls *classifier.Classifier) Variant {
	return &bothVariant{classified{cls}}
}

func (v *bothVariant) Name() string { return Both }

func (v *bothVariant) Render(ctx context.Context, rec reconcile.Record) string {
	if !v.match(ctx, rec) {
		return rec.Translation
	}
	if v.cls.IsExtMatch(ctx, JoinedWithBrackets, rec.Key) {
		return rec.Original + " [" + rec.Translation + "]"
	}
	return rec.Original + `\n` + rec.Translation
}

type pinyinVariant struct {
	classified
	args pinyin.Args
}

// NewPinyin returns the variant that suffixes classified translations with
// the pinyin initials of their Han characters
func NewPinyin(cls *classifier.Classifier) Variant {
	args := pinyin.NewArgs()
	args.Style = pinyin.FirstLetter
	return &pinyinVariant{classified: classified{cls}, args: args}
}

func (v *pinyinVariant) Name() string { return Pinyin }

func (v *pinyinVariant) Render(ctx context.Context, rec reconcile.Record) string {
	if !v.match(ctx, rec) {
		return rec.Translation
	}
	initials, ok := Initials(rec.Translation, v.args)
	if !ok {
		return rec.Translation
	}
	return rec.Translation + "[" + initials + "]"
}

// Initials returns the pinyin initials of the Han characters in text, or
// false when text holds none
func Initials(text string, args pinyin.Args) (string, bool) {
	var han strings.Builder
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fa5 {
			han.WriteRune(r)
		}
	}
	if han.Len() == 0 {
		return "", false
	}
	return strings.Join(pinyin.LazyPinyin(han.String(), args), ""), true
}
