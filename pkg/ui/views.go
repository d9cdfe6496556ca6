package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/core"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/variant"
)

// Views flatten results into JSON friendly values

type inputsView struct {
	Version   string   `json:"version"`
	Profile   string   `json:"profile,omitempty"`
	Reference int      `json:"reference"`
	Sources   int      `json:"sources"`
	Folded    int      `json:"folded"`
	Excluded  []string `json:"excluded,omitempty"`
	Records   int      `json:"records"`
	Missing   []string `json:"missing,omitempty"`
	Dropped   int      `json:"dropped"`
	FromCache bool     `json:"fromCache"`
}

type outcomeView struct {
	Variant    string `json:"variant"`
	Path       string `json:"path,omitempty"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

type summaryView struct {
	RunID      string        `json:"runId"`
	Inputs     inputsView    `json:"inputs"`
	Variants   []outcomeView `json:"variants"`
	DurationMs int64         `json:"durationMs"`
}

type checkView struct {
	RunID        string     `json:"runId"`
	OK           bool       `json:"ok"`
	Inputs       inputsView `json:"inputs"`
	Integrity    string     `json:"integrity,omitempty"`
	RuleWarnings []string   `json:"ruleWarnings,omitempty"`
	RuleErrors   []string   `json:"ruleErrors,omitempty"`
}

type errorView struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func toInputsView(in core.Inputs) inputsView {
	return inputsView{
		Version:   in.Version,
		Profile:   in.Profile,
		Reference: in.Reference,
		Sources:   in.Sources,
		Folded:    in.Folded,
		Excluded:  in.Excluded,
		Records:   in.Records,
		Missing:   in.Missing,
		Dropped:   in.Dropped,
		FromCache: in.FromCache,
	}
}

func toOutcomeView(o variant.Outcome) outcomeView {
	v := outcomeView{
		Variant:    o.Variant,
		Path:       o.Path,
		Records:    o.Records,
		DurationMs: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		v.Error = o.Err.Error()
	}
	return v
}

func toSummaryView(s *core.Summary) summaryView {
	v := summaryView{
		RunID:      s.RunID,
		Inputs:     toInputsView(s.Inputs),
		DurationMs: s.Duration.Milliseconds(),
	}
	for _, o := range s.Outcomes {
		v.Variants = append(v.Variants, toOutcomeView(o))
	}
	return v
}

func toCheckView(r *core.CheckReport) checkView {
	v := checkView{
		RunID:        r.RunID,
		OK:           r.OK(),
		Inputs:       toInputsView(r.Inputs),
		RuleWarnings: r.RuleWarnings,
		RuleErrors:   r.RuleErrors,
	}
	if r.Integrity != nil {
		v.Integrity = r.Integrity.Error()
	}
	return v
}

func toErrorView(err error) errorView {
	return errorView{
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	}
}

// ExplanationMarkdown renders an explanation as a markdown document
func ExplanationMarkdown(e *core.Explanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Key)

	source := fmt.Sprintf("record %d", e.Record.ID)
	if e.Record.Synthesized() {
		source = "reference text, no source provides this key"
	}
	fmt.Fprintf(&b, "- **original:** `%s`\n", escapeTicks(e.Record.Original))
	fmt.Fprintf(&b, "- **translation:** `%s`\n", escapeTicks(e.Record.Translation))
	fmt.Fprintf(&b, "- **source:** %s\n\n", source)

	for _, v := range e.Variants {
		fmt.Fprintf(&b, "## %s\n\n", v.Variant)
		if v.Rules != "" {
			decision := "not matched"
			if v.Matched {
				decision = "matched"
			}
			fmt.Fprintf(&b, "- **rules:** %s (%s)\n", v.Rules, decision)
		}
		fmt.Fprintf(&b, "- **reason:** %s\n", v.Reason)
		fmt.Fprintf(&b, "- **output:** `%s`\n\n", escapeTicks(v.Value))
	}
	return b.String()
}

func escapeTicks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

func cacheStatusLines(s cache.Status) [][2]string {
	last := "never"
	if !s.LastImport.IsZero() {
		last = s.LastImport.Local().Format(time.RFC3339)
	}
	return [][2]string{
		{"Database", s.Path},
		{"Files", fmt.Sprint(s.Files)},
		{"Records", fmt.Sprint(s.Records)},
		{"Last import", last},
	}
}
