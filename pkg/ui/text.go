package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/core"
)

type textRenderer struct {
	w io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{w: w}
}

func (r *textRenderer) inputs(in core.Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version: %s\n", in.Version)
	fmt.Fprintf(&b, "Reference: %d keys\n", in.Reference)
	fmt.Fprintf(&b, "Sources: %d read, %d folded, %d excluded", in.Sources, in.Folded, len(in.Excluded))
	if in.FromCache {
		b.WriteString(" (cache)")
	}
	fmt.Fprintf(&b, "\nRecords: %d (%d missing, %d dropped)\n", in.Records, len(in.Missing), in.Dropped)
	return b.String()
}

func (r *textRenderer) RenderSummary(s *core.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Merge %s\n", s.RunID)
	b.WriteString(r.inputs(s.Inputs))
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tSTATUS\tRECORDS\tOUTPUT")
	for _, o := range s.Outcomes {
		if o.OK() {
			fmt.Fprintf(tw, "%s\tok\t%d\t%s\n", o.Variant, o.Records, o.Path)
		} else {
			fmt.Fprintf(tw, "%s\tfailed\t%d\t%s\n", o.Variant, o.Records, o.Err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failed := len(s.Failed())
	fmt.Fprintf(&b, "\n%d of %d variants written\n", len(s.Outcomes)-failed, len(s.Outcomes))
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) RenderCheck(rep *core.CheckReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Check %s\n", rep.RunID)
	b.WriteString(r.inputs(rep.Inputs))
	if rep.Integrity != nil {
		fmt.Fprintf(&b, "integrity: %s\n", rep.Integrity)
	}
	for _, e := range rep.RuleErrors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	for _, w := range rep.RuleWarnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	if rep.OK() {
		b.WriteString("All checks passed\n")
	} else {
		b.WriteString("Check failed\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) RenderExplanation(e *core.Explanation) error {
	_, err := io.WriteString(r.w, ExplanationMarkdown(e))
	return err
}

func (r *textRenderer) RenderCacheImport(rep *cache.ImportReport) error {
	var b strings.Builder
	for _, name := range rep.Imported {
		fmt.Fprintf(&b, "imported  %s\n", name)
	}
	for _, name := range rep.Unchanged {
		fmt.Fprintf(&b, "unchanged %s\n", name)
	}
	for _, name := range rep.Removed {
		fmt.Fprintf(&b, "removed   %s\n", name)
	}
	fmt.Fprintf(&b, "Imported %d records from %d files\n", rep.Records, len(rep.Imported))
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) RenderCacheStatus(s cache.Status) error {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 1, ' ', 0)
	for _, line := range cacheStatusLines(s) {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "Error: %s\n", err)
	return werr
}
