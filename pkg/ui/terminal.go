package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/core"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/pterm/pterm"
)

type terminalRenderer struct {
	w        io.Writer
	styles   *Styles
	markdown *MarkdownRenderer
}

func newTerminalRenderer(w io.Writer) *terminalRenderer {
	return &terminalRenderer{
		w:        w,
		styles:   defaultStyles(lipgloss.NewRenderer(w)),
		markdown: NewMarkdownRenderer(),
	}
}

func (r *terminalRenderer) println(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}

func (r *terminalRenderer) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	return r.println(out)
}

func (r *terminalRenderer) inputs(in core.Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.styles.Render("Label", "Version:"), in.Version)
	fmt.Fprintf(&b, "%s %d keys\n", r.styles.Render("Label", "Reference:"), in.Reference)

	sources := fmt.Sprintf("%d read, %d folded", in.Sources, in.Folded)
	if len(in.Excluded) > 0 {
		sources += r.styles.Render("Muted", fmt.Sprintf(", %d excluded", len(in.Excluded)))
	}
	if in.FromCache {
		sources += r.styles.Render("Muted", " (cache)")
	}
	fmt.Fprintf(&b, "%s %s\n", r.styles.Render("Label", "Sources:"), sources)

	records := fmt.Sprintf("%d", in.Records)
	if len(in.Missing) > 0 {
		records += " " + r.styles.Render("Warning", fmt.Sprintf("(%d missing from sources)", len(in.Missing)))
	}
	if in.Dropped > 0 {
		records += " " + r.styles.Render("Muted", fmt.Sprintf("(%d dropped)", in.Dropped))
	}
	fmt.Fprintf(&b, "%s %s", r.styles.Render("Label", "Records:"), records)
	return b.String()
}

func (r *terminalRenderer) RenderSummary(s *core.Summary) error {
	if err := r.println(r.styles.Render("Title", "Merge "+s.RunID)); err != nil {
		return err
	}
	if err := r.println(r.inputs(s.Inputs) + "\n"); err != nil {
		return err
	}

	data := pterm.TableData{{"Variant", "Status", "Records", "Output"}}
	for _, o := range s.Outcomes {
		status := r.styles.Render("Success", "ok")
		output := o.Path
		if !o.OK() {
			status = r.styles.Render("Error", "failed")
			output = o.Err.Error()
		}
		data = append(data, []string{o.Variant, status, fmt.Sprint(o.Records), output})
	}
	if err := r.table(data); err != nil {
		return err
	}

	failed := len(s.Failed())
	line := fmt.Sprintf("%d of %d variants written in %s", len(s.Outcomes)-failed, len(s.Outcomes), s.Duration.Round(time.Millisecond))
	if failed > 0 {
		return r.println(r.styles.Render("Error", line))
	}
	return r.println(r.styles.Render("Success", line))
}

func (r *terminalRenderer) RenderCheck(rep *core.CheckReport) error {
	if err := r.println(r.styles.Render("Title", "Check "+rep.RunID)); err != nil {
		return err
	}
	if err := r.println(r.inputs(rep.Inputs) + "\n"); err != nil {
		return err
	}

	if rep.Integrity != nil {
		if err := r.println(r.styles.Render("Error", "integrity: ") + rep.Integrity.Error()); err != nil {
			return err
		}
	}
	for _, e := range rep.RuleErrors {
		if err := r.println(r.styles.Render("Error", "error: ") + e); err != nil {
			return err
		}
	}
	for _, w := range rep.RuleWarnings {
		if err := r.println(r.styles.Render("Warning", "warning: ") + w); err != nil {
			return err
		}
	}

	if rep.OK() {
		return r.println(r.styles.Render("Success", "All checks passed"))
	}
	return r.println(r.styles.Render("Error", "Check failed"))
}

func (r *terminalRenderer) RenderExplanation(e *core.Explanation) error {
	_, err := io.WriteString(r.w, r.markdown.Render(ExplanationMarkdown(e)))
	return err
}

func (r *terminalRenderer) RenderCacheImport(rep *cache.ImportReport) error {
	data := pterm.TableData{{"File", "Status"}}
	for _, name := range rep.Imported {
		data = append(data, []string{name, r.styles.Render("Success", "imported")})
	}
	for _, name := range rep.Unchanged {
		data = append(data, []string{name, r.styles.Render("Muted", "unchanged")})
	}
	for _, name := range rep.Removed {
		data = append(data, []string{name, r.styles.Render("Warning", "removed")})
	}
	if len(data) > 1 {
		if err := r.table(data); err != nil {
			return err
		}
	}
	return r.println(fmt.Sprintf("%s %d records from %d files",
		r.styles.Render("Label", "Imported"), rep.Records, len(rep.Imported)))
}

func (r *terminalRenderer) RenderCacheStatus(s cache.Status) error {
	var b strings.Builder
	for _, line := range cacheStatusLines(s) {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Render("Label", line[0]+":"), line[1])
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	return r.println(msg)
}

func (r *terminalRenderer) RenderError(err error) error {
	return r.println(r.styles.Render("Error", "Error: ") + err.Error())
}
