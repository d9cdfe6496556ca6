package ui

import (
	"encoding/json"
	"io"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/core"
)

type jsonRenderer struct {
	w io.Writer
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	return &jsonRenderer{w: w}
}

func (r *jsonRenderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (r *jsonRenderer) RenderSummary(s *core.Summary) error {
	return r.encode(toSummaryView(s))
}

func (r *jsonRenderer) RenderCheck(rep *core.CheckReport) error {
	return r.encode(toCheckView(rep))
}

func (r *jsonRenderer) RenderExplanation(e *core.Explanation) error {
	type variantView struct {
		Variant string `json:"variant"`
		Rules   string `json:"rules,omitempty"`
		Matched bool   `json:"matched"`
		Reason  string `json:"reason"`
		Value   string `json:"value"`
	}
	out := struct {
		RunID    string        `json:"runId"`
		Key      string        `json:"key"`
		Record   interface{}   `json:"record"`
		Variants []variantView `json:"variants"`
	}{RunID: e.RunID, Key: e.Key, Record: e.Record}
	for _, v := range e.Variants {
		out.Variants = append(out.Variants, variantView(v))
	}
	return r.encode(out)
}

func (r *jsonRenderer) RenderCacheImport(rep *cache.ImportReport) error {
	return r.encode(struct {
		Imported  []string `json:"imported"`
		Unchanged []string `json:"unchanged"`
		Removed   []string `json:"removed"`
		Records   int      `json:"records"`
	}{rep.Imported, rep.Unchanged, rep.Removed, rep.Records})
}

func (r *jsonRenderer) RenderCacheStatus(s cache.Status) error {
	out := struct {
		Path       string `json:"path"`
		Files      int    `json:"files"`
		Records    int    `json:"records"`
		LastImport string `json:"lastImport,omitempty"`
	}{Path: s.Path, Files: s.Files, Records: s.Records}
	if !s.LastImport.IsZero() {
		out.LastImport = s.LastImport.UTC().Format("2006-01-02T15:04:05Z")
	}
	return r.encode(out)
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}

func (r *jsonRenderer) RenderError(err error) error {
	return r.encode(toErrorView(err))
}
