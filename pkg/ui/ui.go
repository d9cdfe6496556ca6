// Package ui renders command results in terminal (rich), text (plain) and
// JSON formats.
package ui

import (
	"io"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/core"
	"github.com/citizenwiki/locmerge/pkg/errors"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	RenderSummary(s *core.Summary) error
	RenderCheck(r *core.CheckReport) error
	RenderExplanation(e *core.Explanation) error
	RenderCacheImport(r *cache.ImportReport) error
	RenderCacheStatus(s cache.Status) error
	RenderMessage(msg string) error
	RenderError(err error) error
}

// NewRenderer creates a renderer for format. FormatAuto detects the
// terminal capabilities of output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return newTerminalRenderer(output), nil
	case FormatText:
		return newTextRenderer(output), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
