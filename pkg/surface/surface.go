// Package surface renders SafeTable results for people and machines:
// colored terminal text, Markdown and JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/safetable/safetable/internal/service"
)

// Renderer writes each kind of result to w.
type Renderer interface {
	Hygiene(w io.Writer, r *service.ResolvedResult) error
	TrustScore(w io.Writer, r *service.TrustReport) error
	Comparison(w io.Writer, r *service.ComparisonResult) error
	Recommendations(w io.Writer, r *service.RankedList) error
}

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TerminalRenderer{}, nil
	case FormatMarkdown, "md":
		return &MarkdownRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text, markdown or json)", format)
}
