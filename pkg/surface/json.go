package surface

import (
	"encoding/json"
	"io"

	"github.com/safetable/safetable/internal/service"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *JSONRenderer) Hygiene(w io.Writer, res *service.ResolvedResult) error { return encode(w, res) }

func (r *JSONRenderer) TrustScore(w io.Writer, rep *service.TrustReport) error { return encode(w, rep) }

func (r *JSONRenderer) Comparison(w io.Writer, res *service.ComparisonResult) error {
	return encode(w, res)
}

func (r *JSONRenderer) Recommendations(w io.Writer, list *service.RankedList) error {
	return encode(w, list)
}
