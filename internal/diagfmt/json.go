package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/nushell/new-nu-parser/internal/compiler"
)

// jsonDiagnostic is the machine-readable shape of one diagnostic.
type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Node     uint32 `json:"node"`
	Start    uint32 `json:"start"`
	End      uint32 `json:"end"`
	File     string `json:"file,omitempty"`
}

// JSON writes all recorded diagnostics as a JSON array.
func JSON(w io.Writer, c *compiler.Compiler) error {
	out := make([]jsonDiagnostic, 0, len(c.Errors))
	for _, e := range c.Errors {
		span := c.GetSpan(e.Node)
		d := jsonDiagnostic{
			Severity: e.Severity.String(),
			Code:     e.Code.ID(),
			Message:  e.Message,
			Node:     uint32(e.Node),
			Start:    span.Start,
			End:      span.End,
		}
		if entry, ok := c.Files.FileOf(span.Start); ok {
			d.File = entry.Name
		}
		out = append(out, d)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
