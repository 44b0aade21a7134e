// Package diagfmt renders the compiler's diagnostics for humans and tools.
// It sits outside the core pipeline: passes only append plain error values,
// and this package turns them into annotated source excerpts or JSON.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/source"
)

// PrettyOpts controls the human-readable renderer.
type PrettyOpts struct {
	// Color toggles ANSI colors.
	Color bool
	// TabWidth is used when computing caret alignment; 0 means 4.
	TabWidth int
	// MaxErrors caps how many diagnostics print; 0 means no cap.
	MaxErrors int
}

// visualWidthUpTo computes the on-screen width of a line prefix, expanding
// tabs and using proper widths for wide runes so the caret lands under the
// right column.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}

	bytePos := 0
	visualPos := 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

// Pretty formats all recorded diagnostics. For each one it prints
// `<file>:<line>:<col>: <SEV> <CODE>: <message>`, the offending source line,
// and a `^~~~` underline over the node's span.
func Pretty(w io.Writer, c *compiler.Compiler, opts PrettyOpts) {
	var (
		errorColor   = color.New(color.FgRed, color.Bold)
		noteColor    = color.New(color.FgCyan, color.Bold)
		pathColor    = color.New(color.FgWhite, color.Bold)
		codeColor    = color.New(color.FgMagenta)
		lineNumColor = color.New(color.FgBlue)
		caretColor   = color.New(color.FgRed, color.Bold)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	tabWidth := opts.TabWidth
	if tabWidth == 0 {
		tabWidth = 4
	}

	lineIndexes := map[string]*source.LineIndex{}

	for idx, e := range c.Errors {
		if opts.MaxErrors > 0 && idx >= opts.MaxErrors {
			fmt.Fprintf(w, "... and %d more\n", len(c.Errors)-idx)
			return
		}
		if idx > 0 {
			fmt.Fprintln(w)
		}

		span := c.GetSpan(e.Node)
		entry, ok := c.Files.FileOf(span.Start)
		if !ok {
			fmt.Fprintf(w, "%s %s: %s\n", severityLabel(e.Severity, errorColor, noteColor), codeColor.Sprint(e.Code.ID()), e.Message)
			continue
		}

		fileContent := c.Source[entry.Start:entry.End]
		li, cached := lineIndexes[entry.Name]
		if !cached {
			li = source.BuildLineIndex(fileContent)
			lineIndexes[entry.Name] = li
		}

		localStart := span.Start - entry.Start
		localEnd := span.End - entry.Start
		start := li.Resolve(localStart)

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(entry.Name), start.Line, start.Col,
			severityLabel(e.Severity, errorColor, noteColor),
			codeColor.Sprint(e.Code.ID()), e.Message)

		lineStart, lineEnd := li.LineRange(start.Line, uint32(len(fileContent))) //nolint:gosec // file size fits u32
		line := string(fileContent[lineStart:lineEnd])
		fmt.Fprintf(w, "%s %s\n", lineNumColor.Sprintf("%5d |", start.Line), strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth)))

		// underline the span, clamped to the line
		underStart := visualWidthUpTo(line, start.Col, tabWidth)
		spanLen := int(localEnd - localStart)
		if localEnd > lineStart+uint32(len(line)) { //nolint:gosec // line length fits u32
			spanLen = len(line) - int(localStart-lineStart)
		}
		if spanLen < 1 {
			spanLen = 1
		}
		underline := "^" + strings.Repeat("~", spanLen-1)
		fmt.Fprintf(w, "      | %s%s\n", strings.Repeat(" ", underStart), caretColor.Sprint(underline))
	}
}

func severityLabel(sev diag.Severity, errorColor, noteColor *color.Color) string {
	switch sev {
	case diag.SevError:
		return errorColor.Sprint("ERROR")
	default:
		return noteColor.Sprint("NOTE")
	}
}
