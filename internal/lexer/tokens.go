package lexer

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/source"
	"github.com/nushell/new-nu-parser/internal/token"
)

// Tokens is the lexer output: two parallel vectors (kind and span) plus a
// cursor the parser moves through them. The last token is always Eof, so the
// buffer is never empty and Peek never runs off the end.
type Tokens struct {
	pos   int
	kinds []token.Kind
	spans []source.Span
}

// NewTokens allocates a token buffer sized for the given source length.
func NewTokens(sourceLen int) *Tokens {
	// Rough average of bytes per token; only a capacity hint.
	estimated := sourceLen / 8
	return &Tokens{
		kinds: make([]token.Kind, 0, estimated),
		spans: make([]source.Span, 0, estimated),
	}
}

// Push appends a token.
func (t *Tokens) Push(kind token.Kind, span source.Span) {
	t.kinds = append(t.kinds, kind)
	t.spans = append(t.spans, span)
}

// Advance moves the cursor forward, clamping on the terminal Eof.
func (t *Tokens) Advance() {
	if t.pos < len(t.kinds)-1 {
		t.pos++
	}
}

// Pos returns the cursor position.
func (t *Tokens) Pos() int {
	return t.pos
}

// SetPos restores the cursor, e.g. when applying a parser rollback.
func (t *Tokens) SetPos(pos int) {
	t.pos = pos
}

// Peek returns the kind and span under the cursor without consuming.
func (t *Tokens) Peek() (token.Kind, source.Span) {
	return t.kinds[t.pos], t.spans[t.pos]
}

// PeekKind returns the kind under the cursor.
func (t *Tokens) PeekKind() token.Kind {
	return t.kinds[t.pos]
}

// PeekSpan returns the span under the cursor.
func (t *Tokens) PeekSpan() source.Span {
	return t.spans[t.pos]
}

// Len returns the number of tokens, including the terminal Eof.
func (t *Tokens) Len() int {
	return len(t.kinds)
}

// At returns the kind and span at an absolute index.
func (t *Tokens) At(i int) (token.Kind, source.Span) {
	return t.kinds[i], t.spans[i]
}

// Display renders the token dump used by the tokens subcommand and tests.
func (t *Tokens) Display(src []byte) string {
	var sb strings.Builder
	sb.WriteString("==== TOKENS ====\n")
	for i, kind := range t.kinds {
		span := t.spans[i]
		text := ""
		if int(span.End) <= len(src) {
			text = string(src[span.Start:span.End])
		}
		text = strings.NewReplacer("\r", "\\r", "\n", "\\n", "\t", "\\t").Replace(text)
		fmt.Fprintf(&sb, "Token %4d: %-25s span: %4d .. %4d '%s'\n",
			i, kind.String(), span.Start, span.End, text)
	}
	return sb.String()
}

func spanAt(start, end int, base uint32) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{Start: base + s, End: base + e}
}
