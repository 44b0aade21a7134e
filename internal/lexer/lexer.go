// Package lexer turns UTF-8 source bytes into a flat token stream.
//
// The scanner is a hand-written DFA over bytes. Horizontal whitespace is
// skipped entirely; the parser recovers its presence from the byte gap
// between adjacent token spans. String interpolations are handled by a
// sub-lexer that re-enters the main scanner for each parenthesised
// subexpression, so the whole interpolation flattens into one stream.
package lexer

import (
	"github.com/nushell/new-nu-parser/internal/source"
	"github.com/nushell/new-nu-parser/internal/token"
)

// ErrorKind discriminates the lexer failure modes.
type ErrorKind uint8

const (
	// ErrGeneric is an unrecognised byte or malformed literal.
	ErrGeneric ErrorKind = iota
	// ErrUnmatchedInterpLParen is a '(' in a string interpolation with no ')'.
	ErrUnmatchedInterpLParen
	// ErrUnmatchedInterpRParen is a ')' in a string interpolation with no '('.
	ErrUnmatchedInterpRParen
)

// Error is a lexing failure with the span it happened at. Even on error the
// token buffer is valid and ends with Eof pointing at the failure offset.
type Error struct {
	Kind ErrorKind
	Span source.Span
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnmatchedInterpLParen:
		return "unmatched '(' in string interpolation"
	case ErrUnmatchedInterpRParen:
		return "unmatched ')' in string interpolation"
	default:
		return "unrecognized input"
	}
}

// Lex tokenizes contents. Spans are offset by spanOffset so they index into
// the compiler's flat source buffer rather than this one file. The returned
// buffer always carries a terminal Eof token, success or not.
func Lex(contents []byte, spanOffset uint32) (*Tokens, error) {
	lx := &lexer{
		src:   contents,
		limit: len(contents),
		base:  spanOffset,
		toks:  NewTokens(len(contents)),
	}
	err := lx.run()
	if err != nil {
		lx.toks.Push(token.Eof, spanAt(lx.off, lx.off, lx.base))
		return lx.toks, err
	}
	lx.toks.Push(token.Eof, spanAt(len(contents), len(contents), lx.base))
	return lx.toks, nil
}

type lexer struct {
	src   []byte
	off   int // current scan position
	limit int // exclusive bound; interpolation sub-lexing narrows it
	base  uint32
	toks  *Tokens
}

func (lx *lexer) eof() bool {
	return lx.off >= lx.limit
}

func (lx *lexer) peekAt(i int) byte {
	if i >= lx.limit {
		return 0
	}
	return lx.src[i]
}

func (lx *lexer) push(kind token.Kind, start, end int) {
	lx.toks.Push(kind, spanAt(start, end, lx.base))
}

func (lx *lexer) errAt(kind ErrorKind, start, end int) *Error {
	lx.off = end
	return &Error{Kind: kind, Span: spanAt(start, end, lx.base)}
}

// run scans tokens until the limit. It does not push the terminal Eof; Lex
// does, which lets string interpolation reuse run on an interior range.
func (lx *lexer) run() error {
	for {
		for !lx.eof() && (lx.src[lx.off] == ' ' || lx.src[lx.off] == '\t') {
			lx.off++
		}
		if lx.eof() {
			return nil
		}

		start := lx.off
		ch := lx.src[lx.off]

		switch {
		case ch == '#':
			lx.scanComment()

		case ch == '\n':
			lx.off++
			lx.push(token.Newline, start, lx.off)

		case ch == '\f':
			lx.off++
			lx.push(token.Newline, start, lx.off)

		case ch == '\r':
			if lx.peekAt(lx.off+1) != '\n' {
				return lx.errAt(ErrGeneric, start, lx.off+1)
			}
			lx.off += 2
			lx.push(token.Newline, start, lx.off)

		case ch == '"':
			if err := lx.scanDoubleQuoted(); err != nil {
				return err
			}

		case ch == '\'':
			if err := lx.scanSingleQuoted(); err != nil {
				return err
			}

		case ch == '`':
			if err := lx.scanBacktick(); err != nil {
				return err
			}

		case ch == '$' && lx.peekAt(lx.off+1) == '"':
			if err := lx.scanInterp('"'); err != nil {
				return err
			}

		case ch == '$' && lx.peekAt(lx.off+1) == '\'':
			if err := lx.scanInterp('\''); err != nil {
				return err
			}

		case isDec(ch):
			lx.scanNumberOrDatetime()

		case isBarewordStart(ch):
			lx.scanBarewordOrRedirect()

		default:
			if !lx.scanOperator() {
				return lx.errAt(ErrGeneric, start, lx.off+1)
			}
		}
	}
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

// Bareword bytes: '_' or anything that is neither whitespace nor ASCII
// punctuation. Multi-byte UTF-8 sequences pass through as opaque bytes.
func isBarewordStart(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDec(b)
}

// Continuation additionally allows '#', so `foo#bar` stays one word while a
// leading '#' still starts a comment.
func isBarewordPart(b byte) bool {
	return b == '#' || isBarewordStart(b)
}
