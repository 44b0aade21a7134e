package lexer

import "github.com/nushell/new-nu-parser/internal/token"

func (lx *lexer) scanComment() {
	start := lx.off
	for !lx.eof() && lx.src[lx.off] != '\n' {
		lx.off++
	}
	lx.push(token.Comment, start, lx.off)
}

// scanDoubleQuoted matches "([^"\\]|\\["\\bnfrt])*". A bad escape or a
// missing closing quote is a generic lex error.
func (lx *lexer) scanDoubleQuoted() error {
	start := lx.off
	lx.off++ // opening quote
	for {
		if lx.eof() {
			return lx.errAt(ErrGeneric, start, lx.off)
		}
		switch lx.src[lx.off] {
		case '"':
			lx.off++
			lx.push(token.DoubleQuotedString, start, lx.off)
			return nil
		case '\\':
			switch lx.peekAt(lx.off + 1) {
			case '"', '\\', 'b', 'n', 'f', 'r', 't':
				lx.off += 2
			default:
				return lx.errAt(ErrGeneric, start, lx.off+1)
			}
		default:
			lx.off++
		}
	}
}

// scanSingleQuoted matches '[^']*' with no escapes.
func (lx *lexer) scanSingleQuoted() error {
	start := lx.off
	lx.off++
	for !lx.eof() && lx.src[lx.off] != '\'' {
		lx.off++
	}
	if lx.eof() {
		return lx.errAt(ErrGeneric, start, lx.off)
	}
	lx.off++
	lx.push(token.SingleQuotedString, start, lx.off)
	return nil
}

// scanBacktick matches `[^`]*`.
func (lx *lexer) scanBacktick() error {
	start := lx.off
	lx.off++
	for !lx.eof() && lx.src[lx.off] != '`' {
		lx.off++
	}
	if lx.eof() {
		return lx.errAt(ErrGeneric, start, lx.off)
	}
	lx.off++
	lx.push(token.BacktickBareword, start, lx.off)
	return nil
}

// scanInterp lexes $"..." or $'...'. The emitted stream for a successful
// interpolation is Start, (Chunk | LParen ...inner... RParen)*, End. Each
// parenthesised subexpression is re-lexed with the main scanner over its
// interior bytes, so nested interpolations work for free.
func (lx *lexer) scanInterp(quote byte) error {
	start := lx.off
	lx.off += 2 // consume $ and the quote
	if quote == '"' {
		lx.push(token.DqStringInterpStart, start, lx.off)
	} else {
		lx.push(token.SqStringInterpStart, start, lx.off)
	}

	chunkStart := lx.off
	flushChunk := func(end int) {
		if end > chunkStart {
			lx.push(token.StrInterpChunk, chunkStart, end)
		}
	}

	for {
		if lx.eof() {
			return lx.errAt(ErrGeneric, start, lx.off)
		}
		switch ch := lx.src[lx.off]; {
		case ch == quote:
			flushChunk(lx.off)
			qs := lx.off
			lx.off++
			lx.push(token.StrInterpEnd, qs, lx.off)
			return nil

		case ch == '\\' && quote == '"' && lx.peekAt(lx.off+1) == '"':
			lx.off += 2

		case ch == '(':
			flushChunk(lx.off)
			lparen := lx.off
			rparen, ok := lx.matchParen(lparen, quote)
			if !ok {
				return lx.errAt(ErrUnmatchedInterpLParen, lparen, lparen+1)
			}
			lx.push(token.StrInterpLParen, lparen, lparen+1)

			// Re-enter the scanner on the interior, bounded by the ')'.
			inner := &lexer{src: lx.src, off: lparen + 1, limit: rparen, base: lx.base, toks: lx.toks}
			if err := inner.run(); err != nil {
				lx.off = inner.off
				return err
			}

			lx.push(token.StrInterpRParen, rparen, rparen+1)
			lx.off = rparen + 1
			chunkStart = lx.off

		case ch == ')':
			return lx.errAt(ErrUnmatchedInterpRParen, lx.off, lx.off+1)

		default:
			lx.off++
		}
	}
}

// matchParen finds the ')' balancing the '(' at open, scanning only up to the
// interpolation's closing quote.
func (lx *lexer) matchParen(open int, quote byte) (int, bool) {
	depth := 0
	for i := open; i < lx.limit; i++ {
		switch lx.src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		case quote:
			return 0, false
		}
	}
	return 0, false
}
