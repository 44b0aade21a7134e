package lexer

import (
	"bytes"

	"github.com/nushell/new-nu-parser/internal/token"
)

// opLiterals is the punctuation/operator table, ordered longest-first per
// leading byte family so a simple prefix scan implements maximal munch.
var opLiterals = []struct {
	text string
	kind token.Kind
}{
	{"...", token.DotDotDot},
	{"..", token.DotDot},
	{".", token.Dot},
	{"(", token.LParen},
	{")", token.RParen},
	{"[", token.LSquare},
	{"]", token.RSquare},
	{"{", token.LCurly},
	{"}", token.RCurly},
	{"<=", token.LessThanEqual},
	{"<", token.LessThan},
	{">=", token.GreaterThanEqual},
	{">", token.GreaterThan},
	{"++=", token.PlusPlusEquals},
	{"++", token.PlusPlus},
	{"+=", token.PlusEquals},
	{"+", token.Plus},
	{"->", token.ThinArrow},
	{"-=", token.DashEquals},
	{"-", token.Dash},
	{"**", token.AsteriskAsterisk},
	{"*=", token.AsteriskEquals},
	{"*", token.Asterisk},
	{"//", token.ForwardSlashForwardSlash},
	{"/=", token.ForwardSlashEquals},
	{"/", token.ForwardSlash},
	{"==", token.EqualsEquals},
	{"=~", token.EqualsTilde},
	{"=>", token.ThickArrow},
	{"=", token.Equals},
	{"::", token.ColonColon},
	{":", token.Colon},
	{"$", token.Dollar},
	{";", token.Semicolon},
	{"!=", token.ExclamationEquals},
	{"!~", token.ExclamationTilde},
	{"!", token.Exclamation},
	{"&&", token.AmpersandAmpersand},
	{"&", token.Ampersand},
	{",", token.Comma},
	{"?", token.QuestionMark},
	{"^", token.Caret},
	{"@", token.At},
	{"||", token.PipePipe},
	{"|", token.Pipe},
}

// redirectLiterals are the recognised redirection composites. They begin with
// bareword bytes, so scanBarewordOrRedirect arbitrates by match length.
var redirectLiterals = []struct {
	text string
	kind token.Kind
}{
	{"o+e>|", token.OutErrGreaterThanPipe},
	{"o+e>>", token.OutErrGreaterGreaterThan},
	{"o+e>", token.OutErrGreaterThan},
	{"o>>", token.OutGreaterGreaterThan},
	{"o>", token.OutGreaterThan},
	{"e>|", token.ErrGreaterThanPipe},
	{"e>>", token.ErrGreaterGreaterThan},
	{"e>", token.ErrGreaterThan},
}

// scanOperator consumes one punctuation/operator token, maximal munch.
func (lx *lexer) scanOperator() bool {
	rest := lx.src[lx.off:lx.limit]
	best := 0
	var kind token.Kind
	for _, op := range opLiterals {
		if len(op.text) > best && bytes.HasPrefix(rest, []byte(op.text)) {
			best = len(op.text)
			kind = op.kind
		}
	}
	if best == 0 {
		return false
	}
	// A dot followed by a digit belongs to a float literal, not the operator
	// table; `.5` must not lex as Dot Int.
	if kind == token.Dot && isDec(lx.peekAt(lx.off+1)) {
		if n := lx.floatLen(lx.off); n > 0 {
			start := lx.off
			lx.off += n
			lx.push(token.Float, start, lx.off)
			return true
		}
	}
	start := lx.off
	lx.off += best
	lx.push(kind, start, lx.off)
	return true
}

// scanBarewordOrRedirect scans a bareword, except when a redirection literal
// starting at the same byte is strictly longer (`o>` vs the lone word `o`).
func (lx *lexer) scanBarewordOrRedirect() {
	start := lx.off
	bwLen := lx.barewordLen(start)

	if c := lx.src[start]; c == 'o' || c == 'e' {
		rest := lx.src[start:lx.limit]
		for _, rd := range redirectLiterals {
			if len(rd.text) > bwLen && bytes.HasPrefix(rest, []byte(rd.text)) {
				lx.off = start + len(rd.text)
				lx.push(rd.kind, start, lx.off)
				return
			}
		}
	}

	lx.off = start + bwLen
	lx.push(token.Bareword, start, lx.off)
}
