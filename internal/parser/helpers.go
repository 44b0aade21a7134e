package parser

import (
	"bytes"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/token"
)

func (p *Parser) isEquals() bool      { return p.tokens.PeekKind() == token.Equals }
func (p *Parser) isComma() bool       { return p.tokens.PeekKind() == token.Comma }
func (p *Parser) isLcurly() bool      { return p.tokens.PeekKind() == token.LCurly }
func (p *Parser) isRcurly() bool      { return p.tokens.PeekKind() == token.RCurly }
func (p *Parser) isLparen() bool      { return p.tokens.PeekKind() == token.LParen }
func (p *Parser) isRparen() bool      { return p.tokens.PeekKind() == token.RParen }
func (p *Parser) isLsquare() bool     { return p.tokens.PeekKind() == token.LSquare }
func (p *Parser) isRsquare() bool     { return p.tokens.PeekKind() == token.RSquare }
func (p *Parser) isLessThan() bool    { return p.tokens.PeekKind() == token.LessThan }
func (p *Parser) isGreaterThan() bool { return p.tokens.PeekKind() == token.GreaterThan }
func (p *Parser) isPipe() bool        { return p.tokens.PeekKind() == token.Pipe }
func (p *Parser) isDollar() bool      { return p.tokens.PeekKind() == token.Dollar }
func (p *Parser) isComment() bool     { return p.tokens.PeekKind() == token.Comment }
func (p *Parser) isQuestion() bool    { return p.tokens.PeekKind() == token.QuestionMark }
func (p *Parser) isThinArrow() bool   { return p.tokens.PeekKind() == token.ThinArrow }
func (p *Parser) isThickArrow() bool  { return p.tokens.PeekKind() == token.ThickArrow }
func (p *Parser) isColon() bool       { return p.tokens.PeekKind() == token.Colon }
func (p *Parser) isNewline() bool     { return p.tokens.PeekKind() == token.Newline }
func (p *Parser) isSemicolon() bool   { return p.tokens.PeekKind() == token.Semicolon }
func (p *Parser) isDot() bool         { return p.tokens.PeekKind() == token.Dot }
func (p *Parser) isDotDot() bool      { return p.tokens.PeekKind() == token.DotDot }
func (p *Parser) isInt() bool         { return p.tokens.PeekKind() == token.Int }
func (p *Parser) isFloat() bool       { return p.tokens.PeekKind() == token.Float }
func (p *Parser) isName() bool        { return p.tokens.PeekKind() == token.Bareword }
func (p *Parser) isEof() bool         { return p.tokens.PeekKind() == token.Eof }

func (p *Parser) isString() bool {
	return p.tokens.PeekKind().IsString()
}

func (p *Parser) isInterpStart() bool {
	k := p.tokens.PeekKind()
	return k == token.DqStringInterpStart || k == token.SqStringInterpStart
}

// isKeyword reports whether the current token is a bareword spelling exactly
// the given word. Keywords are ordinary barewords disambiguated by context.
func (p *Parser) isKeyword(keyword string) bool {
	kind, span := p.tokens.Peek()
	if kind != token.Bareword {
		return false
	}
	return bytes.Equal(p.compiler.GetSpanContentsRange(span.Start, span.End), []byte(keyword))
}

// keyword consumes the expected keyword bareword or records an error.
func (p *Parser) keyword(keyword string) {
	if p.isKeyword(keyword) {
		p.tokens.Advance()
	} else {
		p.errorNode(diag.SynExpected, "expected keyword: "+keyword)
	}
}

func (p *Parser) isOperator() bool {
	switch p.tokens.PeekKind() {
	case token.Plus, token.PlusPlus, token.Dash, token.Asterisk,
		token.ForwardSlash, token.ForwardSlashForwardSlash,
		token.AsteriskAsterisk, token.LessThan, token.LessThanEqual,
		token.GreaterThan, token.GreaterThanEqual, token.EqualsEquals,
		token.ExclamationEquals, token.EqualsTilde, token.ExclamationTilde,
		token.Equals, token.PlusEquals, token.DashEquals,
		token.AsteriskEquals, token.ForwardSlashEquals, token.PlusPlusEquals:
		return true
	case token.Bareword:
		return p.isKeyword("and") || p.isKeyword("or") || p.isKeyword("xor") ||
			p.isKeyword("mod") || p.isKeyword("in")
	default:
		return false
	}
}

func (p *Parser) isExpression() bool {
	return p.isSimpleExpression() || p.isKeyword("if") || p.isKeyword("match")
}

func (p *Parser) isSimpleExpression() bool {
	switch {
	case p.isString() || p.isInt() || p.isFloat() || p.isLcurly() ||
		p.isLsquare() || p.isLparen() || p.isDot() || p.isDollar() ||
		p.isInterpStart():
		return true
	case p.isKeyword("true") || p.isKeyword("false") || p.isKeyword("null"):
		return true
	default:
		return p.isName()
	}
}

// name consumes a bareword into a Name node.
func (p *Parser) name() ast.NodeID {
	kind, span := p.tokens.Peek()
	if kind != token.Bareword {
		return p.errorNode(diag.SynExpected, "expected: name")
	}
	return p.advanceNode(ast.Name, span)
}

// Single-token expectation helpers. Each consumes on match and records an
// error otherwise.

func (p *Parser) lparen()  { p.expectToken(token.LParen, "expected: left paren '('") }
func (p *Parser) rparen()  { p.expectToken(token.RParen, "expected: right paren ')'") }
func (p *Parser) lsquare() { p.expectToken(token.LSquare, "expected: left bracket '['") }
func (p *Parser) rsquare() { p.expectToken(token.RSquare, "expected: right bracket ']'") }
func (p *Parser) lcurly()  { p.expectToken(token.LCurly, "expected: left brace '{'") }
func (p *Parser) rcurly()  { p.expectToken(token.RCurly, "expected: right brace '}'") }
func (p *Parser) pipe()    { p.expectToken(token.Pipe, "expected: pipe symbol '|'") }
func (p *Parser) equals()  { p.expectToken(token.Equals, "expected: equals '='") }
func (p *Parser) colon()   { p.expectToken(token.Colon, "expected: colon ':'") }
func (p *Parser) comma()   { p.expectToken(token.Comma, "expected: comma ','") }
func (p *Parser) lessThan() {
	p.expectToken(token.LessThan, "expected: less than '<'")
}
func (p *Parser) greaterThan() {
	p.expectToken(token.GreaterThan, "expected: greater than '>'")
}

func (p *Parser) expectToken(kind token.Kind, msg string) {
	if p.tokens.PeekKind() == kind {
		p.tokens.Advance()
	} else {
		p.errorNode(diag.SynExpected, msg)
	}
}
