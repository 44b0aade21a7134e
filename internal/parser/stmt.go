package parser

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/token"
)

// ifExpression parses `if cond { } [else if … | else { }]`.
func (p *Parser) ifExpression() ast.NodeID {
	spanStart := p.position()
	var spanEnd uint32

	p.keyword("if")

	condition := p.expression()
	p.skipNewlines()

	thenBlock := p.block(BlockCurlies)
	p.skipNewlines()

	elseBlock := ast.NoNodeID
	if p.isKeyword("else") {
		p.tokens.Advance()
		p.skipNewlines()

		var block ast.NodeID
		switch {
		case p.isKeyword("if"):
			block = p.ifExpression()
		case p.isKeyword("match"):
			block = p.matchExpression()
		default:
			block = p.block(BlockCurlies)
		}
		spanEnd = p.spanEnd(block)
		elseBlock = block
	} else {
		spanEnd = p.spanEnd(thenBlock)
	}

	return p.createNode(ast.IfNode(condition, thenBlock, elseBlock), spanStart, spanEnd)
}

// matchExpression parses `match target { pattern => result … }`.
func (p *Parser) matchExpression() ast.NodeID {
	spanStart := p.position()
	var spanEnd uint32

	p.keyword("match")
	target := p.simpleExpression(stringStrict)

	var arms []ast.Pair

	if !p.isLcurly() {
		return p.errorNode(diag.SynExpected, "expected left curly brace '{'")
	}
	p.lcurly()

	for {
		switch {
		case p.isRcurly():
			spanEnd = p.tokens.PeekSpan().End
			p.rcurly()
			return p.createNode(ast.MatchNode(target, arms), spanStart, spanEnd)
		case p.isSimpleExpression():
			pattern := p.simpleExpression(stringStrict)

			if !p.isThickArrow() {
				return p.errorNode(diag.SynExpected, "expected thick arrow (=>) between match cases")
			}
			p.tokens.Advance()

			result := p.simpleExpression(nameStrict)
			arms = append(arms, ast.Pair{Key: pattern, Value: result})
		case p.isNewline():
			p.tokens.Advance()
		default:
			return p.errorNode(diag.SynExpected, "expected match arm in match")
		}
	}
}

// defStatement parses
// `def name [<type_params>] [params] [: in_out_types] { block }`.
func (p *Parser) defStatement() ast.NodeID {
	spanStart := p.position()

	p.keyword("def")

	var name ast.NodeID
	switch kind, span := p.tokens.Peek(); kind {
	case token.Bareword:
		name = p.advanceNode(ast.Name, span)
	case token.DoubleQuotedString, token.SingleQuotedString:
		name = p.advanceNode(ast.String, span)
	case token.BacktickBareword:
		name = p.advanceNode(ast.Name, span)
	default:
		return p.errorNode(diag.SynExpected, "expected def name")
	}

	typeParams := ast.NoNodeID
	if p.isLessThan() {
		typeParams = p.typeParams()
	}

	params := p.signatureParams(ParamsSquares)

	inOut := ast.NoNodeID
	if p.isColon() {
		p.colon()
		inOut = p.inOutTypes()
	}

	p.skipNewlines()
	block := p.block(BlockCurlies)
	spanEnd := p.spanEnd(block)

	return p.createNode(ast.DefNode(name, typeParams, params, inOut, block), spanStart, spanEnd)
}

// letStatement parses `let`/`mut` bindings; the two differ only in
// mutability.
func (p *Parser) letStatement(isMutable bool) ast.NodeID {
	spanStart := p.position()

	if isMutable {
		p.keyword("mut")
	} else {
		p.keyword("let")
	}

	variableName := p.variableDecl()

	ty := ast.NoNodeID
	if p.isColon() {
		p.colon()
		ty = p.typename()
	}

	p.equals()

	initializer := p.expression()
	spanEnd := p.spanEnd(initializer)

	return p.createNode(ast.LetNode(variableName, ty, initializer, isMutable), spanStart, spanEnd)
}

// aliasStatement parses `alias new = old`.
func (p *Parser) aliasStatement() ast.NodeID {
	spanStart := p.position()

	p.keyword("alias")

	var newName ast.NodeID
	switch kind, span := p.tokens.Peek(); kind {
	case token.Bareword, token.BacktickBareword:
		newName = p.advanceNode(ast.Name, span)
	case token.DoubleQuotedString, token.SingleQuotedString:
		newName = p.advanceNode(ast.String, span)
	default:
		return p.errorNode(diag.SynExpected, "expected alias name")
	}

	p.equals()

	oldName := p.name()
	spanEnd := p.spanEnd(oldName)

	return p.createNode(ast.AliasNode(newName, oldName), spanStart, spanEnd)
}

func (p *Parser) whileStatement() ast.NodeID {
	spanStart := p.position()
	p.keyword("while")

	condition := p.expression()
	block := p.block(BlockCurlies)
	spanEnd := p.spanEnd(block)

	return p.createNode(ast.WhileNode(condition, block), spanStart, spanEnd)
}

func (p *Parser) forStatement() ast.NodeID {
	spanStart := p.position()
	p.keyword("for")

	variable := p.variableDecl()
	p.keyword("in")

	seq := p.simpleExpression(nameStrict)
	block := p.block(BlockCurlies)
	spanEnd := p.spanEnd(block)

	return p.createNode(ast.ForNode(variable, seq, block), spanStart, spanEnd)
}

func (p *Parser) loopStatement() ast.NodeID {
	spanStart := p.position()
	p.keyword("loop")
	block := p.block(BlockCurlies)
	spanEnd := p.spanEnd(block)

	return p.createNode(ast.LoopNode(block), spanStart, spanEnd)
}

func (p *Parser) returnStatement() ast.NodeID {
	spanStart := p.position()
	var spanEnd uint32

	returnSpan := p.tokens.PeekSpan()
	p.keyword("return")

	retVal := ast.NoNodeID
	if p.isExpression() {
		expr := p.expression()
		spanEnd = p.spanEnd(expr)
		retVal = expr
	} else {
		spanEnd = returnSpan.End
	}

	return p.createNode(ast.ReturnNode(retVal), spanStart, spanEnd)
}

// bareStatement handles the keyword-only statements break and continue.
func (p *Parser) bareStatement(kind ast.Kind, keyword string) ast.NodeID {
	span := p.tokens.PeekSpan()
	p.keyword(keyword)
	return p.createNode(ast.LeafNode(kind), span.Start, span.End)
}
