package parser

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
)

// listOrTable parses `[ items… ]`. If a single-element sequence is followed
// by ';', that first element must itself be a list and becomes the table
// header; the remaining items become rows.
func (p *Parser) listOrTable() ast.NodeID {
	spanStart := p.position()
	isTable := false
	var items []ast.NodeID

	p.lsquare()
	spanEnd := p.position()

scan:
	for {
		switch {
		case p.isRsquare():
			spanEnd = p.tokens.PeekSpan().End
			p.tokens.Advance()
			break scan
		case p.isComma() || p.isNewline():
			p.tokens.Advance()
		case p.isSemicolon():
			if len(items) != 1 {
				p.errorNode(diag.SynBadTableHeader, "semicolon to create table should immediately follow headers")
			} else if p.compiler.GetNode(items[0]).Kind != ast.List {
				p.errorOnNode(diag.SynBadTableHeader, items[0], "tables require a list for their headers")
				p.tokens.Advance()
			} else {
				p.tokens.Advance()
			}
			isTable = true
		case p.isSimpleExpression():
			items = append(items, p.simpleExpression(stringStrict))
		default:
			items = append(items, p.errorNode(diag.SynExpected, "expected list item"))
			if p.isEof() {
				// no token to hang further errors on
				break scan
			}
		}
	}

	if isTable && len(items) > 0 {
		header := items[0]
		return p.createNode(ast.TableNode(header, items[1:]), spanStart, spanEnd)
	}
	return p.createNode(ast.ListNode(items), spanStart, spanEnd)
}

// recordOrClosure disambiguates `{`. A leading pipe means an explicit
// closure. Otherwise we speculatively parse key/value pairs; if the first
// "key" is not followed by a colon, the arena rolls back and the body
// reparses as a closure block.
func (p *Parser) recordOrClosure() ast.NodeID {
	spanStart := p.position()

	isClosure := false
	firstPass := true
	var pairs []ast.Pair

	p.lcurly()
	p.skipNewlines()

	if p.isPipe() {
		params := p.signatureParams(ParamsPipes)
		block := p.block(BlockClosure)
		p.rcurly()
		spanEnd := p.position()
		return p.createNode(ast.ClosureNode(params, block), spanStart, spanEnd)
	}

	rollback := p.getRollbackPoint()
	for {
		p.skipNewlines()
		if p.isRcurly() {
			p.rcurly()
			break
		}
		key := p.simpleExpression(stringStrict)
		p.skipNewlines()
		if firstPass && !p.isColon() {
			isClosure = true
			break
		}
		p.colon()
		p.skipNewlines()
		val := p.simpleExpression(stringStrict)
		pairs = append(pairs, ast.Pair{Key: key, Value: val})
		firstPass = false

		if p.isComma() {
			p.comma()
		}
		if p.isEof() {
			break
		}
	}

	if isClosure {
		p.applyRollback(rollback)
		block := p.block(BlockClosure)
		p.rcurly()
		spanEnd := p.position()
		return p.createNode(ast.ClosureNode(ast.NoNodeID, block), spanStart, spanEnd)
	}

	spanEnd := p.position()
	return p.createNode(ast.RecordNode(pairs), spanStart, spanEnd)
}
