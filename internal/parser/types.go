package parser

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/token"
)

// typename parses a type annotation: `name (< args >)? ?` or a structural
// record type `{ field: T, … }`.
func (p *Parser) typename() ast.NodeID {
	if p.isLcurly() {
		return p.recordType()
	}

	kind, span := p.tokens.Peek()
	if kind != token.Bareword {
		return p.errorNode(diag.SynExpected, "expected type name")
	}

	name := p.advanceNode(ast.Name, span)

	args := ast.NoNodeID
	if p.isLessThan() {
		args = p.typeArgs()
	}

	optional := false
	if p.isQuestion() {
		p.tokens.Advance()
		optional = true
	}

	return p.createNode(ast.TypeNode(name, args, optional), span.Start, span.End)
}

// typeArgs parses the `<T, U>` argument list of a generic type.
func (p *Parser) typeArgs() ast.NodeID {
	spanStart := p.position()

	p.lessThan()

	var args []ast.NodeID
	for p.hasTokens() {
		if p.isGreaterThan() {
			break
		}
		if p.isComma() {
			p.tokens.Advance()
			continue
		}
		args = append(args, p.typename())
	}

	spanEnd := p.position() + 1
	p.greaterThan()

	return p.createNode(ast.TypeArgsNode(args), spanStart, spanEnd)
}

// typeParams parses `<T, U>` in a def signature. Each element is a typename
// whose span covers the parameter name, so the resolver can introduce it as
// a type declaration.
func (p *Parser) typeParams() ast.NodeID {
	spanStart := p.position()

	p.lessThan()

	var params []ast.NodeID
	for p.hasTokens() {
		if p.isGreaterThan() {
			break
		}
		if p.isComma() {
			p.tokens.Advance()
			continue
		}
		params = append(params, p.typename())
	}

	spanEnd := p.position() + 1
	p.greaterThan()

	return p.createNode(ast.ParamsNode(params), spanStart, spanEnd)
}

// signatureParams parses a delimited parameter list: squares for command
// signatures, pipes for closures, curlies for record types.
func (p *Parser) signatureParams(context ParamsContext) ast.NodeID {
	spanStart := p.position()

	switch context {
	case ParamsPipes:
		p.pipe()
	case ParamsSquares:
		p.lsquare()
	case ParamsCurlies:
		p.lcurly()
	}

	var params []ast.NodeID
	for p.hasTokens() {
		closed := false
		switch context {
		case ParamsPipes:
			closed = p.isPipe()
		case ParamsSquares:
			closed = p.isRsquare()
		case ParamsCurlies:
			closed = p.isRcurly()
		}
		if closed {
			break
		}

		if p.isComma() || p.isNewline() {
			p.tokens.Advance()
			continue
		}

		name := p.name()

		ty := ast.NoNodeID
		if p.isColon() {
			p.colon()
			ty = p.typename()
		}

		nameSpan := p.compiler.GetSpan(name)
		paramEnd := nameSpan.End
		if ty.IsValid() {
			paramEnd = p.spanEnd(ty)
		}

		params = append(params, p.createNode(ast.ParamNode(name, ty), nameSpan.Start, paramEnd))
	}

	spanEnd := p.position() + 1

	switch context {
	case ParamsPipes:
		p.pipe()
	case ParamsSquares:
		p.rsquare()
	case ParamsCurlies:
		p.rcurly()
	}

	return p.createNode(ast.ParamsNode(params), spanStart, spanEnd)
}

// recordType parses `{ field: T, … }?`, reusing the params grammar for the
// field list.
func (p *Parser) recordType() ast.NodeID {
	spanStart := p.position()

	fields := p.signatureParams(ParamsCurlies)

	optional := false
	if p.isQuestion() {
		p.tokens.Advance()
		optional = true
	}

	spanEnd := p.spanEnd(fields)
	return p.createNode(ast.RecordTypeNode(fields, optional), spanStart, spanEnd)
}

// inOutTypes parses a command signature's `: in -> out` annotation, either a
// single pair or a bracketed list of them.
func (p *Parser) inOutTypes() ast.NodeID {
	spanStart := p.position()

	if p.isLsquare() {
		p.lsquare()

		var pairs []ast.NodeID
		for p.hasTokens() {
			if p.isRsquare() {
				break
			}
			if p.isComma() || p.isNewline() {
				p.tokens.Advance()
				continue
			}
			pairs = append(pairs, p.inOutType())
		}

		spanEnd := p.position() + 1
		p.rsquare()
		return p.createNode(ast.InOutTypesNode(pairs), spanStart, spanEnd)
	}

	pair := p.inOutType()
	spanEnd := p.spanEnd(pair)
	return p.createNode(ast.InOutTypesNode([]ast.NodeID{pair}), spanStart, spanEnd)
}

// inOutType parses one `T -> U` pair.
func (p *Parser) inOutType() ast.NodeID {
	spanStart := p.position()

	in := p.typename()

	if !p.isThinArrow() {
		return p.errorNode(diag.SynExpected, "expected thin arrow (->) in input/output type")
	}
	p.tokens.Advance()

	out := p.typename()
	spanEnd := p.spanEnd(out)

	return p.createNode(ast.InOutTypeNode(in, out), spanStart, spanEnd)
}
