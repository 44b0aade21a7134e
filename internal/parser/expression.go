package parser

import (
	"fmt"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/token"
)

// expressionOrAssignment parses a statement-position expression where
// assignment operators are legal.
func (p *Parser) expressionOrAssignment() ast.NodeID {
	return p.mathExpression(true)
}

// expression parses an expression; assignment operators are diagnosed.
func (p *Parser) expression() ast.NodeID {
	return p.mathExpression(false)
}

type opEntry struct {
	op  ast.NodeID
	rhs ast.NodeID
}

// mathExpression is the Pratt loop. Operators and partial right-hand sides
// are kept on an explicit stack and reduced whenever a lower-or-equal
// precedence operator arrives.
func (p *Parser) mathExpression(allowAssignment bool) ast.NodeID {
	var exprStack []opEntry
	lastPrec := 1000000

	spanStart := p.position()

	// Special forms first.
	if p.isKeyword("if") {
		return p.ifExpression()
	}
	if p.isKeyword("match") {
		return p.matchExpression()
	}

	leftmost := p.simpleExpression(nameStrict)

	if p.isEquals() {
		if !allowAssignment {
			p.errorOnNode(diag.SynAssignInExpr, leftmost, "assignment found in expression")
		}
		op := p.operator()
		rhs := p.expression()
		spanEnd := p.spanEnd(rhs)
		return p.createNode(ast.BinaryOpNode(leftmost, op, rhs), spanStart, spanEnd)
	}

	for p.hasTokens() {
		if !p.isOperator() {
			break
		}

		missingSpaceBefore := !p.isHorizontalSpace()
		op := p.operator()
		missingSpaceAfter := !p.isHorizontalSpace()

		if missingSpaceBefore {
			p.errorOnNode(diag.SynMissingSpace, op, "missing space before operator")
		}
		if missingSpaceAfter {
			p.errorOnNode(diag.SynMissingSpace, op, "missing space after operator")
		}

		opPrec := p.operatorPrecedence(op)
		if opPrec == ast.AssignmentPrecedence && !allowAssignment {
			p.errorOnNode(diag.SynAssignInExpr, op, "assignment found in expression")
		}

		var rhs ast.NodeID
		if p.isSimpleExpression() {
			rhs = p.simpleExpression(nameStrict)
		} else {
			rhs = p.errorNode(diag.SynIncompleteMathExpr, "incomplete math expression")
		}

		for opPrec <= lastPrec && len(exprStack) > 0 {
			popped := exprStack[len(exprStack)-1]
			exprStack = exprStack[:len(exprStack)-1]

			lastPrec = p.operatorPrecedence(popped.op)
			if lastPrec < opPrec {
				exprStack = append(exprStack, popped)
				break
			}

			lhs := &leftmost
			if len(exprStack) > 0 {
				lhs = &exprStack[len(exprStack)-1].rhs
			}
			start, end := p.spanStart(*lhs), p.spanEnd(popped.rhs)
			*lhs = p.createNode(ast.BinaryOpNode(*lhs, popped.op, popped.rhs), start, end)
		}

		exprStack = append(exprStack, opEntry{op: op, rhs: rhs})
		lastPrec = opPrec
	}

	for len(exprStack) > 0 {
		popped := exprStack[len(exprStack)-1]
		exprStack = exprStack[:len(exprStack)-1]

		lhs := &leftmost
		if len(exprStack) > 0 {
			lhs = &exprStack[len(exprStack)-1].rhs
		}
		start, end := p.spanStart(*lhs), p.spanEnd(popped.rhs)
		*lhs = p.createNode(ast.BinaryOpNode(*lhs, popped.op, popped.rhs), start, end)
	}

	return leftmost
}

// simpleExpression parses a primary expression plus its `..` range and `.`
// member-access postfixes. A postfix only attaches when no horizontal
// whitespace precedes it.
func (p *Parser) simpleExpression(bareword BarewordContext) ast.NodeID {
	for p.isComment() || p.isNewline() {
		p.tokens.Advance()
	}

	spanStart := p.position()
	kind, span := p.tokens.Peek()

	var expr ast.NodeID
	switch kind {
	case token.LCurly:
		expr = p.recordOrClosure()
	case token.LParen:
		p.lparen()
		if p.isRparen() {
			expr = p.errorNode(diag.SynEmptyParens, "'()' is not a value; use 'null' for an empty value")
		} else {
			expr = p.expression()
			p.rparen()
		}
	case token.LSquare:
		expr = p.listOrTable()
	case token.Int:
		expr = p.advanceNode(ast.Int, span)
	case token.Float:
		expr = p.advanceNode(ast.Float, span)
	case token.DoubleQuotedString, token.SingleQuotedString:
		expr = p.advanceNode(ast.String, span)
	case token.DqStringInterpStart, token.SqStringInterpStart:
		expr = p.stringInterp()
	case token.Dollar:
		expr = p.variable()
	case token.Bareword:
		switch string(p.compiler.GetSpanContentsRange(span.Start, span.End)) {
		case "true":
			expr = p.advanceNode(ast.True, span)
		case "false":
			expr = p.advanceNode(ast.False, span)
		case "null":
			expr = p.advanceNode(ast.Null, span)
		default:
			if bareword.AsString {
				expr = p.advanceNode(ast.String, span)
			} else {
				expr = p.call()
			}
		}
	default:
		expr = p.errorNode(diag.SynIncompleteExpr, "incomplete expression")
	}

	for {
		switch {
		case p.isHorizontalSpace():
			return expr
		case p.isDotDot():
			// range
			p.tokens.Advance()
			if p.isHorizontalSpace() {
				p.errorNode(diag.SynIncompleteRange, "incomplete range")
				return expr
			}
			rhs := p.simpleExpression(stringStrict)
			spanEnd := p.spanEnd(rhs)
			expr = p.createNode(ast.RangeNode(expr, rhs), spanStart, spanEnd)
		case p.isDot():
			// member access
			p.tokens.Advance()
			if p.isHorizontalSpace() {
				p.errorNode(diag.SynMissingField, "missing path name")
				return expr
			}
			var field ast.NodeID
			if p.isDollar() {
				field = p.variable()
			} else {
				field = p.name()
			}
			spanEnd := p.spanEnd(field)
			switch p.compiler.GetNode(field).Kind {
			case ast.Name, ast.Variable:
				expr = p.createNode(ast.MemberAccessNode(expr, field), spanStart, spanEnd)
			default:
				p.errorOnNode(diag.SynMissingField, field, "expected field")
				return expr
			}
		default:
			return expr
		}
	}
}

// stringInterp consumes a full interpolation token sequence and produces a
// String node spanning it. The interior was fully lexed, so spans and
// diagnostics still line up; typing stays at string.
func (p *Parser) stringInterp() ast.NodeID {
	_, span := p.tokens.Peek()
	start := span.Start
	end := span.End
	p.tokens.Advance()

	depth := 1
	for depth > 0 && p.hasTokens() {
		kind, s := p.tokens.Peek()
		switch kind {
		case token.DqStringInterpStart, token.SqStringInterpStart:
			depth++
		case token.StrInterpEnd:
			depth--
		}
		end = s.End
		p.tokens.Advance()
	}
	return p.createNode(ast.LeafNode(ast.String), start, end)
}

// variable parses `$name` at a use site.
func (p *Parser) variable() ast.NodeID {
	if !p.isDollar() {
		return p.errorNode(diag.SynExpected, "expected variable starting with '$'")
	}
	spanStart := p.position()
	p.tokens.Advance()

	kind, nameSpan := p.tokens.Peek()
	if kind != token.Bareword {
		return p.errorNode(diag.SynExpected, "variable name must be a bareword")
	}
	p.tokens.Advance()
	return p.createNode(ast.LeafNode(ast.Variable), spanStart, nameSpan.End)
}

// variableDecl parses a binding-position variable where the '$' is optional.
func (p *Parser) variableDecl() ast.NodeID {
	spanStart := p.position()
	if p.isDollar() {
		p.tokens.Advance()
	}

	kind, nameSpan := p.tokens.Peek()
	if kind != token.Bareword {
		return p.errorNode(diag.SynExpected, "variable assignment name must be a bareword")
	}
	p.tokens.Advance()
	return p.createNode(ast.LeafNode(ast.Variable), spanStart, nameSpan.End)
}

// operator consumes one operator token (or word) into a leaf node.
func (p *Parser) operator() ast.NodeID {
	kind, span := p.tokens.Peek()

	switch kind {
	case token.Plus:
		return p.advanceNode(ast.Plus, span)
	case token.PlusPlus:
		return p.advanceNode(ast.Append, span)
	case token.Dash:
		return p.advanceNode(ast.Minus, span)
	case token.Asterisk:
		return p.advanceNode(ast.Multiply, span)
	case token.ForwardSlash:
		return p.advanceNode(ast.Divide, span)
	case token.ForwardSlashForwardSlash:
		return p.advanceNode(ast.FloorDiv, span)
	case token.AsteriskAsterisk:
		return p.advanceNode(ast.Pow, span)
	case token.LessThan:
		return p.advanceNode(ast.LessThan, span)
	case token.LessThanEqual:
		return p.advanceNode(ast.LessThanOrEqual, span)
	case token.GreaterThan:
		return p.advanceNode(ast.GreaterThan, span)
	case token.GreaterThanEqual:
		return p.advanceNode(ast.GreaterThanOrEqual, span)
	case token.EqualsEquals:
		return p.advanceNode(ast.Equal, span)
	case token.ExclamationEquals:
		return p.advanceNode(ast.NotEqual, span)
	case token.EqualsTilde:
		return p.advanceNode(ast.RegexMatch, span)
	case token.ExclamationTilde:
		return p.advanceNode(ast.NotRegexMatch, span)
	case token.Equals:
		return p.advanceNode(ast.Assignment, span)
	case token.PlusEquals:
		return p.advanceNode(ast.AddAssignment, span)
	case token.DashEquals:
		return p.advanceNode(ast.SubtractAssignment, span)
	case token.AsteriskEquals:
		return p.advanceNode(ast.MultiplyAssignment, span)
	case token.ForwardSlashEquals:
		return p.advanceNode(ast.DivideAssignment, span)
	case token.PlusPlusEquals:
		return p.advanceNode(ast.AppendAssignment, span)
	case token.Bareword:
		switch string(p.compiler.GetSpanContentsRange(span.Start, span.End)) {
		case "and":
			return p.advanceNode(ast.And, span)
		case "or":
			return p.advanceNode(ast.Or, span)
		case "xor":
			return p.advanceNode(ast.Xor, span)
		case "mod":
			return p.advanceNode(ast.Modulo, span)
		case "in":
			return p.advanceNode(ast.In, span)
		default:
			return p.errorNode(diag.SynUnknownOperator,
				fmt.Sprintf("unknown operator: '%s'", p.compiler.GetSpanContentsRange(span.Start, span.End)))
		}
	default:
		return p.errorNode(diag.SynExpected, "expected: operator")
	}
}

func (p *Parser) operatorPrecedence(op ast.NodeID) int {
	return p.compiler.GetNode(op).Kind.Precedence()
}

// isHorizontalSpace reports whether the byte just before the current token
// is a space or tab. Spans preserve exact offsets, so whitespace around
// operators stays detectable even though it produces no token.
func (p *Parser) isHorizontalSpace() bool {
	pos := p.tokens.PeekSpan().Start
	if pos == 0 {
		return false
	}
	b := p.compiler.Source[pos-1]
	return b == ' ' || b == '\t'
}
