package parser

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
)

// call parses a command invocation starting at a bareword in call position.
// Leading barewords accumulate as the (possibly multi-word) command head; the
// resolver later binds the longest matching prefix to a declaration.
// Arguments are simple expressions with string bareword context and run until
// something that ends the call: a newline, a pipe, a semicolon, or a closing
// delimiter owned by an enclosing construct.
func (p *Parser) call() ast.NodeID {
	parts := []ast.NodeID{p.name()}
	isHead := true

	for p.hasTokens() {
		if p.isNewline() || p.isPipe() || p.isSemicolon() || p.isComment() ||
			p.isRparen() || p.isRsquare() || p.isRcurly() {
			break
		}

		if p.isName() && isHead {
			parts = append(parts, p.name())
			continue
		}

		isHead = false
		if p.isSimpleExpression() {
			parts = append(parts, p.simpleExpression(stringStrict))
		} else {
			parts = append(parts, p.errorNode(diag.SynIncompleteExpr, "expected call argument"))
		}
	}

	spanStart := p.spanStart(parts[0])
	spanEnd := p.spanEnd(parts[len(parts)-1])
	return p.createNode(ast.CallNode(parts), spanStart, spanEnd)
}
