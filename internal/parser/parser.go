// Package parser consumes the token stream and writes AST nodes, spans and
// blocks into the compiler arena. It is a recursive-descent parser with a
// Pratt loop for math expressions and one speculative parse (record vs.
// closure) undone via arena rollback.
//
// The parser never aborts: an expectation mismatch records a diagnostic,
// leaves a Garbage node behind, advances past the offending token and keeps
// going so one run surfaces as many errors as possible.
package parser

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/source"
	"github.com/nushell/new-nu-parser/internal/token"
)

// BlockContext selects how a block is delimited.
type BlockContext uint8

const (
	// BlockBare is a whole block of code not wrapped in curlies (a file).
	BlockBare BlockContext = iota
	// BlockCurlies consumes its own '{' and '}'.
	BlockCurlies
	// BlockClosure is already inside curlies and yields back to the caller
	// on '}' so the closure parser can consume it.
	BlockClosure
)

// ParamsContext selects the delimiters of a parameter list.
type ParamsContext uint8

const (
	// ParamsSquares is a command signature: [a: int, b].
	ParamsSquares ParamsContext = iota
	// ParamsPipes is a closure head: |a, b|.
	ParamsPipes
	// ParamsCurlies is a record type body: {a: int, b}.
	ParamsCurlies
)

// BarewordContext defines how barewords are handled when parsing expressions.
type BarewordContext struct {
	// AsString makes a bareword a string (e.g. items of `[ a b c ]`) rather
	// than the head of a call.
	AsString bool
}

var (
	nameStrict   = BarewordContext{AsString: false}
	stringStrict = BarewordContext{AsString: true}
)

// Parser holds the per-run state: the arena being written and the cursor
// into the token stream.
type Parser struct {
	compiler *compiler.Compiler
	tokens   *lexer.Tokens
}

// New creates a parser over the compiler arena and a lexed token buffer.
func New(c *compiler.Compiler, tokens *lexer.Tokens) *Parser {
	return &Parser{compiler: c, tokens: tokens}
}

// Parse runs the whole-file block parse. Results land in the compiler arena;
// the root block node is the last node pushed.
func (p *Parser) Parse() {
	p.block(BlockBare)
}

func (p *Parser) position() uint32 {
	return p.tokens.PeekSpan().Start
}

func (p *Parser) spanEnd(id ast.NodeID) uint32 {
	return p.compiler.GetSpan(id).End
}

func (p *Parser) spanStart(id ast.NodeID) uint32 {
	return p.compiler.GetSpan(id).Start
}

func (p *Parser) createNode(node ast.Node, spanStart, spanEnd uint32) ast.NodeID {
	return p.compiler.PushNode(node, source.NewSpan(spanStart, spanEnd))
}

// advanceNode consumes the current token and wraps it into a leaf node.
func (p *Parser) advanceNode(kind ast.Kind, span source.Span) ast.NodeID {
	p.tokens.Advance()
	return p.createNode(ast.LeafNode(kind), span.Start, span.End)
}

// errorNode records a diagnostic on a fresh Garbage node spanning the
// offending token and advances past it (unless it is Eof) so parsing can
// continue.
func (p *Parser) errorNode(code diag.Code, msg string) ast.NodeID {
	kind, span := p.tokens.Peek()
	if kind != token.Eof {
		p.tokens.Advance()
	}
	nodeID := p.createNode(ast.LeafNode(ast.Garbage), span.Start, span.End)
	p.compiler.AddError(diag.Error(code, nodeID, msg))
	return nodeID
}

// errorOnNode records a diagnostic attached to an existing node.
func (p *Parser) errorOnNode(code diag.Code, node ast.NodeID, msg string) {
	p.compiler.AddError(diag.Error(code, node, msg))
}

// block parses statements until the context's terminator. Newlines, comments
// and stray semicolons between statements are skipped silently.
func (p *Parser) block(context BlockContext) ast.NodeID {
	spanStart := p.position()

	var body []ast.NodeID
	if context == BlockCurlies {
		p.lcurly()
	}

	for p.hasTokens() {
		if p.isRcurly() {
			if context == BlockCurlies {
				p.rcurly()
			}
			// in closure context the '}' belongs to the closure parser
			if context != BlockBare {
				break
			}
		}
		switch {
		case p.isRcurly() && context == BlockBare:
			// stray '}' at top level
			body = append(body, p.errorNode(diag.SynExpected, "unexpected '}'"))
		case p.isSemicolon() || p.isNewline() || p.isComment():
			p.tokens.Advance()
		case p.isKeyword("def"):
			body = append(body, p.defStatement())
		case p.isKeyword("let"):
			body = append(body, p.letStatement(false))
		case p.isKeyword("mut"):
			body = append(body, p.letStatement(true))
		case p.isKeyword("alias"):
			body = append(body, p.aliasStatement())
		case p.isKeyword("while"):
			body = append(body, p.whileStatement())
		case p.isKeyword("for"):
			body = append(body, p.forStatement())
		case p.isKeyword("loop"):
			body = append(body, p.loopStatement())
		case p.isKeyword("return"):
			body = append(body, p.returnStatement())
		case p.isKeyword("continue"):
			body = append(body, p.bareStatement(ast.Continue, "continue"))
		case p.isKeyword("break"):
			body = append(body, p.bareStatement(ast.Break, "break"))
		default:
			exprStart := p.position()
			expr := p.expressionOrAssignment()
			exprEnd := p.spanEnd(expr)

			if p.isSemicolon() {
				// a terminating semicolon turns the expression into a statement
				p.tokens.Advance()
				body = append(body, p.createNode(ast.StatementNode(expr), exprStart, exprEnd))
			} else {
				body = append(body, expr)
			}
		}
	}

	blockID := p.compiler.PushBlock(ast.NewBlock(body))
	spanEnd := p.position()
	return p.createNode(ast.BlockNode(blockID), spanStart, spanEnd)
}

func (p *Parser) hasTokens() bool {
	return p.tokens.PeekKind() != token.Eof
}

func (p *Parser) skipNewlines() {
	for p.isNewline() {
		p.tokens.Advance()
	}
}

func (p *Parser) getRollbackPoint() compiler.RollbackPoint {
	return p.compiler.GetRollbackPoint(p.tokens.Pos())
}

func (p *Parser) applyRollback(rp compiler.RollbackPoint) {
	p.tokens.SetPos(p.compiler.ApplyRollback(rp))
}
