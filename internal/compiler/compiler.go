// Package compiler holds the shared arena every pass reads from and writes
// into: source text, the file table, AST nodes with their spans, blocks, and
// — once each pass merges its results back — name bindings and types.
//
// The arena is process-local and append-only. The only shrinking operation is
// parser rollback, which truncates suffixes by exactly the deltas captured at
// save time; rollback is used only across local, self-contained speculative
// parses, so no live ID can reference a truncated region.
package compiler

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/names"
	"github.com/nushell/new-nu-parser/internal/source"
	"github.com/nushell/new-nu-parser/internal/types"
)

// Compiler is the arena. Fields are exported for the passes; external
// consumers should treat everything as read-only between passes.
type Compiler struct {
	Source []byte
	Files  source.FileTable

	AstNodes []ast.Node
	Spans    []source.Span
	Blocks   []ast.BlockData
	Errors   []diag.SourceError

	// Populated by MergeNameBindings.
	Scopes         []names.Frame
	Variables      []names.Variable
	TypeDecls      []names.TypeDecl
	Decls          []names.Command
	DeclNodes      []ast.NodeID
	VarResolution  map[ast.NodeID]names.VarID
	TypeResolution map[ast.NodeID]names.TypeDeclID
	DeclResolution map[ast.NodeID]names.DeclID

	// Populated by MergeTypes.
	Types         *types.Store
	NodeTypes     []types.TypeID
	VariableTypes []types.TypeID
	DeclTypes     [][]types.InOutType
}

// New creates an empty compiler.
func New() *Compiler {
	return &Compiler{}
}

// SpanOffset returns the current length of the source buffer; the lexer adds
// it to every span so offsets stay global across files.
func (c *Compiler) SpanOffset() uint32 {
	off, err := safecast.Conv[uint32](len(c.Source))
	if err != nil {
		panic(fmt.Errorf("source buffer overflow: %w", err))
	}
	return off
}

// AddFile appends file contents to the source buffer and records its range.
func (c *Compiler) AddFile(name string, contents []byte) {
	start := c.SpanOffset()
	c.Source = append(c.Source, contents...)
	c.Files.Add(name, start, c.SpanOffset())
}

// PushNode appends a node and its span, returning the new NodeID.
func (c *Compiler) PushNode(node ast.Node, span source.Span) ast.NodeID {
	id, err := safecast.Conv[uint32](len(c.AstNodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	c.AstNodes = append(c.AstNodes, node)
	c.Spans = append(c.Spans, span)
	return ast.NodeID(id)
}

// PushBlock appends a block and returns its ID.
func (c *Compiler) PushBlock(block ast.BlockData) ast.BlockID {
	id, err := safecast.Conv[uint32](len(c.Blocks))
	if err != nil {
		panic(fmt.Errorf("block arena overflow: %w", err))
	}
	c.Blocks = append(c.Blocks, block)
	return ast.BlockID(id)
}

// GetNode returns the node for an ID.
func (c *Compiler) GetNode(id ast.NodeID) ast.Node {
	return c.AstNodes[id]
}

// GetSpan returns the span of a node.
func (c *Compiler) GetSpan(id ast.NodeID) source.Span {
	return c.Spans[id]
}

// GetSpanContents returns the source bytes a node spans.
func (c *Compiler) GetSpanContents(id ast.NodeID) []byte {
	span := c.Spans[id]
	return c.Source[span.Start:span.End]
}

// GetSpanContentsRange returns the source bytes of an arbitrary range.
func (c *Compiler) GetSpanContentsRange(start, end uint32) []byte {
	return c.Source[start:end]
}

// AddError appends a diagnostic.
func (c *Compiler) AddError(err diag.SourceError) {
	c.Errors = append(c.Errors, err)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Compiler) HasErrors() bool {
	return diag.HasErrors(c.Errors)
}

// MergeNameBindings installs the resolver's results into the arena.
func (c *Compiler) MergeNameBindings(b names.Bindings, errors []diag.SourceError) {
	c.Scopes = b.Scopes
	c.Variables = b.Variables
	c.TypeDecls = b.TypeDecls
	c.Decls = b.Decls
	c.DeclNodes = b.DeclNodes
	c.VarResolution = b.VarResolution
	c.TypeResolution = b.TypeResolution
	c.DeclResolution = b.DeclResolution
	c.Errors = append(c.Errors, errors...)
}

// MergeTypes installs the typechecker's results into the arena.
func (c *Compiler) MergeTypes(t types.Checked, errors []diag.SourceError) {
	c.Types = t.Store
	c.NodeTypes = t.NodeTypes
	c.VariableTypes = t.VariableTypes
	c.DeclTypes = t.DeclTypes
	c.Errors = append(c.Errors, errors...)
}
