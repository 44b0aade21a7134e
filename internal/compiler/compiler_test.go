package compiler_test

import (
	"reflect"
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/source"
)

func TestAddFileAdvancesSpanOffset(t *testing.T) {
	c := compiler.New()
	if c.SpanOffset() != 0 {
		t.Fatalf("fresh compiler offset = %d, want 0", c.SpanOffset())
	}

	c.AddFile("a.nu", []byte("let x = 1\n"))
	first := c.SpanOffset()
	if int(first) != len("let x = 1\n") {
		t.Errorf("offset after first file = %d", first)
	}

	c.AddFile("b.nu", []byte("$x"))
	if int(c.SpanOffset()) != len("let x = 1\n")+len("$x") {
		t.Errorf("offset after second file = %d", c.SpanOffset())
	}

	entries := c.Files.Entries()
	if len(entries) != 2 {
		t.Fatalf("file table has %d entries, want 2", len(entries))
	}
	if entries[1].Start != first {
		t.Errorf("second file starts at %d, want %d", entries[1].Start, first)
	}

	entry, ok := c.Files.FileOf(first)
	if !ok || entry.Name != "b.nu" {
		t.Errorf("FileOf(%d) = %v, want b.nu", first, entry)
	}
}

func TestGetSpanContents(t *testing.T) {
	c := compiler.New()
	c.AddFile("a.nu", []byte("hello world"))
	id := c.PushNode(ast.LeafNode(ast.Name), source.NewSpan(6, 11))
	if got := string(c.GetSpanContents(id)); got != "world" {
		t.Errorf("GetSpanContents = %q, want %q", got, "world")
	}
}

func TestRollbackIdempotence(t *testing.T) {
	c := compiler.New()
	c.AddFile("a.nu", []byte("abc def"))

	c.PushNode(ast.LeafNode(ast.Int), source.NewSpan(0, 1))
	c.PushBlock(ast.NewBlock([]ast.NodeID{0}))

	wantNodes := append([]ast.Node(nil), c.AstNodes...)
	wantSpans := append([]source.Span(nil), c.Spans...)
	wantBlocks := append([]ast.BlockData(nil), c.Blocks...)
	wantErrors := append([]diag.SourceError{}, c.Errors...)

	rp := c.GetRollbackPoint(7)

	// a speculative parse appends nodes, blocks and errors
	garbage := c.PushNode(ast.LeafNode(ast.Garbage), source.NewSpan(4, 7))
	c.PushNode(ast.LeafNode(ast.String), source.NewSpan(4, 7))
	c.PushBlock(ast.NewBlock(nil))
	c.AddError(diag.Error(diag.SynExpected, garbage, "speculative"))

	tokenPos := c.ApplyRollback(rp)
	if tokenPos != 7 {
		t.Errorf("restored token pos = %d, want 7", tokenPos)
	}

	if !reflect.DeepEqual(c.AstNodes, wantNodes) {
		t.Error("ast nodes not restored")
	}
	if !reflect.DeepEqual(c.Spans, wantSpans) {
		t.Error("spans not restored")
	}
	if !reflect.DeepEqual(c.Blocks, wantBlocks) {
		t.Error("blocks not restored")
	}
	if !reflect.DeepEqual(c.Errors, wantErrors) {
		t.Error("errors not restored")
	}

	// rolling back twice is harmless
	c.ApplyRollback(rp)
	if len(c.AstNodes) != len(wantNodes) {
		t.Error("second rollback changed the arena")
	}
}

func TestDisplayStateSmoke(t *testing.T) {
	c := compiler.New()
	c.AddFile("a.nu", []byte("1"))
	c.PushNode(ast.LeafNode(ast.Int), source.NewSpan(0, 1))

	out := c.DisplayState()
	if out == "" {
		t.Fatal("empty display state")
	}
	if got := out[:len("==== COMPILER ====")]; got != "==== COMPILER ====" {
		t.Errorf("display header = %q", got)
	}
}
