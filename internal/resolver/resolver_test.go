package resolver_test

import (
	"strings"
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/names"
	"github.com/nushell/new-nu-parser/internal/parser"
	"github.com/nushell/new-nu-parser/internal/resolver"
)

// resolve parses and resolves one source, returning the compiler, the
// bindings, and the resolution errors.
func resolve(t *testing.T, src string) (*compiler.Compiler, names.Bindings, []string) {
	t.Helper()
	c := compiler.New()
	spanOffset := c.SpanOffset()
	c.AddFile("test.nu", []byte(src))

	toks, err := lexer.Lex([]byte(src), spanOffset)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	parser.New(c, toks).Parse()
	if len(c.Errors) != 0 {
		t.Fatalf("parse errors in %q: %v", src, c.Errors)
	}

	res := resolver.New(c)
	res.Resolve()

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.Message)
	}
	bindings := res.IntoBindings()
	c.MergeNameBindings(bindings, res.Errors())
	return c, bindings, msgs
}

func findNode(c *compiler.Compiler, kind ast.Kind) (ast.NodeID, bool) {
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == kind {
			return ast.NodeID(i), true //nolint:gosec // test arenas are tiny
		}
	}
	return ast.NoNodeID, false
}

func TestResolveLetAndUse(t *testing.T) {
	c, b, errs := resolve(t, "let x = 5\n$x")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.Variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(b.Variables))
	}

	// both the definition and the use resolve to the same VarID
	var seen []names.VarID
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == ast.Variable {
			id, ok := b.VarResolution[ast.NodeID(i)] //nolint:gosec // test arenas are tiny
			if !ok {
				t.Fatalf("variable node %d not resolved", i)
			}
			seen = append(seen, id)
		}
	}
	if len(seen) != 2 || seen[0] != seen[1] {
		t.Errorf("definition and use resolve to %v, want one shared VarID", seen)
	}
}

func TestResolveUndefinedVariable(t *testing.T) {
	_, _, errs := resolve(t, "$nope")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "variable `nope` not found" {
		t.Errorf("error = %q, want %q", errs[0], "variable `nope` not found")
	}
}

func TestResolveScopeBalance(t *testing.T) {
	_, b, _ := resolve(t, "let a = 1\nif true { let b = 2\n $b } else { let c = 3\n $c }\n$a")
	if len(b.ScopeStack) != 0 {
		t.Errorf("scope stack not empty after resolve: %v", b.ScopeStack)
	}
}

func TestResolveShadowing(t *testing.T) {
	src := "let x = 1\ndef f [] { let x = 2\n $x }\n$x"
	_, b, errs := resolve(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.Variables) != 2 {
		t.Errorf("expected 2 variables (outer and shadowing), got %d", len(b.Variables))
	}
}

func TestResolveMutability(t *testing.T) {
	_, b, _ := resolve(t, "let a = 1\nmut b = 2")
	if len(b.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(b.Variables))
	}
	if b.Variables[0].IsMutable {
		t.Error("let binding should be immutable")
	}
	if !b.Variables[1].IsMutable {
		t.Error("mut binding should be mutable")
	}
}

func TestResolveMultiWordLongestPrefix(t *testing.T) {
	src := "def \"str length\" [] { 1 }\ndef str [] { 2 }\nstr length"
	c, b, errs := resolve(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	declID, ok := b.DeclResolution[callID]
	if !ok {
		t.Fatal("call not resolved")
	}
	if name := b.Decls[declID].Name(); name != "str length" {
		t.Errorf("call bound to %q, want the longer prefix %q", name, "str length")
	}
}

func TestResolveExternalCallFallsBack(t *testing.T) {
	c, b, errs := resolve(t, "some external command")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	if _, bound := b.DeclResolution[callID]; bound {
		t.Error("unknown command should stay external (unbound)")
	}
}

func TestResolveRecursion(t *testing.T) {
	src := "def down [x: int] { down 1 }"
	c, b, errs := resolve(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	if _, bound := b.DeclResolution[callID]; !bound {
		t.Error("recursive call should resolve to the enclosing def")
	}
}

func TestResolveTypeParams(t *testing.T) {
	src := "def id<T> [x: T] { $x }"
	_, b, errs := resolve(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.TypeDecls) != 1 {
		t.Fatalf("expected 1 type decl, got %d", len(b.TypeDecls))
	}
	// the parameter's type annotation resolves to the declared type param:
	// at least two entries (definition + use)
	if len(b.TypeResolution) < 2 {
		t.Errorf("type resolution has %d entries, want definition and use", len(b.TypeResolution))
	}
}

func TestResolveUndefinedType(t *testing.T) {
	_, _, errs := resolve(t, "def f [x: widget] { $x }")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "type `widget` not found") {
		t.Errorf("unexpected error: %q", errs[0])
	}
}

func TestResolvePrimitiveTypesNeedNoDecl(t *testing.T) {
	_, _, errs := resolve(t, "def f [a: int, b: string, c: list, d: any] { $a }")
	if len(errs) != 0 {
		t.Errorf("primitive type names should resolve: %v", errs)
	}
}

func TestResolveQuotedDeclNames(t *testing.T) {
	src := "def 'my cmd' [] { 1 }\nmy cmd"
	c, b, errs := resolve(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	declID, ok := b.DeclResolution[callID]
	if !ok {
		t.Fatal("call not resolved")
	}
	if name := b.Decls[declID].Name(); name != "my cmd" {
		t.Errorf("decl name = %q, want quotes stripped", name)
	}
}

func TestResolveForLoopVariable(t *testing.T) {
	_, b, errs := resolve(t, "for x in [1 2] { $x\n}")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.Variables) != 1 {
		t.Errorf("expected 1 variable, got %d", len(b.Variables))
	}
}

func TestResolveAlias(t *testing.T) {
	_, b, errs := resolve(t, "alias ll = ls")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(b.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(b.Decls))
	}
	if b.Decls[0].Name() != "ll" {
		t.Errorf("alias decl name = %q, want %q", b.Decls[0].Name(), "ll")
	}
}
