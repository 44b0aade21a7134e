package typechecker_test

import (
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/parser"
	"github.com/nushell/new-nu-parser/internal/resolver"
	"github.com/nushell/new-nu-parser/internal/typechecker"
	"github.com/nushell/new-nu-parser/internal/types"
)

// check runs the full pipeline over one source without halting between
// passes, so even failing programs get types.
func check(t *testing.T, src string) *compiler.Compiler {
	t.Helper()
	c := compiler.New()
	spanOffset := c.SpanOffset()
	c.AddFile("test.nu", []byte(src))

	toks, err := lexer.Lex([]byte(src), spanOffset)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	parser.New(c, toks).Parse()

	res := resolver.New(c)
	res.Resolve()
	c.MergeNameBindings(res.IntoBindings(), res.Errors())

	tc := typechecker.New(c)
	tc.Typecheck()
	c.MergeTypes(tc.IntoTypes(), tc.Errors())
	return c
}

func typeStringOf(c *compiler.Compiler, id ast.NodeID) string {
	return c.Types.TypeToString(c.NodeTypes[id], c.GetSpanContents)
}

func rootTypeString(c *compiler.Compiler) string {
	return typeStringOf(c, ast.NodeID(len(c.AstNodes)-1)) //nolint:gosec // test arenas are tiny
}

func errMessages(c *compiler.Compiler) []string {
	out := make([]string, 0, len(c.Errors))
	for _, e := range c.Errors {
		out = append(out, e.Message)
	}
	return out
}

func findNode(c *compiler.Compiler, kind ast.Kind) (ast.NodeID, bool) {
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == kind {
			return ast.NodeID(i), true //nolint:gosec // test arenas are tiny
		}
	}
	return ast.NoNodeID, false
}

func TestCheckArithmetic(t *testing.T) {
	// S1: let x = 1 + 2 * 3
	c := check(t, "let x = 1 + 2 * 3")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "()" {
		t.Errorf("root block type = %s, want ()", got)
	}
	if len(c.VariableTypes) != 1 {
		t.Fatalf("expected 1 variable type, got %d", len(c.VariableTypes))
	}
	if got := c.Types.TypeToString(c.VariableTypes[0], c.GetSpanContents); got != "int" {
		t.Errorf("x's type = %s, want int", got)
	}
}

func TestCheckMixedNumberList(t *testing.T) {
	// S2: [1 2.0 3] has type list<number>
	c := check(t, "[1 2.0 3]")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "list<number>" {
		t.Errorf("root type = %s, want list<number>", got)
	}
}

func TestCheckUniformList(t *testing.T) {
	c := check(t, "[1 2 3]")
	if got := rootTypeString(c); got != "list<int>" {
		t.Errorf("root type = %s, want list<int>", got)
	}

	c = check(t, `[1 "a"]`)
	if got := rootTypeString(c); got != "list<any>" {
		t.Errorf("root type = %s, want list<any>", got)
	}
}

func TestCheckIfBranches(t *testing.T) {
	// S3: if true { 1 } else { "a" } is oneof<int, string>
	c := check(t, `if true { 1 } else { "a" }`)
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "oneof<int, string>" {
		t.Errorf("root type = %s, want oneof<int, string>", got)
	}
}

func TestCheckIfWithoutElse(t *testing.T) {
	c := check(t, "if true { 1 }")
	if got := rootTypeString(c); got != "oneof<(), int>" {
		t.Errorf("root type = %s, want oneof<(), int>", got)
	}
}

func TestCheckIfNonBoolCondition(t *testing.T) {
	c := check(t, "if 1 { 2 }")
	if len(c.Errors) == 0 {
		t.Fatal("expected a condition error")
	}
	if got := rootTypeString(c); got != "error" {
		t.Errorf("root type = %s, want error", got)
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	// S4: $nope
	c := check(t, "$nope")
	if len(c.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", errMessages(c))
	}
	if c.Errors[0].Message != "variable `nope` not found" {
		t.Errorf("error = %q", c.Errors[0].Message)
	}
	if got := rootTypeString(c); got != "error" {
		t.Errorf("root type = %s, want error", got)
	}
}

func TestCheckGenericDefInstantiation(t *testing.T) {
	// S5: def id<T> [x: T]: T -> T { $x }; id 5
	c := check(t, "def id<T> [x: T]: T -> T { $x }; id 5")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}

	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	if got := typeStringOf(c, callID); got != "int" {
		t.Errorf("call type = %s, want int", got)
	}
}

func TestCheckDefWithoutSignature(t *testing.T) {
	c := check(t, "def two [] { 2 }\ntwo")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	if got := typeStringOf(c, callID); got != "int" {
		t.Errorf("call type = %s, want the block type int", got)
	}
}

func TestCheckExternalCall(t *testing.T) {
	c := check(t, "some external thing")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	callID, ok := findNode(c, ast.Call)
	if !ok {
		t.Fatal("no call node")
	}
	if got := typeStringOf(c, callID); got != "stream<binary>" {
		t.Errorf("external call type = %s, want stream<binary>", got)
	}
}

func TestCheckAppendInference(t *testing.T) {
	c := check(t, "[1 2] ++ [3]")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "list<int>" {
		t.Errorf("append type = %s, want list<int>", got)
	}

	c = check(t, `[1] ++ ["a"]`)
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "oneof<list<int>, list<string>>" && got != "list<oneof<int, string>>" {
		t.Errorf("mixed append type = %s", got)
	}
}

func TestCheckPlus(t *testing.T) {
	c := check(t, `"a" + "b"`)
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "string" {
		t.Errorf(`"a" + "b" = %s, want string`, got)
	}

	c = check(t, `1 + 2.0`)
	if got := rootTypeString(c); got != "float" {
		t.Errorf("1 + 2.0 = %s, want float", got)
	}

	c = check(t, `"a" + 1`)
	if len(c.Errors) == 0 {
		t.Error("string + int should be a type error")
	}
}

func TestCheckComparisonAndLogic(t *testing.T) {
	c := check(t, "1 < 2")
	if got := rootTypeString(c); got != "bool" {
		t.Errorf("1 < 2 = %s, want bool", got)
	}

	c = check(t, "true and false")
	if got := rootTypeString(c); got != "bool" {
		t.Errorf("true and false = %s, want bool", got)
	}

	c = check(t, "1 and 2")
	if len(c.Errors) == 0 {
		t.Error("1 and 2 should be a type error")
	}
}

func TestCheckLetAnnotationMismatch(t *testing.T) {
	c := check(t, `let x: int = "nope"`)
	if len(c.Errors) == 0 {
		t.Fatal("expected a mismatch error")
	}
}

func TestCheckForLoop(t *testing.T) {
	c := check(t, "for x in [1 2 3] { $x + 1;\n}")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}

	c = check(t, "for x in 5 { $x;\n}")
	found := false
	for _, e := range c.Errors {
		if e.Message == "for loop range is not a list" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a for-range error, got %v", errMessages(c))
	}
}

func TestCheckWhileConditions(t *testing.T) {
	c := check(t, "while true { 1;\n}")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}

	c = check(t, "while 5 { 1;\n}")
	if len(c.Errors) == 0 {
		t.Error("non-bool while condition should error")
	}
}

func TestCheckRecordFieldOrdering(t *testing.T) {
	// P7: record fields are stored sorted by name bytes
	c := check(t, "let r = {zeta: 1, alpha: 2, mid: 3}")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}

	recID, ok := findNode(c, ast.Record)
	if !ok {
		t.Fatal("no record node")
	}
	ty := c.Types.Get(c.NodeTypes[recID])
	if ty.Kind != types.KindRecord {
		t.Fatalf("record node type kind = %v", ty.Kind)
	}
	fields := c.Types.RecordFields(ty.RecordID())
	prev := ""
	for _, f := range fields {
		name := string(c.GetSpanContents(f.Name))
		if prev != "" && name <= prev {
			t.Errorf("fields not strictly sorted: %q after %q", name, prev)
		}
		prev = name
	}
}

func TestCheckNoUnsolvedVarsRemain(t *testing.T) {
	// P9: after solving, no Var type is reachable from node types
	sources := []string{
		"def id<T> [x: T]: T -> T { $x }; id 5",
		"[1 2] ++ [3 4]",
		`[1] ++ ["a"]`,
	}
	for _, src := range sources {
		c := check(t, src)
		for i, id := range c.NodeTypes {
			if hasVar(c.Types, id, map[types.TypeID]bool{}) {
				t.Errorf("%q: node %d still has a Var type", src, i)
			}
		}
	}
}

func hasVar(s *types.Store, id types.TypeID, seen map[types.TypeID]bool) bool {
	if seen[id] {
		return false
	}
	seen[id] = true
	t := s.Get(id)
	switch t.Kind {
	case types.KindVar:
		return true
	case types.KindList, types.KindStream:
		return hasVar(s, t.Elem, seen)
	case types.KindRecord:
		for _, f := range s.RecordFields(t.RecordID()) {
			if hasVar(s, f.Type, seen) {
				return true
			}
		}
	case types.KindOneOf:
		for _, m := range s.OneOfMembers(t.OneOfID()) {
			if hasVar(s, m, seen) {
				return true
			}
		}
	case types.KindAllOf:
		for _, m := range s.AllOfMembers(t.AllOfID()) {
			if hasVar(s, m, seen) {
				return true
			}
		}
	}
	return false
}

func TestCheckNoUnknownOnSuccess(t *testing.T) {
	// P6-flavored: when checking succeeds, no node stays Unknown
	sources := []string{
		"let x = 1 + 2 * 3",
		"[1 2.0 3]",
		`if true { 1 } else { "a" }`,
		"def id<T> [x: T]: T -> T { $x }; id 5",
		"for x in [1 2] { $x + 1;\n}",
		"let r = {a: 1}\n$r.a",
		"alias two = second\nsome external thing",
	}
	for _, src := range sources {
		c := check(t, src)
		if len(c.Errors) != 0 {
			t.Fatalf("%q: unexpected errors: %v", src, errMessages(c))
		}
		for i, id := range c.NodeTypes {
			if id == types.UnknownType {
				t.Errorf("%q: node %d (%s) is still unknown", src, i, c.AstNodes[i].Kind)
			}
		}
	}
}

func TestCheckMemberAccess(t *testing.T) {
	c := check(t, "let r = {a: 1}\n$r.a")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "int" {
		t.Errorf("$r.a = %s, want int", got)
	}
}

func TestCheckMatch(t *testing.T) {
	c := check(t, "match 1 { 1 => 10\n 2 => 20 }")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "int" {
		t.Errorf("match type = %s, want int", got)
	}
}

func TestCheckInOperator(t *testing.T) {
	c := check(t, "1 in [1 2 3]")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "bool" {
		t.Errorf("1 in [1 2 3] = %s, want bool", got)
	}

	c = check(t, `"a" in "abc"`)
	if got := rootTypeString(c); got != "bool" {
		t.Errorf(`"a" in "abc" = %s, want bool`, got)
	}

	c = check(t, `"a" in [1 2]`)
	if len(c.Errors) == 0 {
		t.Error("string in list<int> should be a type error")
	}
}

func TestCheckRangeTypes(t *testing.T) {
	c := check(t, "1..5")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	if got := rootTypeString(c); got != "list<number>" {
		t.Errorf("1..5 = %s, want list<number>", got)
	}
}

func TestCheckClosureType(t *testing.T) {
	c := check(t, "let f = {|x| $x }")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", errMessages(c))
	}
	letID, ok := findNode(c, ast.Let)
	if !ok {
		t.Fatal("no let node")
	}
	varID := c.VarResolution[c.GetNode(letID).Name]
	if got := c.Types.TypeToString(c.VariableTypes[varID], c.GetSpanContents); got != "closure" {
		t.Errorf("closure binding = %s, want closure", got)
	}
}
