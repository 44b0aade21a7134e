package parser_test

import (
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/parser"
)

// parse runs lexer and parser over one virtual file and returns the arena.
func parse(t *testing.T, src string) *compiler.Compiler {
	t.Helper()
	c := compiler.New()
	spanOffset := c.SpanOffset()
	c.AddFile("test.nu", []byte(src))

	toks, err := lexer.Lex([]byte(src), spanOffset)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	parser.New(c, toks).Parse()
	return c
}

// rootBlock returns the nodes of the whole-file block.
func rootBlock(t *testing.T, c *compiler.Compiler) []ast.NodeID {
	t.Helper()
	root := c.GetNode(ast.NodeID(len(c.AstNodes) - 1)) //nolint:gosec // test arenas are tiny
	if root.Kind != ast.Block {
		t.Fatalf("root node is %s, want Block", root.Kind)
	}
	return c.Blocks[root.BlockID].Nodes
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse with the multiplication as the rhs of the plus
	c := parse(t, "let x = 1 + 2 * 3")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}

	stmts := rootBlock(t, c)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	let := c.GetNode(stmts[0])
	if let.Kind != ast.Let {
		t.Fatalf("statement is %s, want Let", let.Kind)
	}

	plus := c.GetNode(let.Init)
	if plus.Kind != ast.BinaryOp {
		t.Fatalf("initializer is %s, want BinaryOp", plus.Kind)
	}
	if op := c.GetNode(plus.Op); op.Kind != ast.Plus {
		t.Errorf("outer operator is %s, want Plus", op.Kind)
	}
	if lhs := c.GetNode(plus.Lhs); lhs.Kind != ast.Int {
		t.Errorf("outer lhs is %s, want Int", lhs.Kind)
	}
	mul := c.GetNode(plus.Rhs)
	if mul.Kind != ast.BinaryOp {
		t.Fatalf("outer rhs is %s, want BinaryOp", mul.Kind)
	}
	if op := c.GetNode(mul.Op); op.Kind != ast.Multiply {
		t.Errorf("inner operator is %s, want Multiply", op.Kind)
	}
}

func TestParseHigherPrecedenceReducesFirst(t *testing.T) {
	// 1 * 2 + 3 reduces the multiplication first
	c := parse(t, "let x = 1 * 2 + 3")
	stmts := rootBlock(t, c)
	let := c.GetNode(stmts[0])
	plus := c.GetNode(let.Init)
	if op := c.GetNode(plus.Op); op.Kind != ast.Plus {
		t.Fatalf("outer operator is %s, want Plus", op.Kind)
	}
	if lhs := c.GetNode(plus.Lhs); lhs.Kind != ast.BinaryOp {
		t.Errorf("outer lhs is %s, want BinaryOp", lhs.Kind)
	}
}

func TestParseStatementWrapping(t *testing.T) {
	c := parse(t, "1 + 2;")
	stmts := rootBlock(t, c)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if node := c.GetNode(stmts[0]); node.Kind != ast.Statement {
		t.Errorf("node is %s, want Statement", node.Kind)
	}

	c = parse(t, "1 + 2")
	stmts = rootBlock(t, c)
	if node := c.GetNode(stmts[0]); node.Kind != ast.BinaryOp {
		t.Errorf("node without semicolon is %s, want BinaryOp", node.Kind)
	}
}

func TestParseRecordVsClosure(t *testing.T) {
	c := parse(t, "let r = {a: 1, b: 2}")
	let := c.GetNode(rootBlock(t, c)[0])
	record := c.GetNode(let.Init)
	if record.Kind != ast.Record {
		t.Fatalf("initializer is %s, want Record", record.Kind)
	}
	if len(record.Pairs) != 2 {
		t.Errorf("record has %d pairs, want 2", len(record.Pairs))
	}

	c = parse(t, "let f = { 1 }")
	let = c.GetNode(rootBlock(t, c)[0])
	closure := c.GetNode(let.Init)
	if closure.Kind != ast.Closure {
		t.Fatalf("initializer is %s, want Closure", closure.Kind)
	}
	if closure.Params.IsValid() {
		t.Error("implicit closure should have no params")
	}

	c = parse(t, "let f = {|x| $x }")
	let = c.GetNode(rootBlock(t, c)[0])
	closure = c.GetNode(let.Init)
	if closure.Kind != ast.Closure {
		t.Fatalf("initializer is %s, want Closure", closure.Kind)
	}
	if !closure.Params.IsValid() {
		t.Error("explicit closure should have params")
	}
}

func TestParseRollbackLeavesNoGarbage(t *testing.T) {
	// the record/closure disambiguation rolls the arena back; the final
	// arena must contain no leftover record parse and no errors
	c := parse(t, "let f = { foo bar }")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == ast.Record {
			t.Errorf("node %d is a leftover Record from the speculative parse", i)
		}
	}
	if len(c.AstNodes) != len(c.Spans) {
		t.Errorf("nodes (%d) and spans (%d) out of sync", len(c.AstNodes), len(c.Spans))
	}
}

func TestParseListAndTable(t *testing.T) {
	c := parse(t, "let l = [1 2.0 3]")
	let := c.GetNode(rootBlock(t, c)[0])
	list := c.GetNode(let.Init)
	if list.Kind != ast.List {
		t.Fatalf("initializer is %s, want List", list.Kind)
	}
	if len(list.Children) != 3 {
		t.Errorf("list has %d items, want 3", len(list.Children))
	}

	c = parse(t, "let t = [[a b]; [1 2] [3 4]]")
	let = c.GetNode(rootBlock(t, c)[0])
	table := c.GetNode(let.Init)
	if table.Kind != ast.Table {
		t.Fatalf("initializer is %s, want Table", table.Kind)
	}
	if header := c.GetNode(table.Header); header.Kind != ast.List {
		t.Errorf("table header is %s, want List", header.Kind)
	}
	if len(table.Children) != 2 {
		t.Errorf("table has %d rows, want 2", len(table.Children))
	}
}

func TestParseCallParts(t *testing.T) {
	c := parse(t, "str length abc 42")
	call := c.GetNode(rootBlock(t, c)[0])
	if call.Kind != ast.Call {
		t.Fatalf("node is %s, want Call", call.Kind)
	}
	// leading barewords accumulate as Name parts; 42 is an Int argument
	kinds := make([]ast.Kind, 0, len(call.Children))
	for _, part := range call.Children {
		kinds = append(kinds, c.GetNode(part).Kind)
	}
	want := []ast.Kind{ast.Name, ast.Name, ast.Name, ast.Int}
	if len(kinds) != len(want) {
		t.Fatalf("call has %d parts %v, want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("part %d is %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestParseDefSignature(t *testing.T) {
	c := parse(t, "def id<T> [x: T]: T -> T { $x }")
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}
	def := c.GetNode(rootBlock(t, c)[0])
	if def.Kind != ast.Def {
		t.Fatalf("node is %s, want Def", def.Kind)
	}
	if !def.TypeParams.IsValid() {
		t.Error("def should have type params")
	}
	if !def.InOut.IsValid() {
		t.Error("def should have in/out types")
	}

	params := c.GetNode(def.Params)
	if params.Kind != ast.Params || len(params.Children) != 1 {
		t.Fatalf("def params = %v, want one param", params)
	}
	param := c.GetNode(params.Children[0])
	if param.Kind != ast.Param || !param.Ty.IsValid() {
		t.Errorf("param = %v, want typed Param", param)
	}

	inOut := c.GetNode(def.InOut)
	if inOut.Kind != ast.InOutTypes || len(inOut.Children) != 1 {
		t.Fatalf("in/out = %v, want one pair", inOut)
	}
	if pair := c.GetNode(inOut.Children[0]); pair.Kind != ast.InOutType {
		t.Errorf("pair is %s, want InOutType", pair.Kind)
	}
}

func TestParseIfElseChain(t *testing.T) {
	c := parse(t, "if true { 1 } else { 2 }")
	ifNode := c.GetNode(rootBlock(t, c)[0])
	if ifNode.Kind != ast.If {
		t.Fatalf("node is %s, want If", ifNode.Kind)
	}
	if !ifNode.Else.IsValid() {
		t.Error("if should have an else block")
	}

	c = parse(t, "if true { 1 } else if false { 2 } else { 3 }")
	ifNode = c.GetNode(rootBlock(t, c)[0])
	if elseNode := c.GetNode(ifNode.Else); elseNode.Kind != ast.If {
		t.Errorf("else is %s, want nested If", elseNode.Kind)
	}
}

func TestParseMatch(t *testing.T) {
	c := parse(t, "match $x { 1 => one\n 2 => two }")
	// $x is unresolved but that is the resolver's business, not the parser's
	m := c.GetNode(rootBlock(t, c)[0])
	if m.Kind != ast.Match {
		t.Fatalf("node is %s, want Match", m.Kind)
	}
	if len(m.Pairs) != 2 {
		t.Errorf("match has %d arms, want 2", len(m.Pairs))
	}
}

func TestParseLoops(t *testing.T) {
	c := parse(t, "while true { 1; }\nfor x in [1 2] { 2; }\nloop { break }")
	stmts := rootBlock(t, c)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if k := c.GetNode(stmts[0]).Kind; k != ast.While {
		t.Errorf("statement 0 is %s, want While", k)
	}
	if k := c.GetNode(stmts[1]).Kind; k != ast.For {
		t.Errorf("statement 1 is %s, want For", k)
	}
	if k := c.GetNode(stmts[2]).Kind; k != ast.Loop {
		t.Errorf("statement 2 is %s, want Loop", k)
	}
}

func TestParseMemberAccessAndRange(t *testing.T) {
	c := parse(t, "let v = $r.field")
	let := c.GetNode(rootBlock(t, c)[0])
	access := c.GetNode(let.Init)
	if access.Kind != ast.MemberAccess {
		t.Fatalf("initializer is %s, want MemberAccess", access.Kind)
	}

	c = parse(t, "let v = 1..5")
	let = c.GetNode(rootBlock(t, c)[0])
	rangeNode := c.GetNode(let.Init)
	if rangeNode.Kind != ast.Range {
		t.Fatalf("initializer is %s, want Range", rangeNode.Kind)
	}
}

func TestParseAlias(t *testing.T) {
	c := parse(t, "alias ll = ls")
	alias := c.GetNode(rootBlock(t, c)[0])
	if alias.Kind != ast.Alias {
		t.Fatalf("node is %s, want Alias", alias.Kind)
	}
}

func TestParseAssignmentPosition(t *testing.T) {
	c := parse(t, "$x = 5")
	// assignment in statement position is fine (apart from $x being unknown
	// to the resolver, which is not the parser's concern)
	for _, e := range c.Errors {
		t.Errorf("unexpected parser error: %s", e.Message)
	}

	c = parse(t, "let y = ($x = 5)")
	if len(c.Errors) == 0 {
		t.Error("assignment in expression position should be diagnosed")
	}
}

func TestParseEmptyParens(t *testing.T) {
	c := parse(t, "let x = ()")
	if len(c.Errors) == 0 {
		t.Error("'()' should be diagnosed")
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// garbage in the middle must not stop the parse: the trailing let still
	// produces a Let node
	c := parse(t, "let x = ^\nlet y = 2")
	if len(c.Errors) == 0 {
		t.Fatal("expected at least one error")
	}

	var lets int
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == ast.Let {
			lets++
		}
	}
	if lets != 2 {
		t.Errorf("found %d Let nodes, want 2 (parsing should continue)", lets)
	}

	var garbage int
	for i := range c.AstNodes {
		if c.AstNodes[i].Kind == ast.Garbage {
			garbage++
		}
	}
	if garbage == 0 {
		t.Error("expected a Garbage sentinel node")
	}
}

func TestParseMissingSpaceDiagnostic(t *testing.T) {
	c := parse(t, "let x = 1 +2")
	found := false
	for _, e := range c.Errors {
		if e.Message == "missing space after operator" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-space diagnostic, got %v", c.Errors)
	}
}

func TestParseStringInterpolationAtom(t *testing.T) {
	c := parse(t, `let s = $"a(1 + 2)b"`)
	if len(c.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors)
	}
	let := c.GetNode(rootBlock(t, c)[0])
	if k := c.GetNode(let.Init).Kind; k != ast.String {
		t.Errorf("interpolation atom is %s, want String", k)
	}
}
