package ast_test

import (
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
)

func TestOperatorPrecedenceOrdering(t *testing.T) {
	ordered := [][]ast.Kind{
		{ast.Pow},
		{ast.Multiply, ast.Divide, ast.FloorDiv, ast.Modulo},
		{ast.Plus, ast.Minus},
		{ast.Equal, ast.NotEqual, ast.LessThan, ast.GreaterThan,
			ast.LessThanOrEqual, ast.GreaterThanOrEqual,
			ast.RegexMatch, ast.NotRegexMatch, ast.In, ast.Append},
		{ast.And},
		{ast.Xor},
		{ast.Or},
		{ast.Assignment, ast.AddAssignment, ast.SubtractAssignment,
			ast.MultiplyAssignment, ast.DivideAssignment, ast.AppendAssignment},
	}

	for i := 1; i < len(ordered); i++ {
		for _, hi := range ordered[i-1] {
			for _, lo := range ordered[i] {
				if hi.Precedence() <= lo.Precedence() {
					t.Errorf("%s (%d) should bind tighter than %s (%d)",
						hi, hi.Precedence(), lo, lo.Precedence())
				}
			}
		}
	}

	if ast.Assignment.Precedence() != ast.AssignmentPrecedence {
		t.Error("assignment operators must share AssignmentPrecedence")
	}
	if ast.Int.Precedence() != 0 {
		t.Error("non-operator kinds have no precedence")
	}
}

func TestAssignmentKinds(t *testing.T) {
	for _, k := range []ast.Kind{
		ast.Assignment, ast.AddAssignment, ast.SubtractAssignment,
		ast.MultiplyAssignment, ast.DivideAssignment, ast.AppendAssignment,
	} {
		if !k.IsAssignment() {
			t.Errorf("%s should be an assignment", k)
		}
	}
	if ast.Equal.IsAssignment() {
		t.Error("Equal is not an assignment")
	}
}

func TestNodeConstructorsClearOptionalSlots(t *testing.T) {
	n := ast.LetNode(1, ast.NoNodeID, 2, true)
	if n.Ty.IsValid() {
		t.Error("let without annotation should have no type slot")
	}
	if !n.Flag {
		t.Error("mut flag lost")
	}

	leaf := ast.LeafNode(ast.Int)
	if leaf.Lhs.IsValid() || leaf.Body.IsValid() || leaf.Else.IsValid() {
		t.Error("leaf nodes must not have valid child slots")
	}
}
