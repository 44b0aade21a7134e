package typechecker

import (
	"fmt"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/types"
)

func (tc *Typechecker) typecheckBinaryOp(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	lhs, op, rhs := node.Lhs, node.Op, node.Rhs
	opKind := tc.compiler.GetNode(op).Kind

	// the operator itself is never evaluated
	tc.setNodeTypeID(op, types.ForbiddenType)

	var result types.TypeID
	ok := true

	switch opKind {
	case ast.Equal, ast.NotEqual:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		l, r := tc.nodeTypes[lhs], tc.nodeTypes[rhs]
		if tc.isSubtype(l, r) || tc.isSubtype(r, l) ||
			(tc.isSubtype(l, types.NumberType) && tc.isSubtype(r, types.NumberType)) {
			result = types.BoolType
		} else {
			tc.binaryOpErr("comparison", lhs, op, rhs)
			ok = false
		}

	case ast.LessThan, ast.LessThanOrEqual, ast.GreaterThan, ast.GreaterThanOrEqual:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		if tc.numericJoin(tc.nodeTypes[lhs], tc.nodeTypes[rhs]) == types.UnknownType {
			tc.binaryOpErr("comparison", lhs, op, rhs)
			ok = false
		} else {
			result = types.BoolType
		}

	case ast.Minus, ast.Multiply, ast.Divide, ast.FloorDiv, ast.Modulo, ast.Pow:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		join := tc.numericJoin(tc.nodeTypes[lhs], tc.nodeTypes[rhs])
		if join == types.UnknownType {
			tc.binaryOpErr("math operation", lhs, op, rhs)
			ok = false
		} else {
			result = join
		}

	case ast.RegexMatch, ast.NotRegexMatch:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		if tc.isStringish(tc.nodeTypes[lhs]) && tc.isStringish(tc.nodeTypes[rhs]) {
			result = types.BoolType
		} else {
			tc.binaryOpErr("string operation", lhs, op, rhs)
			ok = false
		}

	case ast.In:
		tc.typecheckNode(rhs, types.TopType)
		tc.typecheckNode(lhs, types.TopType)
		rhsType := tc.store.Get(tc.nodeTypes[rhs])
		switch rhsType.Kind {
		case types.KindString:
			if tc.isStringish(tc.nodeTypes[lhs]) {
				result = types.BoolType
			} else {
				tc.binaryOpErr("string operation", lhs, op, rhs)
				ok = false
			}
		case types.KindList:
			if tc.isSubtype(tc.nodeTypes[lhs], rhsType.Elem) ||
				tc.isSubtype(rhsType.Elem, tc.nodeTypes[lhs]) {
				result = types.BoolType
			} else {
				tc.binaryOpErr("list operation", lhs, op, rhs)
				ok = false
			}
		case types.KindAny:
			result = types.BoolType
		default:
			tc.binaryOpErr("list/string operation", lhs, op, rhs)
			ok = false
		}

	case ast.And, ast.Xor, ast.Or:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		if tc.isSubtype(tc.nodeTypes[lhs], types.BoolType) &&
			tc.isSubtype(tc.nodeTypes[rhs], types.BoolType) {
			result = types.BoolType
		} else {
			tc.binaryOpErr("logical operation", lhs, op, rhs)
			ok = false
		}

	case ast.Plus:
		result, ok = tc.typecheckPlus(lhs, op, rhs)

	case ast.Append:
		result, ok = tc.typecheckAppend(lhs, op, rhs)

	case ast.Assignment, ast.AddAssignment, ast.SubtractAssignment,
		ast.MultiplyAssignment, ast.DivideAssignment, ast.AppendAssignment:
		tc.typecheckNode(lhs, types.TopType)
		tc.typecheckNode(rhs, types.TopType)
		result = types.NoneType

	default:
		panic(fmt.Sprintf("internal error: unsupported node passed as binary op: %s", opKind))
	}

	if !ok {
		tc.setNodeTypeID(nodeID, types.ErrorType)
		return
	}
	tc.setNodeTypeID(nodeID, result)
	if result != types.NoneType {
		tc.checkExpected(nodeID, expected)
	}
}

// typecheckPlus handles `+`, which is addition on numbers and concatenation
// on strings. The left side's type picks the interpretation; if it decides
// nothing, the right side gets a turn. Bottom bubbles through.
func (tc *Typechecker) typecheckPlus(lhs, op, rhs ast.NodeID) (types.TypeID, bool) {
	tc.typecheckNode(lhs, types.TopType)
	l := tc.nodeTypes[lhs]

	switch {
	case l == types.BottomType:
		tc.typecheckNode(rhs, types.TopType)
		return types.BottomType, true

	case tc.isSubtype(l, types.StringType):
		tc.typecheckNode(rhs, types.StringType)
		return types.StringType, true

	case tc.isSubtype(l, types.NumberType):
		tc.typecheckNode(rhs, types.NumberType)
		join := tc.numericJoin(l, tc.nodeTypes[rhs])
		if join == types.UnknownType {
			join = types.NumberType
		}
		return join, true

	default:
		tc.typecheckNode(rhs, types.TopType)
		r := tc.nodeTypes[rhs]
		switch {
		case r == types.BottomType:
			return types.BottomType, true
		case tc.isSubtype(r, types.StringType):
			if tc.isStringish(l) {
				return types.StringType, true
			}
		case tc.isSubtype(r, types.NumberType):
			if join := tc.numericJoin(l, r); join != types.UnknownType {
				return join, true
			}
		case tc.store.Get(l).Kind == types.KindAny || tc.store.Get(r).Kind == types.KindAny:
			return types.NumberType, true
		}
		tc.binaryOpErr("addition", lhs, op, rhs)
		return types.ErrorType, false
	}
}

// typecheckAppend handles `++`: a fresh variable bounded between the empty
// and the universal list absorbs both sides, so the union of the element
// types flows into its lower bound and the solved variable becomes the
// result list type.
func (tc *Typechecker) typecheckAppend(lhs, op, rhs ast.NodeID) (types.TypeID, bool) {
	listBottom := tc.store.Push(types.MakeList(types.BottomType))
	listTop := tc.store.Push(types.MakeList(types.TopType))
	varID := tc.store.PushVar(listBottom, listTop)
	varType := tc.store.Push(types.MakeVar(varID))

	tc.typecheckNode(lhs, varType)
	tc.typecheckNode(rhs, varType)

	if tc.nodeTypes[lhs] == types.ErrorType || tc.nodeTypes[rhs] == types.ErrorType {
		tc.binaryOpErr("append", lhs, op, rhs)
		return types.ErrorType, false
	}
	return varType, true
}

// numericJoin returns the result type of a numeric operation, or unknown
// when the operands do not support one. Any operand of type any joins to
// number.
func (tc *Typechecker) numericJoin(lhsID, rhsID types.TypeID) types.TypeID {
	l := tc.store.Get(lhsID).Kind
	r := tc.store.Get(rhsID).Kind

	if l == types.KindAny || r == types.KindAny {
		return types.NumberType
	}
	if l == types.KindFloat || r == types.KindFloat {
		switch {
		case l == types.KindFloat && (r == types.KindFloat || r == types.KindInt || r == types.KindNumber):
			return types.FloatType
		case r == types.KindFloat && (l == types.KindInt || l == types.KindNumber):
			return types.FloatType
		default:
			return types.UnknownType
		}
	}
	if l == types.KindInt && r == types.KindInt {
		return types.IntType
	}
	if (l == types.KindInt || l == types.KindNumber) && (r == types.KindInt || r == types.KindNumber) {
		return types.NumberType
	}
	return types.UnknownType
}

func (tc *Typechecker) isStringish(id types.TypeID) bool {
	k := tc.store.Get(id).Kind
	return k == types.KindString || k == types.KindAny
}

func (tc *Typechecker) binaryOpErr(opMsg string, lhs, op, rhs ast.NodeID) {
	tc.error(diag.TypeBadOperands, op,
		fmt.Sprintf("type mismatch: unsupported %s between %s and %s",
			opMsg,
			tc.typeString(tc.nodeTypes[lhs]),
			tc.typeString(tc.nodeTypes[rhs])))
	tc.setNodeTypeID(op, types.ErrorType)
}
