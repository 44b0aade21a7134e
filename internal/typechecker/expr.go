package typechecker

import (
	"bytes"
	"sort"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/types"
)

// listElemExpectation extracts the element expectation from the type a list
// is being checked against.
func (tc *Typechecker) listElemExpectation(expected types.TypeID) types.TypeID {
	t := tc.store.Get(expected)
	switch t.Kind {
	case types.KindList:
		return t.Elem
	default:
		return types.TopType
	}
}

func (tc *Typechecker) typecheckList(nodeID ast.NodeID, items []ast.NodeID, expected types.TypeID) {
	if len(items) == 0 {
		tc.setNodeTypeID(nodeID, types.ListAnyType)
		tc.checkExpected(nodeID, expected)
		return
	}

	elemExpected := tc.listElemExpectation(expected)

	first := items[0]
	tc.typecheckNode(first, elemExpected)
	firstType := tc.nodeTypes[first]

	allNumbers := tc.isSubtype(firstType, types.NumberType)
	allSame := true

	for _, item := range items[1:] {
		tc.typecheckNode(item, elemExpected)
		itemType := tc.nodeTypes[item]

		if allNumbers && !tc.isSubtype(itemType, types.NumberType) {
			allNumbers = false
		}
		if allSame && !tc.typeEqual(itemType, firstType) {
			allSame = false
		}
	}

	switch {
	case allSame:
		tc.setNodeType(nodeID, types.MakeList(firstType))
	case allNumbers:
		tc.setNodeType(nodeID, types.MakeList(types.NumberType))
	default:
		tc.setNodeTypeID(nodeID, types.ListAnyType)
	}
	tc.checkExpected(nodeID, expected)
}

// typecheckTable types a table literal as a list of records built from the
// header names and the column types of its rows.
func (tc *Typechecker) typecheckTable(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	tc.typecheckNode(node.Header, types.TopType)
	for _, row := range node.Children {
		tc.typecheckNode(row, types.TopType)
	}

	header := tc.compiler.GetNode(node.Header)
	if header.Kind != ast.List {
		tc.setNodeTypeID(nodeID, types.ErrorType)
		return
	}

	fields := make([]types.RecordField, 0, len(header.Children))
	for _, nameNode := range header.Children {
		fieldType := types.AnyType
		// column type is the join of this column across all rows
		var columnTypes []types.TypeID
		for _, rowID := range node.Children {
			row := tc.compiler.GetNode(rowID)
			if row.Kind != ast.List {
				continue
			}
			for i, cell := range row.Children {
				if i < len(header.Children) && header.Children[i] == nameNode {
					columnTypes = append(columnTypes, tc.nodeTypes[cell])
				}
			}
		}
		if len(columnTypes) > 0 {
			fieldType = tc.createOneOf(columnTypes)
		}
		fields = append(fields, types.RecordField{Name: nameNode, Type: fieldType})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return bytes.Compare(tc.nameOf(fields[i].Name), tc.nameOf(fields[j].Name)) < 0
	})

	recordID := tc.store.PushRecord(fields)
	recordType := tc.store.Push(types.MakeRecord(recordID))
	tc.setNodeType(nodeID, types.MakeList(recordType))
	tc.checkExpected(nodeID, expected)
}

func (tc *Typechecker) typecheckRecord(nodeID ast.NodeID, pairs []ast.Pair, expected types.TypeID) {
	fields := make([]types.RecordField, 0, len(pairs))
	for _, pair := range pairs {
		tc.setNodeTypeID(pair.Key, types.StringType)
		tc.typecheckNode(pair.Value, types.TopType)
		fields = append(fields, types.RecordField{Name: pair.Key, Type: tc.nodeTypes[pair.Value]})
	}
	// the field vector invariant: sorted by the bytes of the field name
	sort.SliceStable(fields, func(i, j int) bool {
		return bytes.Compare(tc.nameOf(fields[i].Name), tc.nameOf(fields[j].Name)) < 0
	})

	recordID := tc.store.PushRecord(fields)
	tc.setNodeType(nodeID, types.MakeRecord(recordID))
	tc.checkExpected(nodeID, expected)
}

// typecheckRange conservatively types lhs..rhs: a list of numbers when both
// ends are numeric, a list of any otherwise.
func (tc *Typechecker) typecheckRange(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	tc.typecheckNode(node.Lhs, types.TopType)
	tc.typecheckNode(node.Rhs, types.TopType)

	if tc.isSubtype(tc.nodeTypes[node.Lhs], types.NumberType) &&
		tc.isSubtype(tc.nodeTypes[node.Rhs], types.NumberType) {
		tc.setNodeType(nodeID, types.MakeList(types.NumberType))
	} else {
		tc.setNodeTypeID(nodeID, types.ListAnyType)
	}
	tc.checkExpected(nodeID, expected)
}

// typecheckMemberAccess types target.field from the target's record type
// when the field is known, and stays at any otherwise.
func (tc *Typechecker) typecheckMemberAccess(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	tc.typecheckNode(node.Target, types.TopType)
	tc.setNodeTypeID(node.Field, types.StringType)

	result := types.AnyType
	targetType := tc.store.Get(tc.nodeTypes[node.Target])
	if targetType.Kind == types.KindRecord {
		fieldName := tc.nameOf(node.Field)
		for _, field := range tc.store.RecordFields(targetType.RecordID()) {
			if bytes.Equal(tc.nameOf(field.Name), fieldName) {
				result = field.Type
				break
			}
		}
	}
	tc.setNodeTypeID(nodeID, result)
	tc.checkExpected(nodeID, expected)
}

func (tc *Typechecker) typecheckIf(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	tc.typecheckNode(node.Cond, types.TopType)
	tc.typecheckNode(node.Then, expected)

	branchTypes := []types.TypeID{tc.nodeTypes[node.Then]}
	if node.Else.IsValid() {
		tc.typecheckNode(node.Else, expected)
		branchTypes = append(branchTypes, tc.nodeTypes[node.Else])
	} else {
		branchTypes = append(branchTypes, types.NoneType)
	}

	// the condition should always evaluate to a boolean
	if !tc.isSubtype(tc.nodeTypes[node.Cond], types.BoolType) {
		tc.error(diag.TypeBadCondition, node.Cond, "the condition for if branch is not a boolean")
		tc.setNodeTypeID(nodeID, types.ErrorType)
		return
	}

	tc.setNodeTypeID(nodeID, tc.createOneOf(branchTypes))
}

func (tc *Typechecker) typecheckMatch(nodeID ast.NodeID, node ast.Node, expected types.TypeID) {
	tc.typecheckNode(node.Target, types.TopType)
	targetType := tc.nodeTypes[node.Target]

	var outputs []types.TypeID
	for _, arm := range node.Pairs {
		tc.typecheckNode(arm.Key, types.TopType)
		tc.typecheckNode(arm.Value, expected)

		matchType := tc.nodeTypes[arm.Key]
		if tc.armMatches(targetType, matchType) {
			outputs = append(outputs, tc.nodeTypes[arm.Value])
		} else {
			tc.error(diag.TypeMismatch, arm.Key, "the match pattern cannot match the target")
			outputs = append(outputs, types.ErrorType)
		}
	}

	if len(outputs) == 0 {
		tc.setNodeTypeID(nodeID, types.NothingType)
		return
	}
	tc.setNodeTypeID(nodeID, tc.createOneOf(outputs))
}

// armMatches decides whether a match arm's pattern type can possibly match
// the target: either side any, a shared union member, or plain subtype
// compatibility in either direction.
func (tc *Typechecker) armMatches(target, pattern types.TypeID) bool {
	tt := tc.store.Get(target)
	pt := tc.store.Get(pattern)

	if tt.Kind == types.KindAny || pt.Kind == types.KindAny {
		return true
	}
	if tt.Kind == types.KindOneOf && pt.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(tt.OneOfID()) {
			for _, n := range tc.store.OneOfMembers(pt.OneOfID()) {
				if tc.typeEqual(m, n) {
					return true
				}
			}
		}
		return false
	}
	if tt.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(tt.OneOfID()) {
			if tc.typeEqual(m, pattern) {
				return true
			}
		}
		return false
	}
	if pt.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(pt.OneOfID()) {
			if tc.typeEqual(m, target) {
				return true
			}
		}
		return false
	}
	return tc.isSubtype(target, pattern) || tc.isSubtype(pattern, target)
}
