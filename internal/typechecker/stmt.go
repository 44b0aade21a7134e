package typechecker

import (
	"bytes"
	"sort"
	"strings"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/types"
)

func (tc *Typechecker) typecheckLet(nodeID ast.NodeID, node ast.Node) {
	declared := types.NoTypeExpectation
	if node.Ty.IsValid() {
		tc.typecheckNode(node.Ty, types.TopType)
		declared = tc.nodeTypes[node.Ty]
	}

	if declared != types.NoTypeExpectation {
		tc.typecheckNode(node.Init, declared)
	} else {
		tc.typecheckNode(node.Init, types.TopType)
	}

	varID, ok := tc.compiler.VarResolution[node.Name]
	if !ok {
		panic("internal error: missing declared variable")
	}

	typeID := tc.nodeTypes[node.Init]
	if declared != types.NoTypeExpectation {
		typeID = declared
	}

	tc.variableTypes[varID] = typeID
	tc.setNodeTypeID(node.Name, typeID)
	tc.setNodeTypeID(nodeID, types.NoneType)
}

func (tc *Typechecker) typecheckParam(nodeID ast.NodeID, node ast.Node) {
	varID, ok := tc.compiler.VarResolution[node.Name]
	if !ok {
		panic("internal error: missing resolved parameter variable")
	}

	if node.Ty.IsValid() {
		tc.typecheckNode(node.Ty, types.TopType)
		tyID := tc.nodeTypes[node.Ty]
		tc.variableTypes[varID] = tyID
		tc.setNodeTypeID(node.Name, tyID)
		tc.setNodeTypeID(nodeID, tyID)
	} else {
		tc.variableTypes[varID] = types.AnyType
		tc.setNodeTypeID(node.Name, types.AnyType)
		tc.setNodeTypeID(nodeID, types.AnyType)
	}
}

func (tc *Typechecker) typecheckRecordType(nodeID ast.NodeID, node ast.Node) {
	fieldsNode := tc.compiler.GetNode(node.Fields)
	if fieldsNode.Kind != ast.Params {
		panic("internal error: record fields aren't Params")
	}

	// the field list reuses the Params grammar but declares no variables
	tc.setNodeTypeID(node.Fields, types.ForbiddenType)

	fields := make([]types.RecordField, 0, len(fieldsNode.Children))
	for _, fieldID := range fieldsNode.Children {
		field := tc.compiler.GetNode(fieldID)
		if field.Kind != ast.Param {
			panic("internal error: record field isn't Param")
		}
		fieldType := types.AnyType
		if field.Ty.IsValid() {
			tc.typecheckNode(field.Ty, types.TopType)
			fieldType = tc.nodeTypes[field.Ty]
		}
		tc.setNodeTypeID(fieldID, fieldType)
		tc.setNodeTypeID(field.Name, types.ForbiddenType)
		fields = append(fields, types.RecordField{Name: field.Name, Type: fieldType})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return bytes.Compare(tc.nameOf(fields[i].Name), tc.nameOf(fields[j].Name)) < 0
	})

	recordID := tc.store.PushRecord(fields)
	tc.setNodeType(nodeID, types.MakeRecord(recordID))
}

// typecheckType resolves a type annotation to a TypeID. Names bound to type
// declarations become Refs; primitive names map to the singletons; anything
// else stays unknown (the resolver has already reported it).
func (tc *Typechecker) typecheckType(nameID, argsID ast.NodeID, optional bool) types.TypeID {
	_ = optional // optional types are accepted but not yet refined

	if declID, ok := tc.compiler.TypeResolution[nameID]; ok {
		return tc.store.Push(types.MakeRef(declID))
	}

	name := tc.nameOf(nameID)
	switch string(name) {
	case "any":
		return types.AnyType
	case "list":
		if !argsID.IsValid() {
			return types.ListAnyType
		}
		tc.typecheckNode(argsID, types.TopType)
		args := tc.compiler.GetNode(argsID)
		if args.Kind != ast.TypeArgs {
			panic("internal error: type args aren't TypeArgs")
		}
		switch len(args.Children) {
		case 1:
			return tc.store.Push(types.MakeList(tc.nodeTypes[args.Children[0]]))
		case 0:
			tc.error(diag.TypeBadTypeArgs, argsID, "list must have one type argument")
			return tc.store.Push(types.MakeList(types.UnknownType))
		default:
			tc.error(diag.TypeBadTypeArgs, argsID, "list must have only one type argument")
			return tc.store.Push(types.MakeList(types.UnknownType))
		}
	case "bool":
		return types.BoolType
	case "closure":
		return types.ClosureType
	case "float":
		return types.FloatType
	case "int":
		return types.IntType
	case "nothing":
		return types.NothingType
	case "number":
		return types.NumberType
	case "string":
		return types.StringType
	case "binary":
		return types.BinaryType
	default:
		return types.UnknownType
	}
}

func (tc *Typechecker) typecheckDef(nodeID ast.NodeID, node ast.Node) {
	// collect the declared input/output pairs
	var inOut []types.InOutType
	if node.InOut.IsValid() {
		inOutNode := tc.compiler.GetNode(node.InOut)
		if inOutNode.Kind != ast.InOutTypes {
			panic("internal error: in/out types aren't InOutTypes")
		}
		for _, pairID := range inOutNode.Children {
			pair := tc.compiler.GetNode(pairID)
			if pair.Kind != ast.InOutType {
				// a parse error landed here; skip the garbage
				continue
			}
			inTy := tc.compiler.GetNode(pair.Lhs)
			if inTy.Kind != ast.Type && inTy.Kind != ast.RecordType {
				continue
			}
			tc.typecheckNode(pair.Lhs, types.TopType)
			tc.typecheckNode(pair.Rhs, types.TopType)
			tc.setNodeTypeID(pairID, types.ForbiddenType)
			inOut = append(inOut, types.InOutType{
				In:  tc.nodeTypes[pair.Lhs],
				Out: tc.nodeTypes[pair.Rhs],
			})
		}
		tc.setNodeTypeID(node.InOut, types.ForbiddenType)
	}

	// generic type parameters introduced by the signature
	var typeParams []ast.NodeID
	if node.TypeParams.IsValid() {
		tps := tc.compiler.GetNode(node.TypeParams)
		if tps.Kind != ast.Params {
			panic("internal error: expected type params")
		}
		typeParams = tps.Children
		tc.setNodeTypeID(node.TypeParams, types.ForbiddenType)
		for _, tpID := range typeParams {
			// type parameters are binders, nothing evaluates them
			tc.setNodeTypeID(tpID, types.ForbiddenType)
			if tp := tc.compiler.GetNode(tpID); tp.Kind == ast.Type {
				tc.setNodeTypeID(tp.Name, types.ForbiddenType)
			}
		}
	}

	tc.setNodeTypeID(node.Name, types.StringType)
	tc.typecheckNode(node.Params, types.TopType)
	tc.typecheckNode(node.Body, types.TopType)
	tc.setNodeTypeID(nodeID, types.NoneType)

	declID, ok := tc.compiler.DeclResolution[node.Name]
	if !ok {
		panic("internal error: missing declared decl")
	}

	if len(inOut) == 0 {
		tc.declTypes[declID] = []types.InOutType{{In: types.AnyType, Out: tc.nodeTypes[node.Body]}}
	} else {
		tc.declTypes[declID] = inOut
	}

	// record the callable signature for call sites
	sig := declSig{}
	paramsNode := tc.compiler.GetNode(node.Params)
	for _, paramID := range paramsNode.Children {
		sig.params = append(sig.params, paramID)
		sig.paramTypes = append(sig.paramTypes, tc.nodeTypes[paramID])
	}
	for _, tpID := range typeParams {
		if tdID, ok := tc.compiler.TypeResolution[tpID]; ok {
			sig.typeParams = append(sig.typeParams, tdID)
		}
	}
	tc.declSigs[declID] = sig
}

func (tc *Typechecker) typecheckAlias(nodeID ast.NodeID, node ast.Node) {
	tc.setNodeTypeID(nodeID, types.NoneType)
	tc.setNodeTypeID(node.Name, types.StringType)
	tc.setNodeTypeID(node.Old, types.StringType)

	declIDNew, ok := tc.compiler.DeclResolution[node.Name]
	if !ok {
		panic("internal error: missing declared new name for alias")
	}

	if declIDOld, ok := tc.compiler.DeclResolution[node.Old]; ok {
		tc.declTypes[declIDNew] = tc.declTypes[declIDOld]
		tc.declSigs[declIDNew] = tc.declSigs[declIDOld]
	} else {
		tc.declTypes[declIDNew] = []types.InOutType{{In: types.AnyType, Out: types.ByteStreamType}}
	}
}

func (tc *Typechecker) typecheckWhile(nodeID ast.NodeID, node ast.Node) {
	tc.typecheckNode(node.Body, types.TopType)
	if tc.nodeTypes[node.Body] != types.NoneType {
		tc.error(diag.TypeLoopReturns, node.Body, "blocks in looping constructs cannot return values")
	}

	tc.typecheckNode(node.Cond, types.TopType)

	if !tc.isSubtype(tc.nodeTypes[node.Cond], types.BoolType) {
		tc.error(diag.TypeBadCondition, node.Cond, "the condition for while loop is not a boolean")
		tc.setNodeTypeID(nodeID, types.ErrorType)
		return
	}
	tc.setNodeTypeID(nodeID, tc.nodeTypes[node.Body])
}

func (tc *Typechecker) typecheckFor(nodeID ast.NodeID, node ast.Node) {
	tc.typecheckNode(node.Seq, types.TopType)

	varID, ok := tc.compiler.VarResolution[node.Var]
	if !ok {
		panic("internal error: missing resolved variable")
	}

	failed := false
	if seqType := tc.store.Get(tc.nodeTypes[node.Seq]); seqType.Kind == types.KindList {
		tc.variableTypes[varID] = seqType.Elem
		tc.setNodeTypeID(node.Var, seqType.Elem)
	} else {
		tc.variableTypes[varID] = types.AnyType
		tc.setNodeTypeID(node.Var, types.ErrorType)
		tc.error(diag.TypeBadForRange, node.Seq, "for loop range is not a list")
		failed = true
	}

	tc.typecheckNode(node.Body, types.TopType)
	if tc.nodeTypes[node.Body] != types.NoneType {
		tc.error(diag.TypeLoopReturns, node.Body, "blocks in looping constructs cannot return values")
	}

	if failed {
		tc.setNodeTypeID(nodeID, types.ErrorType)
	} else {
		tc.setNodeTypeID(nodeID, types.NoneType)
	}
}

// typecheckCall types a command invocation. Calls bound to a declaration
// check their arguments pointwise against the declared parameter types, with
// each generic type parameter replaced by a fresh inference variable; the
// result is the union of the declared output types under the same
// substitution. Unbound calls are external: bareword arguments become
// strings, everything else is inferred, and the result is a byte stream.
func (tc *Typechecker) typecheckCall(nodeID ast.NodeID, parts []ast.NodeID, expected types.TypeID) {
	declID, resolved := tc.compiler.DeclResolution[nodeID]
	if !resolved {
		// external call
		tc.setNodeTypeID(nodeID, types.ByteStreamType)
		tc.setNodeTypeID(parts[0], types.StringType)
		for _, part := range parts[1:] {
			tc.typecheckCallArg(part, types.TopType)
		}
		return
	}

	numNameParts := len(strings.Split(tc.compiler.Decls[declID].Name(), " "))
	if numNameParts > len(parts) {
		numNameParts = len(parts)
	}
	for _, part := range parts[:numNameParts] {
		tc.setNodeTypeID(part, types.StringType)
	}

	sig := tc.declSigs[declID]

	// fresh inference variables for the def's generic type parameters
	subst := make(map[uint32]types.TypeID, len(sig.typeParams))
	for _, tp := range sig.typeParams {
		varID := tc.store.PushVar(types.BottomType, types.TopType)
		subst[uint32(tp)] = tc.store.Push(types.MakeVar(varID))
	}

	args := parts[numNameParts:]
	for i, arg := range args {
		if i < len(sig.paramTypes) {
			paramType := tc.substitute(sig.paramTypes[i], subst)
			tc.typecheckCallArg(arg, paramType)
		} else {
			tc.typecheckCallArg(arg, types.TopType)
		}
	}
	if len(args) > len(sig.paramTypes) && len(sig.params) > 0 {
		tc.error(diag.TypeMismatch, nodeID, "too many arguments in call")
	}

	// result: the union of declared output types under the substitution
	outs := make([]types.TypeID, 0, len(tc.declTypes[declID]))
	for _, pair := range tc.declTypes[declID] {
		outs = append(outs, tc.substitute(pair.Out, subst))
	}
	if len(outs) == 0 {
		tc.setNodeTypeID(nodeID, types.AnyType)
	} else {
		tc.setNodeTypeID(nodeID, tc.createOneOf(outs))
	}
	tc.checkExpected(nodeID, expected)
}

// typecheckCallArg checks one call argument. Bareword arguments were parsed
// as Name nodes and simply denote strings.
func (tc *Typechecker) typecheckCallArg(arg ast.NodeID, expected types.TypeID) {
	if tc.compiler.GetNode(arg).Kind == ast.Name {
		tc.setNodeTypeID(arg, types.StringType)
		tc.checkExpected(arg, expected)
		return
	}
	tc.typecheckNode(arg, expected)
}
