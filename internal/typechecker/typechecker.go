// Package typechecker walks the AST in bidirectional fashion, producing one
// type per node. Checking against an expected type feeds subtype constraints
// into inference variables with independent lower/upper bounds; once the walk
// completes every variable collapses to its solved bound, so no Var type
// stays reachable from the node types.
package typechecker

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/names"
	"github.com/nushell/new-nu-parser/internal/types"
)

// declSig is the callable surface of a declaration, recorded when its def is
// checked and replayed at each call site with generics freshly instantiated.
type declSig struct {
	params     []ast.NodeID
	paramTypes []types.TypeID
	typeParams []names.TypeDeclID
}

// Typechecker carries the in-progress typing state. The compiler is
// read-only during the pass; results merge back via IntoTypes.
type Typechecker struct {
	compiler *compiler.Compiler
	store    *types.Store

	// One entry per AST node, parallel to compiler.AstNodes.
	nodeTypes []types.TypeID
	// Type of each variable, indexed by names.VarID.
	variableTypes []types.TypeID
	// Input/output pairs per declaration, indexed by names.DeclID.
	declTypes [][]types.InOutType
	declSigs  []declSig

	errors []diag.SourceError
}

// New creates a typechecker over a resolved compiler arena.
func New(c *compiler.Compiler) *Typechecker {
	nodeTypes := make([]types.TypeID, len(c.AstNodes))
	for i := range nodeTypes {
		nodeTypes[i] = types.UnknownType
	}
	variableTypes := make([]types.TypeID, len(c.Variables))
	for i := range variableTypes {
		variableTypes[i] = types.UnknownType
	}
	declTypes := make([][]types.InOutType, len(c.Decls))
	for i := range declTypes {
		declTypes[i] = []types.InOutType{{In: types.AnyType, Out: types.AnyType}}
	}
	return &Typechecker{
		compiler:      c,
		store:         types.NewStore(),
		nodeTypes:     nodeTypes,
		variableTypes: variableTypes,
		declTypes:     declTypes,
		declSigs:      make([]declSig, len(c.Decls)),
	}
}

// Typecheck checks the whole program starting from the root block (the last
// node parsed) against the neutral expectation, then collapses every type
// variable in place.
func (tc *Typechecker) Typecheck() {
	if len(tc.compiler.AstNodes) == 0 {
		return
	}
	last, err := safecast.Conv[uint32](len(tc.compiler.AstNodes) - 1)
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	tc.typecheckNode(ast.NodeID(last), types.TopType)
	tc.solveTypeVars()
}

// IntoTypes hands the results off for merging into the compiler.
func (tc *Typechecker) IntoTypes() types.Checked {
	return types.Checked{
		Store:         tc.store,
		NodeTypes:     tc.nodeTypes,
		VariableTypes: tc.variableTypes,
		DeclTypes:     tc.declTypes,
	}
}

// Errors returns the diagnostics collected during checking.
func (tc *Typechecker) Errors() []diag.SourceError {
	return tc.errors
}

// TypeIDOf returns the checked type of a node.
func (tc *Typechecker) TypeIDOf(nodeID ast.NodeID) types.TypeID {
	return tc.nodeTypes[nodeID]
}

func (tc *Typechecker) typeOf(nodeID ast.NodeID) types.Type {
	return tc.store.Get(tc.nodeTypes[nodeID])
}

func (tc *Typechecker) setNodeTypeID(nodeID ast.NodeID, typeID types.TypeID) {
	tc.nodeTypes[nodeID] = typeID
}

func (tc *Typechecker) setNodeType(nodeID ast.NodeID, t types.Type) {
	tc.nodeTypes[nodeID] = tc.store.Push(t)
}

func (tc *Typechecker) error(code diag.Code, nodeID ast.NodeID, msg string) {
	tc.errors = append(tc.errors, diag.Error(code, nodeID, msg))
}

func (tc *Typechecker) nameOf(nodeID ast.NodeID) []byte {
	return tc.compiler.GetSpanContents(nodeID)
}

func (tc *Typechecker) typeString(id types.TypeID) string {
	return tc.store.TypeToString(id, tc.nameOf)
}

// checkExpected asserts a node's synthesized type against the expectation,
// tightening any inference variables on the way. On mismatch the node's type
// becomes Error.
func (tc *Typechecker) checkExpected(nodeID ast.NodeID, expected types.TypeID) {
	actual := tc.nodeTypes[nodeID]
	if tc.constrainSubtype(actual, expected) {
		return
	}
	tc.error(diag.TypeMismatch, nodeID,
		fmt.Sprintf("type mismatch: expected %s, found %s",
			tc.typeString(expected), tc.typeString(actual)))
	tc.setNodeTypeID(nodeID, types.ErrorType)
}

// typecheckNode synthesizes the node's type and checks it against expected.
// Statements ignore the expectation and produce the none type.
func (tc *Typechecker) typecheckNode(nodeID ast.NodeID, expected types.TypeID) {
	node := tc.compiler.GetNode(nodeID)

	switch node.Kind {
	case ast.Null:
		tc.setNodeTypeID(nodeID, types.NothingType)
		tc.checkExpected(nodeID, expected)
	case ast.Int:
		tc.setNodeTypeID(nodeID, types.IntType)
		tc.checkExpected(nodeID, expected)
	case ast.Float:
		tc.setNodeTypeID(nodeID, types.FloatType)
		tc.checkExpected(nodeID, expected)
	case ast.True, ast.False:
		tc.setNodeTypeID(nodeID, types.BoolType)
		tc.checkExpected(nodeID, expected)
	case ast.String:
		tc.setNodeTypeID(nodeID, types.StringType)
		tc.checkExpected(nodeID, expected)

	case ast.Variable:
		varID, ok := tc.compiler.VarResolution[nodeID]
		if !ok {
			// resolution already reported the missing variable
			tc.setNodeTypeID(nodeID, types.ErrorType)
			return
		}
		tc.setNodeTypeID(nodeID, tc.variableTypes[varID])
		tc.checkExpected(nodeID, expected)

	case ast.List:
		tc.typecheckList(nodeID, node.Children, expected)

	case ast.Table:
		tc.typecheckTable(nodeID, node, expected)

	case ast.Record:
		tc.typecheckRecord(nodeID, node.Pairs, expected)

	case ast.Range:
		tc.typecheckRange(nodeID, node, expected)

	case ast.MemberAccess:
		tc.typecheckMemberAccess(nodeID, node, expected)

	case ast.Block:
		tc.typecheckBlock(nodeID, node.BlockID, expected)

	case ast.Closure:
		if node.Params.IsValid() {
			tc.typecheckNode(node.Params, types.TopType)
		}
		tc.typecheckNode(node.Body, types.TopType)
		tc.setNodeTypeID(nodeID, types.ClosureType)
		tc.checkExpected(nodeID, expected)

	case ast.BinaryOp:
		tc.typecheckBinaryOp(nodeID, node, expected)

	case ast.If:
		tc.typecheckIf(nodeID, node, expected)

	case ast.Match:
		tc.typecheckMatch(nodeID, node, expected)

	case ast.Call:
		tc.typecheckCall(nodeID, node.Children, expected)

	case ast.Let:
		tc.typecheckLet(nodeID, node)

	case ast.Def:
		tc.typecheckDef(nodeID, node)

	case ast.Alias:
		tc.typecheckAlias(nodeID, node)

	case ast.While:
		tc.typecheckWhile(nodeID, node)

	case ast.For:
		tc.typecheckFor(nodeID, node)

	case ast.Loop:
		tc.typecheckNode(node.Body, types.TopType)
		if tc.nodeTypes[node.Body] != types.NoneType {
			tc.error(diag.TypeLoopReturns, node.Body, "blocks in looping constructs cannot return values")
		}
		tc.setNodeTypeID(nodeID, types.NoneType)

	case ast.Return:
		// A return inside a closure checked against a narrower expectation
		// still checks its value against any, conservatively.
		if node.Target.IsValid() {
			tc.typecheckNode(node.Target, types.AnyType)
		}
		tc.setNodeTypeID(nodeID, types.NoneType)

	case ast.Break, ast.Continue:
		tc.setNodeTypeID(nodeID, types.NoneType)

	case ast.Statement:
		tc.typecheckNode(node.Target, types.TopType)
		tc.setNodeTypeID(nodeID, types.NoneType)

	case ast.Params:
		for _, param := range node.Children {
			tc.typecheckNode(param, types.TopType)
		}
		// params are not supposed to be evaluated
		tc.setNodeTypeID(nodeID, types.ForbiddenType)

	case ast.Param:
		tc.typecheckParam(nodeID, node)

	case ast.Type:
		// the name inside a type annotation is structural, not a value
		tc.setNodeTypeID(node.Name, types.ForbiddenType)
		tc.setNodeTypeID(nodeID, tc.typecheckType(node.Name, node.Args, node.Flag))

	case ast.RecordType:
		tc.typecheckRecordType(nodeID, node)

	case ast.TypeArgs:
		for _, arg := range node.Children {
			tc.typecheckNode(arg, types.TopType)
		}
		tc.setNodeTypeID(nodeID, types.ForbiddenType)

	case ast.InOutTypes:
		for _, pair := range node.Children {
			tc.typecheckNode(pair, types.TopType)
		}
		tc.setNodeTypeID(nodeID, types.ForbiddenType)

	case ast.InOutType:
		tc.typecheckNode(node.Lhs, types.TopType)
		tc.typecheckNode(node.Rhs, types.TopType)
		tc.setNodeTypeID(nodeID, types.ForbiddenType)

	case ast.Name:
		// bare names only appear as call parts and record keys; callers
		// assign their type directly
		tc.setNodeTypeID(nodeID, types.StringType)

	case ast.Garbage:
		// the parse error was already reported
		tc.setNodeTypeID(nodeID, types.ErrorType)

	default:
		tc.error(diag.TypeUnsupportedNode, nodeID,
			fmt.Sprintf("unsupported ast node '%s' in typechecker", node.Kind))
		tc.setNodeTypeID(nodeID, types.UnknownType)
	}
}

// typecheckBlock checks every statement against the neutral expectation and
// the final expression against the caller's. A block's type is its last
// node's type; an empty block has none.
func (tc *Typechecker) typecheckBlock(nodeID ast.NodeID, blockID ast.BlockID, expected types.TypeID) {
	block := tc.compiler.Blocks[blockID]

	if len(block.Nodes) == 0 {
		tc.setNodeTypeID(nodeID, types.NoneType)
		return
	}

	for i, inner := range block.Nodes {
		if i == len(block.Nodes)-1 {
			tc.typecheckNode(inner, expected)
		} else {
			tc.typecheckNode(inner, types.TopType)
		}
	}
	tc.setNodeTypeID(nodeID, tc.nodeTypes[block.Nodes[len(block.Nodes)-1]])
}
