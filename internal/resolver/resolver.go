// Package resolver walks the AST top-down, maintaining a stack of lexical
// scope frames, and binds variables, type parameters and (possibly
// multi-word) command declarations to stable IDs.
package resolver

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/names"
)

// Resolver carries the in-progress binding state. The compiler is read-only
// during the pass; results merge back via Bindings once resolve completes.
type Resolver struct {
	compiler *compiler.Compiler

	// All scope frames ever entered, indexed by ScopeID.
	scopes []names.Frame
	// Stack of currently entered frames.
	scopeStack []names.ScopeID

	variables     []names.Variable
	varResolution map[ast.NodeID]names.VarID

	typeDecls      []names.TypeDecl
	typeResolution map[ast.NodeID]names.TypeDeclID

	decls          []names.Command
	declNodes      []ast.NodeID
	declResolution map[ast.NodeID]names.DeclID

	errors []diag.SourceError
}

// New creates a resolver over a parsed compiler arena.
func New(c *compiler.Compiler) *Resolver {
	return &Resolver{
		compiler:       c,
		varResolution:  make(map[ast.NodeID]names.VarID),
		typeResolution: make(map[ast.NodeID]names.TypeDeclID),
		declResolution: make(map[ast.NodeID]names.DeclID),
	}
}

// Resolve walks the AST starting from the root node (the last node parsed).
func (r *Resolver) Resolve() {
	if len(r.compiler.AstNodes) == 0 {
		return
	}
	last, err := safecast.Conv[uint32](len(r.compiler.AstNodes) - 1)
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	r.resolveNode(ast.NodeID(last))
}

// IntoBindings hands the results off for merging into the compiler.
func (r *Resolver) IntoBindings() names.Bindings {
	return names.Bindings{
		Scopes:         r.scopes,
		ScopeStack:     r.scopeStack,
		Variables:      r.variables,
		VarResolution:  r.varResolution,
		TypeDecls:      r.typeDecls,
		TypeResolution: r.typeResolution,
		Decls:          r.decls,
		DeclNodes:      r.declNodes,
		DeclResolution: r.declResolution,
	}
}

// Errors returns the diagnostics collected during resolution.
func (r *Resolver) Errors() []diag.SourceError {
	return r.errors
}

func (r *Resolver) resolveNode(nodeID ast.NodeID) {
	node := r.compiler.GetNode(nodeID)

	switch node.Kind {
	case ast.Variable:
		r.resolveVariable(nodeID)

	case ast.Call:
		r.resolveCall(nodeID, node.Children)

	case ast.Block:
		r.resolveBlock(nodeID, node.BlockID, noScope)

	case ast.Closure:
		// make sure the closure parameters and body share one scope frame
		closureScope := noScope
		if node.Params.IsValid() {
			r.enterScope(node.Body)
			r.resolveNode(node.Params)
			closureScope = r.exitScope()
		}

		body := r.compiler.GetNode(node.Body)
		if body.Kind != ast.Block {
			panic("internal error: closure's body is not a block")
		}
		r.resolveBlock(node.Body, body.BlockID, closureScope)

	case ast.Def:
		// define the command before the block to enable recursive calls
		r.defineDecl(node.Name, nodeID)

		// the def's type params, params and body share one scope frame
		r.enterScope(node.Body)
		if node.TypeParams.IsValid() {
			typeParams := r.compiler.GetNode(node.TypeParams)
			if typeParams.Kind != ast.Params {
				panic("internal error: expected type params")
			}
			for _, typeParamID := range typeParams.Children {
				r.defineTypeDecl(typeParamID, names.TypeDecl{Kind: names.TypeDeclParam, Node: typeParamID})
			}
		}
		r.resolveNode(node.Params)
		if node.InOut.IsValid() {
			r.resolveNode(node.InOut)
		}
		defScope := r.exitScope()

		body := r.compiler.GetNode(node.Body)
		if body.Kind != ast.Block {
			panic("internal error: command definition's body is not a block")
		}
		r.resolveBlock(node.Body, body.BlockID, defScope)

	case ast.Alias:
		r.defineDecl(node.Name, nodeID)

	case ast.Params:
		for _, paramID := range node.Children {
			param := r.compiler.GetNode(paramID)
			if param.Kind != ast.Param {
				panic("internal error: param is not a param")
			}
			r.defineVariable(param.Name, false)
			if param.Ty.IsValid() {
				r.resolveNode(param.Ty)
			}
		}

	case ast.Let:
		if node.Ty.IsValid() {
			r.resolveNode(node.Ty)
		}
		r.resolveNode(node.Init)
		r.defineVariable(node.Name, node.Flag)

	case ast.While:
		r.resolveNode(node.Cond)
		r.resolveNode(node.Body)

	case ast.For:
		// the loop variable and the body share one scope frame
		r.enterScope(node.Body)
		r.defineVariable(node.Var, false)
		forScope := r.exitScope()

		r.resolveNode(node.Seq)

		body := r.compiler.GetNode(node.Body)
		if body.Kind != ast.Block {
			panic("internal error: for's body is not a block")
		}
		r.resolveBlock(node.Body, body.BlockID, forScope)

	case ast.Loop:
		r.resolveNode(node.Body)

	case ast.BinaryOp:
		r.resolveNode(node.Lhs)
		r.resolveNode(node.Rhs)

	case ast.Range:
		r.resolveNode(node.Lhs)
		r.resolveNode(node.Rhs)

	case ast.List:
		for _, item := range node.Children {
			r.resolveNode(item)
		}

	case ast.Table:
		r.resolveNode(node.Header)
		for _, row := range node.Children {
			r.resolveNode(row)
		}

	case ast.Record:
		for _, pair := range node.Pairs {
			r.resolveNode(pair.Key)
			r.resolveNode(pair.Value)
		}

	case ast.MemberAccess:
		r.resolveNode(node.Target)
		r.resolveNode(node.Field)

	case ast.If:
		r.resolveNode(node.Cond)
		r.resolveNode(node.Then)
		if node.Else.IsValid() {
			r.resolveNode(node.Else)
		}

	case ast.Match:
		r.resolveNode(node.Target)
		for _, arm := range node.Pairs {
			r.resolveNode(arm.Key)
			r.resolveNode(arm.Value)
		}

	case ast.Statement:
		r.resolveNode(node.Target)

	case ast.Return:
		if node.Target.IsValid() {
			r.resolveNode(node.Target)
		}

	case ast.Type:
		r.resolveType(node.Name)
		if node.Args.IsValid() {
			r.resolveNode(node.Args)
		}

	case ast.RecordType:
		fields := r.compiler.GetNode(node.Fields)
		if fields.Kind != ast.Params {
			panic("internal error: expected params for record field types")
		}
		for _, fieldID := range fields.Children {
			if field := r.compiler.GetNode(fieldID); field.Kind == ast.Param && field.Ty.IsValid() {
				r.resolveNode(field.Ty)
			}
		}

	case ast.TypeArgs:
		for _, arg := range node.Children {
			r.resolveNode(arg)
		}

	case ast.InOutTypes:
		for _, pair := range node.Children {
			r.resolveNode(pair)
		}

	case ast.InOutType:
		r.resolveNode(node.Lhs)
		r.resolveNode(node.Rhs)

	default:
		// remaining variants hold no resolvable names
	}
}
