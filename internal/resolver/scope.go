package resolver

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/diag"
	"github.com/nushell/new-nu-parser/internal/names"
)

const noScope = names.ScopeID(^uint32(0))

// enterScope appends a fresh Scope frame and pushes it onto the stack.
func (r *Resolver) enterScope(nodeID ast.NodeID) {
	id, err := safecast.Conv[uint32](len(r.scopes))
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	r.scopes = append(r.scopes, names.NewFrame(names.FrameScope, nodeID))
	r.scopeStack = append(r.scopeStack, names.ScopeID(id))
}

// enterExistingScope re-pushes a previously captured frame, so a def's or
// closure's parameters and body share bindings.
func (r *Resolver) enterExistingScope(scopeID names.ScopeID) {
	r.scopeStack = append(r.scopeStack, scopeID)
}

// exitScope pops frames down to and including the innermost Scope frame and
// returns its ID. Overlays and light frames above it go with it.
func (r *Resolver) exitScope() names.ScopeID {
	for pos := len(r.scopeStack) - 1; pos >= 0; pos-- {
		scopeID := r.scopeStack[pos]
		if r.scopes[scopeID].FrameType == names.FrameScope {
			r.scopeStack = r.scopeStack[:pos]
			return scopeID
		}
	}
	panic("internal error: no scope frame to exit")
}

// resolveBlock resolves a block's statements inside either a fresh frame or
// a reused one captured earlier (a def or closure signature scope).
func (r *Resolver) resolveBlock(nodeID ast.NodeID, blockID ast.BlockID, reusedScope names.ScopeID) {
	block := r.compiler.Blocks[blockID]

	if reusedScope != noScope {
		r.enterExistingScope(reusedScope)
	} else {
		r.enterScope(nodeID)
	}

	for _, inner := range block.Nodes {
		r.resolveNode(inner)
	}
	r.exitScope()
}

func (r *Resolver) currentFrame() *names.Frame {
	if len(r.scopeStack) == 0 {
		panic("internal error: missing scope frame")
	}
	return &r.scopes[r.scopeStack[len(r.scopeStack)-1]]
}

// defineVariable enters (name -> defining node) into the current frame. The
// definition of a variable also counts as its first use, so the defining
// node lands in varResolution immediately.
func (r *Resolver) defineVariable(varNameID ast.NodeID, isMutable bool) {
	varName := string(trimVarName(r.compiler.GetSpanContents(varNameID)))

	r.currentFrame().Variables[varName] = varNameID

	r.variables = append(r.variables, names.Variable{IsMutable: isMutable})
	id, err := safecast.Conv[uint32](len(r.variables) - 1)
	if err != nil {
		panic(fmt.Errorf("variable arena overflow: %w", err))
	}
	r.varResolution[varNameID] = names.VarID(id)
}

// defineTypeDecl mirrors defineVariable for type parameters.
func (r *Resolver) defineTypeDecl(typeNameID ast.NodeID, typeDecl names.TypeDecl) {
	typeName := string(r.compiler.GetSpanContents(typeNameID))

	r.currentFrame().TypeDecls[typeName] = typeNameID

	r.typeDecls = append(r.typeDecls, typeDecl)
	id, err := safecast.Conv[uint32](len(r.typeDecls) - 1)
	if err != nil {
		panic(fmt.Errorf("type decl arena overflow: %w", err))
	}
	r.typeResolution[typeNameID] = names.TypeDeclID(id)
}

// defineDecl introduces a command or alias, stripping surrounding quotes or
// backticks from the name.
func (r *Resolver) defineDecl(declNameID, declNodeID ast.NodeID) {
	declName := string(trimDeclName(r.compiler.GetSpanContents(declNameID)))

	r.currentFrame().Decls[declName] = declNameID

	r.decls = append(r.decls, names.NewDeclaration(declName))
	r.declNodes = append(r.declNodes, declNodeID)

	id, err := safecast.Conv[uint32](len(r.decls) - 1)
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	r.declResolution[declNameID] = names.DeclID(id)
}

// resolveVariable binds a variable use to its definition, innermost frame
// first.
func (r *Resolver) resolveVariable(unboundID ast.NodeID) {
	varName := trimVarName(r.compiler.GetSpanContents(unboundID))

	if nodeID, ok := r.findVariable(varName); ok {
		varID, ok := r.varResolution[nodeID]
		if !ok {
			panic("internal error: missing resolved variable")
		}
		r.varResolution[unboundID] = varID
		return
	}

	r.errors = append(r.errors,
		diag.Errorf(diag.ResUndefinedVariable, unboundID, "variable `%s` not found", varName))
}

// Primitive type names resolve without a declaration.
var primitiveTypeNames = [][]byte{
	[]byte("any"), []byte("binary"), []byte("bool"), []byte("closure"),
	[]byte("float"), []byte("int"), []byte("list"), []byte("nothing"),
	[]byte("number"), []byte("string"),
}

// resolveType binds a type-name use to a type declaration, short-circuiting
// on the built-in primitive names.
func (r *Resolver) resolveType(unboundID ast.NodeID) {
	typeName := r.compiler.GetSpanContents(unboundID)

	for _, prim := range primitiveTypeNames {
		if bytes.Equal(typeName, prim) {
			return
		}
	}

	if nodeID, ok := r.findType(typeName); ok {
		typeID, ok := r.typeResolution[nodeID]
		if !ok {
			panic("internal error: missing resolved type")
		}
		r.typeResolution[unboundID] = typeID
		return
	}

	r.errors = append(r.errors,
		diag.Errorf(diag.ResUndefinedType, unboundID, "type `%s` not found", typeName))
}

// resolveCall binds a call to the longest declared prefix of its leading
// Name parts, concatenating raw source bytes (so multi-word names keep their
// original spacing). Parts after the matched prefix resolve as arguments;
// calls with no matching decl are external.
func (r *Resolver) resolveCall(unboundID ast.NodeID, parts []ast.NodeID) {
	maxNameParts := 0
	for _, part := range parts {
		if r.compiler.GetNode(part).Kind != ast.Name {
			break
		}
		maxNameParts++
	}
	if maxNameParts == 0 {
		panic("internal error: call does not have any name")
	}

	firstStart := r.compiler.GetSpan(parts[0]).Start

	for n := maxNameParts - 1; n >= 0; n-- {
		lastEnd := r.compiler.GetSpan(parts[n]).End
		name := r.compiler.GetSpanContentsRange(firstStart, lastEnd)

		if nodeID, ok := r.findDecl(name); ok {
			declID, ok := r.declResolution[nodeID]
			if !ok {
				panic("internal error: missing resolved decl")
			}
			r.declResolution[unboundID] = declID
			break
		}
	}

	for _, part := range parts[maxNameParts:] {
		r.resolveNode(part)
	}
}

func (r *Resolver) findVariable(name []byte) (ast.NodeID, bool) {
	for i := len(r.scopeStack) - 1; i >= 0; i-- {
		if id, ok := r.scopes[r.scopeStack[i]].Variables[string(name)]; ok {
			return id, true
		}
	}
	return ast.NoNodeID, false
}

func (r *Resolver) findType(name []byte) (ast.NodeID, bool) {
	for i := len(r.scopeStack) - 1; i >= 0; i-- {
		if id, ok := r.scopes[r.scopeStack[i]].TypeDecls[string(name)]; ok {
			return id, true
		}
	}
	return ast.NoNodeID, false
}

func (r *Resolver) findDecl(name []byte) (ast.NodeID, bool) {
	for i := len(r.scopeStack) - 1; i >= 0; i-- {
		if id, ok := r.scopes[r.scopeStack[i]].Decls[string(name)]; ok {
			return id, true
		}
	}
	return ast.NoNodeID, false
}

// trimVarName strips the leading '$' of a variable name.
func trimVarName(name []byte) []byte {
	if len(name) > 1 && name[0] == '$' {
		return name[1:]
	}
	return name
}

// trimDeclName strips matching surrounding quotes or backticks.
func trimDeclName(name []byte) []byte {
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if (first == '\'' && last == '\'') ||
			(first == '"' && last == '"') ||
			(first == '`' && last == '`') {
			return name[1 : len(name)-1]
		}
	}
	return name
}
