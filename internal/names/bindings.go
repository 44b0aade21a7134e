package names

import "github.com/nushell/new-nu-parser/internal/ast"

// Bindings is everything the resolver hands back to the compiler once the
// pass completes. Definition nodes count as the first use of their own name,
// so every defining node already appears in the resolution maps.
type Bindings struct {
	// All scope frames ever entered, indexed by ScopeID.
	Scopes []Frame
	// Stack of currently entered frames; empty after a balanced resolve.
	ScopeStack []ScopeID
	// Variables indexed by VarID.
	Variables []Variable
	// Variable name node -> VarID, for definitions and uses alike.
	VarResolution map[ast.NodeID]VarID
	// Type declarations indexed by TypeDeclID.
	TypeDecls []TypeDecl
	// Type name node -> TypeDeclID.
	TypeResolution map[ast.NodeID]TypeDeclID
	// Declarations indexed by DeclID.
	Decls []Command
	// Node that introduced each declaration, indexed by DeclID.
	DeclNodes []ast.NodeID
	// Call or decl-name node -> DeclID.
	DeclResolution map[ast.NodeID]DeclID
}

// NewBindings allocates empty binding tables.
func NewBindings() Bindings {
	return Bindings{
		VarResolution:  make(map[ast.NodeID]VarID),
		TypeResolution: make(map[ast.NodeID]TypeDeclID),
		DeclResolution: make(map[ast.NodeID]DeclID),
	}
}
