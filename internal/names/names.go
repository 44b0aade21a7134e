// Package names holds the data model produced by name resolution: scope
// frames, variables, type declarations and command declarations. The resolver
// builds these and the compiler stores them after the pass merges back, so
// the package stays free of both to avoid an import cycle.
package names

import "github.com/nushell/new-nu-parser/internal/ast"

// VarID indexes the variables arena.
type VarID uint32

// TypeDeclID indexes the type declarations arena.
type TypeDeclID uint32

// DeclID indexes the command declarations arena.
type DeclID uint32

// ScopeID indexes the permanent vector of all frames ever pushed.
type ScopeID uint32

// Variable is a named binding introduced by let/mut, a parameter, or a for
// loop. Its type lives in the typechecker's side table, keyed by VarID.
type Variable struct {
	IsMutable bool
}

// TypeDeclKind enumerates the kinds of type declarations.
type TypeDeclKind uint8

const (
	// TypeDeclParam is a type parameter introduced by a command signature.
	// Other kinds (aliases, user types) may come later.
	TypeDeclParam TypeDeclKind = iota
)

// TypeDecl is a named type introduced into scope.
type TypeDecl struct {
	Kind TypeDeclKind
	Node ast.NodeID // the introducing name node
}

// Command is the role shared by everything callable by name. Represented as
// an interface so new command kinds only add an implementation.
type Command interface {
	Name() string
}

// Declaration is a user-defined command or alias with its (possibly
// multi-word) name.
type Declaration struct {
	name string
}

// NewDeclaration builds a declaration from its source name.
func NewDeclaration(name string) *Declaration {
	return &Declaration{name: name}
}

// Name returns the declaration's name.
func (d *Declaration) Name() string { return d.name }

// FrameType distinguishes the kinds of scope frames.
type FrameType uint8

const (
	// FrameScope is the default frame marking the scope of a block or closure.
	FrameScope FrameType = iota
	// FrameOverlay is an immutable frame brought in by an overlay.
	FrameOverlay
	// FrameLight is a mutable frame inserted after activating an overlay so
	// the overlay frame itself is never mutated.
	FrameLight
)

func (t FrameType) String() string {
	switch t {
	case FrameScope:
		return "Scope"
	case FrameOverlay:
		return "Overlay"
	case FrameLight:
		return "Light"
	default:
		return "Invalid"
	}
}

// Frame is one level of the name-resolution stack. Names map to the node
// that defined them.
type Frame struct {
	FrameType FrameType
	Variables map[string]ast.NodeID
	TypeDecls map[string]ast.NodeID
	Decls     map[string]ast.NodeID
	// Node that introduced the frame (a block or overlay).
	Node ast.NodeID
}

// NewFrame builds an empty frame owned by the given node.
func NewFrame(frameType FrameType, node ast.NodeID) Frame {
	return Frame{
		FrameType: frameType,
		Variables: make(map[string]ast.NodeID),
		TypeDecls: make(map[string]ast.NodeID),
		Decls:     make(map[string]ast.NodeID),
		Node:      node,
	}
}
