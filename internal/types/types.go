// Package types holds the type representation shared by the typechecker and
// the compiler arena: an append-only vector of interned type descriptors plus
// side tables for record fields, unions, intersections and type variables.
package types

import (
	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/names"
)

// TypeID indexes the type arena.
type TypeID uint32

// TypeVarID indexes the type-variable table.
type TypeVarID uint32

// RecordTypeID indexes the record-field table.
type RecordTypeID uint32

// OneOfID indexes the union-member table.
type OneOfID uint32

// AllOfID indexes the intersection-member table.
type AllOfID uint32

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindUnknown marks nodes the typechecker has not touched.
	KindUnknown Kind = iota
	// KindForbidden marks nodes that must never be evaluated directly, such
	// as operator leaves, to tell them apart from merely-unknown ones.
	KindForbidden
	// KindNone means a node has no type at all: statements like `let` do not
	// produce a value.
	KindNone
	KindAny
	KindNumber
	KindNothing
	KindInt
	KindFloat
	KindBool
	KindString
	KindBinary
	KindClosure
	KindList   // element in Elem
	KindStream // element in Elem
	KindRecord // fields via Index as RecordTypeID
	KindOneOf  // members via Index as OneOfID
	KindAllOf  // members via Index as AllOfID
	KindRef    // Index is a names.TypeDeclID
	KindVar    // Index is a TypeVarID
	KindError
	// KindTop is the universal supertype used as the neutral expectation in
	// bidirectional checking.
	KindTop
	// KindBottom is the universal subtype; the empty union.
	KindBottom
)

// Type is a compact descriptor. Elem is meaningful for lists and streams;
// Index is a RecordTypeID/OneOfID/AllOfID/TypeDeclID/TypeVarID depending on
// Kind.
type Type struct {
	Kind  Kind
	Elem  TypeID
	Index uint32
}

// MakeList describes list<elem>.
func MakeList(elem TypeID) Type {
	return Type{Kind: KindList, Elem: elem}
}

// MakeStream describes stream<elem>.
func MakeStream(elem TypeID) Type {
	return Type{Kind: KindStream, Elem: elem}
}

// MakeRecord describes a row-typed record.
func MakeRecord(id RecordTypeID) Type {
	return Type{Kind: KindRecord, Index: uint32(id)}
}

// MakeOneOf describes a union.
func MakeOneOf(id OneOfID) Type {
	return Type{Kind: KindOneOf, Index: uint32(id)}
}

// MakeAllOf describes an intersection.
func MakeAllOf(id AllOfID) Type {
	return Type{Kind: KindAllOf, Index: uint32(id)}
}

// MakeRef describes a reference to a declared type, e.g. a type parameter.
func MakeRef(id names.TypeDeclID) Type {
	return Type{Kind: KindRef, Index: uint32(id)}
}

// MakeVar describes an inference variable.
func MakeVar(id TypeVarID) Type {
	return Type{Kind: KindVar, Index: uint32(id)}
}

// RecordID returns the record table index of a KindRecord type.
func (t Type) RecordID() RecordTypeID { return RecordTypeID(t.Index) }

// OneOfID returns the union table index of a KindOneOf type.
func (t Type) OneOfID() OneOfID { return OneOfID(t.Index) }

// AllOfID returns the intersection table index of a KindAllOf type.
func (t Type) AllOfID() AllOfID { return AllOfID(t.Index) }

// RefID returns the type declaration of a KindRef type.
func (t Type) RefID() names.TypeDeclID { return names.TypeDeclID(t.Index) }

// VarID returns the variable table index of a KindVar type.
func (t Type) VarID() TypeVarID { return TypeVarID(t.Index) }

// RecordField is one named field of a record type. The name is a node so the
// field name bytes come straight from the source; field vectors are kept
// sorted lexicographically by those bytes.
type RecordField struct {
	Name ast.NodeID
	Type TypeID
}

// TypeVar is an inference variable with independent bounds. It is satisfiable
// iff its lower bound is a subtype of its upper bound.
type TypeVar struct {
	Lower TypeID
	Upper TypeID
}

// InOutType is one input/output pair of a command or closure signature.
type InOutType struct {
	In  TypeID
	Out TypeID
}

// Hard-coded singleton IDs for the simple types plus a few common composites.
// The Store seeds its arena in exactly this order.
const (
	UnknownType TypeID = iota
	ForbiddenType
	NoneType
	AnyType
	NumberType
	NothingType
	IntType
	FloatType
	BoolType
	StringType
	BinaryType
	ClosureType
	ListAnyType
	ByteStreamType
	ErrorType
	TopType
	BottomType

	numSingletons
)

// NoTypeExpectation marks the absence of a declared type where a TypeID is
// optional, e.g. a let binding without an annotation.
const NoTypeExpectation TypeID = ^TypeID(0)
