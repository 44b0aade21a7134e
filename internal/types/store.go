package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Store is the append-only type arena plus its side tables. Entries are
// immutable once written, with one exception: the constraint solver tightens
// type-variable bounds during inference and overwrites solved Var entries
// with their final bound when checking completes.
type Store struct {
	types        []Type
	recordFields [][]RecordField
	oneofs       [][]TypeID
	allofs       [][]TypeID
	vars         []TypeVar
}

// NewStore seeds the arena with the singleton types in constant order.
func NewStore() *Store {
	s := &Store{types: make([]Type, 0, 64)}
	seed := []Type{
		{Kind: KindUnknown},
		{Kind: KindForbidden},
		{Kind: KindNone},
		{Kind: KindAny},
		{Kind: KindNumber},
		{Kind: KindNothing},
		{Kind: KindInt},
		{Kind: KindFloat},
		{Kind: KindBool},
		{Kind: KindString},
		{Kind: KindBinary},
		{Kind: KindClosure},
		MakeList(AnyType),
		MakeStream(BinaryType),
		{Kind: KindError},
		{Kind: KindTop},
		{Kind: KindBottom},
	}
	if len(seed) != int(numSingletons) {
		panic("internal error: singleton seed out of sync with TypeID constants")
	}
	s.types = append(s.types, seed...)
	return s
}

// Push adds a type and returns its ID. Simple types and the common composite
// singletons are not re-added; their fixed ID is returned directly.
func (s *Store) Push(t Type) TypeID {
	switch t.Kind {
	case KindUnknown:
		return UnknownType
	case KindForbidden:
		return ForbiddenType
	case KindNone:
		return NoneType
	case KindAny:
		return AnyType
	case KindNumber:
		return NumberType
	case KindNothing:
		return NothingType
	case KindInt:
		return IntType
	case KindFloat:
		return FloatType
	case KindBool:
		return BoolType
	case KindString:
		return StringType
	case KindBinary:
		return BinaryType
	case KindClosure:
		return ClosureType
	case KindError:
		return ErrorType
	case KindTop:
		return TopType
	case KindBottom:
		return BottomType
	case KindList:
		if t.Elem == AnyType {
			return ListAnyType
		}
	case KindStream:
		if t.Elem == BinaryType {
			return ByteStreamType
		}
	}
	id, err := safecast.Conv[uint32](len(s.types))
	if err != nil {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	s.types = append(s.types, t)
	return TypeID(id)
}

// Get returns the descriptor for an ID.
func (s *Store) Get(id TypeID) Type {
	return s.types[id]
}

// Overwrite replaces the descriptor at id in place. Only the final
// type-variable collapse uses this; every other write is an append.
func (s *Store) Overwrite(id TypeID, t Type) {
	s.types[id] = t
}

// Len returns the number of types in the arena.
func (s *Store) Len() int {
	return len(s.types)
}

// PushRecord stores a field vector (already sorted by name bytes) and
// returns its ID.
func (s *Store) PushRecord(fields []RecordField) RecordTypeID {
	id, err := safecast.Conv[uint32](len(s.recordFields))
	if err != nil {
		panic(fmt.Errorf("record arena overflow: %w", err))
	}
	s.recordFields = append(s.recordFields, fields)
	return RecordTypeID(id)
}

// RecordFields returns the sorted field vector of a record type.
func (s *Store) RecordFields(id RecordTypeID) []RecordField {
	return s.recordFields[id]
}

// PushOneOf stores a union member set (sorted, deduplicated by the caller).
func (s *Store) PushOneOf(members []TypeID) OneOfID {
	id, err := safecast.Conv[uint32](len(s.oneofs))
	if err != nil {
		panic(fmt.Errorf("oneof arena overflow: %w", err))
	}
	s.oneofs = append(s.oneofs, members)
	return OneOfID(id)
}

// OneOfMembers returns the member set of a union.
func (s *Store) OneOfMembers(id OneOfID) []TypeID {
	return s.oneofs[id]
}

// PushAllOf stores an intersection member set.
func (s *Store) PushAllOf(members []TypeID) AllOfID {
	id, err := safecast.Conv[uint32](len(s.allofs))
	if err != nil {
		panic(fmt.Errorf("allof arena overflow: %w", err))
	}
	s.allofs = append(s.allofs, members)
	return AllOfID(id)
}

// AllOfMembers returns the member set of an intersection.
func (s *Store) AllOfMembers(id AllOfID) []TypeID {
	return s.allofs[id]
}

// PushVar introduces a fresh type variable with the given bounds.
func (s *Store) PushVar(lower, upper TypeID) TypeVarID {
	id, err := safecast.Conv[uint32](len(s.vars))
	if err != nil {
		panic(fmt.Errorf("type var arena overflow: %w", err))
	}
	s.vars = append(s.vars, TypeVar{Lower: lower, Upper: upper})
	return TypeVarID(id)
}

// Var returns the current bounds of a type variable.
func (s *Store) Var(id TypeVarID) TypeVar {
	return s.vars[id]
}

// SetVarLower tightens a variable's lower bound.
func (s *Store) SetVarLower(id TypeVarID, lower TypeID) {
	s.vars[id].Lower = lower
}

// SetVarUpper tightens a variable's upper bound.
func (s *Store) SetVarUpper(id TypeVarID, upper TypeID) {
	s.vars[id].Upper = upper
}

// NumVars returns how many type variables were introduced.
func (s *Store) NumVars() int {
	return len(s.vars)
}
