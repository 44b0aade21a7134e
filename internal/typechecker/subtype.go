package typechecker

import (
	"bytes"

	"github.com/nushell/new-nu-parser/internal/types"
)

// constrainSubtype asserts sub <: supe, tightening type-variable bounds on
// the way. It reports whether the constraint is satisfiable; failed
// constraints become type-mismatch diagnostics at the call sites.
func (tc *Typechecker) constrainSubtype(sub, supe types.TypeID) bool {
	if sub == supe {
		return true
	}
	s := tc.store.Get(sub)
	p := tc.store.Get(supe)

	// Inference variables absorb the constraint into their bounds.
	if s.Kind == types.KindVar {
		return tc.constrainVarBelow(s.VarID(), supe)
	}
	if p.Kind == types.KindVar {
		return tc.constrainVarAbove(sub, p.VarID())
	}

	// Top, any and unknown accept anything; bottom, any, unknown and error
	// are accepted by anything (error tolerance stops cascades).
	switch p.Kind {
	case types.KindTop, types.KindAny, types.KindUnknown, types.KindError:
		return true
	}
	switch s.Kind {
	case types.KindBottom, types.KindAny, types.KindUnknown, types.KindError:
		return true
	}

	// A union on the left distributes universally.
	if s.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(s.OneOfID()) {
			if !tc.constrainSubtype(m, supe) {
				return false
			}
		}
		return true
	}
	// An intersection on the right is universal as well.
	if p.Kind == types.KindAllOf {
		for _, m := range tc.store.AllOfMembers(p.AllOfID()) {
			if !tc.constrainSubtype(sub, m) {
				return false
			}
		}
		return true
	}
	// A union on the right is existential: probe, then commit.
	if p.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(p.OneOfID()) {
			if tc.isSubtype(sub, m) {
				return tc.constrainSubtype(sub, m)
			}
		}
		return false
	}
	// An intersection on the left is existential.
	if s.Kind == types.KindAllOf {
		for _, m := range tc.store.AllOfMembers(s.AllOfID()) {
			if tc.isSubtype(m, supe) {
				return tc.constrainSubtype(m, supe)
			}
		}
		return false
	}

	switch {
	case p.Kind == types.KindNumber:
		return s.Kind == types.KindInt || s.Kind == types.KindFloat || s.Kind == types.KindNumber

	case s.Kind == types.KindList && p.Kind == types.KindList:
		return tc.constrainSubtype(s.Elem, p.Elem)

	case s.Kind == types.KindStream && p.Kind == types.KindStream:
		return tc.constrainSubtype(s.Elem, p.Elem)

	case s.Kind == types.KindRecord && p.Kind == types.KindRecord:
		return tc.recordSubtype(s.RecordID(), p.RecordID(), tc.constrainSubtype)

	default:
		return tc.typeEqual(sub, supe)
	}
}

// constrainVarBelow handles Var(v) <: supe: the upper bound meets supe, type
// variables at or above v are eliminated from the new bound (by their upper
// bounds) to prevent cycles, and the variable stays satisfiable.
func (tc *Typechecker) constrainVarBelow(v types.TypeVarID, supe types.TypeID) bool {
	current := tc.store.Var(v)
	newUpper := tc.createAllOf([]types.TypeID{current.Upper, supe})
	newUpper = tc.eliminateTypeVars(newUpper, v, true)
	if !tc.isSubtype(current.Lower, newUpper) {
		return false
	}
	tc.store.SetVarUpper(v, newUpper)
	return true
}

// constrainVarAbove handles sub <: Var(v): the lower bound joins sub, with
// the symmetric elimination by lower bounds.
func (tc *Typechecker) constrainVarAbove(sub types.TypeID, v types.TypeVarID) bool {
	current := tc.store.Var(v)
	newLower := tc.createOneOf([]types.TypeID{current.Lower, sub})
	newLower = tc.eliminateTypeVars(newLower, v, false)
	if !tc.isSubtype(newLower, current.Upper) {
		return false
	}
	tc.store.SetVarLower(v, newLower)
	return true
}

// isSubtype is the non-mutating probe used for existential choices and
// bound-satisfiability checks. Variables stand in for their current bounds:
// the lower bound on the left, the upper on the right.
func (tc *Typechecker) isSubtype(sub, supe types.TypeID) bool {
	if sub == supe {
		return true
	}
	s := tc.store.Get(sub)
	p := tc.store.Get(supe)

	if s.Kind == types.KindVar {
		return tc.isSubtype(tc.store.Var(s.VarID()).Lower, supe)
	}
	if p.Kind == types.KindVar {
		return tc.isSubtype(sub, tc.store.Var(p.VarID()).Upper)
	}

	switch p.Kind {
	case types.KindTop, types.KindAny, types.KindUnknown, types.KindError:
		return true
	}
	switch s.Kind {
	case types.KindBottom, types.KindAny, types.KindUnknown, types.KindError:
		return true
	}

	if s.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(s.OneOfID()) {
			if !tc.isSubtype(m, supe) {
				return false
			}
		}
		return true
	}
	if p.Kind == types.KindAllOf {
		for _, m := range tc.store.AllOfMembers(p.AllOfID()) {
			if !tc.isSubtype(sub, m) {
				return false
			}
		}
		return true
	}
	if p.Kind == types.KindOneOf {
		for _, m := range tc.store.OneOfMembers(p.OneOfID()) {
			if tc.isSubtype(sub, m) {
				return true
			}
		}
		return false
	}
	if s.Kind == types.KindAllOf {
		for _, m := range tc.store.AllOfMembers(s.AllOfID()) {
			if tc.isSubtype(m, supe) {
				return true
			}
		}
		return false
	}

	switch {
	case p.Kind == types.KindNumber:
		return s.Kind == types.KindInt || s.Kind == types.KindFloat || s.Kind == types.KindNumber

	case s.Kind == types.KindList && p.Kind == types.KindList:
		return tc.isSubtype(s.Elem, p.Elem)

	case s.Kind == types.KindStream && p.Kind == types.KindStream:
		return tc.isSubtype(s.Elem, p.Elem)

	case s.Kind == types.KindRecord && p.Kind == types.KindRecord:
		return tc.recordSubtype(s.RecordID(), p.RecordID(), func(a, b types.TypeID) bool {
			return tc.isSubtype(a, b)
		})

	default:
		return tc.typeEqual(sub, supe)
	}
}

// recordSubtype implements width and depth subtyping: every field of the
// supertype must appear in the subtype with a subtype-compatible type.
// Both field vectors are sorted by name bytes, so a two-pointer merge works.
func (tc *Typechecker) recordSubtype(sub, supe types.RecordTypeID, depth func(a, b types.TypeID) bool) bool {
	subFields := tc.store.RecordFields(sub)
	supeFields := tc.store.RecordFields(supe)

	i, j := 0, 0
	for j < len(supeFields) {
		if i >= len(subFields) {
			return false
		}
		cmp := bytes.Compare(tc.nameOf(subFields[i].Name), tc.nameOf(supeFields[j].Name))
		switch {
		case cmp < 0:
			i++
		case cmp > 0:
			// required field missing from the subtype
			return false
		default:
			if !depth(subFields[i].Type, supeFields[j].Type) {
				return false
			}
			i++
			j++
		}
	}
	return true
}

// typeEqual compares two types structurally.
func (tc *Typechecker) typeEqual(a, b types.TypeID) bool {
	if a == b {
		return true
	}
	ta := tc.store.Get(a)
	tb := tc.store.Get(b)
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case types.KindList, types.KindStream:
		return tc.typeEqual(ta.Elem, tb.Elem)
	case types.KindRecord:
		fa := tc.store.RecordFields(ta.RecordID())
		fb := tc.store.RecordFields(tb.RecordID())
		if len(fa) != len(fb) {
			return false
		}
		for i := range fa {
			if !bytes.Equal(tc.nameOf(fa[i].Name), tc.nameOf(fb[i].Name)) {
				return false
			}
			if !tc.typeEqual(fa[i].Type, fb[i].Type) {
				return false
			}
		}
		return true
	case types.KindOneOf:
		return tc.memberSetsEqual(tc.store.OneOfMembers(ta.OneOfID()), tc.store.OneOfMembers(tb.OneOfID()))
	case types.KindAllOf:
		return tc.memberSetsEqual(tc.store.AllOfMembers(ta.AllOfID()), tc.store.AllOfMembers(tb.AllOfID()))
	case types.KindRef, types.KindVar:
		return ta.Index == tb.Index
	default:
		return true
	}
}

func (tc *Typechecker) memberSetsEqual(a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		found := false
		for _, n := range b {
			if tc.typeEqual(m, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// eliminateTypeVars rebuilds a type with every variable at or above the
// limit replaced by one of its bounds: the upper bound when the type sits in
// upper-bound position, the lower bound otherwise. Bounds therefore only
// ever reference strictly lower-numbered variables, which keeps them
// acyclic without a union-find step.
func (tc *Typechecker) eliminateTypeVars(ty types.TypeID, limit types.TypeVarID, useUpper bool) types.TypeID {
	t := tc.store.Get(ty)
	switch t.Kind {
	case types.KindVar:
		if t.VarID() >= limit {
			bound := tc.store.Var(t.VarID()).Lower
			if useUpper {
				bound = tc.store.Var(t.VarID()).Upper
			}
			return tc.eliminateTypeVars(bound, limit, useUpper)
		}
		return ty
	case types.KindList:
		elem := tc.eliminateTypeVars(t.Elem, limit, useUpper)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeList(elem))
	case types.KindStream:
		elem := tc.eliminateTypeVars(t.Elem, limit, useUpper)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeStream(elem))
	case types.KindRecord:
		fields := tc.store.RecordFields(t.RecordID())
		changed := false
		rebuilt := make([]types.RecordField, len(fields))
		for i, f := range fields {
			nt := tc.eliminateTypeVars(f.Type, limit, useUpper)
			rebuilt[i] = types.RecordField{Name: f.Name, Type: nt}
			changed = changed || nt != f.Type
		}
		if !changed {
			return ty
		}
		return tc.store.Push(types.MakeRecord(tc.store.PushRecord(rebuilt)))
	case types.KindOneOf:
		members := tc.store.OneOfMembers(t.OneOfID())
		rebuilt := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			rebuilt[i] = tc.eliminateTypeVars(m, limit, useUpper)
			changed = changed || rebuilt[i] != m
		}
		if !changed {
			return ty
		}
		return tc.createOneOf(rebuilt)
	case types.KindAllOf:
		members := tc.store.AllOfMembers(t.AllOfID())
		rebuilt := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			rebuilt[i] = tc.eliminateTypeVars(m, limit, useUpper)
			changed = changed || rebuilt[i] != m
		}
		if !changed {
			return ty
		}
		return tc.createAllOf(rebuilt)
	default:
		return ty
	}
}

// substitute rebuilds a type with type-parameter references replaced per the
// instantiation map built at a call site.
func (tc *Typechecker) substitute(ty types.TypeID, subst map[uint32]types.TypeID) types.TypeID {
	if len(subst) == 0 {
		return ty
	}
	t := tc.store.Get(ty)
	switch t.Kind {
	case types.KindRef:
		if repl, ok := subst[t.Index]; ok {
			return repl
		}
		return ty
	case types.KindList:
		elem := tc.substitute(t.Elem, subst)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeList(elem))
	case types.KindStream:
		elem := tc.substitute(t.Elem, subst)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeStream(elem))
	case types.KindRecord:
		fields := tc.store.RecordFields(t.RecordID())
		changed := false
		rebuilt := make([]types.RecordField, len(fields))
		for i, f := range fields {
			nt := tc.substitute(f.Type, subst)
			rebuilt[i] = types.RecordField{Name: f.Name, Type: nt}
			changed = changed || nt != f.Type
		}
		if !changed {
			return ty
		}
		return tc.store.Push(types.MakeRecord(tc.store.PushRecord(rebuilt)))
	case types.KindOneOf:
		members := tc.store.OneOfMembers(t.OneOfID())
		rebuilt := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			rebuilt[i] = tc.substitute(m, subst)
			changed = changed || rebuilt[i] != m
		}
		if !changed {
			return ty
		}
		return tc.createOneOf(rebuilt)
	case types.KindAllOf:
		members := tc.store.AllOfMembers(t.AllOfID())
		rebuilt := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			rebuilt[i] = tc.substitute(m, subst)
			changed = changed || rebuilt[i] != m
		}
		if !changed {
			return ty
		}
		return tc.createAllOf(rebuilt)
	default:
		return ty
	}
}
