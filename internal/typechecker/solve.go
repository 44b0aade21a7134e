package typechecker

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/new-nu-parser/internal/types"
)

// solveTypeVars collapses every inference variable after the main walk: the
// solved bound is the variable's lower bound with self-references removed,
// and every arena slot still describing the variable is overwritten with
// that bound, so no Var type stays reachable from any node type.
func (tc *Typechecker) solveTypeVars() {
	numVars := tc.store.NumVars()
	for v := 0; v < numVars; v++ {
		varID32, err := safecast.Conv[uint32](v)
		if err != nil {
			panic(fmt.Errorf("type var overflow: %w", err))
		}
		varID := types.TypeVarID(varID32)

		bound := tc.removeSelfVar(tc.store.Var(varID).Lower, varID)
		desc := tc.store.Get(bound)
		if desc.Kind == types.KindVar {
			// a bound that is itself an unsolved variable degrades to bottom
			desc = types.Type{Kind: types.KindBottom}
		}

		for i := 0; i < tc.store.Len(); i++ {
			idx32, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("type arena overflow: %w", err))
			}
			id := types.TypeID(idx32)
			if t := tc.store.Get(id); t.Kind == types.KindVar && t.VarID() == varID {
				tc.store.Overwrite(id, desc)
			}
		}
	}
}

// removeSelfVar rebuilds a bound with occurrences of the variable itself
// replaced by bottom, the identity of the join that produced the bound.
func (tc *Typechecker) removeSelfVar(ty types.TypeID, v types.TypeVarID) types.TypeID {
	t := tc.store.Get(ty)
	switch t.Kind {
	case types.KindVar:
		if t.VarID() == v {
			return types.BottomType
		}
		return ty
	case types.KindList:
		elem := tc.removeSelfVar(t.Elem, v)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeList(elem))
	case types.KindStream:
		elem := tc.removeSelfVar(t.Elem, v)
		if elem == t.Elem {
			return ty
		}
		return tc.store.Push(types.MakeStream(elem))
	case types.KindOneOf:
		members := tc.store.OneOfMembers(t.OneOfID())
		rebuilt := make([]types.TypeID, len(members))
		changed := false
		for i, m := range members {
			rebuilt[i] = tc.removeSelfVar(m, v)
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
			rebuilt[i] = tc.removeSelfVar(m, v)
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
