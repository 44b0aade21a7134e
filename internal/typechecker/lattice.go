package typechecker

import (
	"bytes"
	"sort"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/types"
)

// createOneOf computes the least common type (lub) of a member set and
// returns it in normal form: nested unions flattened, top/any/unknown
// absorbing, int and float folding into number, lists merged by unioning
// element types, records merged field-wise (fields present on only one side
// drop, since widening a union narrows the row), and subsumed members
// removed. A single survivor collapses to itself; the empty union is bottom.
func (tc *Typechecker) createOneOf(members []types.TypeID) types.TypeID {
	var flat []types.TypeID
	var flatten func(ids []types.TypeID)
	flatten = func(ids []types.TypeID) {
		for _, id := range ids {
			t := tc.store.Get(id)
			switch t.Kind {
			case types.KindOneOf:
				flatten(tc.store.OneOfMembers(t.OneOfID()))
			case types.KindBottom:
				// identity of the union
			default:
				flat = append(flat, id)
			}
		}
	}
	flatten(members)

	for _, id := range flat {
		switch tc.store.Get(id).Kind {
		case types.KindTop:
			return types.TopType
		case types.KindAny:
			return types.AnyType
		case types.KindUnknown:
			return types.UnknownType
		}
	}

	// fold int + float into number
	hasInt, hasFloat := false, false
	for _, id := range flat {
		switch tc.store.Get(id).Kind {
		case types.KindInt:
			hasInt = true
		case types.KindFloat:
			hasFloat = true
		}
	}
	if hasInt && hasFloat {
		filtered := flat[:0]
		for _, id := range flat {
			k := tc.store.Get(id).Kind
			if k != types.KindInt && k != types.KindFloat {
				filtered = append(filtered, id)
			}
		}
		flat = append(filtered, types.NumberType)
	}

	// merge all list members into one
	var listElems []types.TypeID
	nonLists := flat[:0]
	for _, id := range flat {
		if t := tc.store.Get(id); t.Kind == types.KindList {
			listElems = append(listElems, t.Elem)
		} else {
			nonLists = append(nonLists, id)
		}
	}
	flat = nonLists
	if len(listElems) > 0 {
		flat = append(flat, tc.store.Push(types.MakeList(tc.createOneOf(listElems))))
	}

	// merge all record members field-wise
	var records []types.RecordTypeID
	nonRecords := flat[:0]
	for _, id := range flat {
		if t := tc.store.Get(id); t.Kind == types.KindRecord {
			records = append(records, t.RecordID())
		} else {
			nonRecords = append(nonRecords, id)
		}
	}
	flat = nonRecords
	if len(records) > 0 {
		merged := records[0]
		for _, r := range records[1:] {
			merged = tc.mergeRecordsCommon(merged, r)
		}
		flat = append(flat, tc.store.Push(types.MakeRecord(merged)))
	}

	// drop duplicates and subsumed members
	var kept []types.TypeID
	for _, id := range flat {
		dup := false
		for _, k := range kept {
			if tc.typeEqual(id, k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, id)
		}
	}
	var result []types.TypeID
	for i, id := range kept {
		subsumed := false
		for j, other := range kept {
			if i == j {
				continue
			}
			if tc.isSubtype(id, other) && !tc.typeEqual(id, other) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			result = append(result, id)
		}
	}

	switch len(result) {
	case 0:
		return types.BottomType
	case 1:
		return result[0]
	default:
		sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
		return tc.store.Push(types.MakeOneOf(tc.store.PushOneOf(result)))
	}
}

// mergeRecordsCommon keeps the fields present in both records, unioning
// their types.
func (tc *Typechecker) mergeRecordsCommon(a, b types.RecordTypeID) types.RecordTypeID {
	fa := tc.store.RecordFields(a)
	fb := tc.store.RecordFields(b)

	var common []types.RecordField
	i, j := 0, 0
	for i < len(fa) && j < len(fb) {
		cmp := compareFieldNames(tc, fa[i].Name, fb[j].Name)
		switch {
		case cmp < 0:
			i++
		case cmp > 0:
			j++
		default:
			common = append(common, types.RecordField{
				Name: fa[i].Name,
				Type: tc.createOneOf([]types.TypeID{fa[i].Type, fb[j].Type}),
			})
			i++
			j++
		}
	}
	return tc.store.PushRecord(common)
}

// createAllOf computes the greatest common type (glb) of a member set:
// nested intersections flatten, top/any/unknown are identities, bottom
// annihilates, unions distribute ((A∨B) ∧ C = (A∧C) ∨ (B∧C)), lists and
// records merge, supertypes of other members drop, and incompatible rigid
// combinations collapse to bottom.
func (tc *Typechecker) createAllOf(members []types.TypeID) types.TypeID {
	var flat []types.TypeID
	var flatten func(ids []types.TypeID)
	flatten = func(ids []types.TypeID) {
		for _, id := range ids {
			t := tc.store.Get(id)
			switch t.Kind {
			case types.KindAllOf:
				flatten(tc.store.AllOfMembers(t.AllOfID()))
			case types.KindTop, types.KindAny, types.KindUnknown:
				// identity of the intersection
			default:
				flat = append(flat, id)
			}
		}
	}
	flatten(members)

	for _, id := range flat {
		if tc.store.Get(id).Kind == types.KindBottom {
			return types.BottomType
		}
	}

	// distribute over the first union member
	for i, id := range flat {
		if t := tc.store.Get(id); t.Kind == types.KindOneOf {
			rest := make([]types.TypeID, 0, len(flat)-1)
			rest = append(rest, flat[:i]...)
			rest = append(rest, flat[i+1:]...)

			alts := tc.store.OneOfMembers(t.OneOfID())
			distributed := make([]types.TypeID, 0, len(alts))
			for _, alt := range alts {
				distributed = append(distributed, tc.createAllOf(append(append([]types.TypeID{}, rest...), alt)))
			}
			return tc.createOneOf(distributed)
		}
	}

	// merge all list members into one
	var listElems []types.TypeID
	nonLists := flat[:0]
	for _, id := range flat {
		if t := tc.store.Get(id); t.Kind == types.KindList {
			listElems = append(listElems, t.Elem)
		} else {
			nonLists = append(nonLists, id)
		}
	}
	flat = nonLists
	if len(listElems) > 0 {
		flat = append(flat, tc.store.Push(types.MakeList(tc.createAllOf(listElems))))
	}

	// merge all record members: the intersection carries the union of fields
	var records []types.RecordTypeID
	nonRecords := flat[:0]
	for _, id := range flat {
		if t := tc.store.Get(id); t.Kind == types.KindRecord {
			records = append(records, t.RecordID())
		} else {
			nonRecords = append(nonRecords, id)
		}
	}
	flat = nonRecords
	if len(records) > 0 {
		merged := records[0]
		for _, r := range records[1:] {
			merged = tc.mergeRecordsUnion(merged, r)
		}
		flat = append(flat, tc.store.Push(types.MakeRecord(merged)))
	}

	// drop duplicates and members that are supertypes of another member
	var kept []types.TypeID
	for _, id := range flat {
		dup := false
		for _, k := range kept {
			if tc.typeEqual(id, k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, id)
		}
	}
	var result []types.TypeID
	for i, id := range kept {
		redundant := false
		for j, other := range kept {
			if i == j {
				continue
			}
			if tc.isSubtype(other, id) && !tc.typeEqual(id, other) {
				redundant = true
				break
			}
		}
		if !redundant {
			result = append(result, id)
		}
	}

	// two rigid members with no subtype relation have an empty intersection
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if tc.isRigid(result[i]) && tc.isRigid(result[j]) &&
				!tc.isSubtype(result[i], result[j]) && !tc.isSubtype(result[j], result[i]) {
				return types.BottomType
			}
		}
	}

	switch len(result) {
	case 0:
		return types.TopType
	case 1:
		return result[0]
	default:
		sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
		return tc.store.Push(types.MakeAllOf(tc.store.PushAllOf(result)))
	}
}

// mergeRecordsUnion keeps every field of both records; shared fields
// intersect their types.
func (tc *Typechecker) mergeRecordsUnion(a, b types.RecordTypeID) types.RecordTypeID {
	fa := tc.store.RecordFields(a)
	fb := tc.store.RecordFields(b)

	var all []types.RecordField
	i, j := 0, 0
	for i < len(fa) || j < len(fb) {
		switch {
		case i >= len(fa):
			all = append(all, fb[j])
			j++
		case j >= len(fb):
			all = append(all, fa[i])
			i++
		default:
			cmp := compareFieldNames(tc, fa[i].Name, fb[j].Name)
			switch {
			case cmp < 0:
				all = append(all, fa[i])
				i++
			case cmp > 0:
				all = append(all, fb[j])
				j++
			default:
				all = append(all, types.RecordField{
					Name: fa[i].Name,
					Type: tc.createAllOf([]types.TypeID{fa[i].Type, fb[j].Type}),
				})
				i++
				j++
			}
		}
	}
	return tc.store.PushRecord(all)
}

// isRigid reports whether a type's shape is fixed, so disjoint rigid members
// force an intersection to bottom. Variables and refs stay flexible.
func (tc *Typechecker) isRigid(id types.TypeID) bool {
	switch tc.store.Get(id).Kind {
	case types.KindInt, types.KindFloat, types.KindNumber, types.KindBool,
		types.KindString, types.KindBinary, types.KindNothing,
		types.KindClosure, types.KindList, types.KindStream, types.KindRecord:
		return true
	default:
		return false
	}
}

func compareFieldNames(tc *Typechecker, a, b ast.NodeID) int {
	return bytes.Compare(tc.nameOf(a), tc.nameOf(b))
}
