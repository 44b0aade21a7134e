package types_test

import (
	"testing"

	"github.com/nushell/new-nu-parser/internal/ast"
	"github.com/nushell/new-nu-parser/internal/types"
)

func TestStoreSingletons(t *testing.T) {
	s := types.NewStore()

	cases := []struct {
		push types.Type
		want types.TypeID
	}{
		{types.Type{Kind: types.KindInt}, types.IntType},
		{types.Type{Kind: types.KindFloat}, types.FloatType},
		{types.Type{Kind: types.KindBool}, types.BoolType},
		{types.Type{Kind: types.KindString}, types.StringType},
		{types.Type{Kind: types.KindNone}, types.NoneType},
		{types.Type{Kind: types.KindTop}, types.TopType},
		{types.Type{Kind: types.KindBottom}, types.BottomType},
		{types.MakeList(types.AnyType), types.ListAnyType},
		{types.MakeStream(types.BinaryType), types.ByteStreamType},
	}
	for _, tt := range cases {
		if got := s.Push(tt.push); got != tt.want {
			t.Errorf("Push(%v) = %d, want %d", tt.push, got, tt.want)
		}
	}

	// pushing a singleton never grows the arena
	before := s.Len()
	s.Push(types.Type{Kind: types.KindInt})
	if s.Len() != before {
		t.Error("pushing a singleton grew the arena")
	}

	// composite types append
	listInt := s.Push(types.MakeList(types.IntType))
	if int(listInt) != before {
		t.Errorf("list<int> got id %d, want %d", listInt, before)
	}
}

func TestStoreVars(t *testing.T) {
	s := types.NewStore()
	v := s.PushVar(types.BottomType, types.TopType)
	if got := s.Var(v); got.Lower != types.BottomType || got.Upper != types.TopType {
		t.Errorf("fresh var bounds = %v", got)
	}
	s.SetVarLower(v, types.IntType)
	if got := s.Var(v).Lower; got != types.IntType {
		t.Errorf("lower = %d, want int", got)
	}
}

func TestTypeToString(t *testing.T) {
	s := types.NewStore()
	nameOf := func(ast.NodeID) []byte { return []byte("field") }

	if got := s.TypeToString(types.NoneType, nameOf); got != "()" {
		t.Errorf("none renders %q", got)
	}
	if got := s.TypeToString(types.ListAnyType, nameOf); got != "list<any>" {
		t.Errorf("list<any> renders %q", got)
	}
	if got := s.TypeToString(types.ByteStreamType, nameOf); got != "stream<binary>" {
		t.Errorf("stream renders %q", got)
	}

	oneof := s.Push(types.MakeOneOf(s.PushOneOf([]types.TypeID{types.StringType, types.IntType})))
	if got := s.TypeToString(oneof, nameOf); got != "oneof<int, string>" {
		t.Errorf("oneof renders %q (members must sort by rendered form)", got)
	}

	rec := s.Push(types.MakeRecord(s.PushRecord([]types.RecordField{{Name: 0, Type: types.IntType}})))
	if got := s.TypeToString(rec, nameOf); got != "record<field: int>" {
		t.Errorf("record renders %q", got)
	}
}
