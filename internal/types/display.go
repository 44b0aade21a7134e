package types

import (
	"sort"
	"strings"

	"github.com/nushell/new-nu-parser/internal/ast"
)

// NameOf resolves a field-name node to its source bytes. The store does not
// hold source text, so rendering borrows a lookup from the compiler.
type NameOf func(ast.NodeID) []byte

// TypeToString renders a type the way the checker's display dump and error
// messages spell them: list<T>, stream<T>, record<a: T, ...>, oneof<...> with
// members sorted by their rendered form, and () for the none type.
func (s *Store) TypeToString(id TypeID, nameOf NameOf) string {
	t := s.types[id]
	switch t.Kind {
	case KindUnknown:
		return "unknown"
	case KindForbidden:
		return "forbidden"
	case KindNone:
		return "()"
	case KindAny:
		return "any"
	case KindNumber:
		return "number"
	case KindNothing:
		return "nothing"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindClosure:
		return "closure"
	case KindList:
		return "list<" + s.TypeToString(t.Elem, nameOf) + ">"
	case KindStream:
		return "stream<" + s.TypeToString(t.Elem, nameOf) + ">"
	case KindRecord:
		var sb strings.Builder
		sb.WriteString("record<")
		for i, f := range s.recordFields[t.RecordID()] {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.Write(nameOf(f.Name))
			sb.WriteString(": ")
			sb.WriteString(s.TypeToString(f.Type, nameOf))
		}
		sb.WriteString(">")
		return sb.String()
	case KindOneOf:
		return s.setToString("oneof", s.oneofs[t.OneOfID()], nameOf)
	case KindAllOf:
		return s.setToString("allof", s.allofs[t.AllOfID()], nameOf)
	case KindRef:
		return "ref"
	case KindVar:
		v := s.vars[t.VarID()]
		return "var(" + s.TypeToString(v.Lower, nameOf) + " .. " + s.TypeToString(v.Upper, nameOf) + ")"
	case KindError:
		return "error"
	case KindTop:
		return "top"
	case KindBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

func (s *Store) setToString(label string, members []TypeID, nameOf NameOf) string {
	rendered := make([]string, 0, len(members))
	for _, m := range members {
		rendered = append(rendered, s.TypeToString(m, nameOf))
	}
	sort.Strings(rendered)
	return label + "<" + strings.Join(rendered, ", ") + ">"
}
