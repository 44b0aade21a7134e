package ast

import "fmt"

// Kind tags the variant of an AST node.
type Kind uint8

const (
	// Garbage is the error sentinel produced when parsing fails; the parser
	// records a diagnostic and keeps going.
	Garbage Kind = iota

	// Literals
	Int
	Float
	True
	False
	Null
	String

	// Names and references
	Name
	Variable
	Type
	TypeArgs
	RecordType
	InOutType
	InOutTypes

	// Binding sites
	Param
	Params

	// Operators. Leaf nodes holding only the operator identity; the node
	// itself is never evaluated (the typechecker marks it Forbidden).
	Plus
	Minus
	Multiply
	Divide
	FloorDiv
	Modulo
	Pow
	Append
	Equal
	NotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	RegexMatch
	NotRegexMatch
	In
	And
	Xor
	Or
	Assignment
	AddAssignment
	SubtractAssignment
	MultiplyAssignment
	DivideAssignment
	AppendAssignment

	// Compound expressions
	BinaryOp
	Range
	List
	Table
	Record
	MemberAccess
	Call
	Closure
	If
	Match
	Block

	// Statements
	Let
	Def
	Alias
	While
	For
	Loop
	Return
	Break
	Continue
	Statement
)

// AssignmentPrecedence is the binding power shared by all assignment
// operators; the parser rejects them outside statement position.
const AssignmentPrecedence = 10

// Precedence returns the Pratt binding power of an operator node kind.
// Non-operator kinds have precedence 0.
func (k Kind) Precedence() int {
	switch k {
	case Pow:
		return 100
	case Multiply, Divide, FloorDiv, Modulo:
		return 95
	case Plus, Minus:
		return 90
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual,
		Equal, NotEqual, RegexMatch, NotRegexMatch, In, Append:
		return 80
	case And:
		return 50
	case Xor:
		return 45
	case Or:
		return 40
	case Assignment, AddAssignment, SubtractAssignment,
		MultiplyAssignment, DivideAssignment, AppendAssignment:
		return AssignmentPrecedence
	default:
		return 0
	}
}

// IsAssignment reports whether the kind is an assignment operator.
func (k Kind) IsAssignment() bool {
	switch k {
	case Assignment, AddAssignment, SubtractAssignment,
		MultiplyAssignment, DivideAssignment, AppendAssignment:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case Garbage:
		return "Garbage"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case True:
		return "True"
	case False:
		return "False"
	case Null:
		return "Null"
	case String:
		return "String"
	case Name:
		return "Name"
	case Variable:
		return "Variable"
	case Type:
		return "Type"
	case TypeArgs:
		return "TypeArgs"
	case RecordType:
		return "RecordType"
	case InOutType:
		return "InOutType"
	case InOutTypes:
		return "InOutTypes"
	case Param:
		return "Param"
	case Params:
		return "Params"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	case FloorDiv:
		return "FloorDiv"
	case Modulo:
		return "Modulo"
	case Pow:
		return "Pow"
	case Append:
		return "Append"
	case Equal:
		return "Equal"
	case NotEqual:
		return "NotEqual"
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	case LessThanOrEqual:
		return "LessThanOrEqual"
	case GreaterThanOrEqual:
		return "GreaterThanOrEqual"
	case RegexMatch:
		return "RegexMatch"
	case NotRegexMatch:
		return "NotRegexMatch"
	case In:
		return "In"
	case And:
		return "And"
	case Xor:
		return "Xor"
	case Or:
		return "Or"
	case Assignment:
		return "Assignment"
	case AddAssignment:
		return "AddAssignment"
	case SubtractAssignment:
		return "SubtractAssignment"
	case MultiplyAssignment:
		return "MultiplyAssignment"
	case DivideAssignment:
		return "DivideAssignment"
	case AppendAssignment:
		return "AppendAssignment"
	case BinaryOp:
		return "BinaryOp"
	case Range:
		return "Range"
	case List:
		return "List"
	case Table:
		return "Table"
	case Record:
		return "Record"
	case MemberAccess:
		return "MemberAccess"
	case Call:
		return "Call"
	case Closure:
		return "Closure"
	case If:
		return "If"
	case Match:
		return "Match"
	case Block:
		return "Block"
	case Let:
		return "Let"
	case Def:
		return "Def"
	case Alias:
		return "Alias"
	case While:
		return "While"
	case For:
		return "For"
	case Loop:
		return "Loop"
	case Return:
		return "Return"
	case Break:
		return "Break"
	case Continue:
		return "Continue"
	case Statement:
		return "Statement"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
