package ast

// Pair joins two child nodes: a record's key/value or a match arm's
// pattern/result.
type Pair struct {
	Key   NodeID
	Value NodeID
}

// Node is one tagged variant of the AST. Each variant stores only child node
// IDs plus small scalars; which fields are meaningful depends on Kind, and the
// constructors below are the authoritative map. Unused ID slots hold NoNodeID.
type Node struct {
	Kind Kind
	Flag bool // Let: is_mutable; Type, RecordType: optional

	Name NodeID // Type, Param, Let, Def, Alias (new name)
	Args NodeID // Type: TypeArgs node
	Ty   NodeID // Param, Let: declared type
	Init NodeID // Let: initializer

	Lhs NodeID // BinaryOp, Range; InOutType: input type
	Op  NodeID // BinaryOp
	Rhs NodeID // BinaryOp, Range; InOutType: output type

	Target NodeID // MemberAccess, Match, Statement, Return (optional)
	Field  NodeID // MemberAccess

	Cond NodeID // If, While
	Then NodeID // If
	Else NodeID // If (optional)

	Body NodeID // While, For, Loop, Def, Closure

	Var NodeID // For: loop variable
	Seq NodeID // For: iterated expression

	Header NodeID // Table

	Params     NodeID // Def, Closure (optional for Closure)
	TypeParams NodeID // Def (optional)
	InOut      NodeID // Def (optional)
	Fields     NodeID // RecordType: Params node with the field list

	Old NodeID // Alias: old name

	BlockID  BlockID  // Block
	Children []NodeID // Params, List, TypeArgs, InOutTypes, Call parts, Table rows
	Pairs    []Pair   // Record pairs, Match arms
}

func newNode(kind Kind) Node {
	return Node{
		Kind: kind,
		Name: NoNodeID, Args: NoNodeID, Ty: NoNodeID, Init: NoNodeID,
		Lhs: NoNodeID, Op: NoNodeID, Rhs: NoNodeID,
		Target: NoNodeID, Field: NoNodeID,
		Cond: NoNodeID, Then: NoNodeID, Else: NoNodeID,
		Body: NoNodeID, Var: NoNodeID, Seq: NoNodeID,
		Header: NoNodeID, Params: NoNodeID, TypeParams: NoNodeID,
		InOut: NoNodeID, Fields: NoNodeID, Old: NoNodeID,
	}
}

// LeafNode builds a node with no children: literals, names, variables,
// operators, Break, Continue, Garbage.
func LeafNode(kind Kind) Node {
	return newNode(kind)
}

// TypeNode builds a Type reference: name, optional generic args, optional '?'.
func TypeNode(name, args NodeID, optional bool) Node {
	n := newNode(Type)
	n.Name, n.Args, n.Flag = name, args, optional
	return n
}

// TypeArgsNode builds the argument list of a generic type.
func TypeArgsNode(args []NodeID) Node {
	n := newNode(TypeArgs)
	n.Children = args
	return n
}

// RecordTypeNode builds a structural record type; fields is a Params node.
func RecordTypeNode(fields NodeID, optional bool) Node {
	n := newNode(RecordType)
	n.Fields, n.Flag = fields, optional
	return n
}

// InOutTypeNode builds one input -> output type pair of a command signature.
func InOutTypeNode(in, out NodeID) Node {
	n := newNode(InOutType)
	n.Lhs, n.Rhs = in, out
	return n
}

// InOutTypesNode builds the list of input/output pairs of a command signature.
func InOutTypesNode(pairs []NodeID) Node {
	n := newNode(InOutTypes)
	n.Children = pairs
	return n
}

// ParamNode builds a single parameter with an optional declared type.
func ParamNode(name, ty NodeID) Node {
	n := newNode(Param)
	n.Name, n.Ty = name, ty
	return n
}

// ParamsNode builds a parameter (or record-type field) list.
func ParamsNode(params []NodeID) Node {
	n := newNode(Params)
	n.Children = params
	return n
}

// BinaryOpNode builds lhs <op> rhs; op is an operator leaf node.
func BinaryOpNode(lhs, op, rhs NodeID) Node {
	n := newNode(BinaryOp)
	n.Lhs, n.Op, n.Rhs = lhs, op, rhs
	return n
}

// RangeNode builds lhs..rhs.
func RangeNode(lhs, rhs NodeID) Node {
	n := newNode(Range)
	n.Lhs, n.Rhs = lhs, rhs
	return n
}

// ListNode builds a list literal.
func ListNode(items []NodeID) Node {
	n := newNode(List)
	n.Children = items
	return n
}

// TableNode builds a table literal: a header list plus row lists.
func TableNode(header NodeID, rows []NodeID) Node {
	n := newNode(Table)
	n.Header, n.Children = header, rows
	return n
}

// RecordNode builds a record literal from key/value pairs.
func RecordNode(pairs []Pair) Node {
	n := newNode(Record)
	n.Pairs = pairs
	return n
}

// MemberAccessNode builds target.field.
func MemberAccessNode(target, field NodeID) Node {
	n := newNode(MemberAccess)
	n.Target, n.Field = target, field
	return n
}

// CallNode builds a command call; parts holds the name parts then arguments.
func CallNode(parts []NodeID) Node {
	n := newNode(Call)
	n.Children = parts
	return n
}

// ClosureNode builds a closure; params may be NoNodeID.
func ClosureNode(params, body NodeID) Node {
	n := newNode(Closure)
	n.Params, n.Body = params, body
	return n
}

// IfNode builds a conditional; elseBlock may be NoNodeID.
func IfNode(cond, thenBlock, elseBlock NodeID) Node {
	n := newNode(If)
	n.Cond, n.Then, n.Else = cond, thenBlock, elseBlock
	return n
}

// MatchNode builds a match expression from its target and pattern/result arms.
func MatchNode(target NodeID, arms []Pair) Node {
	n := newNode(Match)
	n.Target, n.Pairs = target, arms
	return n
}

// BlockNode wraps a block arena entry.
func BlockNode(id BlockID) Node {
	n := newNode(Block)
	n.BlockID = id
	return n
}

// LetNode builds a let/mut statement; ty may be NoNodeID.
func LetNode(name, ty, init NodeID, mutable bool) Node {
	n := newNode(Let)
	n.Name, n.Ty, n.Init, n.Flag = name, ty, init, mutable
	return n
}

// DefNode builds a command definition; typeParams and inOut may be NoNodeID.
func DefNode(name, typeParams, params, inOut, body NodeID) Node {
	n := newNode(Def)
	n.Name, n.TypeParams, n.Params, n.InOut, n.Body = name, typeParams, params, inOut, body
	return n
}

// AliasNode builds `alias new = old`.
func AliasNode(newName, oldName NodeID) Node {
	n := newNode(Alias)
	n.Name, n.Old = newName, oldName
	return n
}

// WhileNode builds a while loop.
func WhileNode(cond, body NodeID) Node {
	n := newNode(While)
	n.Cond, n.Body = cond, body
	return n
}

// ForNode builds a for loop over a sequence.
func ForNode(variable, seq, body NodeID) Node {
	n := newNode(For)
	n.Var, n.Seq, n.Body = variable, seq, body
	return n
}

// LoopNode builds an unconditional loop.
func LoopNode(body NodeID) Node {
	n := newNode(Loop)
	n.Body = body
	return n
}

// ReturnNode builds a return statement; expr may be NoNodeID.
func ReturnNode(expr NodeID) Node {
	n := newNode(Return)
	n.Target = expr
	return n
}

// StatementNode wraps an expression terminated by a semicolon.
func StatementNode(expr NodeID) Node {
	n := newNode(Statement)
	n.Target = expr
	return n
}
