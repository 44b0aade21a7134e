package compiler

import (
	"fmt"
	"strings"

	"github.com/nushell/new-nu-parser/internal/ast"
)

// DisplayState renders the node arena, blocks and errors in the fixed textual
// form the check subcommand prints and the end-to-end tests compare against.
func (c *Compiler) DisplayState() string {
	var sb strings.Builder
	sb.WriteString("==== COMPILER ====\n")

	for i := range c.AstNodes {
		id := ast.NodeID(i) //nolint:gosec // arena indices fit u32 by construction
		span := c.Spans[i]
		fmt.Fprintf(&sb, "%d: %s (%d .. %d)", i, c.describeNode(id), span.Start, span.End)
		if c.NodeTypes != nil && c.Types != nil {
			fmt.Fprintf(&sb, " : %s", c.Types.TypeToString(c.NodeTypes[i], c.GetSpanContents))
		}
		sb.WriteByte('\n')
	}

	for i, block := range c.Blocks {
		fmt.Fprintf(&sb, "Block %d: %v\n", i, block.Nodes)
	}

	if len(c.Errors) > 0 {
		sb.WriteString("==== COMPILER ERRORS ====\n")
		for _, e := range c.Errors {
			fmt.Fprintf(&sb, "%s (NodeId %d): %s\n", e.Severity, e.Node, e.Message)
		}
	}

	return sb.String()
}

func (c *Compiler) describeNode(id ast.NodeID) string {
	n := c.AstNodes[id]
	opt := func(child ast.NodeID) string {
		if !child.IsValid() {
			return "-"
		}
		return fmt.Sprint(child)
	}
	switch n.Kind {
	case ast.Int, ast.Float, ast.String, ast.Name, ast.Variable,
		ast.True, ast.False, ast.Null:
		return fmt.Sprintf("%s %q", n.Kind, c.GetSpanContents(id))
	case ast.Type:
		return fmt.Sprintf("Type { name: %d, args: %s, optional: %t }", n.Name, opt(n.Args), n.Flag)
	case ast.TypeArgs, ast.Params, ast.List, ast.InOutTypes:
		return fmt.Sprintf("%s %v", n.Kind, n.Children)
	case ast.RecordType:
		return fmt.Sprintf("RecordType { fields: %d, optional: %t }", n.Fields, n.Flag)
	case ast.InOutType:
		return fmt.Sprintf("InOutType { in: %d, out: %d }", n.Lhs, n.Rhs)
	case ast.Param:
		return fmt.Sprintf("Param { name: %d, ty: %s }", n.Name, opt(n.Ty))
	case ast.BinaryOp:
		return fmt.Sprintf("BinaryOp { lhs: %d, op: %d, rhs: %d }", n.Lhs, n.Op, n.Rhs)
	case ast.Range:
		return fmt.Sprintf("Range { lhs: %d, rhs: %d }", n.Lhs, n.Rhs)
	case ast.Table:
		return fmt.Sprintf("Table { header: %d, rows: %v }", n.Header, n.Children)
	case ast.Record:
		return fmt.Sprintf("Record %v", n.Pairs)
	case ast.MemberAccess:
		return fmt.Sprintf("MemberAccess { target: %d, field: %d }", n.Target, n.Field)
	case ast.Call:
		return fmt.Sprintf("Call %v", n.Children)
	case ast.Closure:
		return fmt.Sprintf("Closure { params: %s, block: %d }", opt(n.Params), n.Body)
	case ast.If:
		return fmt.Sprintf("If { condition: %d, then: %d, else: %s }", n.Cond, n.Then, opt(n.Else))
	case ast.Match:
		return fmt.Sprintf("Match { target: %d, arms: %v }", n.Target, n.Pairs)
	case ast.Block:
		return fmt.Sprintf("Block(%d)", n.BlockID)
	case ast.Let:
		return fmt.Sprintf("Let { name: %d, ty: %s, init: %d, mutable: %t }", n.Name, opt(n.Ty), n.Init, n.Flag)
	case ast.Def:
		return fmt.Sprintf("Def { name: %d, type_params: %s, params: %d, in_out: %s, block: %d }",
			n.Name, opt(n.TypeParams), n.Params, opt(n.InOut), n.Body)
	case ast.Alias:
		return fmt.Sprintf("Alias { new: %d, old: %d }", n.Name, n.Old)
	case ast.While:
		return fmt.Sprintf("While { condition: %d, block: %d }", n.Cond, n.Body)
	case ast.For:
		return fmt.Sprintf("For { variable: %d, range: %d, block: %d }", n.Var, n.Seq, n.Body)
	case ast.Loop:
		return fmt.Sprintf("Loop { block: %d }", n.Body)
	case ast.Return:
		return fmt.Sprintf("Return(%s)", opt(n.Target))
	case ast.Statement:
		return fmt.Sprintf("Statement(%d)", n.Target)
	default:
		return n.Kind.String()
	}
}
