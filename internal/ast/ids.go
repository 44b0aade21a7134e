package ast

// NodeID indexes the compiler's ast_nodes arena. IDs are stable for the
// lifetime of the compiler; the arena only grows, except for speculative-parse
// rollback which truncates a suffix no live ID may reference.
type NodeID uint32

// NoNodeID marks an absent optional child.
const NoNodeID NodeID = ^NodeID(0)

// IsValid reports whether the NodeID refers to a node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// BlockID indexes the compiler's blocks arena.
type BlockID uint32

// BlockData is an ordered sequence of statement/expression nodes.
type BlockData struct {
	Nodes []NodeID
}

// NewBlock wraps the node list into a BlockData.
func NewBlock(nodes []NodeID) BlockData {
	return BlockData{Nodes: nodes}
}
