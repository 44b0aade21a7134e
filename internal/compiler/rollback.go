package compiler

// RollbackPoint captures the arena lengths plus the token cursor so a
// speculative parse can be undone. Rolling back truncates; it never mutates
// nodes already placed, which is what makes lookahead safe.
type RollbackPoint struct {
	nodes    int
	errors   int
	blocks   int
	tokenPos int
}

// GetRollbackPoint snapshots the current arena state.
func (c *Compiler) GetRollbackPoint(tokenPos int) RollbackPoint {
	return RollbackPoint{
		nodes:    len(c.AstNodes),
		errors:   len(c.Errors),
		blocks:   len(c.Blocks),
		tokenPos: tokenPos,
	}
}

// ApplyRollback truncates each arena to the saved length and returns the
// token position to restore.
func (c *Compiler) ApplyRollback(rp RollbackPoint) int {
	c.AstNodes = c.AstNodes[:rp.nodes]
	c.Spans = c.Spans[:rp.nodes]
	c.Errors = c.Errors[:rp.errors]
	c.Blocks = c.Blocks[:rp.blocks]
	return rp.tokenPos
}
