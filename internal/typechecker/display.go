package typechecker

import (
	"fmt"
	"strings"
)

// DisplayState renders each node's type plus any type errors, matching the
// layout the check subcommand prints after the final pass.
func (tc *Typechecker) DisplayState() string {
	var sb strings.Builder

	sb.WriteString("==== TYPES ====\n")
	for i, typeID := range tc.nodeTypes {
		fmt.Fprintf(&sb, "%d: %s\n", i, tc.typeString(typeID))
	}

	if len(tc.errors) > 0 {
		sb.WriteString("==== TYPE ERRORS ====\n")
		for _, e := range tc.errors {
			fmt.Fprintf(&sb, "%s (NodeId %d): %s\n", e.Severity, e.Node, e.Message)
		}
	}

	return sb.String()
}
