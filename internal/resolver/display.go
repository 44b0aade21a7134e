package resolver

import (
	"fmt"
	"sort"
	"strings"
)

// DisplayState renders the scope frames and any binding errors, matching the
// layout the check subcommand prints between passes.
func (r *Resolver) DisplayState() string {
	var sb strings.Builder

	sb.WriteString("==== SCOPE ====\n")
	for i, frame := range r.scopes {
		fmt.Fprintf(&sb, "%d: Frame %s, node_id: %d", i, frame.FrameType, frame.Node)

		vars := make([]string, 0, len(frame.Variables))
		for name, id := range frame.Variables {
			vars = append(vars, fmt.Sprintf("%s: %d", name, id))
		}
		typeDecls := make([]string, 0, len(frame.TypeDecls))
		for name, id := range frame.TypeDecls {
			typeDecls = append(typeDecls, fmt.Sprintf("%s: %d", name, id))
		}
		decls := make([]string, 0, len(frame.Decls))
		for name, id := range frame.Decls {
			decls = append(decls, fmt.Sprintf("%s: %d", name, id))
		}

		if len(vars) == 0 && len(typeDecls) == 0 && len(decls) == 0 {
			sb.WriteString(" (empty)\n")
			continue
		}
		sb.WriteByte('\n')

		if len(vars) > 0 {
			sort.Strings(vars)
			fmt.Fprintf(&sb, "  variables: [ %s ]\n", strings.Join(vars, ", "))
		}
		if len(typeDecls) > 0 {
			sort.Strings(typeDecls)
			fmt.Fprintf(&sb, "  type decls: [ %s ]\n", strings.Join(typeDecls, ", "))
		}
		if len(decls) > 0 {
			sort.Strings(decls)
			fmt.Fprintf(&sb, "      decls: [ %s ]\n", strings.Join(decls, ", "))
		}
	}

	if len(r.errors) > 0 {
		sb.WriteString("==== SCOPE ERRORS ====\n")
		for _, e := range r.errors {
			fmt.Fprintf(&sb, "%s (NodeId %d): %s\n", e.Severity, e.Node, e.Message)
		}
	}

	return sb.String()
}
