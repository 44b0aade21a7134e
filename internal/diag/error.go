package diag

import (
	"fmt"

	"github.com/nushell/new-nu-parser/internal/ast"
)

// SourceError is a diagnostic attached to an AST node. Passes never abort on
// one: they append it to the compiler's error list, leave a Garbage/Error
// node behind and keep going, so a single run surfaces as many problems as
// possible.
type SourceError struct {
	Code     Code
	Message  string
	Node     ast.NodeID
	Severity Severity
}

// Error builds an error-severity diagnostic.
func Error(code Code, node ast.NodeID, msg string) SourceError {
	return SourceError{Code: code, Message: msg, Node: node, Severity: SevError}
}

// Errorf builds an error-severity diagnostic with a formatted message.
func Errorf(code Code, node ast.NodeID, format string, args ...any) SourceError {
	return Error(code, node, fmt.Sprintf(format, args...))
}

// Note builds a note-severity diagnostic.
func Note(code Code, node ast.NodeID, msg string) SourceError {
	return SourceError{Code: code, Message: msg, Node: node, Severity: SevNote}
}

// HasErrors reports whether any diagnostic in the list has error severity.
func HasErrors(errs []SourceError) bool {
	for i := range errs {
		if errs[i].Severity >= SevError {
			return true
		}
	}
	return false
}
