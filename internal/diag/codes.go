package diag

import "fmt"

// Code identifies the family of a diagnostic. Ranges are reserved per pass:
// 1xxx lexer, 2xxx parser, 3xxx resolver, 4xxx typechecker.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnrecognized          Code = 1001
	LexUnmatchedInterpLParen Code = 1002
	LexUnmatchedInterpRParen Code = 1003

	// Parse
	SynExpected           Code = 2001
	SynIncompleteExpr     Code = 2002
	SynIncompleteMathExpr Code = 2003
	SynIncompleteRange    Code = 2004
	SynMissingSpace       Code = 2005
	SynAssignInExpr       Code = 2006
	SynMissingField       Code = 2007
	SynBadTableHeader     Code = 2008
	SynEmptyParens        Code = 2009
	SynUnknownOperator    Code = 2010

	// Resolution
	ResUndefinedVariable Code = 3001
	ResUndefinedType     Code = 3002

	// Types
	TypeMismatch        Code = 4001
	TypeBadCondition    Code = 4002
	TypeBadForRange     Code = 4003
	TypeLoopReturns     Code = 4004
	TypeBadOperands     Code = 4005
	TypeBadTypeArgs     Code = 4006
	TypeUnsupportedNode Code = 4007
)

// ID returns the rendered form of the code, e.g. "NU2001".
func (c Code) ID() string {
	return fmt.Sprintf("NU%04d", uint16(c))
}
