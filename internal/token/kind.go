package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Eof marks the end of the token stream. The lexer always appends one,
	// so a token buffer is never empty.
	Eof Kind = iota

	// Literals
	Int
	Float
	Datetime
	DoubleQuotedString
	SingleQuotedString
	BacktickBareword
	Bareword

	// Layout
	Newline
	Comment

	// Punctuation and operators
	DotDotDot // ...
	DotDot    // ..
	Dot       // .
	LParen    // (
	RParen    // )
	LSquare   // [
	RSquare   // ]
	LCurly    // {
	RCurly    // }

	LessThanEqual            // <=
	LessThan                 // <
	GreaterThanEqual         // >=
	GreaterThan              // >
	PlusPlusEquals           // ++=
	PlusPlus                 // ++
	PlusEquals               // +=
	Plus                     // +
	ThinArrow                // ->
	ThickArrow               // =>
	DashEquals               // -=
	Dash                     // -
	AsteriskAsterisk         // **
	AsteriskEquals           // *=
	Asterisk                 // *
	ForwardSlashForwardSlash // //
	ForwardSlashEquals       // /=
	ForwardSlash             // /
	EqualsEquals             // ==
	EqualsTilde              // =~
	Equals                   // =
	ColonColon               // ::
	Colon                    // :
	Dollar                   // $
	Semicolon                // ;
	ExclamationEquals        // !=
	ExclamationTilde         // !~
	Exclamation              // !
	AmpersandAmpersand       // &&
	Ampersand                // &
	Comma                    // ,
	QuestionMark             // ?
	Caret                    // ^
	At                       // @
	PipePipe                 // ||
	Pipe                     // |

	// Redirections
	OutGreaterThan           // o>
	OutGreaterGreaterThan    // o>>
	ErrGreaterThan           // e>
	ErrGreaterGreaterThan    // e>>
	OutErrGreaterThan        // o+e>
	OutErrGreaterGreaterThan // o+e>>
	ErrGreaterThanPipe       // e>|
	OutErrGreaterThanPipe    // o+e>|

	// String interpolation. A successful interpolation lexes as
	// Start, (Chunk | LParen ...inner tokens... RParen)*, End.
	DqStringInterpStart
	SqStringInterpStart
	StrInterpChunk
	StrInterpLParen
	StrInterpRParen
	StrInterpEnd
)

func (k Kind) String() string {
	switch k {
	case Eof:
		return "Eof"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Datetime:
		return "Datetime"
	case DoubleQuotedString:
		return "DoubleQuotedString"
	case SingleQuotedString:
		return "SingleQuotedString"
	case BacktickBareword:
		return "BacktickBareword"
	case Bareword:
		return "Bareword"
	case Newline:
		return "Newline"
	case Comment:
		return "Comment"
	case DotDotDot:
		return "DotDotDot"
	case DotDot:
		return "DotDot"
	case Dot:
		return "Dot"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LSquare:
		return "LSquare"
	case RSquare:
		return "RSquare"
	case LCurly:
		return "LCurly"
	case RCurly:
		return "RCurly"
	case LessThanEqual:
		return "LessThanEqual"
	case LessThan:
		return "LessThan"
	case GreaterThanEqual:
		return "GreaterThanEqual"
	case GreaterThan:
		return "GreaterThan"
	case PlusPlusEquals:
		return "PlusPlusEquals"
	case PlusPlus:
		return "PlusPlus"
	case PlusEquals:
		return "PlusEquals"
	case Plus:
		return "Plus"
	case ThinArrow:
		return "ThinArrow"
	case ThickArrow:
		return "ThickArrow"
	case DashEquals:
		return "DashEquals"
	case Dash:
		return "Dash"
	case AsteriskAsterisk:
		return "AsteriskAsterisk"
	case AsteriskEquals:
		return "AsteriskEquals"
	case Asterisk:
		return "Asterisk"
	case ForwardSlashForwardSlash:
		return "ForwardSlashForwardSlash"
	case ForwardSlashEquals:
		return "ForwardSlashEquals"
	case ForwardSlash:
		return "ForwardSlash"
	case EqualsEquals:
		return "EqualsEquals"
	case EqualsTilde:
		return "EqualsTilde"
	case Equals:
		return "Equals"
	case ColonColon:
		return "ColonColon"
	case Colon:
		return "Colon"
	case Dollar:
		return "Dollar"
	case Semicolon:
		return "Semicolon"
	case ExclamationEquals:
		return "ExclamationEquals"
	case ExclamationTilde:
		return "ExclamationTilde"
	case Exclamation:
		return "Exclamation"
	case AmpersandAmpersand:
		return "AmpersandAmpersand"
	case Ampersand:
		return "Ampersand"
	case Comma:
		return "Comma"
	case QuestionMark:
		return "QuestionMark"
	case Caret:
		return "Caret"
	case At:
		return "At"
	case PipePipe:
		return "PipePipe"
	case Pipe:
		return "Pipe"
	case OutGreaterThan:
		return "OutGreaterThan"
	case OutGreaterGreaterThan:
		return "OutGreaterGreaterThan"
	case ErrGreaterThan:
		return "ErrGreaterThan"
	case ErrGreaterGreaterThan:
		return "ErrGreaterGreaterThan"
	case OutErrGreaterThan:
		return "OutErrGreaterThan"
	case OutErrGreaterGreaterThan:
		return "OutErrGreaterGreaterThan"
	case ErrGreaterThanPipe:
		return "ErrGreaterThanPipe"
	case OutErrGreaterThanPipe:
		return "OutErrGreaterThanPipe"
	case DqStringInterpStart:
		return "DqStringInterpStart"
	case SqStringInterpStart:
		return "SqStringInterpStart"
	case StrInterpChunk:
		return "StrInterpChunk"
	case StrInterpLParen:
		return "StrInterpLParen"
	case StrInterpRParen:
		return "StrInterpRParen"
	case StrInterpEnd:
		return "StrInterpEnd"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsString reports whether the token is a quoted string literal.
func (k Kind) IsString() bool {
	return k == DoubleQuotedString || k == SingleQuotedString
}
