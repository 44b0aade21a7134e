package source

import "fmt"

// Span represents a contiguous range of bytes within the compiler's source
// buffer. Offsets are global: every file appended to the compiler advances the
// base offset, so a span identifies its file implicitly via the file table.
type Span struct {
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// NewSpan builds a span from a half-open byte range.
func NewSpan(start, end uint32) Span {
	return Span{Start: start, End: end}
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Cover returns a new span that covers both spans.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
