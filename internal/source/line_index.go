package source

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// LineIndex holds the offsets at which each line starts, for resolving spans
// to line/column pairs when rendering diagnostics.
type LineIndex struct {
	starts []uint32
}

// BuildLineIndex scans content once and records the start offset of each line.
func BuildLineIndex(content []byte) *LineIndex {
	starts := make([]uint32, 1, 16)
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) //nolint:gosec // i < len(content) <= max u32 by construction
		}
	}
	return &LineIndex{starts: starts}
}

// Resolve converts a byte offset into a 1-based line/column pair.
func (idx *LineIndex) Resolve(offset uint32) LineCol {
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return LineCol{
		Line: uint32(lo + 1), //nolint:gosec // line count bounded by content size
		Col:  offset - idx.starts[lo] + 1,
	}
}

// LineRange returns the byte range of the given 1-based line, excluding the
// trailing newline. The end bound is clamped by the caller's content length.
func (idx *LineIndex) LineRange(line uint32, contentLen uint32) (start, end uint32) {
	if line == 0 || int(line) > len(idx.starts) {
		return 0, 0
	}
	start = idx.starts[line-1]
	if int(line) < len(idx.starts) {
		end = idx.starts[line] - 1
	} else {
		end = contentLen
	}
	return start, end
}
