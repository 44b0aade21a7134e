package lexer

import "github.com/nushell/new-nu-parser/internal/token"

// scanNumberOrDatetime resolves the overlap between Int, Float, Datetime and
// Bareword at a digit. Longest match wins; on equal length Int beats Float
// beats Bareword, mirroring the pattern priorities.
func (lx *lexer) scanNumberOrDatetime() {
	start := lx.off

	if n := lx.datetimeLen(start); n > 0 {
		lx.off = start + n
		lx.push(token.Datetime, start, lx.off)
		return
	}

	intLen := lx.intLen(start)
	floatLen := lx.floatLen(start)
	bwLen := lx.barewordLen(start)

	switch {
	case bwLen > intLen && bwLen > floatLen:
		lx.off = start + bwLen
		lx.push(token.Bareword, start, lx.off)
	case intLen >= floatLen:
		lx.off = start + intLen
		lx.push(token.Int, start, lx.off)
	default:
		lx.off = start + floatLen
		lx.push(token.Float, start, lx.off)
	}
}

// intLen matches (0[xob])?[0-9][0-9_]*.
func (lx *lexer) intLen(start int) int {
	i := start
	if lx.peekAt(i) == '0' {
		switch lx.peekAt(i + 1) {
		case 'x', 'o', 'b':
			if isDec(lx.peekAt(i + 2)) {
				i += 2
			}
		}
	}
	if !isDec(lx.peekAt(i)) {
		return 0
	}
	i++
	for isDec(lx.peekAt(i)) || lx.peekAt(i) == '_' {
		i++
	}
	return i - start
}

// floatLen matches ([0-9][0-9_]*)*\.([0-9][0-9_]*)*([eE][+-]?[0-9_]+)?, with
// one restriction: a '.' immediately followed by another '.' never starts the
// fraction, so `1..5` lexes as a range over ints rather than two floats.
func (lx *lexer) floatLen(start int) int {
	i := start
	for isDec(lx.peekAt(i)) || lx.peekAt(i) == '_' {
		i++
	}
	if lx.peekAt(i) != '.' || lx.peekAt(i+1) == '.' {
		return 0
	}
	i++
	for isDec(lx.peekAt(i)) || lx.peekAt(i) == '_' {
		i++
	}
	if i == start+1 {
		// a bare '.' with no digits on either side is not a float
		return 0
	}
	if c := lx.peekAt(i); c == 'e' || c == 'E' {
		j := i + 1
		if c := lx.peekAt(j); c == '+' || c == '-' {
			j++
		}
		if isDec(lx.peekAt(j)) || lx.peekAt(j) == '_' {
			for isDec(lx.peekAt(j)) || lx.peekAt(j) == '_' {
				j++
			}
			i = j
		}
	}
	return i - start
}

func (lx *lexer) barewordLen(start int) int {
	i := start
	if !isBarewordStart(lx.peekAt(i)) {
		return 0
	}
	i++
	for i < lx.limit && isBarewordPart(lx.src[i]) {
		i++
	}
	return i - start
}

// datetimeLen matches
// YYYY-MM-DD(THH:MM:SS(.fff)?)?(Z|±HH:MM)? and returns 0 when absent.
func (lx *lexer) datetimeLen(start int) int {
	i := start
	digits := func(n int) bool {
		for k := 0; k < n; k++ {
			if !isDec(lx.peekAt(i + k)) {
				return false
			}
		}
		i += n
		return true
	}
	expect := func(b byte) bool {
		if lx.peekAt(i) != b {
			return false
		}
		i++
		return true
	}

	if !digits(4) || !expect('-') || !digits(2) || !expect('-') || !digits(2) {
		return 0
	}

	if lx.peekAt(i) == 'T' {
		j := i
		i++
		if !digits(2) || !expect(':') || !digits(2) || !expect(':') || !digits(2) {
			i = j
			return i - start
		}
		if lx.peekAt(i) == '.' && isDec(lx.peekAt(i+1)) {
			i++
			for isDec(lx.peekAt(i)) {
				i++
			}
		}
	}

	switch lx.peekAt(i) {
	case 'Z':
		i++
	case '+', '-':
		j := i
		i++
		if !digits(2) || !expect(':') || !digits(2) {
			i = j
		}
	}

	return i - start
}
