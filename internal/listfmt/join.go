package listfmt

import (
	"strings"
)

// Join renders elems as a single list string.
func Join(elems []string) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(quote(e, i == 0))
	}
	return b.String()
}

// Quote renders one element so that Split returns it unchanged.
func Quote(elem string) string {
	return quote(elem, true)
}

func quote(elem string, first bool) string {
	if elem == "" {
		return EmptyElement
	}
	needs := first && elem[0] == CommentMark
	for i := 0; i < len(elem) && !needs; i++ {
		needs = isSpecial(elem[i])
	}
	if !needs {
		return elem
	}
	if braceSafe(elem) {
		return string(OpenBrace) + elem + string(CloseBrace)
	}
	return escape(elem)
}

// braceSafe reports whether elem can be wrapped in braces verbatim: braces
// balance without going negative, it does not end in a backslash, and it
// holds no carriage return, which line readers strip.
func braceSafe(elem string) bool {
	depth := 0
	for i := 0; i < len(elem); i++ {
		switch elem[i] {
		case '\r':
			return false
		case Backslash:
			if i+1 >= len(elem) || elem[i+1] == '\n' {
				return false
			}
			i++
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// escape backslash-quotes every special byte of elem.
func escape(elem string) string {
	var b strings.Builder
	b.Grow(len(elem) * 2)
	for i := 0; i < len(elem); i++ {
		c := elem[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if isSpecial(c) || (i == 0 && c == CommentMark) {
				b.WriteByte(Backslash)
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
