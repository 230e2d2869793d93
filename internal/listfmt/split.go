// Package listfmt reads and writes the brace/quote list syntax used by the
// tree dump format and by array values.
//
// A list is a sequence of elements separated by whitespace. An element is a
// bare word, a "quoted" string (backslash escapes applied) or a {braced}
// string (taken verbatim, braces may nest). Join produces text that Split
// turns back into the same elements.
package listfmt

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/joshuapare/treekit/pkg/types"
)

// ErrIncomplete is returned when the text ends inside a brace or quote.
var ErrIncomplete = errors.New("incomplete list")

// Split parses s into its elements.
func Split(s string) ([]string, error) {
	var out []string
	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return out, nil
		}

		var (
			elem string
			err  error
		)
		switch s[i] {
		case OpenBrace:
			elem, i, err = scanBraced(s, i)
		case QuoteChar:
			elem, i, err = scanQuoted(s, i)
		default:
			elem, i = scanBare(s, i)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
}

// Complete reports whether s holds a whole list, that is every brace and
// quote opened in s is closed.
func Complete(s string) bool {
	_, err := Split(s)
	return !errors.Is(err, ErrIncomplete)
}

// scanBraced reads a braced element starting at s[start] == '{'.
func scanBraced(s string, start int) (string, int, error) {
	depth := 1
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case Backslash:
			i++ // escaped brace does not count
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
			if depth == 0 {
				end := i + 1
				if end < len(s) && !isSpace(s[end]) {
					return "", 0, types.Errorf(types.ErrKindMalformed,
						"list element in braces followed by %q instead of space", s[end:end+1])
				}
				return s[start+1 : i], end, nil
			}
		}
	}
	return "", 0, types.Wrap(types.ErrKindMalformed, ErrIncomplete, "unmatched open brace in list")
}

// scanQuoted reads a quoted element starting at s[start] == '"'.
func scanQuoted(s string, start int) (string, int, error) {
	var b strings.Builder
	for i := start + 1; i < len(s); {
		c := s[i]
		switch c {
		case QuoteChar:
			end := i + 1
			if end < len(s) && !isSpace(s[end]) {
				return "", 0, types.Errorf(types.ErrKindMalformed,
					"list element in quotes followed by %q instead of space", s[end:end+1])
			}
			return b.String(), end, nil
		case Backslash:
			i = unescape(s, i, &b)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, types.Wrap(types.ErrKindMalformed, ErrIncomplete, "unmatched open quote in list")
}

// scanBare reads an unquoted element.
func scanBare(s string, start int) (string, int) {
	i := start
	plain := true
	for i < len(s) && !isSpace(s[i]) {
		if s[i] == Backslash {
			plain = false
			if i+1 < len(s) {
				i++
			}
		}
		i++
	}
	if plain {
		return s[start:i], i
	}
	var b strings.Builder
	for j := start; j < i; {
		if s[j] == Backslash {
			j = unescape(s[:i], j, &b)
			continue
		}
		b.WriteByte(s[j])
		j++
	}
	return b.String(), i
}

// unescape decodes the backslash sequence at s[i] into b and returns the
// index just past it.
func unescape(s string, i int, b *strings.Builder) int {
	i++ // skip backslash
	if i >= len(s) {
		b.WriteByte(Backslash)
		return i
	}
	c := s[i]
	i++
	switch c {
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '\n':
		// Line continuation collapses with the following blanks.
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		b.WriteByte(' ')
	case 'x':
		r, n := hexRune(s[i:], 2)
		if n == 0 {
			b.WriteByte('x')
			return i
		}
		b.WriteRune(r)
		i += n
	case 'u':
		r, n := hexRune(s[i:], 4)
		if n == 0 {
			b.WriteByte('u')
			return i
		}
		b.WriteRune(r)
		i += n
	default:
		b.WriteByte(c)
	}
	return i
}

// hexRune parses up to limit hex digits from the start of s.
func hexRune(s string, limit int) (rune, int) {
	var r rune
	n := 0
	for n < limit && n < len(s) {
		d, ok := hexDigit(s[n])
		if !ok {
			break
		}
		r = r<<4 | rune(d)
		n++
	}
	if n > 0 && !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, n
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
