package listfmt

const (
	// ============================================================================
	// Structural Tokens
	// ============================================================================

	// OpenBrace starts a verbatim (non-substituting) element
	OpenBrace = '{'

	// CloseBrace ends a verbatim element
	CloseBrace = '}'

	// QuoteChar starts and ends a substituting element
	QuoteChar = '"'

	// Backslash introduces an escape sequence outside braces
	Backslash = '\\'

	// CommentMark is the character that must not lead an unbraced first element
	CommentMark = '#'

	// Separator is written between joined elements
	Separator = " "

	// EmptyElement is the canonical form of the empty string
	EmptyElement = "{}"
)

// isSpace reports whether c separates list elements.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isSpecial reports whether c forces an element to be braced or escaped.
func isSpecial(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '$', ';', '"', '\\':
		return true
	}
	return isSpace(c)
}
