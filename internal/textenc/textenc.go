// Package textenc converts dump text between UTF-8 and the other encodings
// a dump file may be stored in.
package textenc

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/treekit/pkg/types"
)

// Supported encoding names (case-insensitive on input).
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	Windows1252 = "WINDOWS-1252"
)

// Names lists the accepted encoding names.
func Names() []string {
	return []string{UTF8, UTF16LE, Windows1252}
}

// lookup maps a name to its x/text encoding. UTF-8 maps to nil.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(name) {
	case "", UTF8, "UTF8":
		return nil, nil
	case UTF16LE, "UTF16LE", "UTF-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case Windows1252, "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, types.Errorf(types.ErrKindInvalid, "unsupported encoding %q", name)
	}
}

// Valid reports whether name is a supported encoding.
func Valid(name string) bool {
	_, err := lookup(name)
	return err == nil
}

// Decode converts data to UTF-8. A UTF-8 or UTF-16 byte order mark
// overrides name.
func Decode(data []byte, name string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	var fallback transform.Transformer = transform.Nop
	if enc != nil {
		fallback = enc.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, err, "decode "+displayName(name))
	}
	return out, nil
}

// Encode converts UTF-8 text to the named encoding. UTF-16 output carries a
// byte order mark.
func Encode(text []byte, name string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return text, nil
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), text)
	if err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, err, "encode "+displayName(name))
	}
	return out, nil
}

// HasBOM reports whether data starts with a UTF-8 or UTF-16 byte order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

func displayName(name string) string {
	if name == "" {
		return UTF8
	}
	return strings.ToUpper(name)
}
