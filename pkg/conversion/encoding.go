package conversion

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// EncodingID is an enum-like type for the encodings transcripts come in.
// Praat saves non-ASCII TextGrids as UTF-16 by default; older Yiddish
// material is often in one of the Hebrew code pages.
type EncodingID int

const (
	// Auto asks Sniff to pick the encoding.
	Auto EncodingID = iota
	UTF8
	UTF8BOM
	UTF16LE
	UTF16BE
	Windows1255
	ISO8859_8
	Windows1252
	ISO8859_1
)

var encodingNames = map[EncodingID]string{
	Auto:        "auto",
	UTF8:        "UTF-8",
	UTF8BOM:     "UTF-8-BOM",
	UTF16LE:     "UTF-16LE",
	UTF16BE:     "UTF-16BE",
	Windows1255: "Windows-1255",
	ISO8859_8:   "ISO-8859-8",
	Windows1252: "Windows-1252",
	ISO8859_1:   "ISO-8859-1",
}

// nameToEncoding maps lower-case names and aliases to the enum.
var nameToEncoding = map[string]EncodingID{
	"":             Auto,
	"auto":         Auto,
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"utf-8-bom":    UTF8BOM,
	"utf-16":       UTF16LE,
	"utf-16le":     UTF16LE,
	"utf-16be":     UTF16BE,
	"windows-1255": Windows1255,
	"cp1255":       Windows1255,
	"iso-8859-8":   ISO8859_8,
	"hebrew":       ISO8859_8,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
	"iso-8859-1":   ISO8859_1,
	"latin1":       ISO8859_1,
}

// EncodingName returns a canonical string name.
func (e EncodingID) EncodingName() string {
	if n, ok := encodingNames[e]; ok {
		return n
	}
	return "Unknown"
}

func (e EncodingID) String() string { return e.EncodingName() }

// ParseEncoding returns the EncodingID for a given name (case-insensitive).
func ParseEncoding(name string) (EncodingID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := nameToEncoding[key]; ok {
		return enc, nil
	}
	return Auto, yerrors.NewUnsupported("encoding", name)
}

// GetEncoding returns the encoding.Encoding instance. UTF-16 variants
// read an optional BOM and always write one, as Praat does.
func GetEncoding(e EncodingID) (encoding.Encoding, error) {
	switch e {
	case UTF8:
		return unicode.UTF8, nil
	case UTF8BOM:
		return unicode.UTF8BOM, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case Windows1255:
		return charmap.Windows1255, nil
	case ISO8859_8:
		return charmap.ISO8859_8, nil
	case Windows1252:
		return charmap.Windows1252, nil
	case ISO8859_1:
		return charmap.ISO8859_1, nil
	}
	return nil, yerrors.NewUnsupported("encoding", e.EncodingName())
}

// Sniff guesses the encoding of a transcript from its first bytes:
// byte order marks first, then NUL-byte patterns of BOM-less UTF-16,
// then UTF-8 validity. Invalid UTF-8 is assumed to be Windows-1255.
func Sniff(b []byte) EncodingID {
	switch {
	case bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}):
		return UTF8BOM
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return UTF16LE
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		return UTF16BE
	case len(b) >= 2 && b[0] != 0 && b[1] == 0:
		return UTF16LE
	case len(b) >= 2 && b[0] == 0 && b[1] != 0:
		return UTF16BE
	case utf8.Valid(b):
		return UTF8
	}
	return Windows1255
}

// ToUTF8 converts bytes in src (Auto sniffs it) to UTF-8 and reports
// the encoding actually used.
func ToUTF8(input []byte, src EncodingID) (string, EncodingID, error) {
	if src == Auto {
		src = Sniff(input)
	}
	enc, err := GetEncoding(src)
	if err != nil {
		return "", src, err
	}
	reader := transform.NewReader(bytes.NewReader(input), enc.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", src, err
	}
	return string(out), src, nil
}

// FromUTF8 encodes a UTF-8 string into a target encoding. Auto writes UTF-8.
func FromUTF8(input string, dest EncodingID) ([]byte, error) {
	if dest == Auto {
		dest = UTF8
	}
	enc, err := GetEncoding(dest)
	if err != nil {
		return nil, err
	}
	reader := transform.NewReader(strings.NewReader(input), enc.NewEncoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return out, nil
}
