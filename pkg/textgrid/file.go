package textgrid

import (
	"bytes"
	"os"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
)

// Document is a TextGrid together with the file it came from, so that
// it can be written back in the same encoding.
type Document struct {
	Path     string
	Encoding conversion.EncodingID
	*TextGrid
}

// ReadFile reads and parses a TextGrid file. enc may be conversion.Auto.
func ReadFile(path string, enc conversion.EncodingID) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, yerrors.NewIO("read", path, err)
	}
	src, used, err := conversion.ToUTF8(raw, enc)
	if err != nil {
		return nil, &yerrors.ParseError{Format: "TextGrid", Path: path, Message: "decode " + used.EncodingName(), Err: err}
	}
	tg, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Encoding: used, TextGrid: tg}, nil
}

// WriteFile writes tg to path in the given encoding (Auto writes UTF-8).
func WriteFile(path string, tg *TextGrid, enc conversion.EncodingID) error {
	var buf bytes.Buffer
	if err := Write(&buf, tg); err != nil {
		return err
	}
	out, err := conversion.FromUTF8(buf.String(), enc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return yerrors.NewIO("write", path, err)
	}
	return nil
}

// Save writes the document back to its own path and encoding.
func (d *Document) Save() error {
	return WriteFile(d.Path, d.TextGrid, d.Encoding)
}
