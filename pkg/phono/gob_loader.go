package phono

import (
	"encoding/gob"
	"io"
	"unicode/utf8"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// GobLoader handles gob-encoded map[string][]string dictionaries.
type GobLoader struct{}

// Kind reports the loader kind identifier for gob dictionaries.
func (g *GobLoader) Kind() Kind { return KindGOB }

// Sniff detects gob payloads: the sniff bytes are not valid UTF-8 or
// contain NUL bytes. This avoids misclassifying text dictionaries.
func (g *GobLoader) Sniff(sniff []byte, isEOF bool) bool {
	if len(sniff) == 0 {
		return false
	}
	// A cut in the middle of a multi-byte rune is not binary evidence.
	if !isEOF {
		for i := 0; i < utf8.UTFMax && len(sniff) > 0 && !utf8.Valid(sniff); i++ {
			sniff = sniff[:len(sniff)-1]
		}
	}
	if !utf8.Valid(sniff) {
		return true
	}
	for _, b := range sniff {
		if b == 0 {
			return true
		}
	}
	return false
}

// LoadAll deserializes a Dictionary.
func (g *GobLoader) LoadAll(r io.Reader) (Dictionary, error) {
	dict := make(Dictionary)
	if err := gob.NewDecoder(r).Decode(&dict); err != nil {
		return nil, &yerrors.ParseError{Format: string(KindGOB), Message: "decode gob", Err: err}
	}
	return dict, nil
}

// Load decodes a gob-encoded Dictionary and emits all entries in word
// order.
func (g *GobLoader) Load(r io.Reader, emit OnEntryFunc) error {
	dict, err := g.LoadAll(r)
	if err != nil {
		return err
	}
	for _, w := range dict.Words() {
		if len(dict[w]) == 0 {
			continue
		}
		if err := emit(w, dict[w]); err != nil {
			return err
		}
	}
	return nil
}
