package phono

import (
	"bufio"
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"os"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// MarshalMFA renders d in the MFA text format: one `word\tphones` line
// per entry, sorted by word, joined by "\n" without a trailing newline.
func MarshalMFA(d Dictionary) []byte {
	var buf bytes.Buffer
	for i, e := range d.Entries() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(e.Word)
		buf.WriteByte('\t')
		buf.WriteString(e.Phones)
	}
	return buf.Bytes()
}

// WriteMFA writes d in the MFA text format.
func WriteMFA(w io.Writer, d Dictionary) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(MarshalMFA(d)); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteGob writes d gob-encoded.
func WriteGob(w io.Writer, d Dictionary) error {
	return gob.NewEncoder(w).Encode(d)
}

// WriteFile writes d to path in the given format.
func WriteFile(ctx context.Context, path string, d Dictionary, kind Kind) error {
	var write func(io.Writer, Dictionary) error
	switch kind {
	case KindSQLite:
		return ExportSQLite(ctx, path, d)
	case KindGOB:
		write = WriteGob
	case KindMFA:
		write = WriteMFA
	default:
		return yerrors.NewUnsupported("dictionary format", string(kind))
	}
	f, err := os.Create(path)
	if err != nil {
		return yerrors.NewIO("create", path, err)
	}
	err = write(f, d)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return yerrors.NewIO("write", path, err)
	}
	return nil
}
