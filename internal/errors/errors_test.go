package errors

import (
	"errors"
	"io/fs"
	"testing"
)

// TestTypedErrorsUnwrapToSentinels checks the category of every typed error.
func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{NewParse("TextGrid", "a.TextGrid", 3, "bad header"), ErrInvalidInput},
		{NewValidation("workers", "must be >= 0"), ErrInvalidInput},
		{NewUnsupported("encoding", "ebcdic"), ErrUnsupported},
		{NewNotFound("column", "Tape"), ErrNotFound},
		{NewIO("read", "x", fs.ErrNotExist), fs.ErrNotExist},
	}
	for _, c := range cases {
		if !Is(c.err, c.target) {
			t.Errorf("expected %v to unwrap to %v", c.err, c.target)
		}
	}
}

// TestParseErrorMessage checks the location formatting.
func TestParseErrorMessage(t *testing.T) {
	err := NewParse("CSV", "audio.csv", 12, "missing field")
	if got, want := err.Error(), "parse CSV audio.csv:12: missing field"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	var pe *ParseError
	if !As(error(err), &pe) || pe.Line != 12 {
		t.Fatalf("expected As to find the ParseError")
	}
	wrapped := &ParseError{Format: "TextGrid", Message: "x", Err: errors.New("inner")}
	if Is(wrapped, ErrInvalidInput) {
		t.Fatalf("explicit Err must replace the default sentinel")
	}
}
