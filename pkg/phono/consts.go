package phono

import (
	"strings"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// MergeMode controls how multiple sources (derived entries, curated
// dictionaries, etc.) are combined when the same word appears in more
// than one source.
type MergeMode int

const (
	// MergeModeAppend appends new pronunciations after existing ones.
	MergeModeAppend MergeMode = iota

	// MergeModePrepend prepends new pronunciations before existing ones.
	MergeModePrepend

	// MergeModeNoOverride does not change entries for words that already
	// exist in the dictionary. New pronunciations are only added for
	// words that are not present yet.
	MergeModeNoOverride

	// MergeModeReplace replaces entries for words that already exist in
	// the dictionary. As soon as a word appears in a new source, its
	// existing pronunciations are discarded and the new ones are kept.
	MergeModeReplace
)

var mergeModeNames = map[MergeMode]string{
	MergeModeAppend:     "append",
	MergeModePrepend:    "prepend",
	MergeModeNoOverride: "no-override",
	MergeModeReplace:    "replace",
}

func (m MergeMode) String() string {
	if s, ok := mergeModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMergeMode parses the names accepted in configuration files.
func ParseMergeMode(s string) (MergeMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range mergeModeNames {
		if name == s {
			return m, nil
		}
	}
	return MergeModeAppend, yerrors.NewValidation("merge mode", "unknown mode "+s)
}

// Kind identifies the on-disk format of a dictionary.
type Kind string

const (
	// KindMFA identifies the Montreal Forced Aligner text format, one
	// pronunciation per line:
	//   <word>\t<phone> <phone> ...
	// A word with several pronunciations appears on several lines.
	KindMFA Kind = "mfa_txt"

	// KindGOB identifies a gob-encoded Dictionary (map[Word][]Phones),
	// used to serialize dictionaries natively in Go.
	KindGOB Kind = "phones_gob"

	// KindSQLite identifies a SQLite export. It is write-only.
	KindSQLite Kind = "sqlite"
)

// ParseKind maps the short format names used on the command line
// ("text", "gob", "sqlite") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", string(KindMFA):
		return KindMFA, nil
	case "gob", string(KindGOB):
		return KindGOB, nil
	case "sqlite", "db":
		return KindSQLite, nil
	}
	return "", yerrors.NewUnsupported("dictionary format", s)
}

// Ext is the file extension conventionally used for k.
func (k Kind) Ext() string {
	switch k {
	case KindGOB:
		return ".gob"
	case KindSQLite:
		return ".sqlite"
	}
	return ".txt"
}

// sniffLen defines the size of the block used to sniff the type.
const sniffLen = 4 * 1024 // a few kilobytes, like http.DetectContentType
