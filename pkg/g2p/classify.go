package g2p

import (
	"strings"

	"github.com/temporal-IPA/yidmfa/pkg/yiddish"
)

// Class is the outcome of the classification gate.
type Class int

const (
	// ClassDerive tokens are phonemized.
	ClassDerive Class = iota
	// ClassNoLowercase tokens contain no lowercase Latin letter
	// (placeholders such as UNK, numbers, bare markers).
	ClassNoLowercase
	// ClassAcronym tokens contain two or more consecutive capitals.
	ClassAcronym
	// ClassFiller tokens are filled pauses, backchannels or silence.
	ClassFiller
)

func (c Class) String() string {
	switch c {
	case ClassDerive:
		return "derive"
	case ClassNoLowercase:
		return "no-lowercase"
	case ClassAcronym:
		return "acronym"
	case ClassFiller:
		return "filler"
	}
	return "unknown"
}

// Classifier decides which transcript tokens get a pronunciation.
type Classifier struct {
	tables *yiddish.Tables
}

// NewClassifier returns a classifier using the filler list of t.
func NewClassifier(t *yiddish.Tables) *Classifier {
	return &Classifier{tables: t}
}

// Classify returns the first exclusion reason that applies to token, or
// ClassDerive.
func (c *Classifier) Classify(token string) Class {
	switch {
	case !hasLowerASCII(token):
		return ClassNoLowercase
	case hasUpperRun(token):
		return ClassAcronym
	case c.tables.IsFiller(stripMarkers(token)):
		return ClassFiller
	}
	return ClassDerive
}

// Eligible reports whether token should be phonemized.
func (c *Classifier) Eligible(token string) bool {
	return c.Classify(token) == ClassDerive
}

func hasLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}

func hasUpperRun(s string) bool {
	for i := 1; i < len(s); i++ {
		if isUpperASCII(s[i-1]) && isUpperASCII(s[i]) {
			return true
		}
	}
	return false
}

func isUpperASCII(c byte) bool { return c >= 'A' && c <= 'Z' }

func stripMarkers(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
}
