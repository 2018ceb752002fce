// Package yiddish holds the fixed orthographic tables used to turn
// romanized (YIVO) Yiddish into Hebrew-alphabet spelling and back into
// per-letter Latin tokens.
//
// The tables are decoded once from the embedded tables.json and are
// read-only afterwards; components receive a *Tables explicitly.
package yiddish

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

//go:embed tables.json
var tablesJSON []byte

var defaultTables *Tables

func init() {
	var err error
	defaultTables, err = LoadTables(bytes.NewReader(tablesJSON))
	if err != nil {
		panic(fmt.Sprintf("decode embedded Yiddish tables: %s", err.Error()))
	}
}

// Default returns the tables built from the embedded definition.
func Default() *Tables {
	return defaultTables
}

// RuneSet is a set of single code points.
type RuneSet map[rune]struct{}

// Contains reports whether r is in the set.
func (s RuneSet) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

// Symbols are the single-rune placeholders introduced by the rewrite
// cascade before the base transliteration runs.
type Symbols struct {
	PostalveolarFricative rune
	PostalveolarAffricate rune
	VelarNasal            rune
	SyllabicNasal         rune
	SyllabicLateral       rune
	Glide                 rune
	HighVowel             rune
	Palatal               rune
}

// Expansion maps a placeholder to its final phoneme spelling.
type Expansion struct {
	From string
	To   string
}

type grapheme struct {
	latin  string
	hebrew string
}

// Tables is the immutable set of orthographic data.
type Tables struct {
	unknownPlaceholder string
	sentinel           string
	fillers            []string
	fillerSet          map[string]struct{}

	vowels      RuneSet
	glideVowels RuneSet
	velars      RuneSet
	consonants  RuneSet

	symbols    Symbols
	expansions []Expansion

	transliteration map[string]string

	graphemes      []grapheme
	finals         map[string]string
	initials       map[string]string
	vowelGraphemes map[string]struct{}
	markedU        string
	markedI        string

	punctuation map[rune]string
}

// rawTables mirrors tables.json.
type rawTables struct {
	UnknownPlaceholder string            `json:"unknown_placeholder"`
	Sentinel           string            `json:"sentinel"`
	Fillers            []string          `json:"fillers"`
	Vowels             []string          `json:"vowels"`
	GlideVowels        []string          `json:"glide_vowels"`
	Velars             []string          `json:"velars"`
	Consonants         []string          `json:"consonants"`
	Symbols            map[string]string `json:"symbols"`
	Expansions         [][2]string       `json:"expansions"`
	Transliteration    map[string]string `json:"transliteration"`
	Romanization       struct {
		Graphemes      [][2]string       `json:"graphemes"`
		Finals         map[string]string `json:"finals"`
		Initials       map[string]string `json:"initials"`
		VowelGraphemes []string          `json:"vowel_graphemes"`
		MarkedU        string            `json:"marked_u"`
		MarkedI        string            `json:"marked_i"`
	} `json:"romanization"`
	Punctuation map[string]string `json:"punctuation"`
}

// LoadTables decodes a tables definition with the same layout as the
// embedded tables.json.
func LoadTables(r io.Reader) (*Tables, error) {
	var raw rawTables
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}

	t := &Tables{
		unknownPlaceholder: raw.UnknownPlaceholder,
		sentinel:           raw.Sentinel,
		transliteration:    make(map[string]string, len(raw.Transliteration)),
		finals:             raw.Romanization.Finals,
		initials:           raw.Romanization.Initials,
		vowelGraphemes:     make(map[string]struct{}),
		markedU:            raw.Romanization.MarkedU,
		markedI:            raw.Romanization.MarkedI,
		punctuation:        make(map[rune]string, len(raw.Punctuation)),
	}
	if t.sentinel == "" || t.unknownPlaceholder == "" {
		return nil, fmt.Errorf("tables: sentinel and unknown_placeholder are required")
	}
	t.setFillers(raw.Fillers)

	var err error
	if t.vowels, err = runeSet("vowels", raw.Vowels); err != nil {
		return nil, err
	}
	if t.glideVowels, err = runeSet("glide_vowels", raw.GlideVowels); err != nil {
		return nil, err
	}
	if t.velars, err = runeSet("velars", raw.Velars); err != nil {
		return nil, err
	}
	if t.consonants, err = runeSet("consonants", raw.Consonants); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		dst  *rune
	}{
		{"postalveolar_fricative", &t.symbols.PostalveolarFricative},
		{"postalveolar_affricate", &t.symbols.PostalveolarAffricate},
		{"velar_nasal", &t.symbols.VelarNasal},
		{"syllabic_nasal", &t.symbols.SyllabicNasal},
		{"syllabic_lateral", &t.symbols.SyllabicLateral},
		{"glide", &t.symbols.Glide},
		{"high_vowel", &t.symbols.HighVowel},
		{"palatal", &t.symbols.Palatal},
	}
	for _, f := range fields {
		r, err := singleRune("symbols."+f.name, raw.Symbols[f.name])
		if err != nil {
			return nil, err
		}
		*f.dst = r
	}

	for _, e := range raw.Expansions {
		t.expansions = append(t.expansions, Expansion{From: e[0], To: e[1]})
	}

	// Keys are compared in NFD so that mark order and precomposed
	// presentation forms do not matter.
	for k, v := range raw.Transliteration {
		t.transliteration[norm.NFD.String(k)] = v
	}

	for _, g := range raw.Romanization.Graphemes {
		if g[0] == "" {
			return nil, fmt.Errorf("tables: empty romanization grapheme")
		}
		t.graphemes = append(t.graphemes, grapheme{latin: g[0], hebrew: g[1]})
	}
	// Longest match first; ties keep file order.
	sort.SliceStable(t.graphemes, func(i, j int) bool {
		return len(t.graphemes[i].latin) > len(t.graphemes[j].latin)
	})
	for _, v := range raw.Romanization.VowelGraphemes {
		t.vowelGraphemes[v] = struct{}{}
	}

	for k, v := range raw.Punctuation {
		r, err := singleRune("punctuation key", k)
		if err != nil {
			return nil, err
		}
		t.punctuation[r] = v
	}
	return t, nil
}

func runeSet(name string, items []string) (RuneSet, error) {
	set := make(RuneSet, len(items))
	for _, s := range items {
		r, err := singleRune(name, s)
		if err != nil {
			return nil, err
		}
		set[r] = struct{}{}
	}
	return set, nil
}

func singleRune(name, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("tables: %s: %q is not a single code point", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func (t *Tables) setFillers(fillers []string) {
	t.fillers = append([]string(nil), fillers...)
	t.fillerSet = make(map[string]struct{}, len(fillers))
	for _, f := range fillers {
		t.fillerSet[f] = struct{}{}
	}
}

// WithFillers returns a copy of t using fillers as the filler-word list.
func (t *Tables) WithFillers(fillers []string) *Tables {
	c := *t
	c.setFillers(fillers)
	return &c
}

// UnknownPlaceholder is the transcript marker for an unresolved segment ("UNK").
func (t *Tables) UnknownPlaceholder() string { return t.unknownPlaceholder }

// Sentinel is the symbol the placeholder is mapped to during derivation.
func (t *Tables) Sentinel() string { return t.sentinel }

// IsFiller reports whether s is a filled pause, backchannel or silence marker.
func (t *Tables) IsFiller(s string) bool {
	_, ok := t.fillerSet[s]
	return ok
}

// Fillers returns a copy of the filler-word list.
func (t *Tables) Fillers() []string {
	return append([]string(nil), t.fillers...)
}

// Vowels is the vowel-letter class used by the nasal and lateral rules.
func (t *Tables) Vowels() RuneSet { return t.vowels }

// GlideVowels is the class that keeps a glide consonantal.
func (t *Tables) GlideVowels() RuneSet { return t.glideVowels }

// Velars is the class that turns a post-vocalic nun into a velar nasal.
func (t *Tables) Velars() RuneSet { return t.velars }

// Consonants is the class following a syllabic nasal or lateral.
func (t *Tables) Consonants() RuneSet { return t.consonants }

// Symbols returns the cascade placeholders.
func (t *Tables) Symbols() Symbols { return t.symbols }

// Expansions returns the placeholder expansions in table order.
func (t *Tables) Expansions() []Expansion {
	return append([]Expansion(nil), t.expansions...)
}
