// Package phono provides helpers to load, merge, write and fingerprint
// pronunciation dictionaries. Input formats are handled by pluggable
// Loader implementations; the canonical output is the tab-separated
// dictionary consumed by the Montreal Forced Aligner.
package phono

import (
	"slices"
	"strings"
)

// Word is a dictionary headword as it appears in the transcripts.
type Word = string

// Phones is one pronunciation: phone symbols joined by single spaces.
type Phones = string

// Dictionary maps a word to its pronunciations, in preference order.
type Dictionary map[Word][]Phones

// Entry is one (word, pronunciation) line of a dictionary.
type Entry struct {
	Word   Word
	Phones Phones
}

// Words returns the headwords sorted by code point.
func (d Dictionary) Words() []Word {
	words := make([]Word, 0, len(d))
	for w := range d {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// Entries flattens d into lines sorted by word. Pronunciations of one
// word keep their order. An empty pronunciation is only kept for words
// that have nothing else.
func (d Dictionary) Entries() []Entry {
	entries := make([]Entry, 0, len(d))
	for _, w := range d.Words() {
		prons := d[w]
		kept := 0
		for _, p := range prons {
			if p == "" {
				continue
			}
			entries = append(entries, Entry{Word: w, Phones: p})
			kept++
		}
		if kept == 0 {
			entries = append(entries, Entry{Word: w})
		}
	}
	return entries
}

// Add appends pronunciations to w, skipping exact duplicates.
func (d Dictionary) Add(w Word, prons ...Phones) {
	cur, ok := d[w]
	if !ok {
		cur = []Phones{}
	}
	for _, p := range prons {
		if !slices.Contains(cur, p) {
			cur = append(cur, p)
		}
	}
	d[w] = cur
}

// Representation holds the dictionary being assembled together with the
// bookkeeping needed to apply MergeMode across sources.
type Representation struct {
	Entries        Dictionary
	SeenWordPron   map[string]struct{}
	PreloadedWords map[string]struct{}
}

// NewRepresentation creates an empty Representation.
func NewRepresentation() *Representation {
	return &Representation{
		Entries:        make(Dictionary),
		SeenWordPron:   make(map[string]struct{}),
		PreloadedWords: make(map[string]struct{}),
	}
}

// NewRepresentationFrom seeds a Representation with d. Every word of d
// counts as preloaded for the following merges, and empty
// pronunciations are kept.
func NewRepresentationFrom(d Dictionary) *Representation {
	rep := NewRepresentation()
	for w, prons := range d {
		rep.Entries[w] = slices.Clone(prons)
		if rep.Entries[w] == nil {
			rep.Entries[w] = []Phones{}
		}
		for _, p := range prons {
			rep.SeenWordPron[w+"\x00"+p] = struct{}{}
		}
		rep.PreloadedWords[w] = struct{}{}
	}
	return rep
}

// NormalizePhones collapses runs of whitespace to single spaces.
func NormalizePhones(p string) Phones {
	return strings.Join(strings.Fields(p), " ")
}
