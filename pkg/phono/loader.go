package phono

import (
	"bytes"
	"io"
	"io/fs"
	"strings"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

func init() {
	// Built-in loaders, ordered from most specific to most generic.
	builtinLoaders = []Loader{
		&GobLoader{},
		NewLineLoader(KindMFA, sniffMFATxt, parseMFATxtLine),
	}
	defaultLoader = builtinLoaders[1]
}

// OnEntryFunc is called by a Loader for each dictionary entry
// (word, pronunciations).
type OnEntryFunc func(word Word, prons []Phones) error

// Loader parses a dictionary source and emits (word, pronunciations)
// entries through the provided callback.
type Loader interface {
	// Kind returns a short identifier for the loader.
	Kind() Kind

	// Sniff inspects a prefix of the input and decides whether this
	// loader is appropriate for the source. isEOF is true if sniff
	// contains the full source.
	Sniff(sniff []byte, isEOF bool) bool

	// Load parses the entire source from r and calls emit for each entry found.
	Load(r io.Reader, emit OnEntryFunc) error
}

var (
	builtinLoaders []Loader
	defaultLoader  Loader
)

// RegisterLoader adds a Loader consulted after the built-in ones.
func RegisterLoader(p Loader) {
	if p == nil {
		return
	}
	builtinLoaders = append(builtinLoaders, p)
}

// selectLoader chooses the first loader whose Sniff method returns true,
// falling back to the MFA text loader.
func selectLoader(sniff []byte, isEOF bool) Loader {
	for _, p := range builtinLoaders {
		if p.Sniff(sniff, isEOF) {
			return p
		}
	}
	return defaultLoader
}

// LoadPaths loads and merges dictionaries from a sequence of file paths
// of fsys. MergeMode applies between the files, in order.
func LoadPaths(fsys fs.FS, mode MergeMode, paths ...string) (Dictionary, error) {
	rep := NewRepresentation()
	if err := LoadInto(fsys, rep, mode, paths...); err != nil {
		return nil, err
	}
	return rep.Entries, nil
}

// LoadBlobs loads and merges dictionaries from in-memory byte slices.
func LoadBlobs(mode MergeMode, blobs ...[]byte) (Dictionary, error) {
	rep := NewRepresentation()
	for _, blob := range blobs {
		if len(blob) == 0 {
			continue
		}
		sniff := blob
		isEOF := true
		if len(sniff) > sniffLen {
			sniff = sniff[:sniffLen]
			isEOF = false
		}
		if err := runLoader(selectLoader(sniff, isEOF), mode, bytes.NewReader(blob), rep); err != nil {
			return nil, err
		}
	}
	return rep.Entries, nil
}

// LoadInto loads and merges dictionaries from a sequence of file paths
// into an existing Representation.
func LoadInto(fsys fs.FS, rep *Representation, mode MergeMode, paths ...string) error {
	if rep == nil {
		return yerrors.NewValidation("representation", "nil")
	}
	for _, p := range paths {
		path := strings.TrimSpace(p)
		if path == "" {
			continue
		}
		if err := loadFromFile(fsys, rep, path, mode); err != nil {
			return err
		}
	}
	return nil
}

// Merge merges src into rep as one more source.
func Merge(rep *Representation, mode MergeMode, src Dictionary) error {
	return mergeSource(rep, mode, func(emit OnEntryFunc) error {
		for _, w := range src.Words() {
			if err := emit(w, src[w]); err != nil {
				return err
			}
		}
		return nil
	})
}

// loadFromFile opens a file, sniffs its format and runs the matching loader.
func loadFromFile(fsys fs.FS, rep *Representation, path string, mode MergeMode) error {
	f, err := fsys.Open(path)
	if err != nil {
		return yerrors.NewIO("open", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, readErr := io.ReadFull(f, buf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return yerrors.NewIO("sniff", path, readErr)
	}
	buf = buf[:n]
	isEOF := readErr == io.EOF || readErr == io.ErrUnexpectedEOF || n == 0

	reader := io.MultiReader(bytes.NewReader(buf), f)
	if err := runLoader(selectLoader(buf, isEOF), mode, reader, rep); err != nil {
		var pe *yerrors.ParseError
		if yerrors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return err
	}
	return nil
}

func runLoader(pl Loader, mode MergeMode, r io.Reader, rep *Representation) error {
	return mergeSource(rep, mode, func(emit OnEntryFunc) error {
		return pl.Load(r, emit)
	})
}

// mergeSource runs one source, applying MergeMode semantics and global
// de-duplication of (word, pronunciation) pairs across all sources.
func mergeSource(rep *Representation, mode MergeMode, load func(OnEntryFunc) error) error {
	sourceWords := make(map[string]struct{})
	replaced := make(map[string]struct{}) // used only in MergeModeReplace

	emit := func(word Word, prons []Phones) error {
		word = strings.TrimSpace(word)
		if word == "" || len(prons) == 0 {
			return nil
		}
		sourceWords[word] = struct{}{}
		baseKey := word + "\x00"

		if mode == MergeModeNoOverride {
			if _, pre := rep.PreloadedWords[word]; pre {
				return nil
			}
		}

		// The first time a preloaded word shows up, drop what it had.
		if mode == MergeModeReplace {
			if _, pre := rep.PreloadedWords[word]; pre {
				if _, already := replaced[word]; !already {
					for _, old := range rep.Entries[word] {
						delete(rep.SeenWordPron, baseKey+old)
					}
					rep.Entries[word] = nil
					replaced[word] = struct{}{}
				}
			}
		}

		for _, p := range prons {
			p = NormalizePhones(p)
			if p == "" {
				continue
			}
			key := baseKey + p
			if _, ok := rep.SeenWordPron[key]; ok {
				continue
			}
			rep.SeenWordPron[key] = struct{}{}

			switch mode {
			case MergeModePrepend:
				rep.Entries[word] = append([]Phones{p}, rep.Entries[word]...)
			default:
				rep.Entries[word] = append(rep.Entries[word], p)
			}
		}
		return nil
	}

	if err := load(emit); err != nil {
		return err
	}

	// Words of this source count as preloaded for the next merges.
	for w := range sourceWords {
		rep.PreloadedWords[w] = struct{}{}
	}
	return nil
}
