// Package lexicon builds the pronunciation dictionary of a transcript
// collection: it extracts the distinct tokens, gates them through the
// classifier, derives the phones of the eligible ones and assembles a
// word-sorted dictionary without undecided entries.
package lexicon

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temporal-IPA/yidmfa/internal/logging"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
	"github.com/temporal-IPA/yidmfa/pkg/g2p"
	"github.com/temporal-IPA/yidmfa/pkg/phono"
	"github.com/temporal-IPA/yidmfa/pkg/textgrid"
	"github.com/temporal-IPA/yidmfa/pkg/yiddish"
)

// TBD marks a token left out of the dictionary.
const TBD = "TBD"

// Stats counts the classification outcome of every distinct token.
type Stats struct {
	Tokens      int
	Derived     int
	NoLowercase int
	Acronym     int
	Filler      int
	// Empty counts derived tokens whose cleanup left no phone.
	Empty int
	// Undecided counts derived tokens whose phones are exactly TBD.
	Undecided int
	// Curated counts transcript words listed in a curated dictionary.
	Curated int
}

// Lexicon is the result of a build.
type Lexicon struct {
	Dict  phono.Dictionary
	Stats Stats
}

// Entries returns the dictionary lines sorted by word.
func (l *Lexicon) Entries() []phono.Entry {
	return l.Dict.Entries()
}

// Builder assembles a Lexicon from TextGrid documents.
type Builder struct {
	Deriver    g2p.Processor
	Classifier *g2p.Classifier

	// Workers bounds the number of concurrent derivations. Values below
	// 1 mean sequential.
	Workers int

	// PhoneMap, when set, rewrites every derived pronunciation.
	PhoneMap conversion.Rule

	// Curated dictionaries are merged over the derived entries with
	// MergeMode, in order. Only words present in the transcripts are
	// kept.
	Curated   []phono.Dictionary
	MergeMode phono.MergeMode

	Logger *slog.Logger
}

// NewBuilder returns a sequential Builder using the standard deriver
// and classifier for t.
func NewBuilder(t *yiddish.Tables) *Builder {
	return &Builder{
		Deriver:    g2p.NewDeriver(t),
		Classifier: g2p.NewClassifier(t),
		Workers:    1,
	}
}

// Build extracts the tokens of docs and builds their dictionary.
func (b *Builder) Build(ctx context.Context, docs []*textgrid.TextGrid) (*Lexicon, error) {
	return b.BuildTokens(ctx, ExtractTokens(docs))
}

// BuildTokens builds the dictionary of the given tokens. Duplicates are
// collapsed. The only error returned is ctx's.
func (b *Builder) BuildTokens(ctx context.Context, tokens []string) (*Lexicon, error) {
	log := logging.OrDiscard(b.Logger)

	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	sorted := sortedSet(set)

	lex := &Lexicon{Dict: make(phono.Dictionary, len(sorted))}
	lex.Stats.Tokens = len(sorted)

	// Classification is cheap and done up front so that the stats do
	// not depend on scheduling.
	var eligible []string
	for _, tok := range sorted {
		switch b.Classifier.Classify(tok) {
		case g2p.ClassDerive:
			eligible = append(eligible, tok)
		case g2p.ClassNoLowercase:
			lex.Stats.NoLowercase++
		case g2p.ClassAcronym:
			lex.Stats.Acronym++
		case g2p.ClassFiller:
			lex.Stats.Filler++
		}
	}

	prons, err := b.derive(ctx, eligible)
	if err != nil {
		return nil, err
	}
	for i, tok := range eligible {
		p := prons[i]
		switch {
		case p == TBD:
			lex.Stats.Undecided++
			log.Debug("undecided token", "token", tok)
			continue
		case p == "":
			lex.Stats.Empty++
			log.Debug("empty pronunciation", "token", tok)
		}
		lex.Stats.Derived++
		lex.Dict.Add(tok, p)
	}

	if len(b.Curated) > 0 {
		lex.Stats.Curated = b.mergeCurated(lex.Dict, set)
	}

	log.Info("dictionary built",
		"tokens", lex.Stats.Tokens,
		"entries", len(lex.Dict),
		"derived", lex.Stats.Derived,
		"excluded", lex.Stats.NoLowercase+lex.Stats.Acronym+lex.Stats.Filler+lex.Stats.Undecided,
		"empty", lex.Stats.Empty,
		"curated", lex.Stats.Curated,
	)
	return lex, nil
}

// derive returns the space-joined pronunciation of every token, in the
// same order. Results are written to index-addressed slots so the
// outcome does not depend on the number of workers.
func (b *Builder) derive(ctx context.Context, tokens []string) ([]string, error) {
	out := make([]string, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Workers, 1))
	for i, tok := range tokens {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = b.pronounce(tok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) pronounce(tok string) string {
	p := strings.Join(b.Deriver.Derive(tok), " ")
	if b.PhoneMap != nil && p != "" && p != TBD {
		p = phono.NormalizePhones(b.PhoneMap.Convert(p))
	}
	return p
}

// mergeCurated merges the curated dictionaries into dict, restricted to
// the transcript tokens in present, and returns the number of words
// listed by at least one of them.
func (b *Builder) mergeCurated(dict phono.Dictionary, present map[string]struct{}) int {
	rep := phono.NewRepresentationFrom(dict)
	touched := make(map[string]struct{})
	for _, c := range b.Curated {
		scoped := make(phono.Dictionary)
		for w, prons := range c {
			if _, ok := present[w]; ok {
				scoped[w] = prons
				touched[w] = struct{}{}
			}
		}
		// Merging an in-memory dictionary cannot fail.
		_ = phono.Merge(rep, b.MergeMode, scoped)
	}
	for w := range dict {
		delete(dict, w)
	}
	for w, prons := range rep.Entries {
		dict[w] = prons
	}
	return len(touched)
}
