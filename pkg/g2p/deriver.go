package g2p

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/temporal-IPA/yidmfa/pkg/yiddish"
)

// nonWord matches everything that is neither a word character (letter,
// digit, underscore) nor a space. Combining marks and connector
// punctuation other than '_' are removed as well.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_ ]`)

// Deriver converts romanized Yiddish words into space-separated phone
// sequences suitable for an MFA pronunciation dictionary.
//
// A word goes through four stages:
//
//   - preprocessing: the unknown-segment placeholder becomes the
//     sentinel, the word is lowercased, spelled in the Hebrew alphabet
//     and stripped of romanization punctuation;
//   - the rewrite cascade (see NewCascade);
//   - per-character transliteration back to Latin;
//   - placeholder expansion and cleanup.
//
// A Deriver has no mutable state and is safe for concurrent use.
type Deriver struct {
	tables  *yiddish.Tables
	cascade Cascade
	expand  *strings.Replacer
}

var (
	_ Processor            = (*Deriver)(nil)
	_ CancellableProcessor = (*Deriver)(nil)
)

// NewDeriver returns a Deriver using the standard cascade for t.
func NewDeriver(t *yiddish.Tables) *Deriver {
	return NewDeriverWithCascade(t, NewCascade(t))
}

// NewDeriverWithCascade returns a Deriver running c instead of the
// standard cascade.
func NewDeriverWithCascade(t *yiddish.Tables, c Cascade) *Deriver {
	var pairs []string
	for _, e := range t.Expansions() {
		pairs = append(pairs, e.From, e.To)
	}
	return &Deriver{
		tables:  t,
		cascade: c,
		expand:  strings.NewReplacer(pairs...),
	}
}

// Cascade returns the rewrite rules in application order.
func (d *Deriver) Cascade() Cascade {
	return d.cascade
}

// Preprocess spells a romanized word in the Hebrew alphabet.
func (d *Deriver) Preprocess(word string) string {
	w := strings.ReplaceAll(word, d.tables.UnknownPlaceholder(), d.tables.Sentinel())
	w = strings.ToLower(w)
	return d.tables.ReplacePunctuation(d.tables.Detransliterate(w))
}

// Derive returns the phones of a romanized word, or an empty slice when
// nothing pronounceable is left.
func (d *Deriver) Derive(word string) []string {
	return d.DeriveHebrew(d.Preprocess(word))
}

// DeriveHebrew returns the phones of a word already spelled in the
// Hebrew alphabet.
func (d *Deriver) DeriveHebrew(s string) []string {
	s = d.cascade.Apply(norm.NFD.String(s))
	return d.finish(s)
}

func (d *Deriver) finish(s string) []string {
	joined := strings.Join(d.tables.Transliterate(s), " ")
	joined = d.expand.Replace(joined)
	joined = nonWord.ReplaceAllString(joined, "")
	return strings.Fields(joined)
}

// Step is one stage of a traced derivation.
type Step struct {
	Name   string
	Output string
}

// Trace derives word and records the intermediate string after every
// stage and every rule. The last step holds the final phones.
func (d *Deriver) Trace(word string) []Step {
	hebrew := norm.NFD.String(d.Preprocess(word))
	steps := []Step{{Name: "preprocess", Output: hebrew}}
	states := d.cascade.Trace(hebrew)
	for i, name := range d.cascade.Names() {
		steps = append(steps, Step{Name: name, Output: states[i]})
	}
	last := hebrew
	if len(states) > 0 {
		last = states[len(states)-1]
	}
	steps = append(steps, Step{Name: "phones", Output: strings.Join(d.finish(last), " ")})
	return steps
}

// StreamDerive derives every word received on in until in is closed or
// ctx is canceled. Results keep the input order.
func (d *Deriver) StreamDerive(ctx context.Context, in <-chan string) <-chan Pronunciation {
	out := make(chan Pronunciation)

	go func() {
		defer close(out)
		for {
			var word string
			select {
			case <-ctx.Done():
				return
			case w, ok := <-in:
				if !ok {
					return
				}
				word = w
			}

			p := Pronunciation{Word: word, Phones: d.Derive(word)}

			select {
			case <-ctx.Done():
				return
			case out <- p:
			}
		}
	}()

	return out
}
