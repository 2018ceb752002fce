package lexicon

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/temporal-IPA/yidmfa/pkg/brackets"
	"github.com/temporal-IPA/yidmfa/pkg/conversion/psr"
	"github.com/temporal-IPA/yidmfa/pkg/phono"
	"github.com/temporal-IPA/yidmfa/pkg/textgrid"
	"github.com/temporal-IPA/yidmfa/pkg/yiddish"
)

func grid(labels ...string) *textgrid.TextGrid {
	tier := &textgrid.Tier{Name: "words", Class: textgrid.ClassInterval, XMax: float64(len(labels))}
	for i, l := range labels {
		tier.Intervals = append(tier.Intervals, textgrid.Interval{Start: float64(i), End: float64(i + 1), Label: l})
	}
	events := &textgrid.Tier{
		Name:   "events",
		Class:  textgrid.ClassPoint,
		XMax:   float64(len(labels)),
		Points: []textgrid.Point{{Time: 0.5, Mark: "<lakhn>"}},
	}
	return &textgrid.TextGrid{XMax: float64(len(labels)), Tiers: []*textgrid.Tier{tier, events}}
}

// fakeDeriver returns canned phones.
type fakeDeriver map[string]string

func (f fakeDeriver) Derive(word string) []string {
	return strings.Fields(f[word])
}

// TestExtractTokens checks deduplication, sorting and that point tiers
// are ignored.
func TestExtractTokens(t *testing.T) {
	docs := []*textgrid.TextGrid{
		grid("<a b> mir", "", "mir, zog-er s'iz"),
		grid("mir"),
		nil,
	}
	want := []string{"<a", "b>", "mir", "s'iz", "zog-er"}
	if got := ExtractTokens(docs); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestBuildTokensExcludesUndecided is the gate scenario: only eligible
// tokens reach the dictionary.
func TestBuildTokensExcludesUndecided(t *testing.T) {
	b := NewBuilder(yiddish.Default())
	lex, err := b.BuildTokens(context.Background(), []string{"a", "b", "UNK", "spn", "a"})
	if err != nil {
		t.Fatalf("BuildTokens: %v", err)
	}
	if got, want := string(phono.MarshalMFA(lex.Dict)), "a\ta\nb\tb"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	want := Stats{Tokens: 4, Derived: 2, NoLowercase: 1, Filler: 1}
	if lex.Stats != want {
		t.Fatalf("expected stats %+v, got %+v", want, lex.Stats)
	}
}

// TestBuildFromNormalizedGrid runs normalization then the dictionary
// build over the same grid.
func TestBuildFromNormalizedGrid(t *testing.T) {
	tg := grid("<a b> mir", "UNK spn")
	tg.MapLabels(brackets.Normalize)
	if got := tg.Tiers[0].Intervals[0].Label; got != "<a> <b> mir" {
		t.Fatalf("expected %q, got %q", "<a> <b> mir", got)
	}

	lex, err := NewBuilder(yiddish.Default()).Build(context.Background(), []*textgrid.TextGrid{tg})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []phono.Entry{
		{Word: "<a>", Phones: "a"},
		{Word: "<b>", Phones: "b"},
		{Word: "mir", Phones: "m i r"},
	}
	if got := lex.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// TestBuildIsByteIdentical builds twice, sequentially and in parallel,
// and compares the serialized dictionaries.
func TestBuildIsByteIdentical(t *testing.T) {
	docs := []*textgrid.TextGrid{
		grid("<mir zenen> gekumen", "in shtetl, tsholnt", "zhurnal lebn gang"),
		grid("un s'iz <vayb>!", "hm UNK TV"),
	}
	seq := NewBuilder(yiddish.Default())
	par := NewBuilder(yiddish.Default())
	par.Workers = 8

	first, err := seq.Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := par.Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, b := phono.MarshalMFA(first.Dict), phono.MarshalMFA(second.Dict)
	if string(a) != string(b) {
		t.Fatalf("expected identical output:\n%s\n---\n%s", a, b)
	}
	if first.Stats != second.Stats {
		t.Fatalf("expected identical stats, got %+v and %+v", first.Stats, second.Stats)
	}
	if strings.Contains(string(a), "TBD") {
		t.Fatalf("undecided entries leaked:\n%s", a)
	}
}

// TestEmptyAndUndecidedDerivations checks that an empty derivation is
// kept and a TBD derivation is dropped.
func TestEmptyAndUndecidedDerivations(t *testing.T) {
	b := NewBuilder(yiddish.Default())
	b.Deriver = fakeDeriver{"ok": "o k", "blank": "", "unkx": "TBD"}

	lex, err := b.BuildTokens(context.Background(), []string{"ok", "blank", "unkx"})
	if err != nil {
		t.Fatalf("BuildTokens: %v", err)
	}
	if got, want := string(phono.MarshalMFA(lex.Dict)), "blank\t\nok\to k"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if lex.Stats.Empty != 1 || lex.Stats.Undecided != 1 || lex.Stats.Derived != 2 {
		t.Fatalf("unexpected stats %+v", lex.Stats)
	}
}

// TestPhoneMap checks that the mapping applies to derived phones.
func TestPhoneMap(t *testing.T) {
	rule, err := psr.LoadBlob([]byte(`{"replacements": {"/tsh/": "ch", "/en/": "e n"}}`))
	if err != nil {
		t.Fatalf("LoadBlob: %v", err)
	}
	b := NewBuilder(yiddish.Default())
	b.PhoneMap = rule

	lex, err := b.BuildTokens(context.Background(), []string{"tsholnt"})
	if err != nil {
		t.Fatalf("BuildTokens: %v", err)
	}
	if got, want := lex.Dict["tsholnt"], []string{"ch o l e n t"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestCuratedMerge checks merge modes and that curated words absent
// from the transcripts are ignored.
func TestCuratedMerge(t *testing.T) {
	curated := phono.Dictionary{
		"mir":    {"m ii r"},
		"UNK":    {"spn"},
		"absent": {"a b"},
	}
	tokens := []string{"mir", "a", "UNK"}

	b := NewBuilder(yiddish.Default())
	b.Curated = []phono.Dictionary{curated}
	b.MergeMode = phono.MergeModeReplace
	lex, err := b.BuildTokens(context.Background(), tokens)
	if err != nil {
		t.Fatalf("BuildTokens: %v", err)
	}
	want := phono.Dictionary{"a": {"a"}, "mir": {"m ii r"}, "UNK": {"spn"}}
	if !reflect.DeepEqual(lex.Dict, want) {
		t.Fatalf("expected %v, got %v", want, lex.Dict)
	}
	if lex.Stats.Curated != 2 {
		t.Fatalf("expected 2 curated words, got %d", lex.Stats.Curated)
	}

	b.MergeMode = phono.MergeModeNoOverride
	lex, err = b.BuildTokens(context.Background(), tokens)
	if err != nil {
		t.Fatalf("BuildTokens: %v", err)
	}
	if got := lex.Dict["mir"]; !reflect.DeepEqual(got, []string{"m i r"}) {
		t.Fatalf("no-override must keep the derived entry, got %q", got)
	}
}

// TestBuildCanceled checks that a canceled context aborts the build.
func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBuilder(yiddish.Default())
	b.Workers = 4
	if _, err := b.BuildTokens(ctx, []string{"mir", "zog"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
