package brackets

import (
	"strings"
	"testing"
)

// TestNormalize checks the rewrite on typical transcript labels.
func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"<a b> c", "<a> <b> c"},
		{"<mir האבן>!", "<mir> <האבן>!"},
		{"<mir, du>", "<mir>, <du>"},
		{"<mir du?!>", "<mir> <du?!>"},
		{"a <b> c <d e>.", "a <b> c <d> <e>."},
		{"< a >", "<a>"},
		{"<s'iz gut-morgn>", "<s'iz> <gut-morgn>"},
		{"<?? vos>", "?? <vos>"},
		{"no brackets here", "no brackets here"},
		{"<>", "<>"},
		{"<a <b>", "<a> <b>"},
		{"x <   > y", "x  y"},
		{"<a", "<a"},
		{"a>", "a>"},
		{"", ""},
		{"   ", ""},
		{"\t\n", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

// TestNormalizeIsIdempotent checks that normalizing twice changes nothing.
func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"<a b> c",
		"<mir האבן>!",
		"<mir, du> <zogt er>.",
		"<?? vos>",
		"<a <b>",
		"plain text",
		"<UNK spn> <uh>",
		"",
		"x <   > y",
		"\t<\u00a0>",
		"\u2028<\u2028>",
		"\t<<>\u00a0",
		" <!?> ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// TestNormalizeDropsSpansLeavingOnlyWhitespace checks that a label whose
// spans rebuild to nothing and whose remaining text is whitespace becomes "".
func TestNormalizeDropsSpansLeavingOnlyWhitespace(t *testing.T) {
	cases := []struct{ in, want string }{
		{"\t<\u00a0>", ""},
		{"\u2028<\u2028>", ""},
		{"\t<<>\u00a0", ""},
		{"  <   >  ", ""},
		{"x <   > y", "x  y"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

// TestBracketCountMatchesWordCount checks that every word run of a span
// gets exactly one bracket pair.
func TestBracketCountMatchesWordCount(t *testing.T) {
	for _, in := range []string{"<a b c>", "<mir, du? ikh!>", "<?? vos iz>", "<a-b c'd>"} {
		spans := FindSpans(in)
		if len(spans) != 1 {
			t.Fatalf("expected one span in %q, got %d", in, len(spans))
		}
		out := Normalize(in)
		if got, want := strings.Count(out, "<"), CountWords(spans[0].Content); got != want {
			t.Errorf("%q -> %q: expected %d brackets, got %d", in, out, want, got)
		}
	}
}

// TestFindSpans checks offsets and content of the located spans.
func TestFindSpans(t *testing.T) {
	label := "x <a b> y <c>"
	spans := FindSpans(label)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Content != "a b" || label[spans[0].Start:spans[0].End] != "<a b>" {
		t.Fatalf("unexpected first span %+v", spans[0])
	}
	if spans[1].Content != "c" || spans[1].End != len(label) {
		t.Fatalf("unexpected second span %+v", spans[1])
	}
}
