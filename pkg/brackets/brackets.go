// Package brackets rewrites phrase-level angle-bracket annotations in
// transcript labels into per-word annotations:
//
//	<a b> c     ->  <a> <b> c
//	<mir, du>!  ->  <mir>, <du>!
//
// Punctuation inside a bracketed phrase stays attached to the word
// before it. The rewrite is idempotent.
package brackets

import (
	"regexp"
	"strings"
)

var (
	// spanPattern is a non-nested span: '<', at least one non-'>' rune, '>'.
	spanPattern = regexp.MustCompile(`<([^>]+)>`)

	// itemPattern splits span content into word runs (group 1) and
	// punctuation runs (group 2). Whitespace and stray brackets are dropped.
	itemPattern = regexp.MustCompile(`([\p{L}\-']+)|([^\p{L}\s\p{Z}\v<>]+)`)
)

// Span locates one bracketed phrase in a label, as byte offsets.
type Span struct {
	Start, End int // the whole span, brackets included
	Content    string
}

// FindSpans returns the bracketed spans of label from left to right. A
// span runs from a '<' to the nearest following '>'; an unmatched '<'
// is skipped and "<>" is not a span.
func FindSpans(label string) []Span {
	locs := spanPattern.FindAllStringSubmatchIndex(label, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{
			Start:   loc[0],
			End:     loc[1],
			Content: label[loc[2]:loc[3]],
		})
	}
	return spans
}

// Rebuild rewrites the content of one span: each word becomes "<word>",
// each punctuation run is glued to the previous bracketed word, and the
// results are joined with single spaces. Punctuation that comes before
// any word is kept bare.
func Rebuild(content string) string {
	var items []string
	for _, m := range itemPattern.FindAllStringSubmatch(strings.TrimSpace(content), -1) {
		switch {
		case m[1] != "":
			items = append(items, "<"+m[1]+">")
		case len(items) > 0:
			items[len(items)-1] += m[2]
		default:
			items = append(items, m[2])
		}
	}
	return strings.Join(items, " ")
}

// Normalize rewrites every bracketed span of label and keeps the text
// between spans verbatim. Empty or whitespace-only labels become "", and
// so does a label left with only whitespace once its spans are rebuilt.
func Normalize(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	spans := FindSpans(label)
	if len(spans) == 0 {
		return label
	}

	var b strings.Builder
	b.Grow(len(label) + 2*len(spans))
	prev := 0
	for _, sp := range spans {
		b.WriteString(label[prev:sp.Start])
		b.WriteString(Rebuild(sp.Content))
		prev = sp.End
	}
	b.WriteString(label[prev:])
	if strings.TrimSpace(b.String()) == "" {
		return ""
	}
	return b.String()
}

// CountWords returns the number of word runs in span content, which is
// also the number of brackets Rebuild produces for it.
func CountWords(content string) int {
	n := 0
	for _, m := range itemPattern.FindAllStringSubmatch(strings.TrimSpace(content), -1) {
		if m[1] != "" {
			n++
		}
	}
	return n
}
