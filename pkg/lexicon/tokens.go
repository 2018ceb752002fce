package lexicon

import (
	"regexp"
	"slices"

	"github.com/temporal-IPA/yidmfa/pkg/textgrid"
)

// TokenPattern is the word-boundary pattern: a maximal run of letters,
// hyphens, apostrophes and the '<' '>' markers.
var TokenPattern = regexp.MustCompile(`[\p{L}\-'<>]+`)

// Tokens returns the tokens of one label, in order, with repetitions.
func Tokens(label string) []string {
	return TokenPattern.FindAllString(label, -1)
}

// ExtractTokens collects the distinct tokens of every interval label of
// every interval tier of docs, sorted by code point.
func ExtractTokens(docs []*textgrid.TextGrid) []string {
	set := make(map[string]struct{})
	for _, tg := range docs {
		if tg == nil {
			continue
		}
		for _, label := range tg.Labels() {
			for _, tok := range Tokens(label) {
				set[tok] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	slices.Sort(out)
	return out
}
