package g2p

import "github.com/temporal-IPA/yidmfa/pkg/yiddish"

const (
	zayin    = 'ז'
	shin     = 'ש'
	tes      = 'ט'
	nun      = 'נ'
	finalNun = 'ן'
	lamed    = 'ל'
	yud      = 'י'
)

// Cascade is an ordered list of rules. Each rule rewrites the whole
// string before the next one runs, so the order is significant.
type Cascade []Rule

// Apply runs every rule in order.
func (c Cascade) Apply(s string) string {
	for _, r := range c {
		s = r.Apply(s)
	}
	return s
}

// Trace runs every rule in order and returns the string after each one.
func (c Cascade) Trace(s string) []string {
	states := make([]string, len(c))
	for i, r := range c {
		s = r.Apply(s)
		states[i] = s
	}
	return states
}

// Names returns the rule names in application order.
func (c Cascade) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}
	return names
}

// NewCascade builds the Yiddish rewrite rules:
//
//  1. זש and טש become single affricate symbols;
//  2. נ after a vowel and before a velar becomes a velar nasal;
//  3. נ before a consonant, and ן, become syllabic when no vowel precedes;
//  4. ל becomes syllabic when no vowel precedes and a consonant or the
//     end of the word follows;
//  5. every י becomes a glide, which turns into i unless a vowel
//     follows, and into y otherwise.
func NewCascade(t *yiddish.Tables) Cascade {
	sym := t.Symbols()
	vowels := t.Vowels()
	consonants := t.Consonants()
	return Cascade{
		{Name: "zh-digraph", Target: string([]rune{zayin, shin}), Replace: string(sym.PostalveolarFricative)},
		{Name: "tsh-digraph", Target: string([]rune{tes, shin}), Replace: string(sym.PostalveolarAffricate)},
		{
			Name:    "velar-nasal",
			Target:  string(nun),
			Replace: string(sym.VelarNasal),
			Before:  In(vowels),
			After:   In(t.Velars()),
		},
		{
			Name:    "syllabic-nasal",
			Target:  string(nun),
			Replace: string(sym.SyllabicNasal),
			Before:  NotIn(vowels),
			After:   In(consonants),
		},
		{
			Name:    "syllabic-final-nasal",
			Target:  string(finalNun),
			Replace: string(sym.SyllabicNasal),
			Before:  NotIn(vowels),
		},
		{
			Name:    "syllabic-lateral",
			Target:  string(lamed),
			Replace: string(sym.SyllabicLateral),
			Before:  NotIn(vowels),
			After:   InOrBoundary(consonants),
		},
		{Name: "glide", Target: string(yud), Replace: string(sym.Glide)},
		{
			Name:    "glide-vowel",
			Target:  string(sym.Glide),
			Replace: string(sym.HighVowel),
			After:   NotIn(t.GlideVowels()),
		},
		{Name: "glide-consonant", Target: string(sym.Glide), Replace: string(sym.Palatal)},
	}
}
