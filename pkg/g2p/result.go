package g2p

import "strings"

// Pronunciation is the derivation result for one word.
type Pronunciation struct {
	Word   string
	Phones []string
}

// String joins the phones with single spaces, the dictionary notation.
func (p Pronunciation) String() string {
	return strings.Join(p.Phones, " ")
}

// Empty reports whether the derivation produced no phone at all.
func (p Pronunciation) Empty() bool {
	return len(p.Phones) == 0
}
