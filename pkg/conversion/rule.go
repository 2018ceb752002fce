// Package conversion holds text conversions applied around the core:
// byte encodings of transcript files and phone-set mapping rules.
package conversion

// Rule converts a pronunciation (space-separated phones) into another
// notation, for example the phone set of a pretrained acoustic model.
type Rule interface {
	Convert(s string) string
}

// Identity leaves pronunciations unchanged.
type Identity struct{}

// Convert implements Rule.
func (Identity) Convert(s string) string { return s }
