// Package psr implements phone mapping rules made of prefix, suffix and
// replacement presets loaded from JSON:
//
//	{
//	  "prefixes":     {"/e/": "ae"},
//	  "suffixes":     {"/en/": "e n"},
//	  "replacements": {"/tsh/": "ch", "kh": "x"}
//	}
//
// A key between slashes matches whole phones only; other keys match
// anywhere in the space-separated pronunciation.
package psr

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
)

// Rule implements a simple conversion mechanism
// that relies on presets.
type Rule struct {
	Prefixes     map[string]string `json:"prefixes"`
	Suffixes     map[string]string `json:"suffixes"`
	Replacements map[string]string `json:"replacements"`
}

var _ conversion.Rule = (*Rule)(nil)

// Load loads from a file path.
func Load(path string) (*Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, yerrors.NewIO("read phone map", path, err)
	}
	r, err := LoadBlob(b)
	if err != nil {
		var pe *yerrors.ParseError
		if yerrors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return r, nil
}

// LoadBlob loads the rule from bytes.
func LoadBlob(blob []byte) (*Rule, error) {
	r := &Rule{}
	if err := json.Unmarshal(blob, r); err != nil {
		return nil, &yerrors.ParseError{Format: "phone map", Message: err.Error(), Err: err}
	}
	return r, nil
}

// isPhoneKey reports whether a key names whole phones ("/tsh/").
// A single slash or an empty pair is not a phone key.
func isPhoneKey(k string) bool {
	return len(k) > 2 && strings.HasPrefix(k, "/") && strings.HasSuffix(k, "/")
}

type preset struct {
	key, value string
}

// ordered splits m into phone presets and text presets, each sorted by
// decreasing key length then key, so that the result never depends on
// map iteration order.
func ordered(m map[string]string) (phone, text []preset) {
	for k, v := range m {
		if isPhoneKey(k) {
			phone = append(phone, preset{strings.Trim(k, "/"), v})
		} else {
			text = append(text, preset{k, v})
		}
	}
	less := func(ps []preset) func(i, j int) bool {
		return func(i, j int) bool {
			if len(ps[i].key) != len(ps[j].key) {
				return len(ps[i].key) > len(ps[j].key)
			}
			return ps[i].key < ps[j].key
		}
	}
	sort.Slice(phone, less(phone))
	sort.Slice(text, less(text))
	return phone, text
}

// applyPhoneRules works on the phone list: a prefix rule rewrites the
// first phone sequence, a suffix rule the last one, a replacement every
// occurrence. Keys and values may span several phones.
func applyPhoneRules(phones []string, prefixes, suffixes, replacements []preset) []string {
	for _, p := range prefixes {
		key := strings.Fields(p.key)
		if hasPhonePrefix(phones, key) {
			phones = append(strings.Fields(p.value), phones[len(key):]...)
		}
	}
	for _, p := range suffixes {
		key := strings.Fields(p.key)
		if len(key) <= len(phones) && hasPhonePrefix(phones[len(phones)-len(key):], key) {
			head := append([]string(nil), phones[:len(phones)-len(key)]...)
			phones = append(head, strings.Fields(p.value)...)
		}
	}
	for _, p := range replacements {
		key := strings.Fields(p.key)
		if len(key) == 0 {
			continue
		}
		value := strings.Fields(p.value)
		out := make([]string, 0, len(phones))
		for i := 0; i < len(phones); {
			if hasPhonePrefix(phones[i:], key) {
				out = append(out, value...)
				i += len(key)
				continue
			}
			out = append(out, phones[i])
			i++
		}
		phones = out
	}
	return phones
}

func hasPhonePrefix(phones, key []string) bool {
	if len(key) == 0 || len(key) > len(phones) {
		return false
	}
	for i := range key {
		if phones[i] != key[i] {
			return false
		}
	}
	return true
}

// applyTextRules is the plain string version: prefix, suffix, then
// in-string replacements.
func applyTextRules(s string, prefixes, suffixes, replacements []preset) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.key) {
			s = p.value + s[len(p.key):]
		}
	}
	for _, p := range suffixes {
		if strings.HasSuffix(s, p.key) {
			s = s[:len(s)-len(p.key)] + p.value
		}
	}
	for _, p := range replacements {
		if p.key != "" {
			s = strings.ReplaceAll(s, p.key, p.value)
		}
	}
	return s
}

// Convert implements conversion.Rule.
//
// Phone rules (keys between slashes) always run first since they are
// more precise: "/s/" rewrites the phone s but leaves "sh" alone. Text
// rules run second on the result. Extra spaces are collapsed.
func (r Rule) Convert(s string) string {
	phonePre, textPre := ordered(r.Prefixes)
	phoneSuf, textSuf := ordered(r.Suffixes)
	phoneRep, textRep := ordered(r.Replacements)

	phones := applyPhoneRules(strings.Fields(s), phonePre, phoneSuf, phoneRep)
	out := applyTextRules(strings.Join(phones, " "), textPre, textSuf, textRep)
	return strings.Join(strings.Fields(out), " ")
}
