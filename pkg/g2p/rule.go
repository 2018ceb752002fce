package g2p

import "github.com/temporal-IPA/yidmfa/pkg/yiddish"

// Context tests the rune on one side of a match. ok is false when the
// match touches the start (or end) of the string.
type Context func(r rune, ok bool) bool

// In matches when the neighbouring rune exists and belongs to set.
func In(set yiddish.RuneSet) Context {
	return func(r rune, ok bool) bool { return ok && set.Contains(r) }
}

// NotIn matches at a boundary or when the neighbour is outside set.
func NotIn(set yiddish.RuneSet) Context {
	return func(r rune, ok bool) bool { return !ok || !set.Contains(r) }
}

// InOrBoundary matches at a boundary or when the neighbour belongs to set.
func InOrBoundary(set yiddish.RuneSet) Context {
	return func(r rune, ok bool) bool { return !ok || set.Contains(r) }
}

// Rule replaces every occurrence of Target whose neighbours satisfy
// Before and After. A nil context accepts anything.
//
// Matches are found left to right without overlap, and contexts are
// always read from the rule's input, never from text already rewritten
// by the same rule.
type Rule struct {
	Name    string
	Target  string
	Replace string
	Before  Context
	After   Context
}

// Apply rewrites s.
func (r Rule) Apply(s string) string {
	target := []rune(r.Target)
	if len(target) == 0 {
		return s
	}
	replace := []rune(r.Replace)
	in := []rune(s)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); {
		if r.matchAt(in, i, target) {
			out = append(out, replace...)
			i += len(target)
			continue
		}
		out = append(out, in[i])
		i++
	}
	return string(out)
}

func (r Rule) matchAt(in []rune, i int, target []rune) bool {
	end := i + len(target)
	if end > len(in) {
		return false
	}
	for k, t := range target {
		if in[i+k] != t {
			return false
		}
	}
	if r.Before != nil {
		var prev rune
		ok := i > 0
		if ok {
			prev = in[i-1]
		}
		if !r.Before(prev, ok) {
			return false
		}
	}
	if r.After != nil {
		var next rune
		ok := end < len(in)
		if ok {
			next = in[end]
		}
		if !r.After(next, ok) {
			return false
		}
	}
	return true
}
