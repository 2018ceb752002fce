package phono

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"
)

// sniffMFATxt detects the MFA dictionary format:
//
//	<word>\t<phone> <phone> ...
//
// Every non-comment line of the sniffed block must be valid UTF-8 and
// hold a word followed by a tab.
func sniffMFATxt(sniff []byte, isEOF bool) bool {
	if len(sniff) == 0 || !utf8.Valid(sniff) || bytes.IndexByte(sniff, 0) >= 0 {
		return false
	}
	scanner := bufio.NewScanner(bytes.NewReader(sniff))
	i := 10 // scan 10 lines.
	for scanner.Scan() {
		line := scanner.Text()
		if stripCommentAndTrim(line) == "" {
			continue
		}
		word, _, ok := strings.Cut(line, "\t")
		if !ok || strings.TrimSpace(word) == "" {
			return false
		}
		i--
		if i == 0 {
			break
		}
	}
	return true
}

// parseMFATxtLine parses a single line of the MFA format. The phones
// may be separated by any run of whitespace; they are returned joined by
// single spaces. MFA allows optional probability columns between the
// word and the phones; they are numeric and skipped.
func parseMFATxtLine(line string) (Word, []Phones, error) {
	word, rest, ok := strings.Cut(line, "\t")
	if !ok {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", nil, nil
		}
		word, rest = fields[0], strings.Join(fields[1:], " ")
	}
	word = strings.TrimSpace(word)
	fields := strings.Fields(rest)
	for len(fields) > 1 && isProbability(fields[0]) {
		fields = fields[1:]
	}
	if word == "" || len(fields) == 0 {
		return "", nil, nil
	}
	return word, []Phones{strings.Join(fields, " ")}, nil
}

func isProbability(s string) bool {
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0:
			dot = true
		default:
			return false
		}
	}
	return dot || s == "0" || s == "1"
}
