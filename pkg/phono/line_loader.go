package phono

import (
	"bufio"
	"io"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// NewLineLoader constructs a Loader that reads a text source line by
// line and delegates actual parsing to the provided LineParser.
func NewLineLoader(
	kind Kind,
	sniff func(sniff []byte, isEOF bool) bool,
	parser LineParser,
) Loader {
	return &lineLoader{
		kind:      kind,
		sniffFunc: sniff,
		parseLine: parser,
	}
}

// LineParser is a per-line parser for text-based formats.
//
// It receives a single line with comments and trailing whitespace
// already removed by the loader. If the line should be ignored, it can
// return word == "" or len(prons) == 0.
type LineParser func(line string) (word Word, prons []Phones, err error)

// lineLoader is a generic implementation for textual formats where
// each entry fits on a single line.
type lineLoader struct {
	kind      Kind
	sniffFunc func(sniff []byte, isEOF bool) bool
	parseLine LineParser
}

func (p *lineLoader) Kind() Kind { return p.kind }

func (p *lineLoader) Sniff(sniff []byte, isEOF bool) bool {
	if p.sniffFunc == nil {
		return false
	}
	return p.sniffFunc(sniff, isEOF)
}

func (p *lineLoader) Load(r io.Reader, emit OnEntryFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for scanner.Scan() {
		n++
		line := stripCommentAndTrim(scanner.Text())
		if line == "" {
			continue
		}
		word, prons, err := p.parseLine(line)
		if err != nil {
			return &yerrors.ParseError{Format: string(p.kind), Line: n, Message: err.Error(), Err: err}
		}
		if word == "" || len(prons) == 0 {
			continue
		}
		if err := emit(word, prons); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return yerrors.NewIO("scan", "", err)
	}
	return nil
}
