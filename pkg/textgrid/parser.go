package textgrid

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// tgLexer tokenizes the long text format. Praat strings escape a double
// quote by doubling it and may span lines.
var tgLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z_0-9]*`},
	{Name: "Punct", Pattern: `[=\[\]:?<>]`},
	{Name: "Comment", Pattern: `![^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

//nolint:govet // participle grammar tags are not standard struct tags
type tgFile struct {
	FileType    string    `parser:"\"File\" \"type\" \"=\" @String"`
	ObjectClass string    `parser:"\"Object\" \"class\" \"=\" @String"`
	XMin        float64   `parser:"\"xmin\" \"=\" @Number"`
	XMax        float64   `parser:"\"xmax\" \"=\" @Number"`
	Tiers       string    `parser:"\"tiers\" \"?\" \"<\" @Ident \">\""`
	Size        int       `parser:"( \"size\" \"=\" @Number"`
	Items       []*tgItem `parser:"  \"item\" \"[\" \"]\" \":\" @@* )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tgItem struct {
	Index     int          `parser:"\"item\" \"[\" @Number \"]\" \":\""`
	Class     string       `parser:"\"class\" \"=\" @String"`
	Name      string       `parser:"\"name\" \"=\" @String"`
	XMin      float64      `parser:"\"xmin\" \"=\" @Number"`
	XMax      float64      `parser:"\"xmax\" \"=\" @Number"`
	Intervals *tgIntervals `parser:"( @@"`
	Points    *tgPoints    `parser:"| @@ )"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tgIntervals struct {
	Size  int           `parser:"\"intervals\" \":\" \"size\" \"=\" @Number"`
	Items []*tgInterval `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tgInterval struct {
	Index int     `parser:"\"intervals\" \"[\" @Number \"]\" \":\""`
	XMin  float64 `parser:"\"xmin\" \"=\" @Number"`
	XMax  float64 `parser:"\"xmax\" \"=\" @Number"`
	Text  string  `parser:"\"text\" \"=\" @String"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tgPoints struct {
	Size  int        `parser:"\"points\" \":\" \"size\" \"=\" @Number"`
	Items []*tgPoint `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tgPoint struct {
	Index int     `parser:"\"points\" \"[\" @Number \"]\" \":\""`
	Time  float64 `parser:"( \"number\" | \"time\" ) \"=\" @Number"`
	Mark  string  `parser:"\"mark\" \"=\" @String"`
}

var tgParser = participle.MustBuild[tgFile](
	participle.Lexer(tgLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses a long-format TextGrid. name is only used in errors.
func Parse(name, src string) (*TextGrid, error) {
	src = strings.TrimPrefix(src, "\ufeff")
	if !strings.Contains(src, "xmin =") {
		return nil, yerrors.NewUnsupported("TextGrid format", "short text (save as long text file)")
	}
	ast, err := tgParser.ParseString(name, src)
	if err != nil {
		line := 0
		var perr participle.Error
		if yerrors.As(err, &perr) {
			line = perr.Position().Line
		}
		return nil, &yerrors.ParseError{Format: "TextGrid", Path: name, Line: line, Message: err.Error(), Err: err}
	}
	if unquote(ast.ObjectClass) != "TextGrid" {
		return nil, yerrors.NewParse("TextGrid", name, 0, "object class is "+ast.ObjectClass)
	}

	tg := &TextGrid{XMin: ast.XMin, XMax: ast.XMax}
	for _, it := range ast.Items {
		t := &Tier{
			Name:  unquote(it.Name),
			Class: unquote(it.Class),
			XMin:  it.XMin,
			XMax:  it.XMax,
		}
		switch {
		case it.Intervals != nil:
			if t.Class != ClassInterval {
				return nil, yerrors.NewParse("TextGrid", name, 0, "tier "+t.Name+" has intervals but class "+t.Class)
			}
			t.Intervals = make([]Interval, 0, len(it.Intervals.Items))
			for _, iv := range it.Intervals.Items {
				t.Intervals = append(t.Intervals, Interval{Start: iv.XMin, End: iv.XMax, Label: unquote(iv.Text)})
			}
		case it.Points != nil:
			t.Points = make([]Point, 0, len(it.Points.Items))
			for _, p := range it.Points.Items {
				t.Points = append(t.Points, Point{Time: p.Time, Mark: unquote(p.Mark)})
			}
		}
		tg.Tiers = append(tg.Tiers, t)
	}
	if err := tg.Validate(); err != nil {
		var pe *yerrors.ParseError
		if yerrors.As(err, &pe) {
			pe.Path = name
		}
		return nil, err
	}
	return tg, nil
}

// unquote strips the surrounding quotes of a String token and undoubles
// embedded quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}
