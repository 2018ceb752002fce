package textgrid

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/pkg/brackets"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
)

const sample = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0 
xmax = 3.5 
tiers? <exists> 
size = 2 
item []: 
    item [1]:
        class = "IntervalTier" 
        name = "Speaker A" 
        xmin = 0 
        xmax = 3.5 
        intervals: size = 3 
        intervals [1]:
            xmin = 0 
            xmax = 1.25 
            text = "" 
        intervals [2]:
            xmin = 1.25 
            xmax = 2 
            text = "<a b> c" 
        intervals [3]:
            xmin = 2 
            xmax = 3.5 
            text = "er zogt ""gut""" 
    item [2]:
        class = "TextTier" 
        name = "events" 
        xmin = 0 
        xmax = 3.5 
        points: size = 1 
        points [1]:
            number = 1.5 
            mark = "<laugh>" 
`

// TestParseSample checks tiers, intervals, points and quote unescaping.
func TestParseSample(t *testing.T) {
	tg, err := Parse("sample.TextGrid", sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tg.XMax != 3.5 || len(tg.Tiers) != 2 {
		t.Fatalf("unexpected header: xmax=%v tiers=%d", tg.XMax, len(tg.Tiers))
	}
	words := tg.Tier("Speaker A")
	if words == nil || !words.IsInterval() || len(words.Intervals) != 3 {
		t.Fatalf("unexpected interval tier: %+v", words)
	}
	if got := words.Intervals[2].Label; got != `er zogt "gut"` {
		t.Fatalf("expected unescaped quotes, got %q", got)
	}
	if words.Intervals[1].Start != 1.25 || words.Intervals[1].End != 2 {
		t.Fatalf("unexpected bounds: %+v", words.Intervals[1])
	}
	events := tg.Tier("events")
	if events == nil || events.IsInterval() || len(events.Points) != 1 || events.Points[0].Mark != "<laugh>" {
		t.Fatalf("unexpected point tier: %+v", events)
	}
	if got, want := tg.TierNames(), []string{"Speaker A", "events"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestMapLabelsKeepsBoundaries rewrites labels the way the corpus
// preparation does and checks counts and times are preserved.
func TestMapLabelsKeepsBoundaries(t *testing.T) {
	tg, err := Parse("sample.TextGrid", sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	before := append([]Interval(nil), tg.Tiers[0].Intervals...)

	changed := tg.MapLabels(brackets.Normalize)
	if changed != 1 {
		t.Fatalf("expected 1 changed label, got %d", changed)
	}
	after := tg.Tiers[0].Intervals
	if len(after) != len(before) {
		t.Fatalf("interval count changed: %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i].Start != before[i].Start || after[i].End != before[i].End {
			t.Fatalf("interval %d bounds changed", i)
		}
	}
	if after[1].Label != "<a> <b> c" {
		t.Fatalf("expected %q, got %q", "<a> <b> c", after[1].Label)
	}
	if tg.Tiers[1].Points[0].Mark != "<laugh>" {
		t.Fatalf("point tiers must be left alone")
	}
}

// TestWriteParseRoundTrip checks that the writer output parses back to the same grid.
func TestWriteParseRoundTrip(t *testing.T) {
	tg, err := Parse("sample.TextGrid", sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, tg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := Parse("roundtrip", buf.String())
	if err != nil {
		t.Fatalf("Parse written grid: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(back, tg) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, tg)
	}
	if !strings.Contains(buf.String(), `text = "er zogt ""gut""" `) {
		t.Fatalf("expected doubled quotes in output:\n%s", buf.String())
	}
}

// TestLabelsSkipsEmptyAndPointTiers checks label collection.
func TestLabelsSkipsEmptyAndPointTiers(t *testing.T) {
	tg, err := Parse("sample.TextGrid", sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"<a b> c", `er zogt "gut"`}
	if got := tg.Labels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestParseErrors checks malformed, short-format and invalid grids.
func TestParseErrors(t *testing.T) {
	var syntax *yerrors.ParseError
	if _, err := Parse("broken", strings.Replace(sample, "intervals [2]:", "intervals [2]", 1)); !yerrors.As(err, &syntax) {
		t.Fatalf("expected a ParseError for a syntax error, got %v", err)
	}

	short := "File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n\n0\n3.5\n<exists>\n1\n"
	if _, err := Parse("short", short); !yerrors.Is(err, yerrors.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for the short format, got %v", err)
	}

	inverted := strings.Replace(sample, "xmax = 1.25", "xmax = -1", 1)
	var pe *yerrors.ParseError
	if _, err := Parse("inverted", inverted); !yerrors.As(err, &pe) || pe.Path != "inverted" {
		t.Fatalf("expected a ParseError for inverted bounds, got %v", err)
	}
}

// TestEmptyGrid checks the "tiers? <absent>" form.
func TestEmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &TextGrid{XMax: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tg, err := Parse("empty", buf.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tg.Tiers) != 0 || tg.XMax != 1 {
		t.Fatalf("unexpected grid %+v", tg)
	}
}

// TestFileKeepsEncoding reads a UTF-16 file and writes it back in UTF-16.
func TestFileKeepsEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.TextGrid")
	utf16, err := conversion.FromUTF8(strings.Replace(sample, "<a b> c", "<מיר האבן>!", 1), conversion.UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, utf16, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ReadFile(path, conversion.Auto)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if doc.Encoding != conversion.UTF16LE {
		t.Fatalf("expected UTF-16LE, got %s", doc.Encoding)
	}
	doc.MapLabels(brackets.Normalize)
	if err := doc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if raw[0] != 0xFF || raw[1] != 0xFE {
		t.Fatalf("expected the UTF-16LE BOM to be kept")
	}
	again, err := ReadFile(path, conversion.Auto)
	if err != nil {
		t.Fatalf("ReadFile after save: %v", err)
	}
	if got := again.Tiers[0].Intervals[1].Label; got != "<מיר> <האבן>!" {
		t.Fatalf("expected %q, got %q", "<מיר> <האבן>!", got)
	}
}
