package phono

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// TestMarshalMFA checks ordering, the empty pronunciation form and the
// absence of a trailing newline.
func TestMarshalMFA(t *testing.T) {
	d := Dictionary{
		"mir": {"m i r"},
		"a":   {"a"},
		"hm":  {},
		"zog": {"z o g", "z o k"},
	}
	want := "a\ta\nhm\t\nmir\tm i r\nzog\tz o g\nzog\tz o k"
	if got := string(MarshalMFA(d)); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestEntriesDropEmptyWhenOtherPronunciationsExist checks the empty
// pronunciation is only a placeholder.
func TestEntriesDropEmptyWhenOtherPronunciationsExist(t *testing.T) {
	d := Dictionary{"x": {"", "k s"}}
	got := d.Entries()
	if len(got) != 1 || got[0].Phones != "k s" {
		t.Fatalf("expected only the non-empty pronunciation, got %+v", got)
	}
}

// TestParseMFATxtLine covers tabs, spaces and probability columns.
func TestParseMFATxtLine(t *testing.T) {
	cases := []struct {
		line  string
		word  string
		prons []string
	}{
		{"mir\tm i r", "mir", []string{"m i r"}},
		{"mir\tm   i\tr", "mir", []string{"m i r"}},
		{"mir m i r", "mir", []string{"m i r"}},
		{"mir\t0.99\tm i r", "mir", []string{"m i r"}},
		{"mir\t", "", nil},
		{"mir", "", nil},
	}
	for _, c := range cases {
		w, p, err := parseMFATxtLine(c.line)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", c.line, err)
		}
		if w != c.word || !reflect.DeepEqual(p, c.prons) {
			t.Errorf("%q: expected (%q, %v), got (%q, %v)", c.line, c.word, c.prons, w, p)
		}
	}
}

// TestLoadBlobsSniffsFormats loads a text and a gob dictionary.
func TestLoadBlobsSniffsFormats(t *testing.T) {
	var gobBuf bytes.Buffer
	if err := WriteGob(&gobBuf, Dictionary{"zog": {"z o k"}}); err != nil {
		t.Fatalf("WriteGob: %v", err)
	}
	text := []byte("# curated\nzog\tz o g\nmir\tm i r\n")

	d, err := LoadBlobs(MergeModeAppend, text, gobBuf.Bytes())
	if err != nil {
		t.Fatalf("LoadBlobs: %v", err)
	}
	want := Dictionary{"zog": {"z o g", "z o k"}, "mir": {"m i r"}}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("expected %v, got %v", want, d)
	}
}

// TestMergeModes checks the four merge semantics against a seeded
// representation.
func TestMergeModes(t *testing.T) {
	base := Dictionary{"zog": {"z o g"}, "mir": {"m i r"}}
	curated := Dictionary{"zog": {"z o k"}, "hant": {"h a n t"}}

	cases := []struct {
		mode MergeMode
		want Dictionary
	}{
		{MergeModeAppend, Dictionary{"zog": {"z o g", "z o k"}, "mir": {"m i r"}, "hant": {"h a n t"}}},
		{MergeModePrepend, Dictionary{"zog": {"z o k", "z o g"}, "mir": {"m i r"}, "hant": {"h a n t"}}},
		{MergeModeNoOverride, Dictionary{"zog": {"z o g"}, "mir": {"m i r"}, "hant": {"h a n t"}}},
		{MergeModeReplace, Dictionary{"zog": {"z o k"}, "mir": {"m i r"}, "hant": {"h a n t"}}},
	}
	for _, c := range cases {
		rep := NewRepresentationFrom(base)
		if err := Merge(rep, c.mode, curated); err != nil {
			t.Fatalf("%s: %v", c.mode, err)
		}
		if !reflect.DeepEqual(rep.Entries, c.want) {
			t.Errorf("%s: expected %v, got %v", c.mode, c.want, rep.Entries)
		}
	}
}

// TestLoadPathsReportsPath checks that missing files surface as IO errors.
func TestLoadPathsReportsPath(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt": {Data: []byte("a\ta\n")},
	}
	d, err := LoadPaths(fsys, MergeModeAppend, "a.txt")
	if err != nil || len(d) != 1 {
		t.Fatalf("expected one entry, got %v (%v)", d, err)
	}
	_, err = LoadPaths(fsys, MergeModeAppend, "missing.txt")
	var ioe *yerrors.IOError
	if !yerrors.As(err, &ioe) || ioe.Path != "missing.txt" {
		t.Fatalf("expected an IOError for missing.txt, got %v", err)
	}
}

// TestWriteFileFormats writes every format and reads it back.
func TestWriteFileFormats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d := Dictionary{"mir": {"m i r"}, "zog": {"z o g", "z o k"}}

	txt := filepath.Join(dir, "dict.txt")
	if err := WriteFile(ctx, txt, d, KindMFA); err != nil {
		t.Fatalf("WriteFile text: %v", err)
	}
	raw, err := os.ReadFile(txt)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(string(raw), "\n") {
		t.Fatalf("expected no trailing newline")
	}

	g := filepath.Join(dir, "dict.gob")
	if err := WriteFile(ctx, g, d, KindGOB); err != nil {
		t.Fatalf("WriteFile gob: %v", err)
	}

	back, err := LoadPaths(os.DirFS(dir), MergeModeAppend, "dict.txt")
	if err != nil || !reflect.DeepEqual(back, d) {
		t.Fatalf("text round trip: expected %v, got %v (%v)", d, back, err)
	}
	back, err = LoadPaths(os.DirFS(dir), MergeModeAppend, "dict.gob")
	if err != nil || !reflect.DeepEqual(back, d) {
		t.Fatalf("gob round trip: expected %v, got %v (%v)", d, back, err)
	}

	if err := WriteFile(ctx, filepath.Join(dir, "x"), d, Kind("csv")); !yerrors.Is(err, yerrors.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

// TestSQLiteExport checks rows and positions of the SQLite export.
func TestSQLiteExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dict.sqlite")
	d := Dictionary{"mir": {"m i r"}, "zog": {"z o g", "z o k"}, "hm": {}}

	if err := ExportSQLite(ctx, path, d); err != nil {
		t.Fatalf("ExportSQLite: %v", err)
	}
	// Exporting twice replaces the previous database.
	if err := ExportSQLite(ctx, path, d); err != nil {
		t.Fatalf("ExportSQLite again: %v", err)
	}
	back, err := ReadSQLite(ctx, path)
	if err != nil {
		t.Fatalf("ReadSQLite: %v", err)
	}
	want := Dictionary{"mir": {"m i r"}, "zog": {"z o g", "z o k"}, "hm": {""}}
	if !reflect.DeepEqual(back, want) {
		t.Fatalf("expected %v, got %v", want, back)
	}
}

// TestDigestIsStable checks the digest depends on content only.
func TestDigestIsStable(t *testing.T) {
	a := Dictionary{"mir": {"m i r"}, "zog": {"z o g"}}
	b := Dictionary{"zog": {"z o g"}, "mir": {"m i r"}}
	if Digest(a) != Digest(b) {
		t.Fatalf("expected equal digests")
	}
	if len(Digest(a)) != 64 {
		t.Fatalf("expected a 64 hex digit digest, got %q", Digest(a))
	}
	b["zog"] = []string{"z o k"}
	if Digest(a) == Digest(b) {
		t.Fatalf("expected different digests")
	}
}

// TestParseMergeMode checks configuration names.
func TestParseMergeMode(t *testing.T) {
	for _, m := range []MergeMode{MergeModeAppend, MergeModePrepend, MergeModeNoOverride, MergeModeReplace} {
		got, err := ParseMergeMode(m.String())
		if err != nil || got != m {
			t.Errorf("expected %s, got %s (%v)", m, got, err)
		}
	}
	if _, err := ParseMergeMode("merge"); !yerrors.Is(err, yerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
