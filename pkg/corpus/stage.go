package corpus

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// Transcript file name suffixes. The repository keeps the Latin
// orthography transcripts as "<tape>.la.TextGrid"; the aligner expects
// "<tape>.TextGrid" next to "<tape>.wav".
const (
	LatinSuffix    = ".la.TextGrid"
	TextGridSuffix = ".TextGrid"
)

// StageTranscripts copies every *.la.TextGrid of srcDir into dstDir as
// *.TextGrid and returns the destination paths, sorted. Failures on
// single files do not stop the others; they are returned together.
func StageTranscripts(srcDir, dstDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, yerrors.NewIO("read dir", srcDir, err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, yerrors.NewIO("mkdir", dstDir, err)
	}

	var (
		staged []string
		errs   *multierror.Error
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, LatinSuffix) {
			continue
		}
		dst := filepath.Join(dstDir, strings.TrimSuffix(name, LatinSuffix)+TextGridSuffix)
		if err := copyFile(filepath.Join(srcDir, name), dst); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		staged = append(staged, dst)
	}
	slices.Sort(staged)
	return staged, errs.ErrorOrNil()
}

// ListTextGrids returns the *.TextGrid files directly inside dir, sorted.
func ListTextGrids(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, yerrors.NewIO("read dir", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), TextGridSuffix) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return yerrors.NewIO("open", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return yerrors.NewIO("create", dst, err)
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return yerrors.NewIO("copy", dst, err)
	}
	return nil
}
