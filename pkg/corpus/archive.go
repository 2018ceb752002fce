package corpus

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// ExtractZip extracts the zip archive data into destDir, dropping the
// archive's top-level directory (GitHub archives wrap everything in
// "<repo>-<branch>/"). It returns the number of files written.
func ExtractZip(data []byte, destDir string) (int, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// Insecure names are rejected below, entry by entry.
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return 0, &yerrors.ParseError{Format: "zip", Path: destDir, Message: "open archive", Err: err}
	}

	top := ""
	if len(r.File) > 0 {
		top, _, _ = strings.Cut(r.File[0].Name, "/")
	}
	cleanDest := filepath.Clean(destDir)

	n := 0
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rel := f.Name
		if top != "" && strings.HasPrefix(rel, top+"/") {
			rel = strings.TrimPrefix(rel, top+"/")
		}
		rel = path.Clean(rel)
		destPath := filepath.Join(cleanDest, filepath.FromSlash(rel))

		// Check for directory traversal.
		if !strings.HasPrefix(destPath, cleanDest+string(os.PathSeparator)) {
			return n, yerrors.NewValidation("zip entry", "path escapes destination: "+f.Name)
		}
		if err := extractFile(f, destPath); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func extractFile(f *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return yerrors.NewIO("mkdir", filepath.Dir(destPath), err)
	}
	rc, err := f.Open()
	if err != nil {
		return yerrors.NewIO("open zip entry", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return yerrors.NewIO("create", destPath, err)
	}
	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return yerrors.NewIO("extract", destPath, err)
	}
	return nil
}
