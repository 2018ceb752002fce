// Package corpus fetches and lays out the Corpus of Spoken Yiddish in
// Europe for the Montreal Forced Aligner: transcripts, audio, bracket
// normalization, pronunciation dictionary and aligner configuration.
package corpus

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// Client downloads corpus resources over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client. A nil httpClient gets a default one with
// a generous timeout, audio files being large.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}
	return &Client{httpClient: httpClient, userAgent: "yidmfa/1.0"}
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// IsNotFound returns true if this is a 404 error.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	if !isHTTPURL(url) {
		return nil, yerrors.NewUnsupported("URL scheme", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, yerrors.NewIO("request", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, yerrors.NewIO("get", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// Fetch returns the whole body at url.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, yerrors.NewIO("read", url, err)
	}
	return data, nil
}

// DownloadToFile streams url into destPath. The file only appears once
// the body has been read completely.
func (c *Client) DownloadToFile(ctx context.Context, url, destPath string) (int64, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, yerrors.NewIO("mkdir", filepath.Dir(destPath), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*")
	if err != nil {
		return 0, yerrors.NewIO("create", destPath, err)
	}
	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, yerrors.NewIO("download", url, err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		os.Remove(tmp.Name())
		return 0, yerrors.NewIO("rename", destPath, err)
	}
	return n, nil
}

// Open opens either a local file or an HTTP/HTTPS URL and wraps it in a
// bzip2 or xz decompressor when the name ends with ".bz2" or ".xz". The
// returned ReadCloser must be closed by the caller.
func (c *Client) Open(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if isHTTPURL(pathOrURL) {
		rc, err = c.get(ctx, pathOrURL)
	} else {
		rc, err = os.Open(pathOrURL)
		if err != nil {
			err = yerrors.NewIO("open", pathOrURL, err)
		}
	}
	if err != nil {
		return nil, err
	}

	switch compressionSuffix(pathOrURL) {
	case ".bz2":
		return readCloser{Reader: bzip2.NewReader(rc), Closer: rc}, nil
	case ".xz":
		xr, err := xz.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, &yerrors.ParseError{Format: "xz", Path: pathOrURL, Message: "bad xz header", Err: err}
		}
		return readCloser{Reader: xr, Closer: rc}, nil
	}
	return rc, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// isHTTPURL returns true if src looks like an HTTP or HTTPS URL.
func isHTTPURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// compressionSuffix returns ".bz2", ".xz" or "", ignoring URL query and
// fragment parts.
func compressionSuffix(raw string) string {
	lower := strings.ToLower(raw)
	if isHTTPURL(lower) {
		if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
			lower = lower[:idx]
		}
	}
	switch {
	case strings.HasSuffix(lower, ".bz2"):
		return ".bz2"
	case strings.HasSuffix(lower, ".xz"):
		return ".xz"
	}
	return ""
}
