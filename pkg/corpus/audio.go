package corpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/internal/logging"
)

// Manifest column names.
const (
	ColumnAudioLink = "AudioLink"
	ColumnTape      = "Tape"
)

// AudioRecord is one row of the audio manifest.
type AudioRecord struct {
	Tape string
	Link string
}

// ReadManifest parses the audio manifest CSV. Columns are located by
// header name; other columns are ignored.
func ReadManifest(r io.Reader) ([]AudioRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, &yerrors.ParseError{Format: "audio manifest", Line: 1, Message: "missing header", Err: err}
	}
	linkCol, tapeCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case ColumnAudioLink:
			linkCol = i
		case ColumnTape:
			tapeCol = i
		}
	}
	if linkCol < 0 || tapeCol < 0 {
		return nil, yerrors.NewParse("audio manifest", "", 1, "header must name "+ColumnAudioLink+" and "+ColumnTape)
	}

	var records []AudioRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &yerrors.ParseError{Format: "audio manifest", Line: line, Message: err.Error(), Err: err}
		}
		if max(linkCol, tapeCol) >= len(row) {
			line, _ := cr.FieldPos(0)
			return nil, yerrors.NewParse("audio manifest", "", line, "short row")
		}
		rec := AudioRecord{Tape: strings.TrimSpace(row[tapeCol]), Link: strings.TrimSpace(row[linkCol])}
		if rec.Tape == "" || rec.Link == "" {
			continue
		}
		if strings.ContainsAny(rec.Tape, `/\`) || rec.Tape == "." || rec.Tape == ".." {
			return nil, yerrors.NewValidation("tape", "not a file name: "+rec.Tape)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Transcoder converts an audio file to WAV.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

// FFmpeg transcodes with the ffmpeg command line tool.
type FFmpeg struct {
	// Binary is the ffmpeg executable; empty means "ffmpeg" on PATH.
	Binary string
	// SampleRate of the output, in Hz.
	SampleRate int
}

// Args returns the command line arguments for one conversion.
func (f FFmpeg) Args(src, dst string) []string {
	rate := f.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return []string{"-i", src, "-ar", strconv.Itoa(rate), dst, "-loglevel", "quiet"}
}

// Transcode runs ffmpeg. The WAV only appears at dst once ffmpeg exited
// successfully.
func (f FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	tmp := dst + ".part.wav"
	cmd := exec.CommandContext(ctx, bin, f.Args(src, tmp)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return yerrors.NewIO("ffmpeg", src, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return yerrors.NewIO("rename", dst, err)
	}
	return nil
}

// AudioReport summarizes an audio stage run.
type AudioReport struct {
	Downloaded      int
	SkippedDownload int
	Transcoded      int
	SkippedWAV      int
}

// AudioStage downloads every recording of the manifest into M4ADir as
// <tape>.m4a and transcodes it into WAVDir as <tape>.wav. Existing
// files are kept.
type AudioStage struct {
	Client     *Client
	Transcoder Transcoder
	M4ADir     string
	WAVDir     string
	// Workers bounds the recordings processed at once. Values below 1
	// mean one at a time.
	Workers int
	Logger  *slog.Logger

	mu sync.Mutex
}

// Run processes every record. A failing record is logged and collected;
// the others still run. Only a canceled ctx stops early.
func (s *AudioStage) Run(ctx context.Context, records []AudioRecord) (AudioReport, error) {
	log := logging.OrDiscard(s.Logger)
	var (
		rep  AudioReport
		errs *multierror.Error
	)
	for _, dir := range []string{s.M4ADir, s.WAVDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rep, yerrors.NewIO("mkdir", dir, err)
		}
	}

	var g errgroup.Group
	g.SetLimit(max(s.Workers, 1))
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := s.one(ctx, rec, &rep, log); err != nil {
				log.Warn("audio failed", "tape", rec.Tape, "error", err)
				s.mu.Lock()
				errs = multierror.Append(errs, err)
				s.mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, errs.ErrorOrNil()
}

func (s *AudioStage) count(f func()) {
	s.mu.Lock()
	f()
	s.mu.Unlock()
}

func (s *AudioStage) one(ctx context.Context, rec AudioRecord, rep *AudioReport, log *slog.Logger) error {
	m4a := filepath.Join(s.M4ADir, rec.Tape+".m4a")
	wav := filepath.Join(s.WAVDir, rec.Tape+".wav")

	if exists(m4a) {
		log.Debug("already downloaded", "file", m4a)
		s.count(func() { rep.SkippedDownload++ })
	} else {
		log.Info("downloading", "tape", rec.Tape)
		if _, err := s.Client.DownloadToFile(ctx, rec.Link, m4a); err != nil {
			return err
		}
		s.count(func() { rep.Downloaded++ })
	}

	if exists(wav) {
		log.Debug("already converted", "file", wav)
		s.count(func() { rep.SkippedWAV++ })
		return nil
	}
	log.Info("converting to wav", "tape", rec.Tape)
	if err := s.Transcoder.Transcode(ctx, m4a, wav); err != nil {
		return err
	}
	s.count(func() { rep.Transcoded++ })
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
