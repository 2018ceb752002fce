package corpus

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/temporal-IPA/yidmfa/internal/config"
	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/internal/logging"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
	"github.com/temporal-IPA/yidmfa/pkg/lexicon"
	"github.com/temporal-IPA/yidmfa/pkg/phono"
)

// Layout names the files and directories of a workspace.
type Layout struct {
	Root string
}

// Transcripts is where the transcripts archive is extracted.
func (l Layout) Transcripts() string { return filepath.Join(l.Root, "CSYE-Transcripts") }

// LatinTextGrids holds the Latin orthography transcripts of the archive.
func (l Layout) LatinTextGrids() string { return filepath.Join(l.Transcripts(), "TextGrid") }

// Corpus is the aligner input directory (TextGrid + WAV pairs).
func (l Layout) Corpus() string { return filepath.Join(l.Root, "csye") }

// M4A holds the downloaded recordings.
func (l Layout) M4A() string { return filepath.Join(l.Root, "m4a") }

// Dictionary is the pronunciation dictionary path for kind.
func (l Layout) Dictionary(kind phono.Kind) string {
	return filepath.Join(l.Root, "csye_pronunciation_dict"+kind.Ext())
}

// MFAConfig is the aligner configuration path.
func (l Layout) MFAConfig() string { return filepath.Join(l.Root, "csye_config.yaml") }

// Pipeline prepares a workspace. The zero value of optional fields is
// usable: audio and exports other than the MFA text are skipped, the
// TextGrid encoding is sniffed.
type Pipeline struct {
	Layout         Layout
	TranscriptsURL string
	AudioCSVURL    string
	SkipAudio      bool
	Encoding       conversion.EncodingID

	Client       *Client
	Transcoder   Transcoder
	AudioWorkers int

	Builder *lexicon.Builder
	// Formats lists the dictionary exports besides the MFA text file.
	Formats []phono.Kind
	MFA     config.MFAConfig

	Logger *slog.Logger
}

// Report summarizes a full run.
type Report struct {
	Staged     int
	Audio      AudioReport
	Normalized NormalizeReport
	Stats      lexicon.Stats
	Entries    int
	Digest     string
}

func (p *Pipeline) log() *slog.Logger {
	return logging.OrDiscard(p.Logger)
}

func (p *Pipeline) client() *Client {
	if p.Client == nil {
		p.Client = NewClient(nil)
	}
	return p.Client
}

// Run executes the four steps in order: transcripts, audio,
// normalization, dictionary. Download failures stop the run; failures
// limited to single files are collected and returned at the end.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	var (
		rep  Report
		errs *multierror.Error
	)
	log := p.log()

	log.Info("starting TextGrid processing")
	staged, err := p.FetchTranscripts(ctx)
	rep.Staged = staged
	if err != nil {
		if !isPartial(err) {
			return &rep, err
		}
		errs = multierror.Append(errs, err)
	}

	if p.SkipAudio {
		log.Info("skipping audio processing")
	} else {
		log.Info("starting audio processing")
		rep.Audio, err = p.FetchAudio(ctx)
		if err != nil {
			if !isPartial(err) {
				return &rep, err
			}
			errs = multierror.Append(errs, err)
		}
	}

	log.Info("fixing brackets in transcripts")
	rep.Normalized, err = p.Normalize(ctx)
	if err != nil {
		if !isPartial(err) {
			return &rep, err
		}
		errs = multierror.Append(errs, err)
	}

	log.Info("creating pronunciation dictionary and config file")
	lex, digest, err := p.Dictionary(ctx)
	if lex != nil {
		rep.Stats = lex.Stats
		rep.Entries = len(lex.Entries())
		rep.Digest = digest
	}
	if err != nil {
		if !isPartial(err) {
			return &rep, err
		}
		errs = multierror.Append(errs, err)
	}

	log.Info("done", "corpus", p.Layout.Corpus())
	return &rep, errs.ErrorOrNil()
}

// isPartial reports whether err only collects per-file failures.
func isPartial(err error) bool {
	var merr *multierror.Error
	return yerrors.As(err, &merr)
}

// FetchTranscripts downloads and extracts the transcripts archive, then
// stages the Latin orthography TextGrids into the corpus directory.
func (p *Pipeline) FetchTranscripts(ctx context.Context) (int, error) {
	log := p.log()
	data, err := p.client().Fetch(ctx, p.TranscriptsURL)
	if err != nil {
		return 0, err
	}
	n, err := ExtractZip(data, p.Layout.Transcripts())
	if err != nil {
		return 0, err
	}
	log.Info("extracted transcripts", "files", n, "dir", p.Layout.Transcripts())

	staged, err := StageTranscripts(p.Layout.LatinTextGrids(), p.Layout.Corpus())
	log.Info("copied TextGrid files", "from", p.Layout.LatinTextGrids(), "to", p.Layout.Corpus(), "files", len(staged))
	return len(staged), err
}

// FetchAudio downloads the manifest, the recordings, and converts them
// to WAV next to the transcripts.
func (p *Pipeline) FetchAudio(ctx context.Context) (AudioReport, error) {
	data, err := p.client().Fetch(ctx, p.AudioCSVURL)
	if err != nil {
		return AudioReport{}, err
	}
	records, err := ReadManifest(bytes.NewReader(data))
	if err != nil {
		var pe *yerrors.ParseError
		if yerrors.As(err, &pe) {
			pe.Path = p.AudioCSVURL
		}
		return AudioReport{}, err
	}
	tc := p.Transcoder
	if tc == nil {
		tc = FFmpeg{}
	}
	stage := &AudioStage{
		Client:     p.client(),
		Transcoder: tc,
		M4ADir:     p.Layout.M4A(),
		WAVDir:     p.Layout.Corpus(),
		Workers:    p.AudioWorkers,
		Logger:     p.Logger,
	}
	return stage.Run(ctx, records)
}

// Normalize rewrites the brackets of every TextGrid of the corpus.
func (p *Pipeline) Normalize(ctx context.Context) (NormalizeReport, error) {
	paths, err := ListTextGrids(p.Layout.Corpus())
	if err != nil {
		return NormalizeReport{}, err
	}
	rep, err := NormalizeFiles(ctx, paths, p.Encoding, p.Logger)
	p.log().Info("processed transcripts", "files", rep.Files, "changed", rep.ChangedFiles, "labels", rep.ChangedLabels)
	return rep, err
}

// Dictionary builds the pronunciation dictionary of the corpus, writes
// it with the requested exports and writes the aligner config. It
// returns the lexicon and the BLAKE3 digest of the MFA text file.
func (p *Pipeline) Dictionary(ctx context.Context) (*lexicon.Lexicon, string, error) {
	log := p.log()
	paths, err := ListTextGrids(p.Layout.Corpus())
	if err != nil {
		return nil, "", err
	}
	docs, readErr := ReadTextGrids(ctx, paths, p.Encoding)
	if readErr != nil && !isPartial(readErr) {
		return nil, "", readErr
	}

	b := p.Builder
	if b == nil {
		return nil, "", yerrors.NewValidation("builder", "not configured")
	}
	if b.Logger == nil {
		b.Logger = p.Logger
	}
	lex, err := b.Build(ctx, docs)
	if err != nil {
		return nil, "", err
	}

	text := phono.MarshalMFA(lex.Dict)
	dictPath := p.Layout.Dictionary(phono.KindMFA)
	if err := os.WriteFile(dictPath, text, 0o644); err != nil {
		return lex, "", yerrors.NewIO("write", dictPath, err)
	}
	digest := phono.DigestBytes(text)
	log.Info("pronunciation dictionary saved", "path", dictPath, "entries", len(lex.Entries()), "blake3", digest)

	for _, kind := range p.Formats {
		if kind == phono.KindMFA {
			continue
		}
		path := p.Layout.Dictionary(kind)
		if err := phono.WriteFile(ctx, path, lex.Dict, kind); err != nil {
			return lex, digest, err
		}
		log.Info("dictionary exported", "format", string(kind), "path", path)
	}

	mfa := p.MFA
	if strings.TrimSpace(mfa.Punctuation) == "" {
		mfa = config.Default().MFA
	}
	if err := WriteMFAConfig(p.Layout.MFAConfig(), mfa); err != nil {
		return lex, digest, err
	}
	log.Info("MFA config file saved", "path", p.Layout.MFAConfig())
	return lex, digest, readErr
}
