package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
	"github.com/temporal-IPA/yidmfa/pkg/corpus"
	"github.com/temporal-IPA/yidmfa/pkg/g2p"
	"github.com/temporal-IPA/yidmfa/pkg/phono"
)

// PrepareCmd runs the whole preparation.
type PrepareCmd struct {
	Workspace      string   `arg:"" optional:"" help:"Directory to store all files (default from config: mfa_workspace)" type:"path"`
	SkipAudio      bool     `name:"skip-audio" help:"Do not download or convert audio"`
	TranscriptsURL string   `name:"transcripts-url" help:"Transcripts zip archive URL"`
	AudioCSVURL    string   `name:"audio-csv-url" help:"Audio manifest CSV URL"`
	Format         []string `help:"Extra dictionary exports (gob, sqlite)"`
	Workers        int      `help:"Parallel derivations and audio conversions"`
}

func (c *PrepareCmd) Run(a *app) error {
	cfg := a.cfg
	if c.Workspace != "" {
		cfg.Workspace = c.Workspace
	}
	if c.TranscriptsURL != "" {
		cfg.Sources.TranscriptsURL = c.TranscriptsURL
	}
	if c.AudioCSVURL != "" {
		cfg.Sources.AudioCSVURL = c.AudioCSVURL
	}
	if c.SkipAudio {
		cfg.Audio.Skip = true
	}
	if c.Workers > 0 {
		cfg.Lexicon.Workers = c.Workers
		cfg.Audio.Workers = c.Workers
	}
	if len(c.Format) > 0 {
		cfg.Lexicon.Formats = c.Format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	enc, err := a.encoding("")
	if err != nil {
		return err
	}
	b, err := a.builder()
	if err != nil {
		return err
	}
	kinds, err := kinds(cfg.Lexicon.Formats)
	if err != nil {
		return err
	}

	p := &corpus.Pipeline{
		Layout:         corpus.Layout{Root: cfg.Workspace},
		TranscriptsURL: cfg.Sources.TranscriptsURL,
		AudioCSVURL:    cfg.Sources.AudioCSVURL,
		SkipAudio:      cfg.Audio.Skip,
		Encoding:       enc,
		Transcoder:     corpus.FFmpeg{Binary: cfg.Audio.FFmpeg, SampleRate: cfg.Audio.SampleRate},
		AudioWorkers:   cfg.Audio.Workers,
		Builder:        b,
		Formats:        kinds,
		MFA:            cfg.MFA,
		Logger:         a.log,
	}
	rep, err := p.Run(a.ctx)
	if rep != nil {
		a.log.Info("preparation summary",
			"staged", rep.Staged,
			"downloaded", rep.Audio.Downloaded,
			"transcoded", rep.Audio.Transcoded,
			"normalized", rep.Normalized.ChangedFiles,
			"entries", rep.Entries,
			"blake3", rep.Digest,
		)
	}
	return err
}

// NormalizeCmd rewrites TextGrid files in place.
type NormalizeCmd struct {
	Paths    []string `arg:"" help:"TextGrid files or directories" type:"existingpath"`
	Encoding string   `help:"TextGrid encoding (default: sniffed)"`
}

func (c *NormalizeCmd) Run(a *app) error {
	enc, err := a.encoding(c.Encoding)
	if err != nil {
		return err
	}
	paths, err := expand(c.Paths)
	if err != nil {
		return err
	}
	rep, err := corpus.NormalizeFiles(a.ctx, paths, enc, a.log)
	a.log.Info("normalized", "files", rep.Files, "changed", rep.ChangedFiles, "labels", rep.ChangedLabels)
	return err
}

// DictCmd builds a dictionary from TextGrid files.
type DictCmd struct {
	Paths    []string `arg:"" help:"TextGrid files or directories" type:"existingpath"`
	Out      string   `short:"o" help:"Output file (default: stdout, text only)" type:"path"`
	Format   string   `short:"f" default:"text" enum:"text,gob,sqlite" help:"Output format"`
	Encoding string   `help:"TextGrid encoding (default: sniffed)"`
}

func (c *DictCmd) Run(a *app) error {
	enc, err := a.encoding(c.Encoding)
	if err != nil {
		return err
	}
	kind, err := phono.ParseKind(c.Format)
	if err != nil {
		return err
	}
	if c.Out == "" && kind != phono.KindMFA {
		return yerrors.NewValidation("out", c.Format+" output needs a file")
	}
	paths, err := expand(c.Paths)
	if err != nil {
		return err
	}
	docs, readErr := corpus.ReadTextGrids(a.ctx, paths, enc)
	if readErr != nil {
		a.log.Warn("some transcripts were skipped", "error", readErr)
	}
	b, err := a.builder()
	if err != nil {
		return err
	}
	lex, err := b.Build(a.ctx, docs)
	if err != nil {
		return err
	}
	a.log.Info("dictionary digest", "blake3", phono.Digest(lex.Dict))

	if c.Out == "" {
		if err := phono.WriteMFA(a.stdout, lex.Dict); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout)
		return readErr
	}
	if err := phono.WriteFile(a.ctx, c.Out, lex.Dict, kind); err != nil {
		return err
	}
	return readErr
}

// G2PCmd prints the phones of words given as arguments or read from
// stdin, one per line.
type G2PCmd struct {
	Words  []string `arg:"" optional:"" help:"Romanized words (default: read stdin)"`
	Trace  bool     `help:"Print every rewrite step"`
	Hebrew bool     `help:"Words are already spelled in the Hebrew alphabet"`
}

func (c *G2PCmd) Run(a *app) error {
	d := g2p.NewDeriver(a.tables)
	derive := d.Derive
	if c.Hebrew {
		derive = d.DeriveHebrew
	}

	if len(c.Words) > 0 {
		for _, w := range c.Words {
			if c.Trace && !c.Hebrew {
				for _, s := range d.Trace(w) {
					fmt.Fprintf(a.stdout, "%-22s %s\n", s.Name, s.Output)
				}
				continue
			}
			fmt.Fprintf(a.stdout, "%s\t%s\n", w, strings.Join(derive(w), " "))
		}
		return nil
	}
	if c.Hebrew || c.Trace {
		return yerrors.NewUnsupported("stdin mode", "--hebrew and --trace take words as arguments")
	}

	in := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(in)
		sc := bufio.NewScanner(a.stdin)
		for sc.Scan() {
			w := strings.TrimSpace(sc.Text())
			if w == "" {
				continue
			}
			select {
			case in <- w:
			case <-a.ctx.Done():
				scanErr <- a.ctx.Err()
				return
			}
		}
		scanErr <- sc.Err()
	}()
	for p := range d.StreamDerive(a.ctx, in) {
		fmt.Fprintf(a.stdout, "%s\t%s\n", p.Word, p.String())
	}
	if err := a.ctx.Err(); err != nil {
		return err
	}
	return <-scanErr
}

// ClassifyCmd prints the classification of each word.
type ClassifyCmd struct {
	Words []string `arg:"" help:"Transcript tokens"`
}

func (c *ClassifyCmd) Run(a *app) error {
	cl := g2p.NewClassifier(a.tables)
	for _, w := range c.Words {
		fmt.Fprintf(a.stdout, "%s\t%s\n", w, cl.Classify(w))
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.stdout, "yidmfa version %s\n", version)
	return nil
}

// expand replaces directories by the TextGrid files they contain.
func expand(paths []string) ([]string, error) {
	var (
		out  []string
		errs *multierror.Error
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = multierror.Append(errs, yerrors.NewIO("stat", p, err))
			continue
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := corpus.ListTextGrids(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, files...)
	}
	return out, errs.ErrorOrNil()
}

func kinds(formats []string) ([]phono.Kind, error) {
	var out []phono.Kind
	for _, f := range formats {
		k, err := phono.ParseKind(f)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
