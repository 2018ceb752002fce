// Command yidmfa prepares the Corpus of Spoken Yiddish in Europe for the
// Montreal Forced Aligner: it fetches transcripts and audio, rewrites
// phrase brackets as word brackets and derives a pronunciation
// dictionary from the romanized Yiddish transcripts.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/temporal-IPA/yidmfa/internal/config"
	"github.com/temporal-IPA/yidmfa/internal/logging"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
	"github.com/temporal-IPA/yidmfa/pkg/conversion/psr"
	"github.com/temporal-IPA/yidmfa/pkg/lexicon"
	"github.com/temporal-IPA/yidmfa/pkg/phono"
	"github.com/temporal-IPA/yidmfa/pkg/yiddish"
)

const version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `short:"c" help:"YAML configuration file" type:"existingfile"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error); overrides the config file"`
	LogFormat string `name:"log-format" help:"Log format (text, json); overrides the config file"`
}

// CLI defines the command-line interface for yidmfa.
type CLI struct {
	Globals

	Prepare   PrepareCmd   `cmd:"" help:"Download the corpus and prepare it for MFA"`
	Normalize NormalizeCmd `cmd:"" help:"Rewrite <phrase brackets> as <word> <brackets> in TextGrid files"`
	Dict      DictCmd      `cmd:"" help:"Build a pronunciation dictionary from TextGrid files"`
	G2P       G2PCmd       `cmd:"" name:"g2p" help:"Print the phones of romanized words"`
	Classify  ClassifyCmd  `cmd:"" help:"Print why words are kept or excluded from the dictionary"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// app carries what the commands share once flags and config are resolved.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	log    *slog.Logger
	tables *yiddish.Tables
	stdin  io.Reader
	stdout io.Writer
}

func newApp(ctx context.Context, g *Globals, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.Init(level, format, stderr)

	ctx = logging.WithRunID(ctx, uuid.NewString())
	tables := yiddish.Default()
	if len(cfg.Lexicon.Fillers) > 0 {
		tables = tables.WithFillers(cfg.Lexicon.Fillers)
	}
	return &app{
		ctx:    ctx,
		cfg:    cfg,
		log:    logging.FromContext(ctx),
		tables: tables,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

// encoding resolves the configured TextGrid encoding.
func (a *app) encoding(override string) (conversion.EncodingID, error) {
	name := a.cfg.Sources.Encoding
	if override != "" {
		name = override
	}
	if name == "" {
		return conversion.Auto, nil
	}
	return conversion.ParseEncoding(name)
}

// builder configures a dictionary builder from the config file.
func (a *app) builder() (*lexicon.Builder, error) {
	b := lexicon.NewBuilder(a.tables)
	b.Workers = a.cfg.Lexicon.Workers
	b.Logger = a.log

	if a.cfg.Lexicon.PhoneMap != "" {
		rule, err := psr.Load(a.cfg.Lexicon.PhoneMap)
		if err != nil {
			return nil, err
		}
		b.PhoneMap = rule
	}

	mode, err := phono.ParseMergeMode(a.cfg.Lexicon.MergeMode)
	if err != nil {
		return nil, err
	}
	b.MergeMode = mode
	for _, path := range a.cfg.Lexicon.Curated {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		d, err := phono.LoadPaths(os.DirFS(filepath.Dir(abs)), phono.MergeModeAppend, filepath.Base(abs))
		if err != nil {
			return nil, err
		}
		a.log.Info("curated dictionary loaded", "path", path, "words", len(d))
		b.Curated = append(b.Curated, d)
	}
	return b, nil
}

func parser(cli *CLI, stdout, stderr io.Writer, exit func(int)) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("yidmfa"),
		kong.Description("Prepare the Corpus of Spoken Yiddish in Europe for the Montreal Forced Aligner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	k, err := parser(&cli, stdout, stderr, os.Exit)
	if err != nil {
		return err
	}
	kctx, err := k.Parse(args)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, &cli.Globals, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	return kctx.Run(a)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		logging.Error("yidmfa failed", "error", err)
		os.Exit(1)
	}
}
