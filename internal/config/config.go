// Package config loads the yidmfa YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

const (
	// DefaultTranscriptsURL is the CSYE transcripts archive.
	DefaultTranscriptsURL = "https://github.com/YiddishCorpus/CSYE-Transcripts/archive/main.zip"
	// DefaultAudioCSVURL lists the CSYE recordings (AudioLink, Tape columns).
	DefaultAudioCSVURL = "https://gist.githubusercontent.com/ibleaman/87217c5a30cb0376782126984c64197f/raw/CSYE-Audio.csv"
	// DefaultMFAPunctuation is the punctuation list written to the MFA config.
	DefaultMFAPunctuation = `、。।，@""(),.:;¿?¡!\&%#*~【】，…‥「」『』〝〟″⟨⟩♪・‹›«»～′$+=`
)

// Config is the on-disk configuration. Zero values are replaced by the
// defaults in Default when loaded through Load.
type Config struct {
	Workspace string        `yaml:"workspace"`
	Sources   SourceConfig  `yaml:"sources"`
	Audio     AudioConfig   `yaml:"audio"`
	Lexicon   LexiconConfig `yaml:"lexicon"`
	MFA       MFAConfig     `yaml:"mfa"`
	Log       LogConfig     `yaml:"log"`
}

// SourceConfig locates the corpus downloads.
type SourceConfig struct {
	TranscriptsURL string `yaml:"transcripts_url"`
	AudioCSVURL    string `yaml:"audio_csv_url"`
	// Encoding forces the TextGrid byte encoding ("" sniffs the BOM).
	Encoding string `yaml:"encoding"`
}

// AudioConfig drives the download and transcoding stage.
type AudioConfig struct {
	Skip       bool   `yaml:"skip"`
	FFmpeg     string `yaml:"ffmpeg"`
	SampleRate int    `yaml:"sample_rate"`
	Workers    int    `yaml:"workers"`
}

// LexiconConfig drives the dictionary builder.
type LexiconConfig struct {
	// Workers bounds parallel derivation; 0 or 1 derives sequentially.
	Workers int `yaml:"workers"`
	// Fillers replaces the built-in filler list when not empty.
	Fillers []string `yaml:"fillers"`
	// PhoneMap is an optional JSON phone mapping applied to each pronunciation.
	PhoneMap string `yaml:"phone_map"`
	// Curated lists dictionaries merged over the derived entries.
	Curated   []string `yaml:"curated"`
	MergeMode string   `yaml:"merge_mode"`
	// Formats lists the extra dictionary exports ("gob", "sqlite").
	Formats []string `yaml:"formats"`
}

// MFAConfig is written verbatim to the aligner config file.
type MFAConfig struct {
	IgnoreCase  bool   `yaml:"ignore_case"`
	Punctuation string `yaml:"punctuation"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Workspace: "mfa_workspace",
		Sources: SourceConfig{
			TranscriptsURL: DefaultTranscriptsURL,
			AudioCSVURL:    DefaultAudioCSVURL,
		},
		Audio: AudioConfig{
			FFmpeg:     "ffmpeg",
			SampleRate: 44100,
			Workers:    1,
		},
		Lexicon: LexiconConfig{
			Workers:   1,
			MergeMode: "replace",
		},
		MFA: MFAConfig{
			IgnoreCase:  false,
			Punctuation: DefaultMFAPunctuation,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, yerrors.NewIO("read config", path, err)
	}
	if err := Decode(b, cfg); err != nil {
		return nil, &yerrors.ParseError{Format: "YAML", Path: path, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals b into cfg, rejecting unknown keys.
func Decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workspace) == "" {
		return yerrors.NewValidation("workspace", "must not be empty")
	}
	if c.Audio.SampleRate <= 0 {
		return yerrors.NewValidation("audio.sample_rate", "must be positive")
	}
	if c.Audio.Workers < 0 {
		return yerrors.NewValidation("audio.workers", "must not be negative")
	}
	if c.Lexicon.Workers < 0 {
		return yerrors.NewValidation("lexicon.workers", "must not be negative")
	}
	switch strings.ToLower(c.Lexicon.MergeMode) {
	case "", "append", "prepend", "no-override", "replace":
	default:
		return yerrors.NewValidation("lexicon.merge_mode", "expected append, prepend, no-override or replace")
	}
	for _, f := range c.Lexicon.Formats {
		switch f {
		case "text", "gob", "sqlite":
		default:
			return yerrors.NewValidation("lexicon.formats", "unknown format "+f)
		}
	}
	return nil
}
