package corpus

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/temporal-IPA/yidmfa/internal/config"
	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// WriteMFAConfig writes the aligner settings as YAML to path.
func WriteMFAConfig(path string, cfg config.MFAConfig) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return yerrors.NewIO("encode", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return yerrors.NewIO("write", path, err)
	}
	return nil
}

// ReadMFAConfig reads a file written by WriteMFAConfig.
func ReadMFAConfig(path string) (config.MFAConfig, error) {
	var cfg config.MFAConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, yerrors.NewIO("read", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, &yerrors.ParseError{Format: "YAML", Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}
