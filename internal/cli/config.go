package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Every key mirrors a flag;
// flags given on the command line take precedence.
type Config struct {
	DataDir      string  `yaml:"data_dir"`      // directory of IMCCE files
	Pack         string  `yaml:"pack"`          // binary pack file, used instead of data_dir
	Variant      string  `yaml:"variant"`       // default version for position
	Format       string  `yaml:"format"`        // text or json
	MinAmplitude float64 `yaml:"min_amplitude"` // drop smaller terms on load
	Scalar       bool    `yaml:"scalar"`        // force the scalar evaluator
}

// LoadConfig reads a YAML config file. Unknown keys are rejected; an empty file
// yields the zero Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config content.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MinAmplitude < 0 {
		return nil, fmt.Errorf("parse config: min_amplitude %g is negative", cfg.MinAmplitude)
	}
	return cfg, nil
}
