package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/pseudomuto/mecha/pkg/format"
	"gopkg.in/yaml.v3"
)

type (
	// Output controls where and how compiled documents are written.
	Output struct {
		// Dir is the directory compiled documents are written to, relative to
		// the project directory unless absolute
		Dir string `yaml:"dir,omitempty"`

		// Format is the document encoding, either json or yaml
		Format string `yaml:"format,omitempty"`
	}

	// Format controls how `mecha fmt` lays out schema sources.
	Format struct {
		// IndentSize is the number of spaces per indent level
		IndentSize int `yaml:"indent_size,omitempty"`

		// AlignTypes lines up column types within each table
		AlignTypes *bool `yaml:"align_types,omitempty"`
	}

	// Config represents the project configuration read from mecha.yaml.
	Config struct {
		// Sources lists the schema files or directories to compile. Directories
		// are searched recursively for *.mecha files.
		Sources []string `yaml:"sources"`

		// Output contains compiled document settings
		Output Output `yaml:"output"`

		// Format contains source formatting settings
		Format Format `yaml:"format"`
	}
)

// LoadConfig parses a project configuration from the provided io.Reader.
//
// Missing values are filled in from the defaults in pkg/consts, and the output
// format is validated.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	sources: [schema]
//	output:
//	  dir: build
//	  format: yaml
//	`))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Writing %s documents to %s\n", cfg.Output.Format, cfg.Output.Dir)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mecha config")
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{consts.DefaultSourceDir}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = consts.DefaultOutputDir
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = consts.DefaultOutputFormat
	}
	if cfg.Format.IndentSize <= 0 {
		cfg.Format.IndentSize = consts.DefaultIndentSize
	}
	if cfg.Format.AlignTypes == nil {
		align := consts.DefaultAlignTypes
		cfg.Format.AlignTypes = &align
	}

	if _, err := document.ParseFormat(cfg.Output.Format); err != nil {
		return nil, errors.Wrap(err, "invalid output settings")
	}

	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// DocumentFormat returns the configured output encoding. A nil config yields
// the default encoding.
func (c *Config) DocumentFormat() document.Format {
	if c == nil {
		return document.Format(consts.DefaultOutputFormat)
	}

	// validated by LoadConfig
	f, _ := document.ParseFormat(c.Output.Format)
	return f
}

// GetFormatter returns a formatter built from the format settings. A nil
// config yields the default formatter.
func (c *Config) GetFormatter() *format.Formatter {
	if c == nil {
		return format.New(format.Defaults)
	}

	opts := format.Defaults
	if c.Format.IndentSize > 0 {
		opts.IndentSize = c.Format.IndentSize
	}
	if c.Format.AlignTypes != nil {
		opts.AlignTypes = *c.Format.AlignTypes
	}

	return format.New(opts)
}
