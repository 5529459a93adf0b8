// Package config decodes and validates dltq's TOML configuration file,
// using the same toml.Decode idiom as other TOML-driven config loaders.
package config

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/mabhi256/dltq/internal/dlt"
	"github.com/mabhi256/dltq/internal/dlt/output"
)

// declaredCaptureName mirrors filter.declaredCaptureName; duplicated here
// (rather than exported from internal/dlt/filter) so config validation does
// not need a filter.Set just to inspect pattern source text.
var declaredCaptureName = regexp.MustCompile(`\(\?P<([a-zA-Z_][a-zA-Z0-9_]*)>`)

// Config is the top-level decoded configuration: zero or more named filter
// blocks, each independently matched against every input file.
type Config struct {
	Filters []Filter `toml:"filters"`
}

// Filter is one [[filters]] block: optional identifier predicates, optional
// regex patterns, and where matching messages are projected to.
type Filter struct {
	Name      string   `toml:"name"`
	EcuID     *string  `toml:"ecu_id"`
	AppID     *string  `toml:"app_id"`
	ContextID *string  `toml:"context_id"`
	Patterns  []string `toml:"patterns"`
	Output    *Output  `toml:"output"`
}

// Output names the sinks a filter block's matches are projected to.
type Output struct {
	Csv    *Csv    `toml:"csv"`
	Stdout *Stdout `toml:"stdout"`
}

// Csv configures a delimited-file sink.
type Csv struct {
	FilePath  string `toml:"file_path"`
	Delimiter string `toml:"delimiter"`
	Format    string `toml:"format"`
}

// Stdout configures the standard-output sink. Unlike Csv, it is disabled by
// default: a filter block with an output.stdout table but enabled = false
// (or omitted) is silently inert.
type Stdout struct {
	Enabled   bool   `toml:"enabled"`
	Delimiter string `toml:"delimiter"`
	Format    string `toml:"format"`
}

// Load reads and decodes the TOML file at path, then validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding %q: %v", dlt.ErrConfigError, path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for i := range c.Filters {
		if err := c.Filters[i].validate(); err != nil {
			return fmt.Errorf("filter %q: %w", c.Filters[i].Name, err)
		}
	}
	return nil
}

func (f *Filter) validate() error {
	for _, pair := range []struct {
		field string
		id    *string
	}{
		{"ecu_id", f.EcuID}, {"app_id", f.AppID}, {"context_id", f.ContextID},
	} {
		if err := validateID(pair.field, pair.id); err != nil {
			return err
		}
	}
	for _, p := range f.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: invalid pattern %q: %v", dlt.ErrConfigError, p, err)
		}
	}
	if f.Output == nil {
		return nil
	}
	declared := declaredCaptureNames(f.Patterns)
	if f.Output.Csv != nil {
		if err := f.Output.Csv.validate(declared); err != nil {
			return fmt.Errorf("output.csv: %w", err)
		}
	}
	if f.Output.Stdout != nil {
		if err := f.Output.Stdout.validate(declared); err != nil {
			return fmt.Errorf("output.stdout: %w", err)
		}
	}
	return nil
}

// validateID requires that an identifier, when present, be ASCII and at
// most 4 characters — DLT's ECU/application/context IDs are 4-byte fields.
func validateID(field string, id *string) error {
	if id == nil {
		return nil
	}
	if len(*id) > 4 {
		return fmt.Errorf("%w: %s %q exceeds 4 characters", dlt.ErrConfigError, field, *id)
	}
	for _, r := range *id {
		if r > unicode.MaxASCII {
			return fmt.Errorf("%w: %s %q is not ASCII", dlt.ErrConfigError, field, *id)
		}
	}
	return nil
}

func (c *Csv) validate(declared []string) error {
	if c.FilePath == "" {
		return fmt.Errorf("%w: file_path is required", dlt.ErrConfigError)
	}
	delim, err := resolveDelimiter(c.Delimiter)
	if err != nil {
		return err
	}
	fields, err := output.ParseFields(c.Format, delim)
	if err != nil {
		return err
	}
	return output.ValidateCaptureFields(fields, declared)
}

func (s *Stdout) validate(declared []string) error {
	if !s.Enabled {
		return nil
	}
	delim, err := resolveDelimiter(s.Delimiter)
	if err != nil {
		return err
	}
	fields, err := output.ParseFields(s.Format, delim)
	if err != nil {
		return err
	}
	return output.ValidateCaptureFields(fields, declared)
}

// resolveDelimiter defaults to "," and rejects anything
// output.ValidDelimiter refuses.
func resolveDelimiter(raw string) (byte, error) {
	if raw == "" {
		return ',', nil
	}
	if len(raw) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", dlt.ErrConfigError, raw)
	}
	b := raw[0]
	if !output.ValidDelimiter(b) {
		return 0, fmt.Errorf("%w: invalid delimiter %q", dlt.ErrConfigError, raw)
	}
	return b, nil
}

func declaredCaptureNames(patterns []string) []string {
	var names []string
	for _, p := range patterns {
		for _, m := range declaredCaptureName.FindAllStringSubmatch(p, -1) {
			names = append(names, m[1])
		}
	}
	return names
}
