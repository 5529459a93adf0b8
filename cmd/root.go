package cmd

import (
	"fmt"
	"os"

	"github.com/mabhi256/dltq/internal/config"
	"github.com/mabhi256/dltq/internal/diag"
	"github.com/mabhi256/dltq/internal/dlt"
	"github.com/mabhi256/dltq/internal/dlt/filter"
	"github.com/mabhi256/dltq/internal/dlt/output"
	"github.com/mabhi256/dltq/internal/source"
	"github.com/mabhi256/dltq/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	inputs     []string
	ecuID      string
	appID      string
	contextID  string
	patterns   []string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "dltq",
	Short: "Filter and project DLT (Diagnostic Log and Trace) binary log files",
	Long: `dltq reads one or more DLT files, matches each record against a
configured or ad-hoc filter, and writes selected fields of surviving
records to stdout or a CSV file.`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".dlt"}, true),
	RunE:              runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML filter/output configuration file")
	rootCmd.Flags().StringArrayVar(&inputs, "input", nil, "input DLT file (repeatable, at least one required)")
	rootCmd.Flags().StringVar(&ecuID, "ecu", "", "ad-hoc ECU ID filter (overrides config)")
	rootCmd.Flags().StringVar(&appID, "app", "", "ad-hoc application ID filter (overrides config)")
	rootCmd.Flags().StringVar(&contextID, "ctx", "", "ad-hoc context ID filter (overrides config)")
	rootCmd.Flags().StringArrayVar(&patterns, "patterns", nil, "ad-hoc regex pattern filter (repeatable, overrides config)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-file and summary diagnostics")
}

// exitError pins a specific process exit code to an error so Execute can
// report the three-way 0/1/2 status a scripted batch tool needs instead
// of collapsing every failure to exit code 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command. Exit codes: 0 success, 1 configuration
// error, 2 I/O failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if ee, ok := err.(*exitError); ok {
		fmt.Fprintln(os.Stderr, ee.err)
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// GetRootCmd returns the root cobra command.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(inputs) == 0 {
		return &exitError{1, fmt.Errorf("at least one --input file is required")}
	}

	reporter := diag.New(os.Stderr, quiet)

	blocks, err := buildBlocks()
	if err != nil {
		reporter.ConfigError(err)
		return &exitError{1, err}
	}
	defer closeBlocks(blocks)

	for _, path := range inputs {
		mapped, err := source.Open(path)
		if err != nil {
			return &exitError{2, err}
		}
		res, err := dlt.RunFile(mapped.Bytes(), blocks)
		mapped.Close()
		if err != nil {
			return &exitError{2, err}
		}
		reporter.File(path, res)
	}

	reporter.PrintSummary()
	return nil
}

// buildBlocks assembles the driver's filter/output blocks from the config
// file (if any) and the CLI override flags. Each CLI identifier/pattern
// flag that was actually set overrides the corresponding field of the
// config's last filter block, leaving the rest of that block (its other
// identifiers, its output) untouched; with no --config, the CLI flags form
// the sole block.
func buildBlocks() ([]dlt.Block, error) {
	var filters []config.Filter

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		filters = cfg.Filters
	}

	if cliOverridesPresent() {
		if len(filters) > 0 {
			filters[len(filters)-1] = applyCLIOverrides(filters[len(filters)-1])
		} else {
			filters = append(filters, applyCLIOverrides(config.Filter{Name: "cli"}))
		}
	}

	if len(filters) == 0 {
		return nil, fmt.Errorf("%w: no filter blocks configured (use --config or --ecu/--app/--ctx/--patterns)", dlt.ErrConfigError)
	}

	blocks := make([]dlt.Block, 0, len(filters))
	for _, f := range filters {
		b, err := blockFromConfig(f)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func cliOverridesPresent() bool {
	return ecuID != "" || appID != "" || contextID != "" || len(patterns) > 0
}

func blockFromConfig(f config.Filter) (dlt.Block, error) {
	set, err := filter.New(f.EcuID, f.AppID, f.ContextID, f.Patterns)
	if err != nil {
		return dlt.Block{}, err
	}
	out, err := outputFromConfig(f, set.DeclaredCaptureNames())
	if err != nil {
		return dlt.Block{}, err
	}
	return dlt.Block{Name: f.Name, Filter: set, Out: out}, nil
}

// applyCLIOverrides returns f with each CLI flag that was actually set
// overriding the corresponding field; flags left at their zero value leave
// f's existing value (config-supplied or already-zero) untouched.
func applyCLIOverrides(f config.Filter) config.Filter {
	if ecuID != "" {
		f.EcuID = nilIfEmpty(ecuID)
	}
	if appID != "" {
		f.AppID = nilIfEmpty(appID)
	}
	if contextID != "" {
		f.ContextID = nilIfEmpty(contextID)
	}
	if len(patterns) > 0 {
		f.Patterns = patterns
	}
	return f
}

func outputFromConfig(f config.Filter, declared []string) (*output.Descriptor, error) {
	if f.Output == nil {
		return defaultStdoutDescriptor(), nil
	}
	if f.Output.Csv != nil {
		delim := resolveDelimiterOrDefault(f.Output.Csv.Delimiter)
		fields, err := output.ParseFields(f.Output.Csv.Format, delim)
		if err != nil {
			return nil, err
		}
		if err := output.ValidateCaptureFields(fields, declared); err != nil {
			return nil, err
		}
		return &output.Descriptor{Sink: output.NewCsv(f.Output.Csv.FilePath), Fields: fields, Delimiter: delim}, nil
	}
	if f.Output.Stdout != nil && f.Output.Stdout.Enabled {
		delim := resolveDelimiterOrDefault(f.Output.Stdout.Delimiter)
		fields, err := output.ParseFields(f.Output.Stdout.Format, delim)
		if err != nil {
			return nil, err
		}
		if err := output.ValidateCaptureFields(fields, declared); err != nil {
			return nil, err
		}
		return &output.Descriptor{Sink: output.NewStdout(), Fields: fields, Delimiter: delim}, nil
	}
	return defaultStdoutDescriptor(), nil
}

func defaultStdoutDescriptor() *output.Descriptor {
	fields, _ := output.ParseFields("ecu,app,ctx,time,timestamp,payload", ',')
	return &output.Descriptor{Sink: output.NewStdout(), Fields: fields, Delimiter: ','}
}

func resolveDelimiterOrDefault(raw string) byte {
	if raw == "" {
		return ','
	}
	return raw[0]
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func closeBlocks(blocks []dlt.Block) {
	for _, b := range blocks {
		b.Out.Sink.Close()
	}
}
