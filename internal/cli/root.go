package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mshafiee/vsop87"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	ConfigPath   string
	DataDir      string
	Pack         string
	MinAmplitude float64
	Scalar       bool

	// Variant is the default version from the config file, if any.
	Variant string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the vsop87 CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vsop87",
		Short: "VSOP87 planetary positions",
		Long: `Evaluate the VSOP87 theory of Bretagnon and Francou for the planets,
the Earth-Moon barycenter and the Sun.

Without --data or --pack only the abridged VSOP87D series of the Earth,
compiled into the binary, are available. Point --data at a directory holding
the IMCCE files (VSOP87*.mer ... VSOP87*.sun) for the complete theory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "directory of IMCCE VSOP87 files")
	cmd.PersistentFlags().StringVar(&opts.Pack, "pack", "", "binary pack file (replaces --data)")
	cmd.PersistentFlags().Float64Var(&opts.MinAmplitude, "min-amplitude", 0, "drop terms with a smaller amplitude when loading")
	cmd.PersistentFlags().BoolVar(&opts.Scalar, "scalar", false, "force the scalar series evaluator")

	// Add subcommands
	cmd.AddCommand(NewPositionCommand(opts))
	cmd.AddCommand(NewBodiesCommand(opts))
	cmd.AddCommand(NewMassesCommand(opts))
	cmd.AddCommand(NewPackCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))

	return cmd
}

// prepare merges the config file under the flags, validates them and installs
// the logger.
func (opts *RootOptions) prepare(cmd *cobra.Command) error {
	if opts.ConfigPath != "" {
		cfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "config", err)
		}
		opts.apply(cmd, cfg)
	}
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if opts.MinAmplitude < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --min-amplitude %g", opts.MinAmplitude))
	}

	if opts.Verbose {
		vsop87.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		vsop87.SetLogger(nil)
	}
	return nil
}

// apply copies config values into options whose flag was not given.
func (opts *RootOptions) apply(cmd *cobra.Command, cfg *Config) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if !changed("format") && cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if !changed("data") && cfg.DataDir != "" {
		opts.DataDir = cfg.DataDir
	}
	if !changed("pack") && cfg.Pack != "" {
		opts.Pack = cfg.Pack
	}
	if !changed("min-amplitude") && cfg.MinAmplitude > 0 {
		opts.MinAmplitude = cfg.MinAmplitude
	}
	if !changed("scalar") && cfg.Scalar {
		opts.Scalar = true
	}
	opts.Variant = cfg.Variant
}

// formatter builds the output formatter of cmd.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadOptions returns the table loading options selected by the flags.
func (opts *RootOptions) loadOptions() []vsop87.LoadOption {
	if opts.MinAmplitude > 0 {
		return []vsop87.LoadOption{vsop87.WithMinAmplitude(opts.MinAmplitude)}
	}
	return nil
}

// theory builds the theory selected by --pack, --data or the embedded tables.
// Tables from --data are merged over the embedded ones.
func (opts *RootOptions) theory() (*vsop87.Theory, error) {
	var theoryOpts []vsop87.TheoryOption
	if opts.Scalar {
		theoryOpts = append(theoryOpts, vsop87.WithScalarEvaluator())
	}

	if opts.Pack != "" {
		f, err := os.Open(opts.Pack)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		store, err := vsop87.ReadPack(f, opts.loadOptions()...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Pack, err)
		}
		return vsop87.NewTheory(store, theoryOpts...), nil
	}

	embedded, err := vsop87.LoadEmbedded(opts.loadOptions()...)
	if err != nil {
		return nil, err
	}
	if opts.DataDir == "" {
		return vsop87.NewTheory(embedded, theoryOpts...), nil
	}
	full, err := vsop87.LoadFS(os.DirFS(opts.DataDir), opts.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.DataDir, err)
	}
	return vsop87.NewTheory(vsop87.Merge(embedded, full), theoryOpts...), nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
