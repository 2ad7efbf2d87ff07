package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/herald/internal/engine"
	"github.com/roach88/herald/internal/ir"
)

// EnvPrefix prefixes the environment variables that back global flags,
// e.g. HERALD_DB.
const EnvPrefix = "HERALD"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Workers  int
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the herald CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "herald",
		Short: "Herald rule effects for Differential revisions",
		Long: `Evaluate rule effects against Differential revisions.

Resolves revision fields through the Differential adapter, applies the
effects of matched rules, and records one transcript per effect.`,
		Version:       ir.EngineVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(v); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Database, "db", "herald.db", "path to SQLite database")
	flags.IntVar(&opts.Workers, "workers", engine.DefaultWorkers, "passes evaluated concurrently")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"verbose", "format", "db", "workers"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(NewFieldsCommand(opts))
	cmd.AddCommand(NewActionsCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewTranscriptsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve reads flag values through v so HERALD_* variables apply when a
// flag is not set on the command line.
func (o *RootOptions) resolve(v *viper.Viper) error {
	o.Verbose = v.GetBool("verbose")
	o.Format = v.GetString("format")
	o.Database = v.GetString("db")
	o.Workers = v.GetInt("workers")

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if o.Workers < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid workers %d: must be at least 1", o.Workers))
	}
	return nil
}

// setupLogging sends slog output to w, at debug level when verbose.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
