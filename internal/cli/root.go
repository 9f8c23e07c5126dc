// Package cli implements the cobra command tree for rerender.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rerender/internal/config"
	"github.com/hupe1980/rerender/internal/logging"
	"github.com/hupe1980/rerender/internal/version"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it with the process arguments, and
// returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the command tree with args and returns the exit code.
// Errors are printed to stderr; an ExitError without a message only sets
// the code.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	code := 1

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code

		if exitErr.Err == nil {
			return code
		}
	}

	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)

	return code
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "rerender",
		Short: "Render a static site from templates, a JSON config and an images directory",
		Long: `rerender renders index.html, style.css and script.js from the templates
in <root>/templates, using <root>/config.json and the file list of
<root>/images as the template context.

Run "rerender render" once, or "rerender watch" to re-render whenever the
config, a template or an image changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			if err := version.GetInfo().Satisfies(cfg.RequiredVersion); err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("root", cfg.Root),
				slog.Bool("strict", cfg.Strict),
				slog.Bool("minify", cfg.Minify),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .rerender.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("root", ".", "project root containing config.json, images/ and templates/")
	pf.Bool("strict", true, "fail on template keys missing from the context")
	pf.Bool("minify", false, "minify artifacts by file extension")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newRenderCommand(),
		newWatchCommand(),
		newDiffCommand(),
		newCompletionCommand(),
	)

	return cmd
}
