package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rerender/internal/config"
	"github.com/hupe1980/rerender/internal/logging"
	"github.com/hupe1980/rerender/internal/output"
	"github.com/hupe1980/rerender/internal/render"
)

func newRenderCommand() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render all artifacts once",
		Long: `Render loads <root>/config.json, lists <root>/images and renders every
template in <root>/templates to its artifact in <root>.

Exit codes:
  0  All artifacts written
  1  Render failed
  2  Invalid flags or configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), cmd, stdout)
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "print artifacts to stdout instead of writing them")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, stdout bool) error {
	cfg := config.FromContext(ctx)

	var opts []render.Option
	if stdout {
		opts = append(opts, render.WithWriterFactory(output.StdoutWriterFactory(cmd.OutOrStdout())))
	}

	result, err := newRenderer(ctx, opts...).RenderAll(ctx)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if !cfg.Quiet && !stdout {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rendered %d artifacts (%d images) in %s\n",
			len(result.Artifacts), result.Images, result.Duration.Round(time.Millisecond))
	}

	return nil
}

// newRenderer builds a renderer from the configuration and logger carried
// in ctx. Extra options are applied last.
func newRenderer(ctx context.Context, extra ...render.Option) *render.Renderer {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	logger.Debug("building renderer", slog.String("root", cfg.Root))

	opts := []render.Option{
		render.WithStrict(cfg.Strict),
		render.WithMinify(cfg.Minify),
		render.WithLogger(logger),
		render.WithWriterFactory(output.FileWriterFactory(output.WithLogger(logger))),
	}

	return render.New(cfg.Layout(), append(opts, extra...)...)
}
