package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rerender/internal/config"
	"github.com/hupe1980/rerender/internal/logging"
	"github.com/hupe1980/rerender/internal/render"
	"github.com/hupe1980/rerender/internal/watch"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the config, a template or an image changes",
		Long: `Watch subscribes to <root>/config.json, <root>/templates and <root>/images
and runs a full render for every file that is created or modified.

Every event triggers its own render; there is no debouncing. Deletions,
renames and permission changes are ignored, as are writes to the
rendered artifacts themselves. A failed render is reported and watching
continues. Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd)
		},
	}

	cmd.Flags().Bool("initial", false, "render once on startup before waiting for changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	cfg := config.FromContext(ctx)
	// The watcher prints its own status line per render.
	renderer := newRenderer(ctx, render.WithSuccessLevel(slog.LevelDebug))

	opts := watch.DefaultOptions(renderer.Layout())
	opts.InitialRender = cfg.Initial
	opts.Logger = logging.FromContext(ctx)
	opts.Out = cmd.ErrOrStderr()

	if err := watch.New(opts, renderer.RenderAll).Start(ctx); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
