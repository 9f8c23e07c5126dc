package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rerender/internal/config"
	"github.com/hupe1980/rerender/internal/plan"
)

// exitDifferences is returned when rendered artifacts differ from disk.
const exitDifferences = 3

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a fresh render against the artifacts on disk",
		Long: `Diff renders every artifact in memory and prints a unified diff against
the file currently at the artifact path. Nothing is written.

Exit codes:
  0  No differences
  1  Error
  2  Invalid flags or configuration
  3  Differences found`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd.Context(), cmd)
		},
	}

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command) error {
	cfg := config.FromContext(ctx)

	artifacts, err := newRenderer(ctx).RenderToMemory(ctx)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	layout, err := cfg.Layout().Abs()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	diffs, err := plan.Compare(layout.Root, artifacts, plan.DefaultDiffOptions())
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	plan.WriteReport(cmd.OutOrStdout(), cfg.Root, diffs, !cfg.NoColor)

	if plan.HasChanges(diffs) {
		return &ExitError{Code: exitDifferences}
	}

	return nil
}
