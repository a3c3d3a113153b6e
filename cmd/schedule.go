package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sessionsrender "github.com/confware/schedsync/internal/adapters/render/sessions"
)

func newScheduleCmd(app *app) *cobra.Command {
	var savedOnly bool
	var showFacets bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the conference schedule with your saved sessions marked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			bundle, err := app.schedule.Load(ctx)
			if err != nil {
				return fmt.Errorf("load schedule: %w", err)
			}

			// Saved markers require the user's schedule, which is an
			// authenticated resource. Signed out, the listing renders
			// without markers rather than failing.
			if app.auth.SignedIn() {
				if err := app.reconciler.Refresh(ctx); err != nil {
					app.logger.Warn("refresh saved sessions", "error", err)
				}
			}

			output, err := app.renderer(bundle, sessionsrender.RenderOptions{
				SavedOnly:  savedOnly,
				ShowFacets: showFacets,
			})
			if err != nil {
				return fmt.Errorf("render schedule: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&savedOnly, "saved", false, "Show only sessions saved to my schedule")
	cmd.Flags().BoolVar(&showFacets, "facets", false, "Show the tag filter groups below the listing")

	return cmd
}
