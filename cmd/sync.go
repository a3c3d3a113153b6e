package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *app) *cobra.Command {
	var discard bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay bookmark changes queued while offline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if discard {
				if err := app.replay.ClearQueued(ctx); err != nil {
					return fmt.Errorf("discard queued changes: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Queued offline changes discarded.")
				return nil
			}

			if !app.auth.SignedIn() {
				return errors.New("sign in before syncing offline changes (run \"scs login\")")
			}

			app.replay.Replay(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&discard, "discard", false, "Drop queued offline changes without replaying them")

	return cmd
}
