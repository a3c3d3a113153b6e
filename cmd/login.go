package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	authadapter "github.com/confware/schedsync/internal/adapters/auth"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with a device code and apply any queued offline changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			code, err := app.deviceFlow.RequestDeviceCode(ctx, app.cfg.clientID, []string{"schedule"})
			if err != nil {
				return fmt.Errorf("start device sign-in: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"Open %s and enter code %s\n", code.VerificationURL, code.UserCode)

			token, err := app.deviceFlow.PollToken(ctx, authadapter.DevicePollRequest{
				ClientID:     app.cfg.clientID,
				DeviceAuthID: code.DeviceAuthID,
				PollInterval: code.PollInterval,
				Timeout:      devicePollWindow,
			})
			if err != nil {
				return fmt.Errorf("complete device sign-in: %w", err)
			}

			identity, err := app.auth.CompleteSignIn(token)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", signedInLabel(identity.Email, identity.UserID))

			// Mutations queued while offline become replayable the moment
			// credentials are available again.
			app.replay.Replay(ctx)
			return nil
		},
	}
}

func signedInLabel(email, userID string) string {
	if email != "" {
		return email
	}
	return userID
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard all local per-user state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := app.bookmarks.SignedOutCleanup(ctx); err != nil {
				return fmt.Errorf("clear local schedule state: %w", err)
			}
			if err := app.transport.ForgetSnapshot(app.userScheduleURL()); err != nil {
				app.logger.Warn("drop user schedule snapshot", "error", err)
			}
			app.reconciler.ClearSaved(ctx)

			if err := app.auth.SignOut(); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
