package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confware/schedsync/internal/domain"
)

func newSaveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <session-id>",
		Short: "Add a session to my schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookmark(cmd, app, domain.SessionID(args[0]), true)
		},
	}
}

func newRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session-id>",
		Short: "Remove a session from my schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookmark(cmd, app, domain.SessionID(args[0]), false)
		},
	}
}

func runBookmark(cmd *cobra.Command, app *app, sessionID domain.SessionID, save bool) error {
	err := app.bookmarks.SaveSession(cmd.Context(), sessionID, save)
	if err == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), bookmarkOutcome(save))
		return nil
	}

	// A connectivity failure already queued the change and told the user it
	// will sync later; the command itself succeeded from their perspective.
	if domain.IsNetworkError(err) {
		return nil
	}
	return err
}

func bookmarkOutcome(save bool) string {
	if save {
		return "Session saved to my schedule."
	}
	return "Session removed from my schedule."
}
