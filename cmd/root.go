package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scs",
		Short:         "Conference schedule sync (scs): browse the schedule and bookmark sessions offline",
		Long:          "scs keeps your conference schedule in sync: browse the published schedule, bookmark sessions into \"my schedule\", and let offline changes queue up and replay once you are back online and signed in.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newScheduleCmd(app),
		newSaveCmd(app),
		newRemoveCmd(app),
		newSyncCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
	)

	return rootCmd
}
