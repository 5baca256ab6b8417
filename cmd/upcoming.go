package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming interviews",
	Run: func(_ *cobra.Command, _ []string) {
		logger, _, session := setup()

		_, st := session.ToggleUpcoming(context.Background())
		showUpcoming(st, logger)
	},
}

func init() {
	rootCmd.AddCommand(upcomingCmd)
}
