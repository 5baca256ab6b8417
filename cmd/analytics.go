package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Prthmsh0210/hire-nerd/internal/display"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the hiring analytics dashboard",
	Run: func(_ *cobra.Command, _ []string) {
		_, _, session := setup()

		display.Dashboard(os.Stdout, session.Dashboard(context.Background()))
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
