package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Actual values can be specified in build command with -ldflags -X.
var (
	version = "unknown"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (commit %s, %s)\n", appName, version, commit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
