package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostprep/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hostprep %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
