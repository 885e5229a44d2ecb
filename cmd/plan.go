package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostprep/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the provisioning steps without executing them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := plan.Default()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "target: %s %s\n", p.TargetID, p.TargetVersionID)
		for _, line := range p.Describe() {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
