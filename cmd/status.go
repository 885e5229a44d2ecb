package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostprep/internal/inspect"
	"hostprep/internal/plan"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the provisioning plan has left on this host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := plan.Default()
		if err != nil {
			return err
		}
		st, err := inspect.GetStatus(p)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "host: %s (target: %s %s, match: %v)\n", st.Host, p.TargetID, p.TargetVersionID, st.TargetMatch)
		for _, b := range st.Binaries {
			if b.Installed {
				fmt.Fprintf(out, "- %s: %s\n", b.Name, b.Path)
			} else {
				fmt.Fprintf(out, "- %s: not found\n", b.Name)
			}
		}
		if st.PythonPathSet {
			fmt.Fprintf(out, "- PYTHONPATH: includes %s\n", plan.PythonPath())
		} else {
			fmt.Fprintf(out, "- PYTHONPATH: does not include %s\n", plan.PythonPath())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
