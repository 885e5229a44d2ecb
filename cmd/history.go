package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostprep/internal/db"
	"hostprep/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List journaled provisioning runs",
	Long:  "List journaled provisioning runs (newest first), or show the step detail of one run.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()
		r := journal.NewRepository(dbConn)

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			run, err := r.GetRun(args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run not found: %s", args[0])
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", run.ID, run.StartedAt, run.Status)
			for _, s := range run.Steps {
				code := ""
				if s.ExitCode.Valid {
					code = fmt.Sprintf(" (exit %d)", s.ExitCode.Int64)
				}
				fmt.Fprintf(out, "  %d. %s\t%s%s\n", s.Position, s.Name, s.Status, code)
			}
			return nil
		}

		runs, err := r.FilterRuns(filter)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		for _, run := range runs {
			operator := ""
			if run.Operator.Valid {
				operator = run.Operator.String
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%d steps\t%s\n", run.ID, run.StartedAt, run.Status, len(run.Steps), operator)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringP("filter", "f", "", "Fuzzy-filter runs by id, status, operator, or step text")
	rootCmd.AddCommand(historyCmd)
}
