package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hostprep/internal/db"
	"hostprep/internal/executor"
	"hostprep/internal/interactive"
	"hostprep/internal/journal"
	"hostprep/internal/osrelease"
	"hostprep/internal/plan"
	"hostprep/internal/privilege"
)

var rootCmd = &cobra.Command{
	Use:   "hostprep",
	Short: "hostprep provisions a Python development host in one shot",
	Long: "hostprep applies a fixed, ordered provisioning sequence as root:\n" +
		"install the Python runtime and supporting packages via apt-get, then\n" +
		"install mypy from its upstream repository via pip. The first failing\n" +
		"step aborts the sequence and its exit code is propagated.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runApply,
}

// checkPrivilege is swapped in tests to simulate unprivileged callers.
var checkPrivilege = privilege.Check

func runApply(cmd *cobra.Command, _ []string) error {
	dry, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	confirmFlag, _ := cmd.Flags().GetBool("confirm")
	force, _ := cmd.Flags().GetBool("force")
	noJournal, _ := cmd.Flags().GetBool("no-journal")

	// Dry runs mutate nothing and may be previewed unprivileged.
	if !dry {
		if err := checkPrivilege(); err != nil {
			return err
		}
	}

	p, err := plan.Default()
	if err != nil {
		return err
	}

	host, err := osrelease.Detect()
	if err != nil {
		return err
	}
	if host.ID != "" && !host.Matches(p.TargetID, p.TargetVersionID) {
		_, _ = color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(),
			"warning: host is %s; plan targets %s %s\n", host, p.TargetID, p.TargetVersionID)
	}

	if confirmFlag {
		prompt := fmt.Sprintf("Apply the provisioning plan (%d steps) now?", len(p.Steps))
		if !interactive.ConfirmReader(prompt, cmd.InOrStdin(), cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	var rec plan.Recorder
	if !dry && !noJournal {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()
		rec = journal.NewRepository(dbConn)
	}

	a := &plan.Applier{
		Runner:   executor.New(dry, verbose),
		Recorder: rec,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Force:    force,
		Operator: currentOperator(),
		Host:     host.String(),
	}
	if err := a.Apply(cmd.Context(), p); err != nil {
		return err
	}
	if !dry {
		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "hostprep: all steps completed")
	}
	return nil
}

// currentOperator returns the invoking username for the journal, best-effort.
func currentOperator() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// Execute executes the root command, mapping a privilege failure to exit
// code 1 and a step failure to the failing child's own exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var stepErr *plan.StepError
		if errors.As(err, &stepErr) {
			// The applier already reported the failing step.
			os.Exit(stepErr.ExitCode)
		}
		fmt.Fprintf(os.Stderr, "hostprep: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("dry-run", false, "Print the plan without executing commands")
	rootCmd.Flags().Bool("verbose", false, "Verbose output (prints dry-run messages)")
	rootCmd.Flags().Bool("confirm", false, "Ask for confirmation before mutating the host")
	rootCmd.Flags().Bool("force", false, "Override safety checks and force execution")
	rootCmd.Flags().Bool("no-journal", false, "Do not record this run in the journal")
}
