package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [batch-id]",
	Short: "List journaled batch runs",
	Long: `Lists recent runs from the run journal (JOURNAL_DSN). With a batch id,
prints that run's diagnostics and exports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, logOutput)
	journal, closeJournal, err := openJournal(cmd.Context(), cfg.Journal, logger)
	if err != nil {
		return err
	}
	defer closeJournal()
	if journal == nil {
		return errors.New("run journal not configured; set JOURNAL_DSN")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		diags, err := journal.Diagnostics(ctx, args[0])
		if err != nil {
			return err
		}
		for _, d := range diags {
			fmt.Fprintln(out, d.String())
		}
		exports, err := journal.Exports(ctx, args[0])
		if err != nil {
			return err
		}
		for _, e := range exports {
			fmt.Fprintf(out, "export %s %s (%d bytes)\n", e.Mode, e.Path, e.Bytes)
		}
		return nil
	}

	runs, err := journal.ListRuns(ctx, flagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs journaled.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BATCH\tSTARTED\tSTATUS\tDOCS\tADMITTED\tTOTAL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Documents, r.Admitted, r.Total.StringFixed(2))
	}
	return tw.Flush()
}
