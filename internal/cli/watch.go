package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ingest"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Rebuild the schedule whenever receipts change",
	Long: `Watches inbox directories and reprocesses them as one batch after each
burst of new or modified receipts. Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	addBatchFlags(watchCmd)
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 2*time.Second, "quiet period before a rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	r, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	changes, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: true,
		Debounce:    flagDebounce,
		Logger:      r.logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "watching %d director(ies); press Ctrl+C to stop\n", len(args))

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			r.logger.Info("watch.rebuild", "changed", len(changed))
			// the whole inbox is one batch: a receipt seen before still belongs to the schedule
			if _, err := r.run(ctx, args); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// an empty inbox or an unreachable service waits for the next change
				if common.CodeOf(err) != "" {
					fmt.Fprintf(r.out, "batch not exported: %v\n", err)
					continue
				}
				return err
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			r.logger.Warn("watch.error", "error", err)
		}
	}
}
