package cli

import (
	"github.com/spf13/cobra"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/export"
)

var (
	flagMode    string
	flagOutDir  string
	flagWorkers int
)

var processCmd = &cobra.Command{
	Use:   "process <path>...",
	Short: "Extract receipts and write a remittance schedule",
	Long: `Processes receipt files and directories as one batch. Directories are
walked recursively; hidden entries and unsupported extensions are skipped.
Each document gets one diagnostic line; the schedule is written to --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	addBatchFlags(processCmd)
	rootCmd.AddCommand(processCmd)
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagMode, "mode", "", "export layout: upload or standard (default from config)")
	cmd.Flags().StringVar(&flagOutDir, "out", "", "output directory (default from config)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent extraction calls (default from config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	r, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = r.run(cmd.Context(), args)
	return err
}

// newRunner resolves config, flags, logger and journal for a batch command.
func newRunner(cmd *cobra.Command) (*runner, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("mode") {
		cfg.Export.Mode = flagMode
	}
	if cmd.Flags().Changed("out") {
		cfg.Export.OutDir = flagOutDir
	}
	if cmd.Flags().Changed("workers") && flagWorkers > 0 {
		cfg.Batch.Workers = flagWorkers
	}
	mode, err := export.ParseMode(cfg.Export.Mode)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log, logOutput)
	journal, closeJournal, err := openJournal(cmd.Context(), cfg.Journal, logger)
	if err != nil {
		return nil, nil, err
	}
	return &runner{
		cfg:     cfg,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		journal: journal,
		mode:    mode,
		outDir:  cfg.Export.OutDir,
		workers: cfg.Batch.Workers,
	}, closeJournal, nil
}
