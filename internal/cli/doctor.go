package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/repository"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, credentials and the run journal",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, logOutput)
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintf(out, "config: OK (provider %s, model %s, mode %s)\n", cfg.LLM.Provider, cfg.LLM.Model, cfg.Export.Mode)

	if cfg.LLM.APIKey == "" {
		fmt.Fprintf(out, "credentials: MISSING (no API key for %s)\n", cfg.LLM.Provider)
	} else {
		fmt.Fprintln(out, "credentials: OK")
	}

	if cfg.Journal.DSN == "" {
		fmt.Fprintln(out, "journal: disabled")
		return nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Journal.DSN,
		MaxConns:    cfg.Journal.MaxConns,
		DialTimeout: cfg.Journal.DialTimeout,
	}, logger)
	if err != nil {
		return common.NewAppError(common.CodeConfig, "open run journal", err)
	}
	defer repository.Close(db, logger)

	if err := repository.HealthCheck(ctx, db, time.Second); err != nil {
		return common.NewAppError(common.CodeConfig, "journal health", err)
	}
	runs, err := repository.NewRunRepository(db, logger).ListRuns(ctx, 1)
	if err != nil {
		return err
	}
	last := "none"
	if len(runs) == 1 {
		last = fmt.Sprintf("%s %s", runs[0].ID, runs[0].Status)
	}
	fmt.Fprintf(out, "journal: OK (%s, last run: %s)\n", db.Dialect, last)
	return nil
}
