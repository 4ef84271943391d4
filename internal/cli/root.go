// Package cli wires configuration, intake, the batch pipeline, exporters and the
// run journal behind the remittance command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm/gemini"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm/openai"
)

var (
	configPath string

	// newExtractor builds the extraction client for the configured provider.
	// Tests replace it with a fake.
	newExtractor = buildExtractor

	// logOutput receives structured logs; command output goes to cmd.OutOrStdout.
	logOutput io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "remittance",
	Short: "Build Lagos State remittance schedules from tax receipts",
	Long: `Extracts payment fields from scanned tax receipts (PNG, JPEG, WebP, PDF),
deduplicates them into a date-ordered ledger and writes an XLSX schedule in
either the portal upload layout or the standard per-year layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default $REMITTANCE_CONFIG)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig() (*common.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("REMITTANCE_CONFIG")
	}
	cfg, err := common.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Text output drops time and level, keeping
// the event name and its attributes.
func newLogger(cfg common.LogConfig, w io.Writer) *slog.Logger {
	level, err := common.ParseLogLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// buildExtractor returns nil without an API key; the session then refuses the
// batch with SERVICE_UNAVAILABLE.
func buildExtractor(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Extractor, error) {
	if cfg.APIKey == "" {
		logger.Warn("llm.client.unconfigured", "provider", cfg.Provider)
		return nil, nil
	}
	switch cfg.Provider {
	case common.ProviderOpenAI:
		c := openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
		logger.Info("llm.client.ready", "provider", cfg.Provider, "model", cfg.Model)
		return c, nil
	default:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger)
		if err != nil {
			return nil, common.ServiceUnavailableError("gemini client: " + err.Error())
		}
		logger.Info("llm.client.ready", "provider", cfg.Provider, "model", cfg.Model)
		return c, nil
	}
}
