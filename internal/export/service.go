package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
)

// Service renders the exporter selected by mode and writes the result to disk.
type Service struct {
	logger *slog.Logger
}

// Result is one rendered export.
type Result struct {
	Artifact Artifact
	Bytes    []byte
	Path     string // set by Write
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Render builds and renders the artifact for mode. An empty ledger or an unknown
// mode fails with EXPORT_PRECONDITION and produces nothing.
func (s *Service) Render(ctx context.Context, l *ledger.Ledger, mode Mode) (Result, error) {
	start := time.Now()
	log := common.LoggerWithContext(ctx, s.logger)

	exp, err := New(mode)
	if err != nil {
		return Result{}, err
	}
	art, err := exp.Export(l)
	if err != nil {
		log.Warn("export.precondition", "mode", mode, "error", err)
		return Result{}, err
	}
	b, err := RenderXLSX(art.Workbook)
	if err != nil {
		return Result{}, err
	}

	log.Info("export.xlsx.ok",
		"mode", mode,
		"filename", art.FileName(),
		"sheets", len(art.Workbook.Sheets),
		"rows", l.Len(),
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Artifact: art, Bytes: b}, nil
}

// Write renders and stores the artifact under dir, returning the result with Path set.
func (s *Service) Write(ctx context.Context, l *ledger.Ledger, mode Mode, dir string) (Result, error) {
	res, err := s.Render(ctx, l, mode)
	if err != nil {
		return Result{}, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	res.Path = filepath.Join(dir, res.Artifact.FileName())
	if err := os.WriteFile(res.Path, res.Bytes, 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", res.Path, err)
	}
	return res, nil
}
