package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/export"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ingest"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/pipeline"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/repository"
)

// runner executes batches for one command invocation.
type runner struct {
	cfg     *common.Config
	logger  *slog.Logger
	out     io.Writer
	journal repository.RunRepository // nil when no DSN is configured
	mode    export.Mode
	outDir  string
	workers int
}

type batchOutcome struct {
	BatchID     string
	Ledger      *ledger.Ledger
	Diagnostics []pipeline.Diagnostic
	Export      *export.Result
}

// run loads paths, processes them as one batch and writes the export. Per-document
// failures are diagnostics; the returned error is a batch or export failure.
func (r *runner) run(ctx context.Context, paths []string) (batchOutcome, error) {
	var outcome batchOutcome

	docs, _, err := ingest.NewLoader(r.logger).LoadPaths(ctx, paths)
	if err != nil {
		return outcome, err
	}

	extractor, err := newExtractor(ctx, r.cfg.LLM, r.logger)
	if err != nil {
		return outcome, err
	}
	session, err := pipeline.NewSession(extractor, r.logger,
		pipeline.WithWorkers(r.workers),
		pipeline.WithCallTimeout(r.cfg.LLM.Timeout),
		pipeline.WithDiagnosticSink(func(d pipeline.Diagnostic) {
			fmt.Fprintln(r.out, d.String())
		}),
	)
	if err != nil {
		return outcome, err
	}

	outcome.BatchID = uuid.New().String()
	ctx = common.WithBatchID(ctx, outcome.BatchID)
	r.startRun(ctx, outcome.BatchID, len(docs))

	l, diags, err := session.ProcessBatch(ctx, docs)
	outcome.Diagnostics = diags
	if err != nil {
		status := constants.RunStatusFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = constants.RunStatusCancelled
		}
		r.finishRun(ctx, outcome.BatchID, status, 0, decimal.Zero, diags)
		return outcome, err
	}
	outcome.Ledger = l
	r.finishRun(ctx, outcome.BatchID, constants.RunStatusCompleted, l.Len(), l.Total(), diags)

	printSummary(r.out, len(docs), pipeline.Tally(diags), l)

	res, err := export.NewService(r.logger).Write(ctx, l, r.mode, r.outDir)
	if err != nil {
		return outcome, err
	}
	outcome.Export = &res
	fmt.Fprintf(r.out, "wrote %s\n", res.Path)

	if r.journal != nil {
		if err := r.journal.RecordExport(ctx, repository.ExportRecord{
			BatchID:  outcome.BatchID,
			Mode:     string(r.mode),
			Filename: res.Artifact.FileName(),
			Path:     res.Path,
			Bytes:    len(res.Bytes),
		}); err != nil {
			r.logger.Warn("journal.export.skipped", "batch_id", outcome.BatchID, "error", err)
		}
	}
	return outcome, nil
}

// Journal writes never fail a batch.
func (r *runner) startRun(ctx context.Context, batchID string, documents int) {
	if r.journal == nil {
		return
	}
	if err := r.journal.StartRun(ctx, batchID, documents); err != nil {
		r.logger.Warn("journal.run.skipped", "batch_id", batchID, "error", err)
	}
}

func (r *runner) finishRun(ctx context.Context, batchID string, status constants.RunStatus, admitted int, total decimal.Decimal, diags []pipeline.Diagnostic) {
	if r.journal == nil {
		return
	}
	// a cancelled batch is still journaled
	ctx = context.WithoutCancel(ctx)
	if err := r.journal.FinishRun(ctx, batchID, status, admitted, total, diags); err != nil {
		r.logger.Warn("journal.run.skipped", "batch_id", batchID, "error", err)
	}
}

// openJournal returns a nil repository and a no-op close when no DSN is set.
func openJournal(ctx context.Context, cfg common.JournalConfig, logger *slog.Logger) (repository.RunRepository, func(), error) {
	if cfg.DSN == "" {
		return nil, func() {}, nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.DSN,
		MaxConns:    cfg.MaxConns,
		DialTimeout: cfg.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, common.NewAppError(common.CodeConfig, "open run journal", err)
	}
	return repository.NewRunRepository(db, logger), func() { repository.Close(db, logger) }, nil
}
