package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/pipeline"
)

// Run is one journaled batch.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     constants.RunStatus
	Documents  int
	Admitted   int
	Total      decimal.Decimal
}

// ExportRecord is one artifact written for a run.
type ExportRecord struct {
	BatchID   string
	Mode      string
	Filename  string
	Path      string
	Bytes     int
	CreatedAt time.Time
}

// RunRepository journals batch runs, their diagnostics and exports.
type RunRepository interface {
	StartRun(ctx context.Context, batchID string, documents int) error
	FinishRun(ctx context.Context, batchID string, status constants.RunStatus, admitted int, total decimal.Decimal, diags []pipeline.Diagnostic) error
	RecordExport(ctx context.Context, rec ExportRecord) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Diagnostics(ctx context.Context, batchID string) ([]pipeline.Diagnostic, error)
	Exports(ctx context.Context, batchID string) ([]ExportRecord, error)
}

type runRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewRunRepository(db *DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger, now: time.Now}
}

func (r *runRepository) StartRun(ctx context.Context, batchID string, documents int) error {
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(
		`INSERT INTO batch_runs (id, started_at, status, documents) VALUES (?, ?, ?, ?)`),
		batchID, formatTime(r.now()), string(constants.RunStatusRunning), documents)
	if err != nil {
		r.logger.Error("journal.run.start_failed", "batch_id", batchID, "error", err)
		return fmt.Errorf("start run: %w", err)
	}
	r.logger.Debug("journal.run.started", "batch_id", batchID, "documents", documents)
	return nil
}

func (r *runRepository) FinishRun(ctx context.Context, batchID string, status constants.RunStatus, admitted int, total decimal.Decimal, diags []pipeline.Diagnostic) (err error) {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ins := r.db.rebind(`INSERT INTO batch_diagnostics
		(batch_id, idx, document, severity, code, message, receipt_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, d := range diags {
		if _, err = tx.ExecContext(ctx, ins,
			batchID, d.Index, d.Document, string(d.Severity), d.Code, d.Message, d.ReceiptNumber); err != nil {
			return fmt.Errorf("insert diagnostic %d: %w", d.Index, err)
		}
	}

	res, err := tx.ExecContext(ctx, r.db.rebind(
		`UPDATE batch_runs SET finished_at = ?, status = ?, admitted = ?, total = ? WHERE id = ?`),
		formatTime(r.now()), string(status), admitted, total.StringFixed(2), batchID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("run %s not found", batchID)
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("journal.run.finished", "batch_id", batchID, "status", status, "admitted", admitted, "diagnostics", len(diags))
	return nil
}

func (r *runRepository) RecordExport(ctx context.Context, rec ExportRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(
		`INSERT INTO batch_exports (batch_id, mode, filename, path, bytes, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		rec.BatchID, rec.Mode, rec.Filename, rec.Path, rec.Bytes, formatTime(rec.CreatedAt))
	if err != nil {
		r.logger.Error("journal.export.record_failed", "batch_id", rec.BatchID, "error", err)
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(
		`SELECT id, started_at, finished_at, status, documents, admitted, total
		 FROM batch_runs ORDER BY started_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run             Run
			started, status string
			finished        sql.NullString
			total           string
		)
		if err := rows.Scan(&run.ID, &started, &finished, &status, &run.Documents, &run.Admitted, &total); err != nil {
			return nil, err
		}
		run.Status = constants.RunStatus(status)
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if finished.Valid {
			t, err := parseTime(finished.String)
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}
		if run.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("run %s total: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Diagnostics returns a run's diagnostics in input order.
func (r *runRepository) Diagnostics(ctx context.Context, batchID string) ([]pipeline.Diagnostic, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(
		`SELECT idx, document, severity, code, message, receipt_number
		 FROM batch_diagnostics WHERE batch_id = ? ORDER BY idx`), batchID)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	var out []pipeline.Diagnostic
	for rows.Next() {
		var d pipeline.Diagnostic
		var sev string
		if err := rows.Scan(&d.Index, &d.Document, &sev, &d.Code, &d.Message, &d.ReceiptNumber); err != nil {
			return nil, err
		}
		d.Severity = constants.Severity(sev)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *runRepository) Exports(ctx context.Context, batchID string) ([]ExportRecord, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(
		`SELECT batch_id, mode, filename, path, bytes, created_at
		 FROM batch_exports WHERE batch_id = ? ORDER BY created_at`), batchID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var created string
		if err := rows.Scan(&rec.BatchID, &rec.Mode, &rec.Filename, &rec.Path, &rec.Bytes, &created); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
