package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/pipeline"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, nil) })
	return db
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, DialectSQLite, db.Dialect)
	require.NoError(t, HealthCheck(context.Background(), db, time.Second))
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/db"))
	assert.False(t, IsPostgresDSN("sqlite://journal.db"))
	assert.False(t, IsPostgresDSN("journal.db"))
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DialectPostgres}
	lite := &DB{Dialect: DialectSQLite}
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestRunRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewRunRepository(db, nil).(*runRepository)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.StartRun(ctx, "batch-1", 3))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, constants.RunStatusRunning, runs[0].Status)
	assert.Nil(t, runs[0].FinishedAt)
	assert.Equal(t, 3, runs[0].Documents)

	diags := []pipeline.Diagnostic{
		{Index: 0, Document: "a.pdf", Severity: constants.SeveritySuccess, Message: "ok", ReceiptNumber: "R1"},
		{Index: 1, Document: "b.pdf", Severity: constants.SeverityWarning, Code: "DUPLICATE_RECEIPT", Message: "dup", ReceiptNumber: "R1"},
		{Index: 2, Document: "c.txt", Severity: constants.SeverityWarning, Code: "VALIDATION_ERROR", Message: "bad type"},
	}
	clock = clock.Add(time.Minute)
	require.NoError(t, repo.FinishRun(ctx, "batch-1", constants.RunStatusCompleted, 1, decimal.RequireFromString("1500.5"), diags))

	runs, err = repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, constants.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.Admitted)
	assert.Equal(t, "1500.50", run.Total.StringFixed(2))
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, clock, *run.FinishedAt)
	assert.Equal(t, clock.Add(-time.Minute), run.StartedAt)

	got, err := repo.Diagnostics(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, diags, got)

	require.NoError(t, repo.RecordExport(ctx, ExportRecord{
		BatchID: "batch-1", Mode: "upload", Filename: "Lagos_State_Upload_Schedule.xlsx",
		Path: "out/Lagos_State_Upload_Schedule.xlsx", Bytes: 4096,
	}))
	exports, err := repo.Exports(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, "upload", exports[0].Mode)
	assert.Equal(t, 4096, exports[0].Bytes)
	assert.Equal(t, clock, exports[0].CreatedAt)
}

func TestRunRepository_FinishUnknownRunRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), nil)

	err := repo.FinishRun(ctx, "missing", constants.RunStatusFailed, 0, decimal.Zero,
		[]pipeline.Diagnostic{{Index: 0, Document: "a.pdf", Severity: constants.SeverityError, Message: "x"}})
	require.Error(t, err)

	diags, err := repo.Diagnostics(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRunRepository_ListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), nil).(*runRepository)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		repo.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		require.NoError(t, repo.StartRun(ctx, id, 1))
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}
