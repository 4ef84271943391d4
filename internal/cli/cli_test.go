package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
)

var receiptsByName = map[string]llm.RawExtraction{
	"a.png": {CompanyName: "NASD PLC", PaymentDate: "2024-03-10", PaymentPeriod: "Feb-24", ReceiptNumber: "R-2", TaxType: "Withholding Tax", Amount: 2500, HasAmount: true},
	"b.png": {CompanyName: "NASD PLC", PaymentDate: "2024-01-15", ReceiptNumber: "R-1", TaxType: "PAYE", Amount: 1000, HasAmount: true},
	"c.png": {CompanyName: "NASD PLC", PaymentDate: "2024-03-10", PaymentPeriod: "Feb-24", ReceiptNumber: "R-2", TaxType: "Withholding Tax", Amount: 2500, HasAmount: true},
}

func setupCLI(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REMITTANCE_CONFIG", "EXTRACTION_PROVIDER", "LLM_MODEL", "JOURNAL_DSN", "EXPORT_MODE", "EXPORT_OUT_DIR", "BATCH_WORKERS", "LOG_FORMAT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}

	origExtractor, origLog := newExtractor, logOutput
	logOutput = io.Discard
	newExtractor = func(context.Context, common.LLMConfig, *slog.Logger) (llm.Extractor, error) {
		return llm.ExtractorFunc(func(_ context.Context, req llm.ExtractRequest) (llm.RawExtraction, error) {
			return receiptsByName[req.Filename], nil
		}), nil
	}
	t.Cleanup(func() {
		newExtractor, logOutput = origExtractor, origLog
		configPath = ""
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeInbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name := range receiptsByName {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("\x89PNG fake"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	return dir
}

func TestProcess_UploadMode(t *testing.T) {
	setupCLI(t)
	inbox := writeInbox(t)
	out := t.TempDir()

	stdout, err := execute(t, "process", inbox, "--mode", "upload", "--out", out, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[success] a.png")
	assert.Contains(t, stdout, "[success] b.png")
	assert.Contains(t, stdout, "[warning] c.png")
	assert.Contains(t, stdout, "DUPLICATE_RECEIPT")
	assert.Contains(t, stdout, "2 of 3 documents admitted (1 warnings, 0 errors)")
	assert.Contains(t, stdout, "total 3,500.00")

	path := filepath.Join(out, "Lagos_State_Upload_Schedule.xlsx")
	assert.Contains(t, stdout, "wrote "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	// earliest payment first
	v, err := f.GetCellValue("Sheet1", "D2")
	require.NoError(t, err)
	assert.Equal(t, "R-1", v)
	v, err = f.GetCellValue("Sheet1", "D3")
	require.NoError(t, err)
	assert.Equal(t, "R-2", v)
}

func TestProcess_StandardModeFilename(t *testing.T) {
	setupCLI(t)
	inbox := writeInbox(t)
	out := t.TempDir()

	_, err := execute(t, "process", inbox, "--mode", "standard", "--out", out, "--workers", "1")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "NASD_PLC_PAYE_WHT_Schedule.xlsx"))
	require.NoError(t, err)
}

func TestProcess_NoAPIKeyIsServiceUnavailable(t *testing.T) {
	setupCLI(t)
	newExtractor = buildExtractor
	inbox := writeInbox(t)

	_, err := execute(t, "process", inbox, "--mode", "upload", "--out", t.TempDir(), "--workers", "1")
	require.Error(t, err)
	assert.Equal(t, common.CodeServiceUnavailable, common.CodeOf(err))
}

func TestProcess_EmptyLedgerIsExportPrecondition(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown.png"), []byte("\x89PNG"), 0o644))

	stdout, err := execute(t, "process", dir, "--mode", "standard", "--out", t.TempDir(), "--workers", "1")
	require.Error(t, err)
	assert.Equal(t, common.CodeExportPrecondition, common.CodeOf(err))
	assert.Contains(t, stdout, "INVALID_EXTRACTION")
}

func TestProcess_UnknownMode(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "process", t.TempDir(), "--mode", "fancy", "--out", t.TempDir(), "--workers", "1")
	require.Error(t, err)
	assert.Equal(t, common.CodeExportPrecondition, common.CodeOf(err))
}

func TestProcess_RequiresPath(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "process")
	assert.Error(t, err)
}

func TestProcess_ConfigFile(t *testing.T) {
	setupCLI(t)
	inbox := writeInbox(t)
	out := t.TempDir()
	cfgFile := filepath.Join(t.TempDir(), "remittance.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[export]\nmode = \"upload\"\nout_dir = \""+filepath.ToSlash(out)+"\"\n"), 0o644))

	processCmd.Flags().Lookup("mode").Changed = false
	processCmd.Flags().Lookup("out").Changed = false
	_, err := execute(t, "--config", cfgFile, "process", inbox, "--workers", "1")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "Lagos_State_Upload_Schedule.xlsx"))
	require.NoError(t, err)
}

func TestHistory_ListsJournaledRuns(t *testing.T) {
	setupCLI(t)
	t.Setenv("JOURNAL_DSN", filepath.Join(t.TempDir(), "journal.db"))
	inbox := writeInbox(t)

	_, err := execute(t, "process", inbox, "--mode", "upload", "--out", t.TempDir(), "--workers", "1")
	require.NoError(t, err)

	stdout, err := execute(t, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "COMPLETED")
	assert.Contains(t, stdout, "3500.00")
}

func TestHistory_RequiresJournal(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOURNAL_DSN")
}

func TestSchema_PrintsExtractionSchema(t *testing.T) {
	setupCLI(t)
	stdout, err := execute(t, "schema")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, false, got["additionalProperties"])
	assert.ElementsMatch(t, llm.FieldNames(), got["required"])
}

func TestNewLogger_TextDropsTimeAndLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	newLogger(common.LogConfig{Level: "info", Format: "text"}, buf).Info("pipeline.batch.ok", "admitted", 2)
	assert.Equal(t, "msg=pipeline.batch.ok admitted=2\n", buf.String())

	buf.Reset()
	newLogger(common.LogConfig{Level: "warn", Format: "json"}, buf).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestDoctor_WithoutJournal(t *testing.T) {
	setupCLI(t)
	stdout, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "config: OK")
	assert.Contains(t, stdout, "credentials: MISSING")
	assert.Contains(t, stdout, "journal: disabled")
}

func TestDoctor_ReportsJournal(t *testing.T) {
	setupCLI(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("JOURNAL_DSN", filepath.Join(t.TempDir(), "journal.db"))

	stdout, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "credentials: OK")
	assert.Contains(t, stdout, "journal: OK (sqlite, last run: none)")
}
