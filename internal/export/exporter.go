package export

import (
	"strings"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
)

// Mode selects one of the two mutually exclusive spreadsheet layouts.
type Mode string

const (
	ModeUpload   Mode = "upload"
	ModeStandard Mode = "standard"
)

// Artifact is a named workbook ready to render.
type Artifact struct {
	Filename string // base name, without extension
	Workbook Workbook
}

// FileName is the on-disk name.
func (a Artifact) FileName() string { return a.Filename + ".xlsx" }

// Exporter turns a finalized ledger into an artifact.
type Exporter interface {
	Export(l *ledger.Ledger) (Artifact, error)
}

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeUpload:
		return ModeUpload, nil
	case ModeStandard:
		return ModeStandard, nil
	}
	return "", common.ExportPreconditionErrorf("unknown export mode %q", s)
}

// New returns the exporter for mode.
func New(mode Mode) (Exporter, error) {
	switch mode {
	case ModeUpload:
		return UploadExporter{}, nil
	case ModeStandard:
		return StandardExporter{}, nil
	}
	return nil, common.ExportPreconditionErrorf("unknown export mode %q", mode)
}

func requireRecords(l *ledger.Ledger) error {
	if l.IsEmpty() {
		return common.ExportPreconditionErrorf("ledger is empty; nothing to export")
	}
	return nil
}
