package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
)

// AllowedExt checks if a file extension maps to a supported receipt media type.
func AllowedExt(ext string) bool {
	return constants.MediaTypeForExt(ext) != ""
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// CountPDFPages returns the page count, or 0 when the PDF cannot be parsed.
// The pdf library panics on some malformed inputs.
func CountPDFPages(data []byte) (n int) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}
