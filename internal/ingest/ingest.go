package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
)

// DirStats summarizes a load.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32 // hidden or unsupported files under a directory
	Failed  uint32
}

// Loader reads receipt documents from the local filesystem.
type Loader struct {
	logger     *slog.Logger
	SkipHidden bool
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, SkipHidden: true}
}

// LoadPaths turns files and directories into documents, preserving argument order.
// Directories are walked in lexical order and only receipt extensions are kept;
// files named explicitly are always loaded so the pipeline can report on them.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) ([]entity.Document, DirStats, error) {
	var docs []entity.Document
	var stats DirStats

	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			stats.Failed++
			return docs, stats, common.WrapError(err, "stat "+p)
		}
		if !st.IsDir() {
			stats.Scanned++
			doc, err := l.LoadFile(p)
			if err != nil {
				stats.Failed++
				return docs, stats, err
			}
			stats.Matched++
			docs = append(docs, doc)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if walkErr != nil {
				stats.Failed++
				l.logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
				return nil
			}
			if path != p && l.SkipHidden && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				stats.Skipped++
				return nil
			}
			if d.IsDir() {
				return nil
			}
			stats.Scanned++
			if !AllowedExt(filepath.Ext(path)) {
				stats.Skipped++
				return nil
			}
			doc, err := l.LoadFile(path)
			if err != nil {
				stats.Failed++
				l.logger.Warn("ingest.file.error", "path", path, "error", err)
				return nil
			}
			stats.Matched++
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return docs, stats, common.WrapError(err, "walk "+p)
		}
	}

	l.logger.Info("ingest.load.ok",
		"documents", len(docs),
		"scanned", stats.Scanned,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

// LoadFile reads one document. Files over the size ceiling are described but
// not read, so the pipeline rejects them without holding the bytes.
func (l *Loader) LoadFile(path string) (entity.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.Document{}, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			l.logger.Warn("ingest.file.close_error", "path", path, "error", err)
		}
	}(f)

	st, err := f.Stat()
	if err != nil {
		return entity.Document{}, err
	}
	if st.IsDir() {
		return entity.Document{}, errors.New(path + " is a directory")
	}

	doc := entity.Document{
		Name:      filepath.Base(path),
		Path:      path,
		Size:      st.Size(),
		MediaType: constants.MediaTypeForExt(filepath.Ext(path)),
	}
	if doc.Size > constants.MaxDocumentBytes {
		if doc.MediaType == "" {
			doc.MediaType = "application/octet-stream"
		}
		l.logger.Warn("ingest.file.oversized", "path", path, "bytes", doc.Size)
		return doc, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return entity.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc.Data = data
	if doc.MediaType == "" {
		doc.MediaType = SniffMediaType(data)
	}
	if doc.MediaType == constants.MediaPDF {
		doc.Pages = CountPDFPages(data)
	}
	l.logger.Debug("ingest.file.ok", "path", path, "media_type", doc.MediaType, "bytes", doc.Size, "pages", doc.Pages)
	return doc, nil
}

// SniffMediaType detects the content type of files without a known extension.
func SniffMediaType(data []byte) string {
	mt := http.DetectContentType(data)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
