// Package pipeline runs one batch of receipts through extraction, normalization
// and deduplication, and assembles the resulting ledger.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/normalize"
)

// Session owns the collaborators for batch runs. Each ProcessBatch call builds
// its own deduplicator and ledger, so a Session can be reused across batches.
type Session struct {
	extractor   llm.Extractor
	normalizer  *normalize.Normalizer
	logger      *slog.Logger
	workers     int
	callTimeout time.Duration
	sink        func(Diagnostic)
}

// NewSession fails with SERVICE_UNAVAILABLE when no extractor is configured.
func NewSession(extractor llm.Extractor, logger *slog.Logger, opts ...Option) (*Session, error) {
	if extractor == nil {
		return nil, common.ServiceUnavailableError("no extraction client configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		extractor:   extractor,
		normalizer:  normalize.NewNormalizer(logger),
		logger:      logger,
		workers:     defaultWorkers,
		callTimeout: defaultCallTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// extraction is the result of one service call.
type extraction struct {
	raw llm.RawExtraction
	err error
}

// ProcessBatch emits exactly one diagnostic per document, in input order, and
// returns the finalized ledger. If ctx is cancelled mid-batch the partial ledger
// is discarded: the returned ledger is nil and the error is ctx.Err().
func (s *Session) ProcessBatch(ctx context.Context, docs []entity.Document) (*ledger.Ledger, []Diagnostic, error) {
	if s == nil || s.extractor == nil {
		return nil, nil, common.ServiceUnavailableError("no extraction client configured")
	}

	batchID := common.BatchIDFromContext(ctx)
	if batchID == "" {
		batchID = uuid.New().String()
		ctx = common.WithBatchID(ctx, batchID)
	}
	log := s.logger.With("batch_id", batchID)
	start := time.Now()
	log.Info("pipeline.batch.start", "documents", len(docs), "workers", s.workers)

	// Screen every document first; only eligible ones reach the service.
	screened := make([]error, len(docs))
	results := make([]extraction, len(docs))
	done := make([]chan struct{}, len(docs))
	for i, d := range docs {
		screened[i] = screen(d)
		done[i] = make(chan struct{})
		if screened[i] != nil {
			close(done[i])
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i, d := range docs {
			if screened[i] != nil {
				continue
			}
			if gctx.Err() != nil {
				return
			}
			g.Go(func() error {
				defer close(done[i])
				results[i] = s.extract(gctx, d)
				return nil
			})
		}
	}()
	wait := func() {
		<-dispatched
		_ = g.Wait()
	}

	dedup := ledger.NewDeduplicator()
	accepted := make([]entity.Record, 0, len(docs))
	diags := make([]Diagnostic, 0, len(docs))
	emit := func(d Diagnostic) {
		diags = append(diags, d)
		if s.sink != nil {
			s.sink(d)
		}
		log.Info("pipeline.document."+string(d.Severity),
			"index", d.Index, "doc", d.Document, "code", d.Code, "message", d.Message)
	}

	for i, d := range docs {
		select {
		case <-done[i]:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			wait()
			log.Warn("pipeline.batch.cancelled",
				"processed", len(diags), "discarded", len(accepted), "error", ctx.Err())
			return nil, diags, ctx.Err()
		}

		if err := screened[i]; err != nil {
			emit(failure(i, d.Name, err))
			continue
		}
		res := results[i]
		if res.err != nil {
			emit(failure(i, d.Name, res.err))
			continue
		}
		rec, err := s.normalizer.Normalize(res.raw)
		if err != nil {
			emit(failure(i, d.Name, err))
			continue
		}
		if !dedup.Admit(rec) {
			diag := failure(i, d.Name, common.DuplicateReceiptError(rec.IdentityKey()))
			diag.ReceiptNumber = rec.ReceiptNumber
			emit(diag)
			continue
		}
		accepted = append(accepted, rec)
		emit(Diagnostic{
			Index:         i,
			Document:      d.Name,
			Severity:      constants.SeveritySuccess,
			Message:       fmt.Sprintf("receipt %s for %s admitted", rec.ReceiptNumber, rec.CompanyName),
			ReceiptNumber: rec.ReceiptNumber,
		})
	}
	wait()

	l := ledger.Finalize(accepted)
	c := Tally(diags)
	log.Info("pipeline.batch.ok",
		"admitted", l.Len(),
		"success", c.Success, "warning", c.Warning, "error", c.Error,
		"total", l.Total().StringFixed(2),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return l, diags, nil
}

func (s *Session) extract(ctx context.Context, d entity.Document) extraction {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	callCtx = common.WithRequestID(callCtx, uuid.New().String())

	raw, err := s.extractor.Extract(callCtx, llm.ExtractRequest{
		Data:      d.Data,
		MediaType: d.MediaType,
		Filename:  d.Name,
	})
	if err != nil && common.CodeOf(err) == "" {
		// extractors outside this module may return bare errors
		err = common.ServiceError("extraction failed", err)
	}
	return extraction{raw: raw, err: err}
}

// screen rejects documents the service must never see.
func screen(d entity.Document) error {
	size := d.Size
	if size == 0 {
		size = int64(len(d.Data))
	}
	if size > constants.MaxDocumentBytes {
		return common.ValidationErrorf("document is %d bytes; limit is %d", size, constants.MaxDocumentBytes)
	}
	if !constants.IsAllowedMediaType(d.MediaType) {
		return common.ValidationErrorf("unsupported media type %q", d.MediaType)
	}
	if len(d.Data) == 0 {
		return common.ValidationErrorf("document is empty")
	}
	return nil
}
