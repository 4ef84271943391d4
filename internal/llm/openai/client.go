package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
)

var _ llm.Extractor = (*Client)(nil)

// Extract implements llm.Extractor using vision chat/completions with a strict
// json_schema response format. Images go in as image_url parts, PDFs as file parts.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (llm.RawExtraction, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"doc", req.Filename,
		"media_type", req.MediaType,
		"bytes", len(req.Data),
	)

	body := c.buildBody(req)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if errors.Is(httpErr, context.DeadlineExceeded) {
			return llm.RawExtraction{}, common.ServiceError("extraction call timed out", httpErr)
		}
		return llm.RawExtraction{}, common.ServiceError("openai request failed", httpErr)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
				Refusal string `json:"refusal"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RawExtraction{}, common.SchemaError("decode openai response", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.RawExtraction{}, common.SchemaError("no choices in openai response", nil)
	}
	msg := cc.Choices[0].Message
	if msg.Refusal != "" {
		return llm.RawExtraction{}, common.SchemaError("model refused: "+msg.Refusal, nil)
	}

	out, err := llm.ParseExtraction([]byte(msg.Content), c.logger.With("req_id", rid))
	if err != nil {
		return llm.RawExtraction{}, err
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"company", out.CompanyName,
		"receipt", out.ReceiptNumber,
		"date", out.PaymentDate,
		"amount", out.Amount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) buildBody(req llm.ExtractRequest) map[string]any {
	return map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "remittance_receipt",
				"strict": true,
				"schema": llm.BuildExtractionSchema(),
			},
		},
		"messages": []map[string]any{
			{"role": "system", "content": llm.SystemPrompt()},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": llm.UserPrompt(req.Filename)},
				attachmentPart(req),
			}},
		},
	}
}

func attachmentPart(req llm.ExtractRequest) map[string]any {
	url := llm.DataURL(req.Data, req.MediaType)
	if req.MediaType == constants.MediaPDF {
		name := req.Filename
		if name == "" {
			name = "receipt.pdf"
		}
		return map[string]any{
			"type": "file",
			"file": map[string]any{"filename": name, "file_data": url},
		}
	}
	return map[string]any{
		"type":      "image_url",
		"image_url": map[string]any{"url": url, "detail": "high"},
	}
}
