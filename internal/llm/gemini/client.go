package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
)

// DefaultModelName is used when Config.Model is empty.
const DefaultModelName = "gemini-2.5-flash"

// Config for the Gemini client.
type Config struct {
	APIKey      string // if empty, falls back to env GEMINI_API_KEY
	BaseURL     string // optional endpoint override
	Model       string
	Temperature float32
}

// generator is the slice of *genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	cfg    Config
	models generator
	logger *slog.Logger
}

var _ llm.Extractor = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModelName
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithGenerator(cfg, client.Models, logger), nil
}

func newWithGenerator(cfg Config, g generator, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModelName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, models: g, logger: logger.With("provider", "gemini")}
}

// Extract sends the document inline with a structured response schema.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (llm.RawExtraction, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"doc", req.Filename,
		"media_type", req.MediaType,
		"bytes", len(req.Data),
	)

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, buildContents(req), c.generateConfig())
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return llm.RawExtraction{}, common.ServiceError("extraction call timed out", err)
		}
		return llm.RawExtraction{}, common.ServiceError("gemini generate content", err)
	}

	text := responseText(resp)
	if text == "" {
		c.logger.Error("llm.extract.empty_response", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.RawExtraction{}, common.SchemaError("empty response from model", nil)
	}

	out, err := llm.ParseExtraction([]byte(text), c.logger.With("req_id", rid))
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

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SystemPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(c.cfg.Temperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
	}
}

func buildContents(req llm.ExtractRequest) []*genai.Content {
	return []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: llm.UserPrompt(req.Filename)},
				{
					InlineData: &genai.Blob{
						MIMEType: req.MediaType,
						Data:     req.Data,
					},
				},
			},
		},
	}
}

// ResponseSchema mirrors llm.ExtractionFields as a Gemini schema with every field required.
func ResponseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(llm.ExtractionFields))
	for _, f := range llm.ExtractionFields {
		t := genai.TypeString
		if f.Type == "number" {
			t = genai.TypeNumber
		}
		props[f.Name] = &genai.Schema{Type: t, Description: f.Description}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         llm.FieldNames(),
		PropertyOrdering: llm.FieldNames(),
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			out += p.Text
		}
	}
	return out
}
