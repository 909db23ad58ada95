package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig holds connection parameters for the Gemini REST API.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override, used by tests
	Timeout time.Duration
}

// GeminiExtractor implements the extraction contract against the Gemini
// generateContent endpoint.
type GeminiExtractor struct {
	config GeminiConfig
	client *http.Client
	logger *slog.Logger
}

// NewGeminiExtractor creates an extractor. Timeout defaults to 30s.
func NewGeminiExtractor(config GeminiConfig, logger *slog.Logger) *GeminiExtractor {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &GeminiExtractor{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract prompts the model for the extraction schema and parses whatever
// comes back. Transport and API errors are returned; malformed model
// output is not, per the best-effort extraction contract.
func (e *GeminiExtractor) Extract(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
	prompt := fmt.Sprintf(
		"Extract the customer id, customer email, and a list of products (with product name/ID and quantity) "+
			"from the following order email. Return the result as a JSON object matching this schema: %s\n\nEmail:\n%s",
		extractionSchema, emailText)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return domain.CandidateOrder{}, fmt.Errorf("failed to encode extraction request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		e.config.BaseURL, e.config.Model, e.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.CandidateOrder{}, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.CandidateOrder{}, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.CandidateOrder{}, fmt.Errorf("extraction API returned %d: %s", resp.StatusCode, string(data))
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return domain.CandidateOrder{}, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		e.logger.Warn("extraction returned no candidates")
		return domain.CandidateOrder{}, nil
	}

	return ParseCandidate(gen.Candidates[0].Content.Parts[0].Text), nil
}
