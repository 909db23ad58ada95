package extract

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func geminiResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGeminiExtract_ParsesModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Email:")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiResponse("```json\n{\"customer_id\": \"C001\", \"products\": [{\"product_id\": \"P001\", \"quantity\": 10}]}\n```"))
	}))
	defer server.Close()

	extractor := NewGeminiExtractor(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: server.URL,
	}, discardLogger())

	candidate, err := extractor.Extract(context.Background(), "Hi, I need 10 brackets. Customer C001.")
	require.NoError(t, err)

	assert.Equal(t, "C001", candidate.CustomerID)
	require.Len(t, candidate.LineItems, 1)
	assert.Equal(t, int32(10), candidate.LineItems[0].Quantity)
}

func TestGeminiExtract_APIErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor := NewGeminiExtractor(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: server.URL,
	}, discardLogger())

	_, err := extractor.Extract(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiExtract_NoCandidatesYieldsEmptyOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates": []}`)
	}))
	defer server.Close()

	extractor := NewGeminiExtractor(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: server.URL,
	}, discardLogger())

	candidate, err := extractor.Extract(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, candidate.CustomerID)
	assert.Empty(t, candidate.LineItems)
}
