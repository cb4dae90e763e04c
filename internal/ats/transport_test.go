package ats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The facade wired to the real transport against a fake OpenAI endpoint.
func TestAssessFormat_ThroughTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o",
  "choices": [{"index": 0, "message": {"role": "assistant",
    "content": "Sure! {\"isCompliant\": false, \"score\": 120, \"issues\": [\"Uses tables\"]}"}, "finish_reason": "stop"}]
}`))
	}))
	defer srv.Close()

	transport := llm.NewTransport(llm.TransportOptions{OpenAIBaseURL: srv.URL + "/v1", HTTPClient: srv.Client()})
	svc := NewService(transport)
	svc.SetConfig(openAIConfig)

	got, err := svc.AssessFormat(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.False(t, got.IsCompliant)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, []string{"Uses tables"}, got.Issues)
	assert.Equal(t, []string{}, got.Suggestions)
}

func TestAssessFormat_ProviderStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	transport := llm.NewTransport(llm.TransportOptions{AnthropicBaseURL: srv.URL, HTTPClient: srv.Client()})
	svc := NewService(transport)

	_, err := svc.AssessFormatWith(context.Background(), llm.ProviderConfig{Provider: llm.ProviderAnthropic, APIKey: "bad"}, "Jane Doe")

	var provErr *llm.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Equal(t, "invalid x-api-key", provErr.Message)
}
