package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &types.ValidationError{Field: "resume_text", Message: "must not be empty"}, http.StatusBadRequest},
		{"bad body", &errBadRequest{Message: "unexpected EOF"}, http.StatusBadRequest},
		{"body too large", &errTooLarge{Limit: maxBodyBytes}, http.StatusRequestEntityTooLarge},
		{"configuration", &llm.ConfigurationError{Message: "no provider configured"}, http.StatusServiceUnavailable},
		{"provider", &llm.ProviderError{Provider: llm.ProviderOpenAI, StatusCode: 401, Message: "bad key"}, http.StatusBadGateway},
		{"wrapped provider", fmt.Errorf("assess: %w", &llm.ProviderError{Provider: llm.ProviderAnthropic}), http.StatusBadGateway},
		{"cancelled", context.Canceled, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal server error", publicMessage(errors.New("db password is hunter2")))
	assert.Equal(t, "configuration error: no provider configured",
		publicMessage(&llm.ConfigurationError{Message: "no provider configured"}))
	assert.Equal(t, "invalid request body: unexpected EOF", publicMessage(&errBadRequest{Message: "unexpected EOF"}))
	assert.Equal(t, "request body exceeds 2097152 bytes", publicMessage(&errTooLarge{Limit: maxBodyBytes}))
}
