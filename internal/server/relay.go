package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/ats-tailor/internal/observability"
	"go.uber.org/zap"
)

// handleOpenAIRelay forwards a chat-completion request using the caller's
// bearer token.
func (s *Server) handleOpenAIRelay(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if bearerToken(auth) == "" {
		s.errorResponse(w, http.StatusUnauthorized, "Missing API key")
		return
	}

	s.forward(w, r, "openai", s.config.OpenAIUpstream, http.Header{
		"Authorization": {auth},
	})
}

// handleAnthropicRelay forwards a messages request using the caller's
// x-api-key. The protocol version defaults when the caller omits it.
func (s *Server) handleAnthropicRelay(w http.ResponseWriter, r *http.Request) {
	apiKey := strings.TrimSpace(r.Header.Get("x-api-key"))
	if apiKey == "" {
		s.errorResponse(w, http.StatusUnauthorized, "Missing API key")
		return
	}

	version := r.Header.Get("anthropic-version")
	if version == "" {
		version = s.config.AnthropicVersion
	}

	s.forward(w, r, "anthropic", s.config.AnthropicUpstream, http.Header{
		"X-Api-Key":         {apiKey},
		"Anthropic-Version": {version},
	})
}

// forward sends the request body unchanged to upstream and copies the
// upstream status and body back verbatim.
func (s *Server) forward(w http.ResponseWriter, r *http.Request, provider, upstream string, headers http.Header) {
	logger := s.logger.With(
		zap.String(observability.FieldRequestID, RequestIDFromContext(r.Context())),
		zap.String(observability.FieldProvider, provider),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, upstream, bytes.NewReader(body))
	if err != nil {
		logger.Error("failed to build upstream request", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to build upstream request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		req.Header[key] = values
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("upstream request failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, transportMessage(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Warn("failed to copy upstream response", zap.Error(err))
		return
	}

	logger.Debug("relayed upstream response", zap.Int("status", resp.StatusCode))
}

// bearerToken returns the token of an "Authorization: Bearer <token>" value.
func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// transportMessage extracts the underlying cause of a client error without
// the upstream URL.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return err.Error()
}
