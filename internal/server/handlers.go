package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/types"
	"go.uber.org/zap"
)

// handleAssess runs a format assessment server-side.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.resolveProvider(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.AnalysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.service.AssessFormatWith(r.Context(), cfg, req.ResumeText)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleAdapt runs a job adaptation server-side. With ?download=1 the
// rendered document is returned as a resume.tex attachment.
func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.resolveProvider(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.AdaptationRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.service.AdaptToJobWith(r.Context(), cfg, req.ResumeText, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if wantsDownload(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="resume.tex"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(result.RenderedDocument))
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleError logs err and writes its mapped status with a short message.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	fields := []zap.Field{
		zap.String(observability.FieldRequestID, RequestIDFromContext(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError && r.Context().Err() == nil {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Info("request rejected", fields...)
	}

	if errors.Is(r.Context().Err(), context.Canceled) {
		// client went away; nothing useful to write
		return
	}
	s.errorResponse(w, status, publicMessage(err))
}

// decodeBody decodes a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &errTooLarge{Limit: maxErr.Limit}
		}
		return &errBadRequest{Message: err.Error()}
	}
	return nil
}

// resolveProvider returns the provider config for a facade request: the
// one named by the request headers, else a snapshot of the server default.
// Configuration problems are reported before the body is read.
func (s *Server) resolveProvider(r *http.Request) (llm.ProviderConfig, error) {
	cfg, ok, err := providerFromRequest(r)
	if err != nil {
		return llm.ProviderConfig{}, err
	}
	if !ok {
		var configured bool
		if cfg, configured = s.service.Config(); !configured {
			return llm.ProviderConfig{}, &llm.ConfigurationError{Message: "no provider configured"}
		}
	}
	if err := cfg.Validate(); err != nil {
		return llm.ProviderConfig{}, err
	}
	return cfg, nil
}

// providerFromRequest builds a provider config from the X-Provider header
// and the credential headers. ok is false when the request names no
// provider and the server default should be used.
func providerFromRequest(r *http.Request) (cfg llm.ProviderConfig, ok bool, err error) {
	name := strings.TrimSpace(r.Header.Get("X-Provider"))
	if name == "" {
		return llm.ProviderConfig{}, false, nil
	}

	provider, err := llm.ParseProvider(name)
	if err != nil {
		return llm.ProviderConfig{}, false, err
	}

	apiKey := bearerToken(r.Header.Get("Authorization"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(r.Header.Get("x-api-key"))
	}

	cfg = llm.ProviderConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    strings.TrimSpace(r.Header.Get("X-Model")),
	}
	return cfg, true, nil
}

func wantsDownload(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("download")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
