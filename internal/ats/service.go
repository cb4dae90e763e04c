// Package ats is the entry point for ATS format assessment and job
// adaptation. It composes the prompt builder, a provider sender, and the
// reply normalizer.
package ats

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/parsing"
	"github.com/jonathan/ats-tailor/internal/prompts"
	"github.com/jonathan/ats-tailor/internal/types"
	"go.uber.org/zap"
)

// Service runs assessments and adaptations against the configured provider.
// It is safe for concurrent use.
type Service struct {
	sender     llm.Sender
	normalizer *parsing.Normalizer
	logger     *zap.Logger

	config atomic.Pointer[llm.ProviderConfig]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNormalizer replaces the default reply normalizer.
func WithNormalizer(n *parsing.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// NewService creates a Service that sends through sender. No provider is
// configured until SetConfig is called.
func NewService(sender llm.Sender, opts ...Option) *Service {
	s := &Service{
		sender: sender,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = parsing.NewNormalizer(s.logger, nil)
	}
	return s
}

// SetConfig replaces the provider configuration. Calls already in flight
// keep the configuration they started with.
func (s *Service) SetConfig(cfg llm.ProviderConfig) {
	s.config.Store(&cfg)
}

// ClearConfig removes the provider configuration.
func (s *Service) ClearConfig() {
	s.config.Store(nil)
}

// Config returns a copy of the current provider configuration.
func (s *Service) Config() (llm.ProviderConfig, bool) {
	cfg := s.config.Load()
	if cfg == nil {
		return llm.ProviderConfig{}, false
	}
	return *cfg, true
}

// AssessFormat assesses resumeText for ATS compatibility using a snapshot
// of the current configuration.
func (s *Service) AssessFormat(ctx context.Context, resumeText string) (*types.ATSAssessment, error) {
	cfg, ok := s.Config()
	if !ok {
		return nil, errNotConfigured()
	}
	return s.AssessFormatWith(ctx, cfg, resumeText)
}

// AdaptToJob rewrites resumeText for jobDescription using a snapshot of the
// current configuration.
func (s *Service) AdaptToJob(ctx context.Context, resumeText, jobDescription string) (*types.AdaptationResult, error) {
	cfg, ok := s.Config()
	if !ok {
		return nil, errNotConfigured()
	}
	return s.AdaptToJobWith(ctx, cfg, resumeText, jobDescription)
}

// AssessFormatWith assesses resumeText using cfg.
//
// Errors: *llm.ConfigurationError and *types.ValidationError are returned
// before any provider call; transport failures are returned unmodified.
// A reply that cannot be parsed yields the fallback assessment, not an error.
func (s *Service) AssessFormatWith(ctx context.Context, cfg llm.ProviderConfig, resumeText string) (*types.ATSAssessment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	req := types.AnalysisRequest{ResumeText: resumeText}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.send(ctx, cfg, "assess", prompts.BuildAssessmentPrompt(req))
	if err != nil {
		return nil, err
	}

	result := s.normalizer.ParseAssessment(raw)
	return &result, nil
}

// AdaptToJobWith rewrites resumeText for jobDescription using cfg.
// Error behavior matches AssessFormatWith.
func (s *Service) AdaptToJobWith(ctx context.Context, cfg llm.ProviderConfig, resumeText, jobDescription string) (*types.AdaptationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	req := types.AdaptationRequest{ResumeText: resumeText, JobDescription: jobDescription}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.send(ctx, cfg, "adapt", prompts.BuildAdaptationPrompt(req))
	if err != nil {
		return nil, err
	}

	result := s.normalizer.ParseAdaptation(raw)
	return &result, nil
}

// send performs the single provider exchange of a call. A reply that
// arrives after ctx is done is discarded.
func (s *Service) send(ctx context.Context, cfg llm.ProviderConfig, operation, prompt string) (string, error) {
	logger := observability.WithCommonFields(s.logger, string(cfg.Provider), cfg.ModelName()).
		With(zap.String("operation", operation))

	start := time.Now()
	raw, err := s.sender.Send(ctx, cfg, llm.Request{
		System: prompts.SystemInstruction(),
		Prompt: prompt,
	})
	if err != nil {
		logger.Warn("provider call failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Debug("discarding reply of cancelled call", zap.Error(ctxErr))
		return "", ctxErr
	}

	logger.Debug("provider reply received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("reply_chars", len(raw)),
	)
	return raw, nil
}

func errNotConfigured() error {
	return &llm.ConfigurationError{Message: "no provider configured"}
}
