package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultRetryBaseDelay is the delay before the first retry.
const DefaultRetryBaseDelay = 2 * time.Second

// RetrySender is a decorator that retries transient provider failures with
// exponential backoff and jitter before delegating to the wrapped Sender.
type RetrySender struct {
	inner      Sender
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewRetrySender wraps a Sender with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is doubled on each subsequent retry.
func NewRetrySender(inner Sender, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *RetrySender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrySender{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Send attempts the request, retrying on transient errors.
func (s *RetrySender) Send(ctx context.Context, cfg ProviderConfig, req Request) (string, error) {
	text, err := s.inner.Send(ctx, cfg, req)
	if err == nil {
		return text, nil
	}

	if !isRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt)

		s.logger.Warn("retrying after transient provider error",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", s.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		text, err = s.inner.Send(ctx, cfg, req)
		if err == nil {
			return text, nil
		}

		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
func (s *RetrySender) backoffDelay(attempt int) time.Duration {
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch {
		case provErr.StatusCode == http.StatusTooManyRequests:
			return true
		case provErr.StatusCode >= 500:
			return true
		case provErr.StatusCode == 0:
			// No response at all: network or DNS failure.
			return provErr.Cause != nil
		default:
			return false
		}
	}

	return false
}
