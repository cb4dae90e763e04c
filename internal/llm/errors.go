package llm

import (
	"fmt"
	"net/http"
)

// ConfigurationError means no usable provider configuration was supplied.
// It is always returned before any network call is attempted.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// ProviderError represents a failed exchange with a provider: a network
// failure, a non-2xx status, or a reply without the expected field.
type ProviderError struct {
	Provider   Provider
	StatusCode int    // 0 when no HTTP response was received
	Message    string // provider-supplied message when available
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// genericMessage is used when the provider supplied no error message.
func genericMessage(status int) string {
	if status > 0 {
		return fmt.Sprintf("provider returned %d %s", status, http.StatusText(status))
	}
	return "failed to reach provider"
}
