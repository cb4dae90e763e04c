package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/types"
)

// errBadRequest reports a request body that could not be decoded.
type errBadRequest struct {
	Message string
}

func (e *errBadRequest) Error() string {
	return "invalid request body: " + e.Message
}

// errTooLarge reports a request body over the size limit.
type errTooLarge struct {
	Limit int64
}

func (e *errTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *types.ValidationError
		badRequestErr *errBadRequest
		tooLargeErr   *errTooLarge
		configErr     *llm.ConfigurationError
		providerErr   *llm.ProviderError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &badRequestErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message shown to API clients for err.
// Unclassified errors are reduced to a generic message.
func publicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
