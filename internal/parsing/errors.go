package parsing

import "fmt"

// ParseError describes why a provider reply could not be decoded. It never
// leaves the package boundary as a returned error; the normalizer logs it
// and substitutes the fallback record.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
