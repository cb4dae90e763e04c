package types

// Severity levels for document violations.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation represents a single problem found in a rendered document.
type Violation struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Details    string `json:"details"`
	LineNumber *int   `json:"line_number,omitempty"`
	CharCount  *int   `json:"char_count,omitempty"`
}

// Violations represents a collection of document problems.
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity.
func (v *Violations) HasErrors() bool {
	return v.Count(SeverityError) > 0
}

// Count returns the number of violations with the given severity.
func (v *Violations) Count(severity string) int {
	if v == nil {
		return 0
	}
	n := 0
	for _, violation := range v.Violations {
		if violation.Severity == severity {
			n++
		}
	}
	return n
}
