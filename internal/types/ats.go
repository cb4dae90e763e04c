// Package types provides type definitions for structured data used throughout the ATS tailoring system.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnalysisRequest is the input to a format assessment.
type AnalysisRequest struct {
	ResumeText string `json:"resume_text" validate:"required,notblank"`
}

// AdaptationRequest is the input to a job-tailoring rewrite.
type AdaptationRequest struct {
	ResumeText     string `json:"resume_text" validate:"required,notblank"`
	JobDescription string `json:"job_description" validate:"required,notblank"`
}

// ATSAssessment is the normalized result of a format assessment.
// Score is always within [0,100] and the list fields are never nil.
type ATSAssessment struct {
	IsCompliant bool     `json:"isCompliant"`
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// AdaptationResult is the normalized result of a job-tailoring rewrite.
// RenderedDocument is always a complete LaTeX document.
type AdaptationResult struct {
	AdaptedText       string   `json:"adaptedText"`
	RenderedDocument  string   `json:"renderedDocument"`
	ChangeLog         []string `json:"changeLog"`
	HighlightedSkills []string `json:"highlightedSkills"`
}

// ValidationError reports a request that failed input validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

var requestValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// required alone accepts whitespace-only text
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate validates the AnalysisRequest using the validator.
func (r *AnalysisRequest) Validate() error {
	return toValidationError(requestValidator.Struct(r))
}

// Validate validates the AdaptationRequest using the validator.
func (r *AdaptationRequest) Validate() error {
	return toValidationError(requestValidator.Struct(r))
}

// toValidationError converts the first validator failure into a ValidationError.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   fieldName(fe.Field()),
			Message: "must not be empty",
		}
	}

	return &ValidationError{Message: err.Error()}
}

// fieldName maps struct field names to their JSON names for error messages.
func fieldName(field string) string {
	switch field {
	case "ResumeText":
		return "resume_text"
	case "JobDescription":
		return "job_description"
	default:
		return field
	}
}

// JSON field names shared by the prompts and the reply parser.
const (
	FieldIsCompliant       = "isCompliant"
	FieldScore             = "score"
	FieldIssues            = "issues"
	FieldSuggestions       = "suggestions"
	FieldAdaptedText       = "adaptedText"
	FieldLaTeXContent      = "latexContent"
	FieldChangeLog         = "changeLog"
	FieldHighlightedSkills = "highlightedSkills"
)
