package prompts

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

const promptFile = "ats.json"

// Schema describes the JSON object a provider is asked to return.
type Schema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField defines a single field in the expected reply.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model, e.g. `["string"]`
	Description string
}

// AssessmentSchema returns the reply structure for a format assessment.
func AssessmentSchema() Schema {
	return Schema{
		Name: "ATSAssessment",
		Fields: []SchemaField{
			{Name: types.FieldIsCompliant, Type: "boolean", Description: "true if the resume is ATS compatible"},
			{Name: types.FieldScore, Type: "integer", Description: "ATS compatibility score from 0 to 100"},
			{Name: types.FieldIssues, Type: `["string"]`, Description: "formatting or content problems found, most severe first"},
			{Name: types.FieldSuggestions, Type: `["string"]`, Description: "concrete, actionable improvements"},
		},
	}
}

// AdaptationSchema returns the reply structure for a job adaptation.
func AdaptationSchema() Schema {
	return Schema{
		Name: "AdaptationResult",
		Fields: []SchemaField{
			{Name: types.FieldAdaptedText, Type: `"string"`, Description: "the full adapted resume as plain text"},
			{Name: types.FieldLaTeXContent, Type: `"string"`, Description: "complete LaTeX document of the adapted resume, or empty"},
			{Name: types.FieldChangeLog, Type: `["string"]`, Description: "each change made and why it helps for this job"},
			{Name: types.FieldHighlightedSkills, Type: `["string"]`, Description: "skills from the resume that match the job description"},
		},
	}
}

// Describe renders the schema as an annotated JSON skeleton.
func (s Schema) Describe() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, field := range s.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// SystemInstruction returns the instruction placed in each provider's system slot.
func SystemInstruction() string {
	return MustGet(promptFile, "system")
}

// BuildAssessmentPrompt renders the format-assessment instruction.
// The resume text is embedded verbatim and never truncated.
func BuildAssessmentPrompt(req types.AnalysisRequest) string {
	template := MustGet(promptFile, "assess-format")
	return Format(template, map[string]string{
		"Schema":     AssessmentSchema().Describe(),
		"ResumeText": req.ResumeText,
	})
}

// BuildAdaptationPrompt renders the job-adaptation instruction.
func BuildAdaptationPrompt(req types.AdaptationRequest) string {
	template := MustGet(promptFile, "adapt-to-job")
	return Format(template, map[string]string{
		"Schema":         AdaptationSchema().Describe(),
		"ResumeText":     req.ResumeText,
		"JobDescription": req.JobDescription,
	})
}
