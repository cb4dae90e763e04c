// Package parsing turns raw provider replies into typed, always-complete results.
package parsing

import (
	"errors"
	"math"
	"strings"

	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/rendering"
	"github.com/jonathan/ats-tailor/internal/schemas"
	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Marker strings placed in fallback records.
const (
	FallbackIssue      = "Failed to parse API response"
	FallbackSuggestion = "Please check the API response format"
)

const (
	minScore = 0
	maxScore = 100

	// replyPreviewRunes bounds how much of a bad reply is logged at debug level.
	replyPreviewRunes = 200
)

// Normalizer extracts structured results from provider replies. Its parse
// methods are total: a malformed reply yields the fallback record, never an
// error or a panic.
type Normalizer struct {
	logger   *zap.Logger
	renderer *rendering.Renderer
}

// NewNormalizer creates a Normalizer. A nil logger disables logging; a nil
// renderer selects the embedded default template.
func NewNormalizer(logger *zap.Logger, renderer *rendering.Renderer) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger, renderer: renderer}
}

var defaultNormalizer = NewNormalizer(nil, nil)

// ParseAssessment normalizes a reply with a logger-less Normalizer.
func ParseAssessment(raw string) types.ATSAssessment {
	return defaultNormalizer.ParseAssessment(raw)
}

// ParseAdaptation normalizes a reply with a logger-less Normalizer.
func ParseAdaptation(raw string) types.AdaptationResult {
	return defaultNormalizer.ParseAdaptation(raw)
}

// FallbackAssessment returns the record used when a reply cannot be decoded.
func FallbackAssessment() types.ATSAssessment {
	return types.ATSAssessment{
		IsCompliant: false,
		Score:       0,
		Issues:      []string{FallbackIssue},
		Suggestions: []string{FallbackSuggestion},
	}
}

// FallbackAdaptation returns the record used when a reply cannot be decoded.
func FallbackAdaptation() types.AdaptationResult {
	return types.AdaptationResult{
		AdaptedText:       "",
		RenderedDocument:  rendering.RenderDocument(""),
		ChangeLog:         []string{FallbackIssue},
		HighlightedSkills: []string{},
	}
}

// ExtractJSONCandidate returns the substring from the first '{' to the last
// '}' of raw. It is a scanner, not a parser: several JSON fragments or stray
// braces in surrounding prose produce a candidate that fails to decode.
func ExtractJSONCandidate(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(raw, '}')
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseAssessment normalizes a format-assessment reply.
func (n *Normalizer) ParseAssessment(raw string) types.ATSAssessment {
	doc, candidate, err := decode(raw)
	if err != nil {
		n.logFallback("assessment", raw, err)
		return FallbackAssessment()
	}
	n.diagnose(schemas.ATSAssessment, candidate)

	return types.ATSAssessment{
		IsCompliant: boolField(doc, types.FieldIsCompliant),
		Score:       scoreField(doc, types.FieldScore),
		Issues:      stringList(doc, types.FieldIssues),
		Suggestions: stringList(doc, types.FieldSuggestions),
	}
}

// ParseAdaptation normalizes a job-adaptation reply. A non-blank
// provider-supplied document is passed through unmodified; otherwise the
// adapted text is rendered.
func (n *Normalizer) ParseAdaptation(raw string) types.AdaptationResult {
	doc, candidate, err := decode(raw)
	if err != nil {
		n.logFallback("adaptation", raw, err)
		fallback := FallbackAdaptation()
		fallback.RenderedDocument = n.render("")
		return fallback
	}
	n.diagnose(schemas.AdaptationResult, candidate)

	adapted := stringField(doc, types.FieldAdaptedText)
	document := stringField(doc, types.FieldLaTeXContent)
	if strings.TrimSpace(document) == "" {
		document = n.render(adapted)
	}

	return types.AdaptationResult{
		AdaptedText:       adapted,
		RenderedDocument:  document,
		ChangeLog:         stringList(doc, types.FieldChangeLog),
		HighlightedSkills: stringList(doc, types.FieldHighlightedSkills),
	}
}

func (n *Normalizer) render(plain string) string {
	if n.renderer != nil {
		return n.renderer.RenderDocument(plain)
	}
	return rendering.RenderDocument(plain)
}

// decode locates and validates the JSON object in raw.
func decode(raw string) (gjson.Result, string, error) {
	candidate, ok := ExtractJSONCandidate(raw)
	if !ok {
		return gjson.Result{}, "", &ParseError{Message: "no JSON object found in reply"}
	}
	if !gjson.Valid(candidate) {
		return gjson.Result{}, "", &ParseError{Message: "reply contains malformed JSON"}
	}
	return gjson.Parse(candidate), candidate, nil
}

func (n *Normalizer) logFallback(kind, raw string, err error) {
	n.logger.Warn("provider reply could not be parsed, using fallback",
		zap.String("result", kind),
		zap.Int("reply_chars", len(raw)),
		zap.Error(err),
	)
	n.logger.Debug("unparsable provider reply",
		zap.String("reply_preview", observability.TruncateForLog(raw, replyPreviewRunes)),
	)
}

// diagnose logs schema violations in a decodable reply. It never changes
// the normalized result.
func (n *Normalizer) diagnose(schemaName, candidate string) {
	if !n.logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}

	err := schemas.Validate(schemaName, candidate)
	if err == nil {
		return
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		n.logger.Debug("provider reply deviates from expected shape; defaults applied",
			zap.String("schema", schemaName),
			zap.Strings("fields", validationErr.Fields()),
		)
		return
	}
	n.logger.Debug("reply schema check failed", zap.String("schema", schemaName), zap.Error(err))
}

func boolField(doc gjson.Result, name string) bool {
	return doc.Get(name).Type == gjson.True
}

// scoreField returns the numeric score rounded to an integer and clamped to
// [0,100]. Non-numeric values count as absent.
func scoreField(doc gjson.Result, name string) int {
	v := doc.Get(name)
	if v.Type != gjson.Number {
		return minScore
	}
	f := math.Round(v.Float())
	switch {
	case math.IsNaN(f) || f < minScore:
		return minScore
	case f > maxScore:
		return maxScore
	default:
		return int(f)
	}
}

func stringField(doc gjson.Result, name string) string {
	v := doc.Get(name)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// stringList returns the string elements of an array field, preserving
// order. Non-string elements are dropped; a missing or non-array field
// yields an empty, non-nil slice.
func stringList(doc gjson.Result, name string) []string {
	v := doc.Get(name)
	if !v.IsArray() {
		return []string{}
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
	}
	return out
}
