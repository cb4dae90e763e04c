package parsing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/ats-tailor/internal/rendering"
	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractJSONCandidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, true},
		{"preamble", `Sure! {"a": 1}`, `{"a": 1}`, true},
		{"trailing prose", "Here:\n{\"a\": {\"b\": 2}}\nHope this helps", `{"a": {"b": 2}}`, true},
		{"markdown fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"no braces", "not json at all", "", false},
		{"only opening", "{ nothing closes", "", false},
		{"closing before opening", "} then {", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONCandidate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAssessment_ReplyWithPreamble(t *testing.T) {
	raw := `Sure! {"isCompliant": true, "score": 87, "issues": [], "suggestions": ["Use bullet points"]}`

	got := ParseAssessment(raw)

	assert.Equal(t, types.ATSAssessment{
		IsCompliant: true,
		Score:       87,
		Issues:      []string{},
		Suggestions: []string{"Use bullet points"},
	}, got)
}

func TestParseAssessment_NotJSON(t *testing.T) {
	got := ParseAssessment("not json at all")

	assert.Equal(t, types.ATSAssessment{
		IsCompliant: false,
		Score:       0,
		Issues:      []string{"Failed to parse API response"},
		Suggestions: []string{"Please check the API response format"},
	}, got)
}

func TestParseAssessment_Fallbacks(t *testing.T) {
	for _, raw := range []string{
		"",
		"{",
		`{"isCompliant": true,}`,
		`{"a": 1} and also {"b": 2}`,
		`{"issues": ["unterminated}`,
	} {
		t.Run(raw, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, FallbackAssessment(), ParseAssessment(raw))
			})
		})
	}
}

func TestParseAssessment_FieldDefaults(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected types.ATSAssessment
	}{
		{
			name:     "empty object",
			raw:      `{}`,
			expected: types.ATSAssessment{Issues: []string{}, Suggestions: []string{}},
		},
		{
			name:     "wrong types",
			raw:      `{"isCompliant": "true", "score": "87", "issues": "none", "suggestions": {"a": 1}}`,
			expected: types.ATSAssessment{Issues: []string{}, Suggestions: []string{}},
		},
		{
			name:     "non-string list elements dropped",
			raw:      `{"isCompliant": false, "score": 40, "issues": ["Tables", 3, null, "Columns"], "suggestions": []}`,
			expected: types.ATSAssessment{Score: 40, Issues: []string{"Tables", "Columns"}, Suggestions: []string{}},
		},
		{
			name:     "score above range",
			raw:      `{"isCompliant": true, "score": 150}`,
			expected: types.ATSAssessment{IsCompliant: true, Score: 100, Issues: []string{}, Suggestions: []string{}},
		},
		{
			name:     "negative score",
			raw:      `{"score": -20}`,
			expected: types.ATSAssessment{Score: 0, Issues: []string{}, Suggestions: []string{}},
		},
		{
			name:     "fractional score rounded",
			raw:      `{"score": 72.6}`,
			expected: types.ATSAssessment{Score: 73, Issues: []string{}, Suggestions: []string{}},
		},
		{
			name:     "huge score",
			raw:      `{"score": 1e400}`,
			expected: types.ATSAssessment{Score: 100, Issues: []string{}, Suggestions: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAssessment(tt.raw))
		})
	}
}

func TestParseAssessment_ListsNeverNil(t *testing.T) {
	got := ParseAssessment(`{"isCompliant": true}`)
	assert.NotNil(t, got.Issues)
	assert.NotNil(t, got.Suggestions)
}

func TestParseAssessment_PreservesOrder(t *testing.T) {
	got := ParseAssessment(`{"issues": ["c", "a", "b"]}`)
	assert.Equal(t, []string{"c", "a", "b"}, got.Issues)
}

func TestParseAdaptation_RendersWhenDocumentMissing(t *testing.T) {
	raw := `{"adaptedText": "Line1\nLine2\nLine3\nLine4", "changeLog": ["Moved skills up"], "highlightedSkills": ["Go"]}`

	got := ParseAdaptation(raw)

	assert.Equal(t, "Line1\nLine2\nLine3\nLine4", got.AdaptedText)
	assert.Equal(t, []string{"Moved skills up"}, got.ChangeLog)
	assert.Equal(t, []string{"Go"}, got.HighlightedSkills)
	assert.Equal(t, rendering.RenderDocument(got.AdaptedText), got.RenderedDocument)

	summary := between(got.RenderedDocument, `\resumesection{Summary}`, `\resumesection{Experience}`)
	experience := between(got.RenderedDocument, `\resumesection{Experience}`, `\resumesection{Education}`)
	for _, line := range []string{"Line1", "Line2", "Line3"} {
		assert.Contains(t, summary, line)
	}
	assert.NotContains(t, summary, "Line4")
	for _, line := range []string{"Line1", "Line2", "Line3", "Line4"} {
		assert.Contains(t, experience, line)
	}
}

func TestParseAdaptation_EscapesRenderedText(t *testing.T) {
	got := ParseAdaptation(`{"adaptedText": "Cut costs 50% & saved $100"}`)

	assert.Contains(t, got.RenderedDocument, `50\% \& saved \$100`)
}

func TestParseAdaptation_PassesProvidedDocumentThrough(t *testing.T) {
	doc := `\documentclass{article}\begin{document}50% raw & unescaped\end{document}`
	raw := `{"adaptedText": "x", "latexContent": "` + strings.ReplaceAll(doc, `\`, `\\`) + `"}`

	got := ParseAdaptation(raw)
	assert.Equal(t, doc, got.RenderedDocument)
}

func TestParseAdaptation_BlankDocumentIsRendered(t *testing.T) {
	got := ParseAdaptation(`{"adaptedText": "Hello", "latexContent": "   "}`)
	assert.Equal(t, rendering.RenderDocument("Hello"), got.RenderedDocument)

	got = ParseAdaptation(`{"adaptedText": "Hello", "latexContent": 42}`)
	assert.Equal(t, rendering.RenderDocument("Hello"), got.RenderedDocument)
}

func TestParseAdaptation_Fallback(t *testing.T) {
	got := ParseAdaptation("I could not adapt this resume.")

	assert.Equal(t, "", got.AdaptedText)
	assert.Equal(t, rendering.RenderDocument(""), got.RenderedDocument)
	assert.NotEmpty(t, got.RenderedDocument)
	assert.Equal(t, []string{"Failed to parse API response"}, got.ChangeLog)
	assert.Equal(t, []string{}, got.HighlightedSkills)
}

func TestParseAdaptation_Defaults(t *testing.T) {
	got := ParseAdaptation(`{"adaptedText": 5, "changeLog": null}`)

	assert.Equal(t, "", got.AdaptedText)
	assert.Equal(t, rendering.RenderDocument(""), got.RenderedDocument)
	assert.Equal(t, []string{}, got.ChangeLog)
	assert.Equal(t, []string{}, got.HighlightedSkills)
}

func TestNormalizer_LogsFallbackWithoutPayload(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := NewNormalizer(zap.New(core), nil)

	n.ParseAssessment("secret resume content without json")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "fallback")
	for _, v := range entry.ContextMap() {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "secret resume content")
		}
	}
}

func TestNormalizer_SchemaDiagnosticsDoNotChangeResult(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewNormalizer(zap.New(core), nil)

	raw := `{"isCompliant": "yes", "score": 140}`
	got := n.ParseAssessment(raw)

	assert.Equal(t, ParseAssessment(raw), got)
	assert.Equal(t, 100, got.Score)

	diagnostics := logs.FilterMessageSnippet("expected shape").All()
	require.Len(t, diagnostics, 1)
	fields := diagnostics[0].ContextMap()["fields"]
	assert.Contains(t, fields, "isCompliant")
}

func TestNormalizer_CustomRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\documentclass{article}\begin{document}CUSTOM {{.Body}}\end{document}`), 0o644))

	renderer, err := rendering.NewRenderer(path)
	require.NoError(t, err)
	n := NewNormalizer(nil, renderer)

	got := n.ParseAdaptation(`{"adaptedText": "Hello"}`)
	assert.Contains(t, got.RenderedDocument, "CUSTOM Hello")

	fallback := n.ParseAdaptation("nope")
	assert.Contains(t, fallback.RenderedDocument, "CUSTOM")
	assert.Equal(t, []string{FallbackIssue}, fallback.ChangeLog)
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	j := strings.Index(s, end)
	if i < 0 || j < 0 || j < i {
		return ""
	}
	return s[i+len(start) : j]
}
