package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// fakeOpenAI serves chat completions whose content is reply.
func fakeOpenAI(t *testing.T, reply string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		content, _ := json.Marshal(reply)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":` + string(content) + `},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("ATS_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ATS_OPENAI_BASE_URL", srv.URL+"/v1")
	return srv, &calls
}

const combinedReply = `{"isCompliant": true, "score": 82, "issues": [], "suggestions": ["Add dates"],
"adaptedText": "Jane Doe\nPlatform Engineer\nKubernetes & Go", "changeLog": ["Moved Kubernetes up"], "highlightedSkills": ["Kubernetes"]}`

func TestRender_ToFile(t *testing.T) {
	in := writeTemp(t, "resume.txt", "Jane Doe\nR&D lead, 100% uptime")
	out := filepath.Join(t.TempDir(), "nested", "resume.tex")

	_, err := execute(t, "", "render", "--in", in, "--out", out)
	require.NoError(t, err)

	doc, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), `\documentclass`))
	assert.Contains(t, string(doc), `R\&D lead, 100\% uptime`)
}

func TestRender_Stdin(t *testing.T) {
	stdout, err := execute(t, "Jane Doe", "render", "--in", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, `\begin{document}`)
	assert.Contains(t, stdout, "Jane Doe")
}

func TestRender_MissingInput(t *testing.T) {
	_, err := execute(t, "", "render", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestAssess_JSON(t *testing.T) {
	_, calls := fakeOpenAI(t, "Here you go: "+combinedReply)
	resume := writeTemp(t, "resume.txt", "Jane Doe\nEngineer")

	stdout, err := execute(t, "", "assess", "--resume", resume, "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, true, got["isCompliant"])
	assert.Equal(t, float64(82), got["score"])
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestAssess_HumanOutput(t *testing.T) {
	fakeOpenAI(t, combinedReply)
	resume := writeTemp(t, "resume.txt", "Jane Doe")

	stdout, err := execute(t, "", "assess", "--resume", resume)
	require.NoError(t, err)
	assert.Contains(t, stdout, "82")
	assert.Contains(t, stdout, "Add dates")
}

func TestAssess_NoProvider(t *testing.T) {
	resume := writeTemp(t, "resume.txt", "Jane Doe")

	_, err := execute(t, "", "assess", "--resume", resume)

	var cfgErr *llm.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestAssess_FlagOverridesEnv(t *testing.T) {
	t.Setenv("ATS_PROVIDER", "openai")
	resume := writeTemp(t, "resume.txt", "Jane Doe")

	_, err := execute(t, "", "assess", "--resume", resume, "--provider", "anthropic")

	var cfgErr *llm.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "anthropic")
}

func TestAdapt_WritesDocument(t *testing.T) {
	fakeOpenAI(t, combinedReply)
	resume := writeTemp(t, "resume.txt", "Jane Doe")
	job := writeTemp(t, "job.txt", "Platform engineer, Kubernetes")
	out := filepath.Join(t.TempDir(), "resume.tex")

	stdout, err := execute(t, "", "adapt", "--resume", resume, "--job", job, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Moved Kubernetes up")

	doc, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `Kubernetes \& Go`)
}

func TestAdapt_BothStdin(t *testing.T) {
	_, err := execute(t, "", "adapt", "--resume", "-", "--job", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin")
}

func TestReview_RunsBothCalls(t *testing.T) {
	_, calls := fakeOpenAI(t, combinedReply)
	resume := writeTemp(t, "resume.txt", "Jane Doe")
	job := writeTemp(t, "job.txt", "Platform engineer")

	stdout, err := execute(t, "", "review", "--resume", resume, "--job", job, "--json")
	require.NoError(t, err)

	var got reviewResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.NotNil(t, got.Assessment)
	require.NotNil(t, got.Adaptation)
	assert.Equal(t, 82, got.Assessment.Score)
	assert.Equal(t, []string{"Kubernetes"}, got.Adaptation.HighlightedSkills)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestReview_ProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()
	t.Setenv("ATS_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-bad")
	t.Setenv("ATS_OPENAI_BASE_URL", srv.URL+"/v1")

	resume := writeTemp(t, "resume.txt", "Jane Doe")
	job := writeTemp(t, "job.txt", "Platform engineer")

	_, err := execute(t, "", "review", "--resume", resume, "--job", job)

	var provErr *llm.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
}

func TestConfigFile(t *testing.T) {
	fakeOpenAI(t, combinedReply)
	t.Setenv("ATS_PROVIDER", "")
	cfg := writeTemp(t, "ats.yaml", "provider: openai\nmodel: gpt-4o-mini\n")
	resume := writeTemp(t, "resume.txt", "Jane Doe")

	_, err := execute(t, "", "assess", "--resume", resume, "--config", cfg)
	require.NoError(t, err)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfg := writeTemp(t, "ats.yaml", "retries: 50\n")
	in := writeTemp(t, "resume.txt", "Jane Doe")

	_, err := execute(t, "", "render", "--in", in, "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestCheck_Clean(t *testing.T) {
	in := writeTemp(t, "resume.txt", "Jane Doe\nEngineer")
	tex := filepath.Join(t.TempDir(), "resume.tex")
	_, err := execute(t, "", "render", "--in", in, "--out", tex)
	require.NoError(t, err)

	stdout, err := execute(t, "", "check", "--in", tex)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No problems found")
}

func TestCheck_Errors(t *testing.T) {
	tex := writeTemp(t, "resume.tex", "\\documentclass{article}\n\\begin{document}\nRockstar ninja\n\\end{document}\n")

	stdout, err := execute(t, "", "check", "--in", tex, "--forbid", "rockstar", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")

	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got["violations"], 1)
	assert.Equal(t, "forbidden_phrase", got["violations"][0]["type"])
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := execute(t, "", "check", "--in", filepath.Join(t.TempDir(), "missing.tex"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read LaTeX file")
}
