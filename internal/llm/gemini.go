package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiVariant talks to Gemini through the generative-ai-go REST client.
// Unlike the other variants it cannot disable the client's own retry of
// Unavailable (503) responses, and TransportOptions.HTTPClient is not
// applied since a custom client would bypass the API-key transport.
type geminiVariant struct {
	endpoint    string
	temperature float32
}

func (v geminiVariant) send(ctx context.Context, cfg ProviderConfig, req Request) (string, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if v.endpoint != "" {
		opts = append(opts, option.WithEndpoint(v.endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: "failed to create Gemini client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(cfg.ModelName())
	model.SetTemperature(v.temperature)
	model.ResponseMIMEType = "application/json"
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", geminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, StatusCode: http.StatusOK, Message: err.Error()}
	}
	return text, nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

func geminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = genericMessage(apiErr.Code)
		}
		return &ProviderError{Provider: ProviderGemini, StatusCode: apiErr.Code, Message: msg, Cause: err}
	}
	return &ProviderError{Provider: ProviderGemini, Message: genericMessage(0), Cause: err}
}
