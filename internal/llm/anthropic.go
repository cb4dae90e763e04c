package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"
)

type anthropicVariant struct {
	baseURL    string
	httpClient *http.Client
	maxTokens  int
}

func (v anthropicVariant) send(ctx context.Context, cfg ProviderConfig, req Request) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if v.baseURL != "" {
		opts = append(opts, option.WithBaseURL(v.baseURL))
	}
	if v.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(v.httpClient))
	}
	client := anthropic.NewClient(opts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.ModelName()),
		MaxTokens: int64(v.maxTokens),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", anthropicError(err)
	}

	if len(msg.Content) == 0 {
		return "", &ProviderError{Provider: ProviderAnthropic, StatusCode: http.StatusOK, Message: "no content blocks in response"}
	}
	text := msg.Content[0].AsText().Text
	if text == "" {
		return "", &ProviderError{Provider: ProviderAnthropic, StatusCode: http.StatusOK, Message: "no text in first content block"}
	}
	return text, nil
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		msg := gjson.Get(apiErr.RawJSON(), "error.message").String()
		if msg == "" {
			msg = genericMessage(apiErr.StatusCode)
		}
		return &ProviderError{Provider: ProviderAnthropic, StatusCode: apiErr.StatusCode, Message: msg, Cause: err}
	}
	return &ProviderError{Provider: ProviderAnthropic, Message: genericMessage(0), Cause: err}
}
