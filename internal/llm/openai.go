package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type openAIVariant struct {
	baseURL     string
	httpClient  *http.Client
	temperature float32
}

func (v openAIVariant) send(ctx context.Context, cfg ProviderConfig, req Request) (string, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if v.baseURL != "" {
		clientConfig.BaseURL = v.baseURL
	}
	if v.httpClient != nil {
		clientConfig.HTTPClient = v.httpClient
	}
	client := openai.NewClientWithConfig(clientConfig)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.ModelName(),
		Messages:    messages,
		Temperature: v.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", openAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderOpenAI, StatusCode: http.StatusOK, Message: "no choices in response"}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &ProviderError{Provider: ProviderOpenAI, StatusCode: http.StatusOK, Message: "no message content in response"}
	}
	return content, nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = genericMessage(apiErr.HTTPStatusCode)
		}
		return &ProviderError{Provider: ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: msg, Cause: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider:   ProviderOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    genericMessage(reqErr.HTTPStatusCode),
			Cause:      err,
		}
	}

	return &ProviderError{Provider: ProviderOpenAI, Message: genericMessage(0), Cause: err}
}
