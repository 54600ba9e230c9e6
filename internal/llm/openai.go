package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4.1-mini"
)

type OpenAIClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      orDefault(model, chatModel),
		url:        openAIChatURL,
		httpClient: &http.Client{},
	}
}

// Wire types shared by OpenAI-compatible chat endpoints.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newChatRequest(model, system, prompt string) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: answerTemperature,
		TopP:        answerTopP,
		MaxTokens:   answerMaxTokens,
	}
}

// postChat sends one chat completion and returns the first choice.
func postChat(ctx context.Context, hc *http.Client, provider, url, apiKey string, in chatRequest) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+apiKey)

	var out chatResponse
	if err := postJSON(ctx, hc, provider, url, header, in, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("%s API error: %s", provider, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errors.New(provider + " API returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Answer(ctx context.Context, system, prompt string) (string, error) {
	return postChat(ctx, c.httpClient, ProviderOpenAI, c.url, c.apiKey, newChatRequest(c.model, system, prompt))
}

func (c *OpenAIClient) Model() string { return c.model }
