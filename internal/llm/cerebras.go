package llm

import (
	"context"
	"net/http"
)

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient talks to the OpenAI-compatible Cerebras endpoint.
type CerebrasClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

func NewCerebrasClient(apiKey, model string) *CerebrasClient {
	return &CerebrasClient{
		apiKey:     apiKey,
		model:      orDefault(model, cerebrasModel),
		url:        cerebrasAPIURL,
		httpClient: &http.Client{},
	}
}

func (c *CerebrasClient) Answer(ctx context.Context, system, prompt string) (string, error) {
	return postChat(ctx, c.httpClient, ProviderCerebras, c.url, c.apiKey, newChatRequest(c.model, system, prompt))
}

func (c *CerebrasClient) Model() string { return c.model }
