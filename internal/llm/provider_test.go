package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		provider, key, model string
		wantModel            string
		wantErr              bool
	}{
		{ProviderOpenAI, "sk", "", chatModel, false},
		{ProviderOpenAI, "sk", "gpt-4o", "gpt-4o", false},
		{ProviderOpenAI, "", "", "", true},
		{ProviderAnthropic, "sk", "", anthropicModel, false},
		{ProviderGemini, "key", "", geminiModel, false},
		{ProviderCerebras, "key", "", cerebrasModel, false},
		{ProviderMock, "", "", "mock", false},
		{"llama.cpp", "key", "", "", true},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.provider, tt.key, tt.model)
		if tt.wantErr {
			assert.Error(t, err, tt.provider)
			continue
		}
		require.NoError(t, err, tt.provider)
		assert.Equal(t, tt.wantModel, c.Model(), tt.provider)
	}
}

func TestQuestionPrompt(t *testing.T) {
	got := QuestionPrompt([]string{"Sally was in the kitchen.", "The box was in the kitchen."}, "Where is the box now?")
	want := "Please read the following story and answer the subsequent question.\n\n" +
		"--- STORY ---\nSally was in the kitchen.\nThe box was in the kitchen.\n--- END OF STORY ---\n\n" +
		"Question: Where is the box now?"
	assert.Equal(t, want, got)
}

func TestOpenAIClient_Answer(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  basket \n"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "")
	c.url = srv.URL

	answer, err := c.Answer(context.Background(), SystemPrompt, "Where is the marble?")
	require.NoError(t, err)
	assert.Equal(t, "basket", answer)

	assert.Equal(t, chatModel, got.Model)
	assert.Equal(t, float32(0), got.Temperature)
	assert.Equal(t, float32(1), got.TopP)
	assert.Equal(t, 50, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "Where is the marble?", got.Messages[1].Content)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "")
	c.url = srv.URL

	_, err := c.Answer(context.Background(), SystemPrompt, "q")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Equal(t, ProviderOpenAI, statusErr.Provider)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropicClient_Answer(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"the box"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-ant", "")
	c.url = srv.URL

	answer, err := c.Answer(context.Background(), SystemPrompt, "Where is the marble?")
	require.NoError(t, err)
	assert.Equal(t, "the box", answer)
	assert.Equal(t, SystemPrompt, got.System)
	assert.Equal(t, 50, got.MaxTokens)
}

func TestGeminiClient_Answer(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/"+geminiModel+":generateContent"), r.URL.Path)
		assert.Equal(t, "gkey", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"crate"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("gkey", "")
	c.baseURL = srv.URL

	answer, err := c.Answer(context.Background(), SystemPrompt, "Where is the marble?")
	require.NoError(t, err)
	assert.Equal(t, "crate", answer)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, SystemPrompt, got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 50, got.GenerationConfig.MaxOutputTokens)
}

func TestCerebrasClient_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ckey", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer srv.Close()

	c := NewCerebrasClient("ckey", "")
	c.url = srv.URL

	_, err := c.Answer(context.Background(), SystemPrompt, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestMockClient(t *testing.T) {
	m := NewMockClient()
	answer, err := m.Answer(context.Background(), "", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mock answer", answer)

	m.AnswerFunc = func(_, prompt string) (string, error) {
		if prompt == "fail" {
			return "", errors.New("boom")
		}
		return strings.ToUpper(prompt), nil
	}
	answer, err = m.Answer(context.Background(), "", "p2")
	require.NoError(t, err)
	assert.Equal(t, "P2", answer)

	_, err = m.Answer(context.Background(), "", "fail")
	assert.Error(t, err)
	assert.Equal(t, 3, m.Calls())
}
