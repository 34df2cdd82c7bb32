package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsTemperatureWhenSet(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"}

	temp := 0.3
	answer, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}}, ChatOptions{Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
	assert.Equal(t, 0.3, gotBody["temperature"])
}

func TestCompleteOmitsTemperatureWhenNil(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}

	_, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}}, ChatOptions{})
	require.NoError(t, err)
	_, present := gotBody["temperature"]
	assert.False(t, present)
}

func TestCompleteParsesStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported parameter: 'temperature'","type":"invalid_request_error","param":"temperature","code":"unsupported_parameter"}}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}

	_, err := client.Complete(context.Background(), cfg, nil, ChatOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "unsupported_parameter", apiErr.Code)
	assert.Equal(t, "temperature", apiErr.Param)
	assert.True(t, IsUnsupportedParameter(err))
}

func TestCompleteUnstructuredErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}

	_, err := client.Complete(context.Background(), cfg, nil, ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.False(t, IsUnsupportedParameter(err))
}

func TestIsUnsupportedParameter(t *testing.T) {
	assert.True(t, IsUnsupportedParameter(&APIError{Code: "unsupported_parameter"}))
	assert.True(t, IsUnsupportedParameter(&APIError{Code: "unsupported_value"}))
	assert.True(t, IsUnsupportedParameter(&APIError{Param: "temperature"}))
	assert.False(t, IsUnsupportedParameter(&APIError{Code: "rate_limit_exceeded"}))
	assert.False(t, IsUnsupportedParameter(errors.New("plain error")))
	assert.False(t, IsUnsupportedParameter(nil))
}

func TestEmbedReturnsVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "embed-model", body["model"])
		assert.Equal(t, "some text", body["input"])
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: server.URL, APIKey: "k", Model: "embed-model"}

	vec, err := client.Embed(context.Background(), cfg, "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	client := NewOpenAICompatibleClient()
	_, err := client.Embed(context.Background(), EmbeddingConfig{BaseURL: "http://unused"}, "   ")
	assert.Error(t, err)
}
