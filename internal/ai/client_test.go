package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docedit/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.OpenAIConfig{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		Deployment: "gpt-35-turbo",
		APIVersion: "2024-02-01",
		Timeout:    5 * time.Second,
	})
}

func chatReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestEnhance(t *testing.T) {
	var gotReq chatRequest
	var gotKey, gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply("A clearer version of the text.")(w, r)
	})

	out, err := client.Enhance(context.Background(), "some draft text", 1000)
	require.NoError(t, err)
	assert.Equal(t, "A clearer version of the text.", out)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "/openai/deployments/gpt-35-turbo/chat/completions", gotPath)
	assert.Equal(t, 1300, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "some draft text", gotReq.Messages[1].Content)
}

func TestEnhanceDefaultTokenCap(t *testing.T) {
	var gotReq chatRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply("ok")(w, r)
	})

	_, err := client.Enhance(context.Background(), "text", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
}

func TestSummarizeTiers(t *testing.T) {
	tests := []struct {
		length    SummaryLength
		maxTokens int
	}{
		{SummaryShort, 50},
		{SummaryMedium, 150},
		{SummaryDetailed, 250},
		{SummaryLength("unknown"), 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.length), func(t *testing.T) {
			var gotReq chatRequest
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
				chatReply("a summary")(w, r)
			})

			out, err := client.Summarize(context.Background(), "document body", tt.length)
			require.NoError(t, err)
			assert.Equal(t, "a summary", out)
			assert.Equal(t, tt.maxTokens, gotReq.MaxTokens)
		})
	}
}

func TestCritique(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			chatReply("What drives outbreak severity?")(w, r)
			return
		}
		chatReply("The methods are broadly sound.")(w, r)
	})

	got, err := client.Critique(context.Background(), "paper text")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "What drives outbreak severity?", got.ResearchQuestion)
	assert.Equal(t, "The methods are broadly sound.", got.Review)
}

func TestCritiqueNoResearchQuestion(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		chatReply("No research question found")(w, r)
	})

	got, err := client.Critique(context.Background(), "grocery list")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, got.Review, "without a valid research question")
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(config.OpenAIConfig{Timeout: time.Second})

	_, err := client.Enhance(context.Background(), "text", 100)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Summarize(context.Background(), "text", SummaryShort)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Critique(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.False(t, client.Configured())
}

func TestAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "429", "message": "rate limited"},
		})
	})

	_, err := client.Enhance(context.Background(), "text", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
