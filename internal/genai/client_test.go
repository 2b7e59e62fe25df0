package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		APIKey:    "test-key",
		Model:     "gpt-4o-mini",
		BaseURL:   server.URL + "/v1",
		MaxTokens: 1500,
		Timeout:   timeout,
	}, testLogger())
}

func completionJSON(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	return string(body)
}

func TestClient_Complete(t *testing.T) {
	t.Run("returns the completion text", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completionJSON(`[{"question": "Q?"}]`))
		}, time.Second)

		text, err := client.Complete(context.Background(), Request{UserPrompt: "prompt"})

		require.NoError(t, err)
		assert.Equal(t, `[{"question": "Q?"}]`, text)
	})

	t.Run("appends the target language to the system message", func(t *testing.T) {
		var got struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completionJSON("ok"))
		}, time.Second)

		_, err := client.Complete(context.Background(), Request{
			SystemInstruction: "Base instruction.",
			UserPrompt:        "prompt",
			TargetLanguage:    "Dutch",
		})

		require.NoError(t, err)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Contains(t, got.Messages[0].Content, "Base instruction.")
		assert.Contains(t, got.Messages[0].Content, "Write all generated text in Dutch.")
		assert.Equal(t, "prompt", got.Messages[1].Content)
	})

	t.Run("times out before a slow upstream responds", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}, 50*time.Millisecond)

		start := time.Now()
		_, err := client.Complete(context.Background(), Request{UserPrompt: "prompt"})

		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("maps an upstream rate limit to a generation error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"message": "rate limit exceeded", "type": "requests"}}`)
		}, time.Second)

		_, err := client.Complete(context.Background(), Request{UserPrompt: "prompt"})

		require.Error(t, err)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
		assert.Contains(t, genErr.Message, "rate limit exceeded")
	})

	t.Run("fails on a response without choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "cmpl-1", "object": "chat.completion", "choices": []}`)
		}, time.Second)

		_, err := client.Complete(context.Background(), Request{UserPrompt: "prompt"})

		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
	})
}

func TestClient_CompleteStream(t *testing.T) {
	streamChunk := func(content string) string {
		body, _ := json.Marshal(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion.chunk",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": content}},
			},
		})
		return "data: " + string(body) + "\n\n"
	}

	t.Run("accumulates fragments in order", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, streamChunk(`[{"question":`))
			fmt.Fprint(w, streamChunk(` "Q?"}`))
			fmt.Fprint(w, streamChunk(`]`))
			fmt.Fprint(w, "data: [DONE]\n\n")
		}, time.Second)

		text, err := client.Complete(context.Background(), Request{UserPrompt: "prompt", Stream: true})

		require.NoError(t, err)
		assert.Equal(t, `[{"question": "Q?"}]`, text)
	})

	t.Run("maps an upstream error on the streaming path", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"message": "server overloaded", "type": "server_error"}}`)
		}, time.Second)

		_, err := client.Complete(context.Background(), Request{UserPrompt: "prompt", Stream: true})

		require.Error(t, err)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, http.StatusInternalServerError, genErr.StatusCode)
	})
}
