package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "sk-ant"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.client.BaseURL())
}

func TestComplete_SendsSystemAndUser(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"ok\":true}"},{"type":"text","text":"ignored"}]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), "sys", "user", driven.CompletionOptions{MaxTokens: 50})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, 50, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[0].Content)
	assert.Nil(t, got.Temperature)
}

func TestComplete_DefaultMaxTokens(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"x"}]}`))
	}))
	defer srv.Close()

	svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := svc.Complete(context.Background(), "", "u", driven.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"bad model"}}`, "bad model"},
		{"status only", http.StatusInternalServerError, `{}`, "status 500"},
		{"no text", http.StatusOK, `{"content":[{"type":"tool_use"}]}`, "no text content"},
		{"not json", http.StatusOK, `oops`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
			_, err := svc.Complete(context.Background(), "s", "u", driven.CompletionOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestComplete_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := svc.Complete(context.Background(), "s", "u", driven.CompletionOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestPing(t *testing.T) {
	for _, tt := range []struct {
		status  int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusUnauthorized, true},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/models", r.URL.Path)
			w.WriteHeader(tt.status)
		}))

		svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
		err := svc.Ping(context.Background())
		srv.Close()

		if tt.wantErr {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "401")
		} else {
			assert.NoError(t, err)
		}
	}
}
