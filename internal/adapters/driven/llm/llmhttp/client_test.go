package llmhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

func TestNew_TrimsBaseURL(t *testing.T) {
	c := New("p", "http://host/v1/", time.Second, nil)
	assert.Equal(t, "http://host/v1", c.BaseURL())
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["say"]})
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("X-Key", "secret")
	c := New("p", srv.URL, time.Second, header)

	var out struct{ Echo string }
	require.NoError(t, c.PostJSON(context.Background(), "/chat", map[string]string{"say": "hi"}, &out))
	assert.Equal(t, "hi", out.Echo)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantIs  error
	}{
		{"nested message", http.StatusBadRequest, `{"error":{"message":"bad model"}}`, "bad model", nil},
		{"flat message", http.StatusNotFound, `{"error":"no such model"}`, "no such model", nil},
		{"plain body", http.StatusNotFound, "gone\n", "gone", nil},
		{"empty body", http.StatusUnauthorized, "", "Unauthorized", nil},
		{"rate limited", http.StatusTooManyRequests, "", "status 429", domain.ErrRateLimited},
		{"server error", http.StatusServiceUnavailable, `{}`, "status 503", domain.ErrLLMUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New("p", srv.URL, time.Second, nil).Get(context.Background(), "/")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Code)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.NotErrorIs(t, err, domain.ErrLLMUnavailable)
				assert.NotErrorIs(t, err, domain.ErrRateLimited)
			}
		})
	}
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New("p", url, time.Second, nil).Get(context.Background(), "/")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPostJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := New("p", srv.URL, time.Second, nil).PostJSON(context.Background(), "/", struct{}{}, &out)

	assert.ErrorContains(t, err, "p: decode response")
}
