package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/ai"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/config/file"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/services"
)

func TestBootstrap_UnreachableLLMDisablesClassification(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	configStore, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	settings := services.NewSettingsService(configStore, ai.NewConfigValidator())
	require.NoError(t, settings.SetStorage(domain.StorageSettings{Driver: domain.StorageDriverMemory}))
	require.NoError(t, configStore.Set("llm.provider", string(domain.AIProviderOllama)))
	require.NoError(t, configStore.Set("llm.base_url", srv.URL))

	ctx := context.Background()
	svc, err := bootstrap(ctx, dir, configStore, settings)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	assert.Equal(t, int32(1), hits.Load(), "bootstrap pings the provider")

	sess, err := svc.Sessions.Create(ctx, []domain.ParsedDocument{{
		Filename:  "cfo.md",
		Format:    domain.FormatMarkdown,
		Content:   "The CFO persona.",
		WordCount: 3,
	}})
	require.NoError(t, err)

	events, err := svc.Streamer.Stream(ctx, sess.ID)
	require.NoError(t, err)
	var got []domain.ClassificationEvent
	for ev := range events {
		got = append(got, ev)
	}

	require.Len(t, got, 3)
	assert.Equal(t, domain.EventError, got[1].Kind)
	assert.Equal(t, domain.ErrLLMUnavailable.Error(), got[1].Message)
	assert.Equal(t, int32(1), hits.Load(), "classification never reached the provider")
}
