package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

func newPromptStore(t *testing.T, files map[string]string) (*PromptStore, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".content-automation", "prompts"), store.Dir())
}

func TestNewPromptStore_NoIOUntilLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	_, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPromptStore_Load_SeedsDirectory(t *testing.T) {
	store, dir := newPromptStore(t, nil)

	prompt, err := store.Load(driven.PromptClassificationFormat)
	require.NoError(t, err)
	assert.Equal(t, driven.DefaultPrompts[driven.PromptClassificationFormat], prompt)

	for _, f := range []string{"classification_format.txt", "classification_system.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected %s", f)
	}

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "exactly one `%s`")
}

func TestPromptStore_Load_CustomContent(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		content string
		want    string
	}{
		{
			name:    "format with one placeholder",
			prompt:  driven.PromptClassificationFormat,
			content: "Answer in JSON. Relationship types: %s. Be 100%% strict.",
			want:    "Answer in JSON. Relationship types: %s. Be 100%% strict.",
		},
		{
			name:    "system prompt is used as written",
			prompt:  driven.PromptClassificationSystem,
			content: "\n  Only answer when 90% sure.  \n",
			want:    "Only answer when 90% sure.",
		},
		{
			name:    "format without placeholder",
			prompt:  driven.PromptClassificationFormat,
			content: "Answer in JSON.",
			want:    driven.DefaultPrompts[driven.PromptClassificationFormat],
		},
		{
			name:    "format with two placeholders",
			prompt:  driven.PromptClassificationFormat,
			content: "Types %s and %s",
			want:    driven.DefaultPrompts[driven.PromptClassificationFormat],
		},
		{
			name:    "format with wrong verb",
			prompt:  driven.PromptClassificationFormat,
			content: "Types %d",
			want:    driven.DefaultPrompts[driven.PromptClassificationFormat],
		},
		{
			name:    "empty file",
			prompt:  driven.PromptClassificationSystem,
			content: "  \n",
			want:    driven.DefaultPrompts[driven.PromptClassificationSystem],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newPromptStore(t, map[string]string{tt.prompt + ".txt": tt.content})

			got, err := store.Load(tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// a rejected file is left for the user to fix
			data, err := os.ReadFile(filepath.Join(dir, tt.prompt+".txt"))
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, _ := newPromptStore(t, nil)

	_, err := store.Load("nonexistent_prompt")

	assert.ErrorContains(t, err, "nonexistent_prompt")
}

func TestPromptStore_CacheAndReload(t *testing.T) {
	store, dir := newPromptStore(t, nil)
	path := filepath.Join(dir, "classification_format.txt")

	first, err := store.Load(driven.PromptClassificationFormat)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("types: %s"), 0600))
	cached, err := store.Load(driven.PromptClassificationFormat)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptClassificationFormat)
	require.NoError(t, err)
	assert.Equal(t, "types: %s", fresh)
}

func TestPromptStore_ReloadRestoresDeletedFile(t *testing.T) {
	store, dir := newPromptStore(t, nil)
	path := filepath.Join(dir, "classification_system.txt")

	_, err := store.Load(driven.PromptClassificationSystem)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	store.Reload()
	prompt, err := store.Load(driven.PromptClassificationSystem)
	require.NoError(t, err)

	assert.Equal(t, driven.DefaultPrompts[driven.PromptClassificationSystem], prompt)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, prompt, string(data))
}

func TestPromptStore_SeedFailureUsesDefaults(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "prompts")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0600))

	store, err := NewPromptStore(blocker)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptClassificationFormat)

	require.NoError(t, err)
	assert.Equal(t, driven.DefaultPrompts[driven.PromptClassificationFormat], prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, _ := newPromptStore(t, nil)

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.Load(driven.PromptClassificationSystem)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, driven.DefaultPrompts[driven.PromptClassificationSystem], got)
	}
}
