package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_CreatesSchema(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.KnowledgeStore().SaveObject(context.Background(), domain.KnowledgeObject{
		Name: "CFO", Type: domain.KnowledgeTypePersona,
	}))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	objs, err := second.KnowledgeStore().ListExisting(context.Background())
	require.NoError(t, err)
	assert.Len(t, objs, 1)

	var rows int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestKnowledgeStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	ks := setupTestStore(t).KnowledgeStore()

	require.NoError(t, ks.SaveObject(ctx, domain.KnowledgeObject{
		ID: "s-ent", Name: "Enterprise", Type: domain.KnowledgeTypeSegment,
	}))
	require.NoError(t, ks.SaveObject(ctx, domain.KnowledgeObject{
		ID: "p-cfo", Name: "cfo", Type: domain.KnowledgeTypePersona, Tags: []string{"finance", "buyer"},
	}))
	require.NoError(t, ks.SaveObject(ctx, domain.KnowledgeObject{
		ID: "p-admin", Name: "Admin", Type: domain.KnowledgeTypePersona, Deprecated: true,
	}))

	objs, err := ks.ListExisting(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 3)

	assert.Equal(t, "p-admin", objs[0].ID)
	assert.True(t, objs[0].Deprecated)
	assert.Empty(t, objs[0].Tags)
	assert.Equal(t, "p-cfo", objs[1].ID)
	assert.Equal(t, []string{"finance", "buyer"}, objs[1].Tags)
	assert.Equal(t, "s-ent", objs[2].ID)
	assert.Equal(t, domain.KnowledgeTypeSegment, objs[2].Type)
}

func TestKnowledgeStore_Upsert(t *testing.T) {
	ctx := context.Background()
	ks := setupTestStore(t).KnowledgeStore()

	obj := domain.KnowledgeObject{ID: "u-1", Name: "Close", Type: domain.KnowledgeTypeUseCase}
	require.NoError(t, ks.SaveObject(ctx, obj))
	obj.Name = "Month-end close"
	obj.Deprecated = true
	require.NoError(t, ks.SaveObject(ctx, obj))

	objs, err := ks.ListExisting(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Month-end close", objs[0].Name)
	assert.True(t, objs[0].Deprecated)
}

func TestKnowledgeStore_GeneratesID(t *testing.T) {
	ctx := context.Background()
	ks := setupTestStore(t).KnowledgeStore()

	require.NoError(t, ks.SaveObject(ctx, domain.KnowledgeObject{Name: "Rule", Type: domain.KnowledgeTypeBusinessRule}))

	objs, err := ks.ListExisting(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.NotEmpty(t, objs[0].ID)
}

func TestKnowledgeStore_RejectsInvalid(t *testing.T) {
	ks := setupTestStore(t).KnowledgeStore()

	err := ks.SaveObject(context.Background(), domain.KnowledgeObject{Name: "x", Type: "widget"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = ks.SaveObject(context.Background(), domain.KnowledgeObject{Name: "  ", Type: domain.KnowledgeTypeICP})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeStore_EmptyListIsNotNil(t *testing.T) {
	objs, err := setupTestStore(t).KnowledgeStore().ListExisting(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, objs)
	assert.Empty(t, objs)
}

func TestSubmissionStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	subs := store.SubmissionStore()

	created, err := subs.Create(ctx, domain.SubmissionRequest{
		Submitter:      "bulk-upload",
		ObjectType:     domain.KnowledgeTypePersona,
		ObjectName:     "CFO",
		SubmissionType: domain.SubmissionTypeCreate,
		ProposedContent: map[string]any{
			"name": "CFO",
			"tags": []string{"finance"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.SubmissionStatusPending, created.Status)

	list, err := subs.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "bulk-upload", got.Submitter)
	assert.Equal(t, domain.KnowledgeTypePersona, got.ObjectType)
	assert.Equal(t, domain.SubmissionTypeCreate, got.SubmissionType)
	assert.Equal(t, "CFO", got.ProposedContent["name"])
	assert.Equal(t, []any{"finance"}, got.ProposedContent["tags"])
	assert.True(t, fixed.Equal(got.CreatedAt))
}

func TestSubmissionStore_RejectsInvalid(t *testing.T) {
	_, err := setupTestStore(t).SubmissionStore().Create(context.Background(), domain.SubmissionRequest{
		Submitter:      "",
		ObjectType:     domain.KnowledgeTypePersona,
		ObjectName:     "CFO",
		SubmissionType: domain.SubmissionTypeCreate,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmissionStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.SubmissionStore().Create(context.Background(), domain.SubmissionRequest{
		Submitter:      "bulk-upload",
		ObjectType:     domain.KnowledgeTypeICP,
		ObjectName:     "Mid-market SaaS",
		SubmissionType: domain.SubmissionTypeCreate,
	})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
