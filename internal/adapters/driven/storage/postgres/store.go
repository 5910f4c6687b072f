// Package postgres stores the knowledge base and the review queue in
// PostgreSQL, for deployments where several servers share one queue.
package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/memory"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

//go:embed schema.sql
var schema string

// Ensure Store implements the interfaces.
var (
	_ driven.KnowledgeStore   = (*Store)(nil)
	_ driven.KnowledgeWriter  = (*Store)(nil)
	_ driven.SubmissionStore  = (*Store)(nil)
	_ driven.SubmissionLister = (*Store)(nil)
)

// Store is a pgx connection pool over the knowledge and submission tables.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewStore connects to dsn, checks the connection and creates missing tables.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", domain.ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", domain.ErrStoreUnavailable, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{pool: pool, now: time.Now}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveObject inserts or updates an object. An empty ID is generated.
func (s *Store) SaveObject(ctx context.Context, obj domain.KnowledgeObject) error {
	if err := memory.ValidateObject(obj); err != nil {
		return err
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	if obj.Tags == nil {
		obj.Tags = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO knowledge_objects (id, name, type, tags, deprecated, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			tags = EXCLUDED.tags,
			deprecated = EXCLUDED.deprecated,
			updated_at = EXCLUDED.updated_at
	`, obj.ID, obj.Name, string(obj.Type), obj.Tags, obj.Deprecated, s.now().UTC())
	if err != nil {
		return fmt.Errorf("saving knowledge object: %w", err)
	}
	return nil
}

// ListExisting returns all objects ordered by type, then name.
func (s *Store) ListExisting(ctx context.Context) ([]domain.KnowledgeObject, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, type, tags, deprecated
		FROM knowledge_objects
		ORDER BY type, lower(name)
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying knowledge objects: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	objects := []domain.KnowledgeObject{}
	for rows.Next() {
		var obj domain.KnowledgeObject
		var objType string
		if err := rows.Scan(&obj.ID, &obj.Name, &objType, &obj.Tags, &obj.Deprecated); err != nil {
			return nil, fmt.Errorf("scanning knowledge object: %w", err)
		}
		obj.Type = domain.KnowledgeType(objType)
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knowledge objects: %w", err)
	}
	return objects, nil
}

// Create validates req and inserts a pending submission.
func (s *Store) Create(ctx context.Context, req domain.SubmissionRequest) (*domain.Submission, error) {
	if err := memory.ValidateSubmission(req); err != nil {
		return nil, err
	}
	content, err := json.Marshal(req.ProposedContent)
	if err != nil {
		return nil, fmt.Errorf("marshalling proposed content: %w", err)
	}

	sub := domain.Submission{
		ID:              uuid.NewString(),
		Submitter:       req.Submitter,
		ObjectType:      req.ObjectType,
		ObjectName:      req.ObjectName,
		SubmissionType:  req.SubmissionType,
		ProposedContent: req.ProposedContent,
		Status:          domain.SubmissionStatusPending,
		CreatedAt:       s.now().UTC(),
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO submissions
			(id, submitter, object_type, object_name, submission_type, proposed_content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sub.ID, sub.Submitter, string(sub.ObjectType), sub.ObjectName, string(sub.SubmissionType),
		content, sub.Status, sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: saving submission: %w", domain.ErrStoreUnavailable, err)
	}
	return &sub, nil
}

// ListSubmissions returns submissions in creation order.
func (s *Store) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, submitter, object_type, object_name, submission_type, proposed_content, status, created_at
		FROM submissions
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying submissions: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var subs []domain.Submission //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sub domain.Submission
		var objType, subType string
		var content []byte
		if err := rows.Scan(&sub.ID, &sub.Submitter, &objType, &sub.ObjectName, &subType,
			&content, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		sub.ObjectType = domain.KnowledgeType(objType)
		sub.SubmissionType = domain.SubmissionType(subType)
		if err := json.Unmarshal(content, &sub.ProposedContent); err != nil {
			return nil, fmt.Errorf("unmarshaling proposed content: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return subs, nil
}
