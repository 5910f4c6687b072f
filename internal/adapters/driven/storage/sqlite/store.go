package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/memory"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// DefaultFileName is the database file under the data directory.
const DefaultFileName = "knowledge.db"

// Store is a SQLite database holding the knowledge base and the review
// queue. Access goes through the wrapper types returned by
// KnowledgeStore and SubmissionStore.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// DefaultPath returns ~/.content-automation/data/knowledge.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".content-automation", "data", DefaultFileName), nil
}

// NewStore opens (creating if needed) the database at dbPath and runs
// pending migrations. An empty dbPath uses DefaultPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// KnowledgeStore returns the knowledge base view of this store.
func (s *Store) KnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{store: s}
}

// SubmissionStore returns the review queue view of this store.
func (s *Store) SubmissionStore() *SubmissionStore {
	return &SubmissionStore{store: s}
}

// migrate runs every *.up.sql newer than the recorded schema version.
// Each migration and its version row commit together.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Knowledge Store ====================

// KnowledgeStore implements driven.KnowledgeStore and driven.KnowledgeWriter.
type KnowledgeStore struct {
	store *Store
}

var (
	_ driven.KnowledgeStore  = (*KnowledgeStore)(nil)
	_ driven.KnowledgeWriter = (*KnowledgeStore)(nil)
)

// SaveObject inserts or updates an object. An empty ID is generated.
func (k *KnowledgeStore) SaveObject(ctx context.Context, obj domain.KnowledgeObject) error {
	if err := memory.ValidateObject(obj); err != nil {
		return err
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	if obj.Tags == nil {
		obj.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(obj.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	now := k.store.now().UTC()
	_, err = k.store.db.ExecContext(ctx, `
		INSERT INTO knowledge_objects (id, name, type, tags, deprecated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			tags = excluded.tags,
			deprecated = excluded.deprecated,
			updated_at = excluded.updated_at
	`, obj.ID, obj.Name, string(obj.Type), string(tagsJSON), obj.Deprecated, now, now)
	if err != nil {
		return fmt.Errorf("saving knowledge object: %w", err)
	}
	return nil
}

// ListExisting returns all objects ordered by type, then name.
func (k *KnowledgeStore) ListExisting(ctx context.Context) ([]domain.KnowledgeObject, error) {
	rows, err := k.store.db.QueryContext(ctx, `
		SELECT id, name, type, tags, deprecated
		FROM knowledge_objects
		ORDER BY type, name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge objects: %w", err)
	}
	defer rows.Close()

	objects := []domain.KnowledgeObject{}
	for rows.Next() {
		var obj domain.KnowledgeObject
		var objType, tagsJSON string
		if err := rows.Scan(&obj.ID, &obj.Name, &objType, &tagsJSON, &obj.Deprecated); err != nil {
			return nil, fmt.Errorf("scanning knowledge object: %w", err)
		}
		obj.Type = domain.KnowledgeType(objType)
		if err := json.Unmarshal([]byte(tagsJSON), &obj.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knowledge objects: %w", err)
	}
	return objects, nil
}

// ==================== Submission Store ====================

// SubmissionStore implements driven.SubmissionStore and driven.SubmissionLister.
type SubmissionStore struct {
	store *Store
}

var (
	_ driven.SubmissionStore  = (*SubmissionStore)(nil)
	_ driven.SubmissionLister = (*SubmissionStore)(nil)
)

// Create validates req and inserts a pending submission.
func (s *SubmissionStore) Create(ctx context.Context, req domain.SubmissionRequest) (*domain.Submission, error) {
	if err := memory.ValidateSubmission(req); err != nil {
		return nil, err
	}
	contentJSON, err := json.Marshal(req.ProposedContent)
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
		CreatedAt:       s.store.now().UTC(),
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO submissions
			(id, submitter, object_type, object_name, submission_type, proposed_content, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.Submitter, string(sub.ObjectType), sub.ObjectName, string(sub.SubmissionType),
		string(contentJSON), sub.Status, sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: saving submission: %w", domain.ErrStoreUnavailable, err)
	}
	return &sub, nil
}

// ListSubmissions returns submissions in creation order.
func (s *SubmissionStore) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, submitter, object_type, object_name, submission_type, proposed_content, status, created_at
		FROM submissions
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission //nolint:prealloc // size unknown from query
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return subs, nil
}

func scanSubmission(rows *sql.Rows) (domain.Submission, error) {
	var sub domain.Submission
	var objType, subType, contentJSON string
	var createdAt sql.NullTime
	if err := rows.Scan(&sub.ID, &sub.Submitter, &objType, &sub.ObjectName, &subType,
		&contentJSON, &sub.Status, &createdAt); err != nil {
		return sub, fmt.Errorf("scanning submission: %w", err)
	}
	sub.ObjectType = domain.KnowledgeType(objType)
	sub.SubmissionType = domain.SubmissionType(subType)
	if createdAt.Valid {
		sub.CreatedAt = createdAt.Time
	}
	if err := json.Unmarshal([]byte(contentJSON), &sub.ProposedContent); err != nil {
		return sub, fmt.Errorf("unmarshaling proposed content: %w", err)
	}
	return sub, nil
}
