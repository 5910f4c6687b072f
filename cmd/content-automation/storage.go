package main

import (
	"context"
	"fmt"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/memory"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/postgres"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/sqlite"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// storeSet is the knowledge and submission backend chosen by configuration.
type storeSet struct {
	knowledge   driven.KnowledgeStore
	writer      driven.KnowledgeWriter
	submissions driven.SubmissionStore
	lister      driven.SubmissionLister
	close       func()
}

func openStores(ctx context.Context, st domain.StorageSettings) (*storeSet, error) {
	switch st.Driver {
	case domain.StorageDriverMemory:
		k := memory.NewKnowledgeStore()
		s := memory.NewSubmissionStore()
		return &storeSet{knowledge: k, writer: k, submissions: s, lister: s, close: func() {}}, nil

	case domain.StorageDriverSQLite, "":
		db, err := sqlite.NewStore(st.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("Using sqlite store at %s", db.Path())
		k, s := db.KnowledgeStore(), db.SubmissionStore()
		return &storeSet{knowledge: k, writer: k, submissions: s, lister: s, close: closer("sqlite", db.Close)}, nil

	case domain.StorageDriverPostgres:
		pg, err := postgres.NewStore(ctx, st.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return &storeSet{knowledge: pg, writer: pg, submissions: pg, lister: pg, close: closer("postgres", pg.Close)}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", st.Driver)
	}
}

func closer(name string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			logger.Warn("closing %s store: %v", name, err)
		}
	}
}
