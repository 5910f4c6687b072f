package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interfaces.
var (
	_ driven.KnowledgeStore  = (*KnowledgeStore)(nil)
	_ driven.KnowledgeWriter = (*KnowledgeStore)(nil)
)

// KnowledgeStore is an in-memory knowledge base.
type KnowledgeStore struct {
	mu      sync.RWMutex
	objects map[string]domain.KnowledgeObject
}

// NewKnowledgeStore creates a knowledge store seeded with objs.
func NewKnowledgeStore(objs ...domain.KnowledgeObject) *KnowledgeStore {
	s := &KnowledgeStore{objects: make(map[string]domain.KnowledgeObject)}
	for _, obj := range objs {
		_ = s.SaveObject(context.Background(), obj)
	}
	return s
}

// SaveObject stores or replaces an object. An empty ID is generated.
func (s *KnowledgeStore) SaveObject(_ context.Context, obj domain.KnowledgeObject) error {
	if err := ValidateObject(obj); err != nil {
		return err
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	obj.Tags = append([]string(nil), obj.Tags...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.ID] = obj
	return nil
}

// ListExisting returns all objects ordered by type, then name.
func (s *KnowledgeStore) ListExisting(_ context.Context) ([]domain.KnowledgeObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.KnowledgeObject, 0, len(s.objects))
	for _, obj := range s.objects {
		obj.Tags = append([]string(nil), obj.Tags...)
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// ValidateObject checks the fields every knowledge store requires.
func ValidateObject(obj domain.KnowledgeObject) error {
	if strings.TrimSpace(obj.Name) == "" {
		return fmt.Errorf("%w: knowledge object name is required", domain.ErrInvalidInput)
	}
	if !obj.Type.IsValid() {
		return fmt.Errorf("%w: invalid knowledge object type %q", domain.ErrInvalidInput, obj.Type)
	}
	return nil
}
