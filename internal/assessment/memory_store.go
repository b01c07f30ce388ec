package assessment

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu          sync.RWMutex
	assessments []*Assessment
}

// NewMemoryStore creates an in-memory assessment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(ctx context.Context, a *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.assessments = append(s.assessments, &cp)
	return nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.assessments) - limit
	if start < 0 {
		start = 0
	}
	result := make([]*Assessment, 0, len(s.assessments)-start)
	for i := len(s.assessments) - 1; i >= start; i-- {
		cp := *s.assessments[i]
		result = append(result, &cp)
	}
	return result, nil
}
