package catalog

import (
	"context"
	"sync"
)

// MemorySource serves a fixed forest of categories.
type MemorySource struct {
	mu    sync.RWMutex
	roots []*Category
}

// NewMemorySource creates a source over roots. Config blobs that are not
// valid JSON are quoted in place.
func NewMemorySource(roots []*Category) *MemorySource {
	QuoteInvalidConfigs(roots)
	return &MemorySource{roots: roots}
}

// Tree returns the subtree rooted at id.
func (s *MemorySource) Tree(ctx context.Context, id ID) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if found := FindIn(s.roots, id); found != nil {
		return found, nil
	}
	return nil, ErrCategoryNotFound
}

// Roots returns the configured top-level categories.
func (s *MemorySource) Roots() []*Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots
}

// Replace swaps the served forest.
func (s *MemorySource) Replace(roots []*Category) {
	QuoteInvalidConfigs(roots)
	s.mu.Lock()
	s.roots = roots
	s.mu.Unlock()
}
