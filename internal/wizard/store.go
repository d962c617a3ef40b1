package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Store persists wizard sessions. Update runs fn under mutual exclusion for
// that session and saves the result only when fn returns nil.
type Store interface {
	Create(ctx context.Context, st *State) error
	Get(ctx context.Context, id string) (*State, error)
	Update(ctx context.Context, id string, fn func(*State) error) (*State, error)
	Delete(ctx context.Context, id string) error
}

func encodeState(st *State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("wizard: encode session: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("wizard: decode session: %w", err)
	}
	return &st, nil
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps sessions in process. Entries are stored encoded so
// callers never share state.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates a store whose sessions expire ttl after their last
// write. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, st *State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(st.ID, data)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	s.mu.Lock()
	entry, ok := s.lookup(id)
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeState(entry.data)
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	st, err := decodeState(entry.data)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return st, err
	}
	data, err := encodeState(st)
	if err != nil {
		return nil, err
	}
	s.put(id, data)
	return st, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.items[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expires.IsZero() && s.now().After(entry.expires) {
		delete(s.items, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) put(id string, data []byte) {
	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.items[id] = entry
}
