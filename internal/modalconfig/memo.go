package modalconfig

import "sync"

// memo is a small bounded map; when full it is cleared wholesale.
type memo struct {
	mu      sync.RWMutex
	max     int
	entries map[string]Config
}

func newMemo(max int) *memo {
	return &memo{max: max, entries: make(map[string]Config)}
}

func (m *memo) get(key string) (Config, bool) {
	if m == nil {
		return Config{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.entries[key]
	return cfg, ok
}

func (m *memo) put(key string, cfg Config) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.max {
		m.entries = make(map[string]Config)
	}
	m.entries[key] = cfg
}
