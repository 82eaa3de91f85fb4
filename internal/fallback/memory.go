package fallback

import (
	"bytes"
	"io"
	"sync"
)

// Memory is an in-process key-value store, used when no directory is
// configured and in tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	// Err, when set, fails every Save
	Err error
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Save(key string, contents io.Reader) error {
	if m.Err != nil {
		return m.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, contents); err != nil {
		return err
	}

	m.mu.Lock()
	m.values[key] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}
