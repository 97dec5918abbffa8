package storage

import "sync"

// MemoryBackend keeps slots in a map. Writes and reads can be made to fail,
// which is how quota errors are simulated.
type MemoryBackend struct {
	mu       sync.Mutex
	slots    map[string][]byte
	writeErr error
	readErr  error
	writes   int
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Get returns a copy of the slot.
func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores a copy of data unless writes are failing.
func (m *MemoryBackend) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.slots[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// FailWrites makes every following Set return err; nil restores writes.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// FailReads makes every following Get return err; nil restores reads.
func (m *MemoryBackend) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Writes returns the number of successful Set calls.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}
