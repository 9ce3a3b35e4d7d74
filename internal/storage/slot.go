package storage

import (
	"fmt"
	"strings"
	"sync"
)

// Slot is a single named durable value holding the serialized collection.
type Slot interface {
	// Read returns the stored bytes; ok is false when nothing was ever written.
	Read() (data []byte, ok bool, err error)
	// Write overwrites the stored value.
	Write(data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SlotName is the key the collection is stored under.
const SlotName = "snippets"

// Open creates the slot implementation for backend at path.
func Open(backend, path string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendBolt:
		return OpenBolt(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// MemorySlot keeps the value in process memory. Used for ephemeral sessions and tests.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Read() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	return cloneBytes(m.data), true, nil
}

func (m *MemorySlot) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = cloneBytes(data)
	m.set = true
	return nil
}

func (m *MemorySlot) Close() error { return nil }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
