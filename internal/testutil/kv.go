package testutil

import (
	"errors"
	"sync"

	"seals-go/internal/seals"
)

// ErrStorageFull is returned by FaultyKV writes.
var ErrStorageFull = errors.New("storage quota exceeded")

// MemoryKV is a map-backed seals.KeyValueStore.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

var _ seals.KeyValueStore = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Puts returns how many writes the store has accepted.
func (m *MemoryKV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// FaultyKV fails every write and returns Value from every read.
type FaultyKV struct {
	Value []byte
}

var _ seals.KeyValueStore = (*FaultyKV)(nil)

func (f *FaultyKV) Get(string) ([]byte, error) {
	return f.Value, nil
}

func (f *FaultyKV) Put(string, []byte) error {
	return ErrStorageFull
}

func (f *FaultyKV) Delete(string) error {
	return ErrStorageFull
}
