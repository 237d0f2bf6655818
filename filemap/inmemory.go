package filemap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// InMemory is a Filemap backed by a plain in-process map, the filemap
// implementation the cmd/scrredctl smoke-test harness and most tests
// use.
type InMemory struct {
	mu       sync.RWMutex
	root     string
	byID     map[int][]Entry
	filePath string
}

// NewInMemory returns an empty InMemory filemap rooted at root: file
// names registered via Add are resolved relative to root, and the
// filemap's own on-disk path (Path(id, "")) is root/filemap.db.
func NewInMemory(root string) *InMemory {
	return &InMemory{
		root:     root,
		byID:     make(map[int][]Entry),
		filePath: filepath.Join(root, "filemap.db"),
	}
}

// Add registers a file entry under checkpoint id.
func (m *InMemory) Add(id int, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id] = append(m.byID[id], e)
}

// Files implements Filemap.
func (m *InMemory) Files(id int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.byID[id]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Path implements Filemap.
func (m *InMemory) Path(id int, name string) (string, error) {
	if name == "" {
		return m.filePath, nil
	}
	return filepath.Join(m.root, name), nil
}

// SetCRC implements Filemap.
func (m *InMemory) SetCRC(id int, name string, crc uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.byID[id]
	for i := range entries {
		if entries[i].Name == name {
			entries[i].CRC = crc
			return nil
		}
	}
	return fmt.Errorf("filemap: no entry named %q under checkpoint %d", name, id)
}

// Persist writes the filemap's own backing file to disk at Path(id, "")
// so EncodePipeline's "protect the filemap itself" step (spec.md §4.5
// step 5) has a real file to enroll. Callers that never read the
// filemap back from disk (most tests) can skip it, but anything driving
// Apply end-to-end must call it first.
func (m *InMemory) Persist() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, err := json.Marshal(m.byID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0o644)
}
