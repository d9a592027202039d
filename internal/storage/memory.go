package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type memoryDoc struct {
	meta      Meta
	revisions [][]byte
}

// Memory is a DocumentStore held in process memory.
type Memory struct {
	mu   sync.Mutex
	docs map[string]*memoryDoc
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*memoryDoc), now: time.Now}
}

func (m *Memory) Create(_ context.Context, id, ownerID, name string, data []byte) (*Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	d := &memoryDoc{
		meta: Meta{
			ID:        id,
			Name:      name,
			OwnerID:   ownerID,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		revisions: [][]byte{slices.Clone(data)},
	}
	m.docs[id] = d
	meta := d.meta
	return &meta, nil
}

func (m *Memory) Get(_ context.Context, id string) (*Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	meta := d.meta
	return &meta, nil
}

func (m *Memory) List(_ context.Context, ownerID string) ([]Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Meta
	for _, d := range m.docs {
		if d.meta.OwnerID == ownerID {
			out = append(out, d.meta)
		}
	}
	slices.SortFunc(out, func(a, b Meta) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *Memory) Load(_ context.Context, id string) ([]byte, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return slices.Clone(d.revisions[len(d.revisions)-1]), d.meta.Version, nil
}

func (m *Memory) Save(_ context.Context, id string, data []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return 0, ErrNotFound
	}
	d.revisions = append(d.revisions, slices.Clone(data))
	d.meta.Version = len(d.revisions)
	d.meta.UpdatedAt = m.now()
	return d.meta.Version, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}
