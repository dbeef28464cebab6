package storage

import (
	"context"
	"encoding/json"
	"sync"

	"board/diagram"
)

// MemoryStore is an in-process Store for tests and throwaway sessions.
// Entities are stored as deep copies so callers can't mutate stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*diagram.Diagram
	folders  map[string]*diagram.Folder
	settings map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diagrams: make(map[string]*diagram.Diagram),
		folders:  make(map[string]*diagram.Folder),
		settings: make(map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Diagram(ctx context.Context, id string) (*diagram.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

func (s *MemoryStore) Diagrams(ctx context.Context) ([]*diagram.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*diagram.Diagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (s *MemoryStore) SaveDiagram(ctx context.Context, d *diagram.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.ID] = d.Clone()
	return nil
}

func (s *MemoryStore) DeleteDiagram(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diagrams, id)
	return nil
}

func (s *MemoryStore) Folder(ctx context.Context, id string) (*diagram.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *f
	return &c, nil
}

func (s *MemoryStore) Folders(ctx context.Context) ([]*diagram.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*diagram.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		c := *f
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) SaveFolder(ctx context.Context, f *diagram.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *f
	s.folders[f.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folders, id)
	return nil
}

func (s *MemoryStore) Setting(ctx context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.settings[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) SetSetting(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = data
	return nil
}
