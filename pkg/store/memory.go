package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps presets in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]*Preset
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presets: make(map[string]*Preset), now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[name]
	if !ok {
		return nil, notFound(name)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(p, s.presets[p.Name], s.now())
	cp := *p
	s.presets[p.Name] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.presets[name]; !ok {
		return notFound(name)
	}
	delete(s.presets, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Preset, 0, len(s.presets))
	for _, p := range s.presets {
		cp := *p
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *Preset) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
