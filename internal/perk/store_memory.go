package perk

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

type MemStore struct {
	mu    sync.RWMutex
	m     map[int64]Perk
	alloc allocator
	ready atomic.Bool
}

func NewMemStore(strategy IDStrategy) *MemStore {
	return &MemStore{
		m:     map[int64]Perk{},
		alloc: newAllocator(strategy),
	}
}

func (s *MemStore) Ping(ctx context.Context) error {
	if !s.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (s *MemStore) MarkReady() { s.ready.Store(true) }

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *MemStore) Load(ctx context.Context, perks []Perk) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res LoadResult
	for i, p := range perks {
		if p.ID == 0 {
			res.Skipped = append(res.Skipped, SkippedRecord{Index: i, Name: p.Name})
			continue
		}
		s.m[p.ID] = p
		res.Loaded++
	}
	return res, nil
}

func (s *MemStore) List(ctx context.Context) ([]Perk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Perk, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Perk, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Create(ctx context.Context, p Perk) (Perk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.alloc.next(s.m)
	}
	s.m[p.ID] = p
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, p Perk) (Perk, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.m[id]
	if !ok {
		return Perk{}, false, nil
	}

	cur.Name = p.Name
	cur.StandalonePrice = p.StandalonePrice
	cur.VerizonPerkPrice = p.VerizonPerkPrice
	s.m[id] = cur
	return cur, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.m[id]
	delete(s.m, id)
	return ok, nil
}

func (s *MemStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.m[id]
	return ok, nil
}
