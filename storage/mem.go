package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Comcast/anima/core"
)

// MemStore is a Store that keeps serialized Timelines in a map.
type MemStore struct {
	sync.RWMutex

	timelines map[string][]byte
}

// NewMemStore makes an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		timelines: make(map[string][]byte, 8),
	}
}

func (s *MemStore) Open(ctx context.Context) error {
	return nil
}

func (s *MemStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.RLock()
	acc := make([]string, 0, len(s.timelines))
	for name := range s.timelines {
		acc = append(acc, name)
	}
	s.RUnlock()
	sort.Strings(acc)
	return acc, nil
}

func (s *MemStore) Get(ctx context.Context, name string) (*core.Timeline, error) {
	s.RLock()
	bs, have := s.timelines[name]
	s.RUnlock()
	if !have {
		return nil, NotFound
	}
	return Decode(bs)
}

func (s *MemStore) Put(ctx context.Context, tl *core.Timeline) error {
	bs, err := Encode(tl)
	if err != nil {
		return err
	}
	s.Lock()
	s.timelines[tl.Label()] = bs
	s.Unlock()
	return nil
}

func (s *MemStore) Rem(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if _, have := s.timelines[name]; !have {
		return NotFound
	}
	delete(s.timelines, name)
	return nil
}
