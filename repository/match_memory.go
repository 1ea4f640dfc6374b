package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"kitten-game/entities"
)

const DefaultMemoryStoreSize = 1024

type memoryEntry struct {
	code      string
	revision  int64
	updatedAt int64
	data      []byte
}

// MemoryMatchStore 单进程使用的有界存储，超出容量时淘汰最久未访问的对局
type MemoryMatchStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, memoryEntry]
	codes map[string]string
}

var _ MatchStore = (*MemoryMatchStore)(nil)

func NewMemoryMatchStore(size int) (*MemoryMatchStore, error) {
	if size <= 0 {
		size = DefaultMemoryStoreSize
	}
	s := &MemoryMatchStore{codes: make(map[string]string)}
	// 淘汰回调在 Add 内部触发，此时调用方已经持有 s.mu
	cache, err := lru.NewWithEvict[string, memoryEntry](size, func(_ string, e memoryEntry) {
		delete(s.codes, e.code)
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

func (s *MemoryMatchStore) Load(_ context.Context, matchID string) (*entities.MatchState, error) {
	s.mu.Lock()
	e, ok := s.cache.Get(matchID)
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeMatch(e.data)
}

func (s *MemoryMatchStore) LoadByCode(ctx context.Context, code string) (*entities.MatchState, error) {
	s.mu.Lock()
	matchID, ok := s.codes[strings.ToUpper(code)]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.Load(ctx, matchID)
}

func (s *MemoryMatchStore) Create(_ context.Context, state *entities.MatchState) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}
	code := strings.ToUpper(state.Code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codes[code]; taken || s.cache.Contains(state.ID) {
		return ErrDuplicate
	}
	s.cache.Add(state.ID, memoryEntry{code: code, revision: state.Revision, updatedAt: state.UpdatedAt, data: data})
	s.codes[code] = state.ID
	return nil
}

func (s *MemoryMatchStore) Update(_ context.Context, state *entities.MatchState, baseRevision int64) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache.Peek(state.ID)
	if !ok {
		return ErrNotFound
	}
	if e.revision != baseRevision {
		return ErrStaleRevision
	}
	e.revision = state.Revision
	e.updatedAt = state.UpdatedAt
	e.data = data
	s.cache.Add(state.ID, e)
	return nil
}

func (s *MemoryMatchStore) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	cutoff := before.UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for _, id := range s.cache.Keys() {
		if e, ok := s.cache.Peek(id); ok && e.updatedAt < cutoff {
			s.cache.Remove(id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryMatchStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
	return nil
}
