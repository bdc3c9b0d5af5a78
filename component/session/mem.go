package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type memSession struct {
	scores      map[string]int64
	updatedAtTs int64
}

// MemStore keeps scores for the lifetime of the process.
type MemStore struct {
	closed atomic.Bool
	sync.Mutex
	sessions map[string]*memSession
}

var _ Store = &MemStore{}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*memSession)}
}

func (s *MemStore) Put(_ context.Context, sessionID, key string, score int64) error {
	if s.closed.Load() {
		return ErrStoreIsClosed
	}
	s.Lock()
	defer s.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memSession{scores: make(map[string]int64)}
		s.sessions[sessionID] = sess
	}
	sess.scores[key] = score
	sess.updatedAtTs = time.Now().Unix()
	return nil
}

func (s *MemStore) Scores(_ context.Context, sessionID string) (map[string]int64, error) {
	if s.closed.Load() {
		return nil, ErrStoreIsClosed
	}
	s.Lock()
	defer s.Unlock()
	res := make(map[string]int64)
	if sess, ok := s.sessions[sessionID]; ok {
		for k, v := range sess.scores {
			res[k] = v
		}
	}
	return res, nil
}

func (s *MemStore) Sessions(_ context.Context) ([]Info, error) {
	if s.closed.Load() {
		return nil, ErrStoreIsClosed
	}
	s.Lock()
	defer s.Unlock()
	res := make([]Info, 0, len(s.sessions))
	for id, sess := range s.sessions {
		res = append(res, Info{ID: id, UpdatedAtTs: sess.updatedAtTs})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *MemStore) Reset(_ context.Context, sessionID string) error {
	if s.closed.Load() {
		return ErrStoreIsClosed
	}
	s.Lock()
	defer s.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemStore) Close() error {
	s.closed.Store(true)
	return nil
}
