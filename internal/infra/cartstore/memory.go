package cartstore

import (
	"context"
	"sync"

	"pos/internal/domain/checkout"
	repo "pos/internal/repository"
)

// メモリ実装。単一プロセス向けのデフォルト。テストでもこれを使う。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]repo.CartSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]repo.CartSession)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (repo.CartSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return repo.CartSession{Phase: checkout.StateIdle}, nil
	}
	//コピーを返す（呼び出し側の変更を内部に漏らさない）
	out := repo.CartSession{Phase: sess.Phase}
	out.Lines = append(out.Lines, sess.Lines...)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, userID int64, sess repo.CartSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := repo.CartSession{Phase: sess.Phase}
	stored.Lines = append(stored.Lines, sess.Lines...)
	s.sessions[userID] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
