package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos/internal/domain/checkout"
	repo "pos/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Redis実装。複数APIプロセスでレジセッションを共有したいとき用。
// セッションはJSONで保存し、放置されたカートはTTLで消える。
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("pos:cart:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (repo.CartSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return repo.CartSession{Phase: checkout.StateIdle}, nil
	}
	if err != nil {
		return repo.CartSession{}, err
	}

	var sess repo.CartSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return repo.CartSession{}, err
	}
	if sess.Phase == "" {
		sess.Phase = checkout.StateIdle
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, userID int64, sess repo.CartSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(userID), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}
