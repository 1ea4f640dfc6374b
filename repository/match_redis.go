package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"kitten-game/entities"
)

// RedisMatchStore 每局一个 key 存 JSON，另一个 key 做邀请码索引，过期交给 TTL
type RedisMatchStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ MatchStore = (*RedisMatchStore)(nil)

func NewRedisMatchStore(rdb *redis.Client, ttl time.Duration) *RedisMatchStore {
	return &RedisMatchStore{rdb: rdb, ttl: ttl}
}

func matchKey(matchID string) string {
	return fmt.Sprintf("match:%s:state", matchID)
}

func codeKey(code string) string {
	return fmt.Sprintf("match:code:%s", strings.ToUpper(code))
}

func (s *RedisMatchStore) Load(ctx context.Context, matchID string) (*entities.MatchState, error) {
	data, err := s.rdb.Get(ctx, matchKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取对局[%s]失败: %w", matchID, err)
	}
	return decodeMatch(data)
}

func (s *RedisMatchStore) LoadByCode(ctx context.Context, code string) (*entities.MatchState, error) {
	matchID, err := s.rdb.Get(ctx, codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取邀请码[%s]失败: %w", code, err)
	}
	return s.Load(ctx, matchID)
}

func (s *RedisMatchStore) Create(ctx context.Context, state *entities.MatchState) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, codeKey(state.Code), state.ID, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("写入邀请码失败: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	ok, err = s.rdb.SetNX(ctx, matchKey(state.ID), data, s.ttl).Result()
	if err != nil || !ok {
		s.rdb.Del(ctx, codeKey(state.Code))
		if err != nil {
			return fmt.Errorf("写入对局失败: %w", err)
		}
		return ErrDuplicate
	}
	return nil
}

// Update 用 WATCH 做乐观锁：读到的 revision 不对或者事务被打断都视为并发冲突
func (s *RedisMatchStore) Update(ctx context.Context, state *entities.MatchState, baseRevision int64) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}
	key := matchKey(state.ID)

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var stored struct {
			Revision int64 `json:"revision"`
		}
		if err := json.Unmarshal(current, &stored); err != nil {
			return fmt.Errorf("解析对局 revision 失败: %w", err)
		}
		if stored.Revision != baseRevision {
			return ErrStaleRevision
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			if s.ttl > 0 {
				pipe.Expire(ctx, codeKey(state.Code), s.ttl)
			}
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrStaleRevision
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStaleRevision):
		return err
	case err != nil:
		return fmt.Errorf("更新对局[%s]失败: %w", state.ID, err)
	}
	return nil
}

// DeleteStale Redis 中的对局依靠 TTL 自动过期，这里不需要扫描
func (s *RedisMatchStore) DeleteStale(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Close 连接由调用方创建，也由调用方关闭
func (s *RedisMatchStore) Close() error {
	return nil
}
