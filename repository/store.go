package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kitten-game/entities"
)

var (
	// ErrNotFound 对局 id 或邀请码不存在
	ErrNotFound = errors.New("match not found")
	// ErrStaleRevision 写入时存储里的 revision 已经不是调用方读到的那个
	ErrStaleRevision = errors.New("match was modified concurrently")
	// ErrDuplicate 新建对局时 id 或邀请码冲突
	ErrDuplicate = errors.New("match id or code already exists")
)

// MatchStore 对局持久化，整个 MatchState 作为一个 JSON blob，按 id 存储并可按邀请码查找
type MatchStore interface {
	Load(ctx context.Context, matchID string) (*entities.MatchState, error)
	LoadByCode(ctx context.Context, code string) (*entities.MatchState, error)
	Create(ctx context.Context, state *entities.MatchState) error
	// Update 仅当存储中的 revision 等于 baseRevision 时写入
	Update(ctx context.Context, state *entities.MatchState, baseRevision int64) error
	// DeleteStale 删除 updatedAt 早于 before 的对局，返回删除数量
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

func encodeMatch(state *entities.MatchState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("序列化对局失败: %w", err)
	}
	return data, nil
}

func decodeMatch(data []byte) (*entities.MatchState, error) {
	var state entities.MatchState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("解析对局数据失败: %w", err)
	}
	return &state, nil
}
