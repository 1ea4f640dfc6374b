package stats

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const maxRecordRetries = 5

// RedisSink 每个玩家一个 hash：player:{id}:stats
type RedisSink struct {
	rdb *redis.Client
	log *zap.Logger
}

var (
	_ Sink   = (*RedisSink)(nil)
	_ Reader = (*RedisSink)(nil)
)

func NewRedisSink(rdb *redis.Client, logger *zap.Logger) *RedisSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{rdb: rdb, log: logger}
}

func statsKey(playerID string) string {
	return fmt.Sprintf("player:%s:stats", playerID)
}

// stringToIntHookFunc Redis hash 里的值都是字符串
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

func decodeStats(raw map[string]string) (Stats, error) {
	var s Stats
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToIntHookFunc(),
		Result:     &s,
	})
	if err != nil {
		return s, err
	}
	if err := decoder.Decode(raw); err != nil {
		return s, fmt.Errorf("玩家统计解析失败: %w", err)
	}
	return s, nil
}

func encodeStats(s Stats) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := mapstructure.Decode(s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RedisSink) Get(ctx context.Context, playerID string) (Stats, error) {
	raw, err := r.rdb.HGetAll(ctx, statsKey(playerID)).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("读取玩家[%s]统计失败: %w", playerID, err)
	}
	return decodeStats(raw)
}

// Record 连胜依赖旧值，所以用 WATCH 读改写而不是单纯的 HINCRBY
func (r *RedisSink) Record(ctx context.Context, playerID string, d Delta) error {
	if d.IsZero() {
		return nil
	}
	key := statsKey(playerID)
	for i := 0; i < maxRecordRetries; i++ {
		var gained int
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.HGetAll(ctx, key).Result()
			if err != nil {
				return err
			}
			s, err := decodeStats(raw)
			if err != nil {
				return err
			}
			gained = s.Apply(d)
			fields, err := encodeStats(s)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, fields)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("写入玩家[%s]统计失败: %w", playerID, err)
		}
		r.log.Debug("stats recorded", zap.String("playerId", playerID), zap.Int("xp", gained))
		return nil
	}
	return fmt.Errorf("写入玩家[%s]统计失败: 重试次数耗尽", playerID)
}
