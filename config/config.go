package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type StoreDriver string

const (
	StoreRedis    StoreDriver = "redis"
	StoreMySQL    StoreDriver = "mysql"
	StorePostgres StoreDriver = "postgres"
	StoreSQLite   StoreDriver = "sqlite"
	StoreMemory   StoreDriver = "memory"
)

type Config struct {
	HTTPAddr        string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	StoreDriver     StoreDriver
	StoreDSN        string
	MatchTTL        time.Duration
	CleanupInterval time.Duration
	JWTSecret       string
	BotMaxSteps     int
	LogLevel        string
	LogDev          bool
	MemoryStoreSize int
}

// Load 从环境变量读取配置，未设置的项使用默认值
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPAddr:      get("HTTP_ADDR", ":8000"),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD"),
		StoreDriver:   StoreDriver(strings.ToLower(get("STORE_DRIVER", string(StoreRedis)))),
		StoreDSN:      get("STORE_DSN", ""),
		JWTSecret:     get("JWT_SECRET", "kitten-secret"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB 格式错误: %w", err)
	}
	if cfg.BotMaxSteps, err = strconv.Atoi(get("BOT_MAX_STEPS", "50")); err != nil {
		return nil, fmt.Errorf("BOT_MAX_STEPS 格式错误: %w", err)
	}
	if cfg.MemoryStoreSize, err = strconv.Atoi(get("MEMORY_STORE_SIZE", "1024")); err != nil {
		return nil, fmt.Errorf("MEMORY_STORE_SIZE 格式错误: %w", err)
	}
	if cfg.MatchTTL, err = time.ParseDuration(get("MATCH_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("MATCH_TTL 格式错误: %w", err)
	}
	if cfg.CleanupInterval, err = time.ParseDuration(get("CLEANUP_INTERVAL", "1h")); err != nil {
		return nil, fmt.Errorf("CLEANUP_INTERVAL 格式错误: %w", err)
	}
	if cfg.LogDev, err = strconv.ParseBool(get("LOG_DEV", "false")); err != nil {
		return nil, fmt.Errorf("LOG_DEV 格式错误: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreRedis:
		if c.RedisAddr == "" {
			c.RedisAddr = "localhost:6379"
		}
	case StoreMemory:
	case StoreMySQL, StorePostgres, StoreSQLite:
		if c.StoreDSN == "" {
			return fmt.Errorf("STORE_DRIVER=%s 需要设置 STORE_DSN", c.StoreDriver)
		}
	default:
		return fmt.Errorf("不支持的 STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.MatchTTL <= 0 {
		return fmt.Errorf("MATCH_TTL 必须大于 0")
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL 必须大于 0")
	}
	if c.BotMaxSteps <= 0 {
		return fmt.Errorf("BOT_MAX_STEPS 必须大于 0")
	}
	return nil
}

// UsesRedis 对局存在 Redis，或者单独配置了 REDIS_ADDR 用来存玩家统计
func (c *Config) UsesRedis() bool {
	return c.RedisAddr != ""
}
