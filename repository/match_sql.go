package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"kitten-game/entities"
)

const matchTable = "kitten_matches"

// dialect 三种数据库之间只有建表语句、占位符和唯一约束错误的识别不同
type dialect struct {
	driver   string
	schema   []string
	dollar   bool
	isUnique func(error) bool
}

var dialects = map[string]dialect{
	"mysql": {
		driver: "mysql",
		schema: []string{`
CREATE TABLE IF NOT EXISTS kitten_matches (
    id VARCHAR(32) NOT NULL PRIMARY KEY,
    code VARCHAR(16) NOT NULL UNIQUE,
    revision BIGINT NOT NULL,
    state LONGTEXT NOT NULL,
    created_at_ms BIGINT NOT NULL,
    updated_at_ms BIGINT NOT NULL,
    INDEX idx_kitten_matches_updated (updated_at_ms)
)`},
		isUnique: func(err error) bool {
			var myErr *mysql.MySQLError
			return errors.As(err, &myErr) && myErr.Number == 1062
		},
	},
	"postgres": {
		driver: "postgres",
		schema: []string{`
CREATE TABLE IF NOT EXISTS kitten_matches (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    revision BIGINT NOT NULL,
    state JSONB NOT NULL,
    created_at_ms BIGINT NOT NULL,
    updated_at_ms BIGINT NOT NULL
)`, `CREATE INDEX IF NOT EXISTS idx_kitten_matches_updated ON kitten_matches (updated_at_ms)`},
		dollar: true,
		isUnique: func(err error) bool {
			var pqErr *pq.Error
			return errors.As(err, &pqErr) && pqErr.Code == "23505"
		},
	},
	"sqlite": {
		driver: "sqlite",
		schema: []string{`
CREATE TABLE IF NOT EXISTS kitten_matches (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    revision INTEGER NOT NULL,
    state TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`, `CREATE INDEX IF NOT EXISTS idx_kitten_matches_updated ON kitten_matches (updated_at_ms)`},
		isUnique: func(err error) bool {
			return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
		},
	},
}

// SQLMatchStore 关系库实现，整局状态存成一列 JSON，revision 单独一列用于条件更新
type SQLMatchStore struct {
	db      *sql.DB
	dialect dialect
	timeout time.Duration
}

var _ MatchStore = (*SQLMatchStore)(nil)

// OpenSQLMatchStore 按驱动名（mysql、postgres、sqlite）打开数据库并建表
func OpenSQLMatchStore(ctx context.Context, driver, dsn string) (*SQLMatchStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty %s dsn", driver)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	store := &SQLMatchStore{db: db, dialect: d, timeout: 5 * time.Second}
	if err := store.init(ctx, driver, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLMatchStore) init(ctx context.Context, driver, dsn string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if driver == "sqlite" {
		if _, err := s.db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
			return err
		}
		if dsn != ":memory:" {
			if _, err := s.db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
				return err
			}
		}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("初始化对局表失败: %w", err)
		}
	}
	return nil
}

// bind 把 ? 占位符换成 postgres 需要的 $n
func (s *SQLMatchStore) bind(query string) string {
	if !s.dialect.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLMatchStore) loadWhere(ctx context.Context, column, value string) (*entities.MatchState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var raw string
	err := s.db.QueryRowContext(ctx,
		s.bind(`SELECT state FROM `+matchTable+` WHERE `+column+` = ?`), value).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取对局失败: %w", err)
	}
	return decodeMatch([]byte(raw))
}

func (s *SQLMatchStore) Load(ctx context.Context, matchID string) (*entities.MatchState, error) {
	return s.loadWhere(ctx, "id", matchID)
}

func (s *SQLMatchStore) LoadByCode(ctx context.Context, code string) (*entities.MatchState, error) {
	return s.loadWhere(ctx, "code", strings.ToUpper(code))
}

func (s *SQLMatchStore) Create(ctx context.Context, state *entities.MatchState) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, s.bind(`
INSERT INTO `+matchTable+` (id, code, revision, state, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)`),
		state.ID, strings.ToUpper(state.Code), state.Revision, string(data), state.CreatedAt, state.UpdatedAt)
	if err != nil {
		if s.dialect.isUnique(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("写入对局失败: %w", err)
	}
	return nil
}

// Update 带 revision 条件的 UPDATE，影响行数为 0 时再区分不存在和并发冲突
func (s *SQLMatchStore) Update(ctx context.Context, state *entities.MatchState, baseRevision int64) error {
	data, err := encodeMatch(state)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.db.ExecContext(ctx, s.bind(`
UPDATE `+matchTable+`
SET state = ?, revision = ?, updated_at_ms = ?
WHERE id = ? AND revision = ?`),
		string(data), state.Revision, state.UpdatedAt, state.ID, baseRevision)
	if err != nil {
		return fmt.Errorf("更新对局[%s]失败: %w", state.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, s.bind(`SELECT 1 FROM `+matchTable+` WHERE id = ?`), state.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStaleRevision
}

func (s *SQLMatchStore) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.db.ExecContext(ctx, s.bind(`DELETE FROM `+matchTable+` WHERE updated_at_ms < ?`), before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("清理过期对局失败: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLMatchStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
