package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kitten-game/ai"
	"kitten-game/dto"
	"kitten-game/entities"
	"kitten-game/game"
	"kitten-game/repository"
	"kitten-game/stats"
	"kitten-game/utils"
)

const (
	DefaultBotCount  = 3
	maxUpdateRetries = 3
	maxCodeRetries   = 5
)

// ErrInvalidRequest 请求参数本身有问题（名字为空、模式未知等）
var ErrInvalidRequest = errors.New("invalid request")

var errNothingToResume = errors.New("no bot action to resume")

// StatsStore 统计的写入与读取
type StatsStore interface {
	stats.Sink
	stats.Reader
}

type MatchService struct {
	store  repository.MatchStore
	engine *game.Engine
	bots   *ai.Orchestrator
	stats  StatsStore
	tokens *utils.TokenIssuer
	log    *zap.Logger
}

func NewMatchService(store repository.MatchStore, engine *game.Engine, bots *ai.Orchestrator,
	statsStore StatsStore, tokens *utils.TokenIssuer, logger *zap.Logger) *MatchService {
	if statsStore == nil {
		statsStore = stats.NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{store: store, engine: engine, bots: bots, stats: statsStore, tokens: tokens, log: logger}
}

func (s *MatchService) seat(state *entities.MatchState, playerID string) (*dto.SeatResponse, error) {
	token, err := s.tokens.Issue(state.ID, playerID)
	if err != nil {
		return nil, fmt.Errorf("生成座位 token 失败: %w", err)
	}
	return &dto.SeatResponse{
		MatchID:  state.ID,
		PlayerID: playerID,
		Code:     state.Code,
		Token:    token,
		State:    game.Project(state, playerID),
	}, nil
}

// CreateMatch 单人模式带机器人并立即开局，多人模式停在 waiting 等人加入
func (s *MatchService) CreateMatch(ctx context.Context, req dto.CreateMatchRequest) (*dto.SeatResponse, error) {
	name := game.TruncateName(req.PlayerName)
	if name == "" {
		return nil, fmt.Errorf("%w: playerName is required", ErrInvalidRequest)
	}
	multiplayer := false
	switch req.Mode {
	case "", dto.MatchModeSingle:
	case dto.MatchModeMulti, "multiplayer":
		multiplayer = true
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}

	bots := 0
	if !multiplayer {
		bots = req.BotCount
		if bots == 0 {
			bots = DefaultBotCount
		}
		if bots < 1 {
			bots = 1
		}
		if bots > game.MaxPlayers-1 {
			bots = game.MaxPlayers - 1
		}
	}

	host := game.NewPlayer(name, req.Avatar)
	var state *entities.MatchState
	for i := 0; ; i++ {
		state = s.engine.CreateMatch(host, multiplayer, bots)
		if !multiplayer {
			started, err := s.engine.StartMatch(state)
			if err != nil {
				return nil, err
			}
			state = s.bots.Advance(started)
		}
		err := s.store.Create(ctx, state)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || i+1 >= maxCodeRetries {
			return nil, err
		}
	}

	s.log.Info("match created",
		zap.String("matchId", state.ID),
		zap.String("code", state.Code),
		zap.Bool("multiplayer", multiplayer),
		zap.Int("bots", bots))
	return s.seat(state, host.ID)
}

func (s *MatchService) JoinMatch(ctx context.Context, req dto.JoinMatchRequest) (*dto.SeatResponse, error) {
	name := game.TruncateName(req.PlayerName)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: code and playerName are required", ErrInvalidRequest)
	}
	found, err := s.store.LoadByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	player := game.NewPlayer(name, req.Avatar)
	state, err := s.mutate(ctx, found.ID, func(cur *entities.MatchState) (*entities.MatchState, error) {
		return s.engine.JoinMatch(cur, player)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("player joined", zap.String("matchId", state.ID), zap.String("playerId", player.ID))
	return s.seat(state, player.ID)
}

// StartMatch 只有房主可以开局
func (s *MatchService) StartMatch(ctx context.Context, matchID, playerID string) (*entities.MatchState, error) {
	state, err := s.mutate(ctx, matchID, func(cur *entities.MatchState) (*entities.MatchState, error) {
		if cur.HostID != playerID {
			return nil, game.ErrNotHost
		}
		started, err := s.engine.StartMatch(cur)
		if err != nil {
			return nil, err
		}
		return s.bots.Advance(started), nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("match started", zap.String("matchId", matchID), zap.Int("players", len(state.Players)))
	return game.Project(state, playerID), nil
}

// SubmitAction 执行玩家动作，随后让机器人行动到轮回真人为止
func (s *MatchService) SubmitAction(ctx context.Context, matchID, playerID string, req dto.ActionRequest) (*entities.MatchState, error) {
	var deltas map[string]stats.Delta
	state, err := s.mutate(ctx, matchID, func(cur *entities.MatchState) (*entities.MatchState, error) {
		action, err := DecodeAction(playerID, req, cur, s.engine.Rand())
		if err != nil {
			return nil, err
		}
		applied, err := s.engine.Apply(cur, action)
		if err != nil {
			return nil, err
		}
		final := s.bots.Advance(applied)
		deltas = stats.Derive(cur, applied, final, playerID, action.Kind())
		return final, nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, deltas)
	if state.Status == entities.MatchStatusFinished {
		s.log.Info("match finished", zap.String("matchId", matchID), zap.String("winnerId", state.WinnerID))
	}
	return game.Project(state, playerID), nil
}

func (s *MatchService) record(ctx context.Context, deltas map[string]stats.Delta) {
	for playerID, d := range deltas {
		if err := s.stats.Record(ctx, playerID, d); err != nil {
			s.log.Warn("record stats failed", zap.String("playerId", playerID), zap.Error(err))
		}
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID, viewerID string) (*entities.MatchState, error) {
	state, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return game.Project(state, viewerID), nil
}

// load 读取对局；如果下一步该机器人行动（例如上次推进撞到步数上限），先替它们补完
func (s *MatchService) load(ctx context.Context, matchID string) (*entities.MatchState, error) {
	state, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !ai.BotOwesAction(state) {
		return state, nil
	}

	var deltas map[string]stats.Delta
	resumed, err := s.mutate(ctx, matchID, func(cur *entities.MatchState) (*entities.MatchState, error) {
		if !ai.BotOwesAction(cur) {
			return nil, errNothingToResume
		}
		final := s.bots.Advance(cur)
		if final.Revision == cur.Revision {
			return nil, errNothingToResume
		}
		deltas = stats.Derive(cur, cur, final, "", "")
		return final, nil
	})
	if errors.Is(err, errNothingToResume) {
		return s.store.Load(ctx, matchID)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, deltas)
	s.log.Info("bots resumed",
		zap.String("matchId", matchID),
		zap.Int64("revision", resumed.Revision),
		zap.String("status", string(resumed.Status)))
	return resumed, nil
}

// Poll revision 没有超过 lastRevision 时不返回状态
func (s *MatchService) Poll(ctx context.Context, matchID, viewerID string, lastRevision int64) (*dto.PollResponse, error) {
	state, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if state.Revision <= lastRevision {
		return &dto.PollResponse{Changed: false, Revision: state.Revision}, nil
	}
	return &dto.PollResponse{Changed: true, Revision: state.Revision, State: game.Project(state, viewerID)}, nil
}

func (s *MatchService) PlayerStats(ctx context.Context, playerID string) (stats.Profile, error) {
	st, err := s.stats.Get(ctx, playerID)
	if err != nil {
		return stats.Profile{}, err
	}
	return stats.BuildProfile(st), nil
}

// mutate 读取、修改、带 revision 条件写回；遇到并发冲突重新读取再试
func (s *MatchService) mutate(ctx context.Context, matchID string,
	fn func(cur *entities.MatchState) (*entities.MatchState, error)) (*entities.MatchState, error) {
	for i := 0; ; i++ {
		cur, err := s.store.Load(ctx, matchID)
		if err != nil {
			return nil, err
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		err = s.store.Update(ctx, next, cur.Revision)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, repository.ErrStaleRevision) || i+1 >= maxUpdateRetries {
			return nil, err
		}
		s.log.Debug("stale revision, retrying", zap.String("matchId", matchID), zap.Int("attempt", i+1))
	}
}

// SweepStale 删除超过 ttl 没有更新的对局
func (s *MatchService) SweepStale(ctx context.Context, ttl time.Duration) (int64, error) {
	removed, err := s.store.DeleteStale(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("stale matches removed", zap.Int64("count", removed))
	}
	return removed, nil
}

// RunJanitor 按 interval 周期清理，ctx 取消后返回
func (s *MatchService) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepStale(ctx, ttl); err != nil {
				s.log.Warn("sweep stale matches failed", zap.Error(err))
			}
		}
	}
}
