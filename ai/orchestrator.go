package ai

import (
	"errors"

	"go.uber.org/zap"

	"kitten-game/entities"
	"kitten-game/game"
)

// DefaultMaxSteps 一次 Advance 最多替机器人执行的动作数
const DefaultMaxSteps = 50

// MaxUnattendedSteps 没有存活真人时不会再有请求来推动对局，放宽到足以打完整局
const MaxUnattendedSteps = 5000

var errNoDecision = errors.New("bot has no action to take")

// Orchestrator 连续驱动机器人，直到轮到真人或对局结束
type Orchestrator struct {
	engine   *game.Engine
	policy   Decider
	maxSteps int
	log      *zap.Logger
}

func NewOrchestrator(engine *game.Engine, policy Decider, maxSteps int, logger *zap.Logger) *Orchestrator {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{engine: engine, policy: policy, maxSteps: maxSteps, log: logger}
}

// Advance 返回机器人行动后的最后一个合法状态。
// 达到步数上限或某一步没有推进 revision 时提前停止。
// 真人全部出局后上限换成 MaxUnattendedSteps，对局会一直打到结束。
func (o *Orchestrator) Advance(state *entities.MatchState) *entities.MatchState {
	cur := state
	for steps := 0; ; steps++ {
		botID, ok := nextBot(cur)
		if !ok {
			return cur
		}
		limit := o.maxSteps
		if !humanAlive(cur) && limit < MaxUnattendedSteps {
			limit = MaxUnattendedSteps
		}
		if steps >= limit {
			o.log.Error("bot step limit reached",
				zap.String("matchId", cur.ID),
				zap.Int("steps", steps),
				zap.Int64("revision", cur.Revision))
			return cur
		}

		next, err := o.step(cur, botID)
		if err != nil {
			o.log.Warn("bot step rejected",
				zap.String("matchId", cur.ID),
				zap.String("botId", botID),
				zap.Error(err))
			return cur
		}
		if next.Revision == cur.Revision {
			o.log.Warn("bot step made no progress", zap.String("matchId", cur.ID), zap.String("botId", botID))
			return cur
		}
		cur = next
	}
}

func (o *Orchestrator) step(state *entities.MatchState, botID string) (*entities.MatchState, error) {
	action, ok := o.policy.Decide(state, botID)
	if !ok {
		return nil, errNoDecision
	}
	next, err := o.engine.Apply(state, action)
	if err == nil {
		return next, nil
	}
	// 自己回合的出牌被拒时退回到摸牌
	if state.PendingAction == nil && action.Kind() != game.ActionDraw {
		o.log.Debug("bot play rejected, drawing instead",
			zap.String("botId", botID),
			zap.String("action", string(action.Kind())),
			zap.Error(err))
		return o.engine.Apply(state, game.Draw{PlayerID: botID})
	}
	return nil, err
}

// BotOwesAction 对局进行中且下一个动作该由机器人做出
func BotOwesAction(state *entities.MatchState) bool {
	_, ok := nextBot(state)
	return ok
}

func humanAlive(state *entities.MatchState) bool {
	for _, p := range state.Players {
		if !p.IsAI && p.IsAlive {
			return true
		}
	}
	return false
}

// nextBot 当前需要机器人行动时返回它的 id
func nextBot(state *entities.MatchState) (string, bool) {
	if state == nil || state.Status != entities.MatchStatusPlaying {
		return "", false
	}
	if pending := state.PendingAction; pending != nil {
		p := state.Player(pending.PlayerID)
		if p != nil && p.IsAI && p.IsAlive {
			return p.ID, true
		}
		return "", false
	}
	cur := state.CurrentPlayer()
	if cur != nil && cur.IsAI && cur.IsAlive {
		return cur.ID, true
	}
	return "", false
}
