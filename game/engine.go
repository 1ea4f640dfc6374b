package game

import (
	"time"

	"kitten-game/entities"
)

// Engine 对局状态机。Apply 不修改传入的状态，成功时返回一份全新的状态。
// 同一个 Engine 可以被多个请求并发使用，前提是 Randomizer 本身并发安全。
type Engine struct {
	rng Randomizer
	now func() time.Time
}

func NewEngine(rng Randomizer) *Engine {
	if rng == nil {
		rng = DefaultRand
	}
	return &Engine{rng: rng, now: time.Now}
}

// Rand 暴露引擎使用的随机源，机器人和服务层复用同一个
func (e *Engine) Rand() Randomizer {
	return e.rng
}

// transition 一次 Apply 过程中的工作区，所有修改都落在 state（深拷贝）上
type transition struct {
	rng   Randomizer
	state *entities.MatchState
	now   int64
}

// Apply 校验并执行一个动作。任何校验失败都返回 *RuleViolation，且不产生副作用。
func (e *Engine) Apply(state *entities.MatchState, action Action) (*entities.MatchState, error) {
	if state == nil || action == nil {
		return nil, ErrMalformedAction
	}
	if state.Status != entities.MatchStatusPlaying {
		return nil, ErrNotPlaying
	}

	next := state.Clone()
	actor := next.Player(action.Actor())
	if actor == nil {
		return nil, ErrUnknownPlayer
	}
	if !actor.IsAlive {
		return nil, ErrPlayerEliminated
	}
	if err := checkPending(next.PendingAction, actor.ID, action.Kind()); err != nil {
		return nil, err
	}

	t := &transition{rng: e.rng, state: next, now: e.now().UnixMilli()}
	var err error
	switch a := action.(type) {
	case PlayCard:
		err = t.playCard(actor, a)
	case PlayPair:
		err = t.playSet(actor, a.CardIDs[:])
	case PlayTriple:
		err = t.playSet(actor, a.CardIDs[:])
	case Nope:
		err = t.playNopeByID(actor, a.CardID)
	case Draw:
		err = t.draw(actor)
	case PlaceDefused:
		err = t.placeDefused(actor, a.Position)
	case GiveFavor:
		err = t.giveFavor(actor, a.CardID)
	case AckFuture:
		t.ackFuture(actor)
	case StealRandom:
		err = t.stealRandom(actor, a.TargetPlayerID)
	case StealNamed:
		err = t.stealNamed(actor, a.TargetPlayerID, a.CardType)
	default:
		err = ErrMalformedAction
	}
	if err != nil {
		return nil, err
	}

	next.Revision++
	next.UpdatedAt = t.now
	return next, nil
}

// checkPending 存在 pending 时只有被指定的玩家可以应答，且只能用对应的应答或 nope；
// 没有 pending 时不接受任何应答类动作。
func checkPending(pending *entities.PendingAction, actorID string, kind ActionKind) error {
	if pending == nil {
		if isResponse(kind) {
			return violation(CodePendingMismatch, "there is nothing to respond to")
		}
		return nil
	}
	if pending.PlayerID != actorID {
		return violation(CodePendingMismatch, "waiting for another player to respond to %s", pending.Kind)
	}
	if kind == ResponseKind(pending.Kind) {
		return nil
	}
	// 拆弹窗口不能被 nope，否则暂存的炸弹会丢失
	if (kind == ActionNope || kind == ActionPlayCard) && pending.Kind != PendingDefusePlace {
		return nil
	}
	return violation(CodePendingMismatch, "expected %s, got %s", ResponseKind(pending.Kind), kind)
}
