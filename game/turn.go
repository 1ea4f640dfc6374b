package game

import (
	"fmt"

	"kitten-game/entities"
)

func (t *transition) logf(playerID, format string, args ...interface{}) {
	t.state.Logs = append(t.state.Logs, entities.LogEntry{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: t.now,
		PlayerID:  playerID,
	})
}

// isCurrent 是否轮到该玩家
func (t *transition) isCurrent(p *entities.Player) bool {
	cur := t.state.CurrentPlayer()
	return cur != nil && cur.ID == p.ID
}

// nextAliveIndex 从 from 之后开始找下一个存活的座位
func nextAliveIndex(s *entities.MatchState, from int) int {
	n := len(s.Players)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if s.Players[i].IsAlive {
			return i
		}
	}
	return from
}

func (t *transition) advanceTurn() {
	t.state.CurrentPlayerIndex = nextAliveIndex(t.state, t.state.CurrentPlayerIndex)
}

// finishTurnStep 结束一次摸牌义务，用完后轮到下一位并重置为 1
func (t *transition) finishTurnStep() {
	t.state.TurnsRemaining--
	if t.state.TurnsRemaining <= 0 {
		t.advanceTurn()
		t.state.TurnsRemaining = 1
	}
}

// checkWinner 只剩一名存活玩家时结束对局
func (t *transition) checkWinner() bool {
	if t.state.AliveCount() != 1 {
		return false
	}
	for i, p := range t.state.Players {
		if p.IsAlive {
			t.state.Status = entities.MatchStatusFinished
			t.state.WinnerID = p.ID
			t.state.CurrentPlayerIndex = i
			t.state.TurnsRemaining = 1
			t.state.PendingAction = nil
			t.logf(p.ID, "%s wins the game!", p.Name)
			return true
		}
	}
	return false
}

// removeFromHand 从手牌中移除第 idx 张并返回它
func removeFromHand(p *entities.Player, idx int) Card {
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card
}

func (t *transition) discard(cards ...Card) {
	t.state.DiscardPile = append(t.state.DiscardPile, cards...)
}

// opponentsWithCards 除自己以外仍存活且有手牌的玩家
func opponentsWithCards(s *entities.MatchState, selfID string) []*entities.Player {
	var out []*entities.Player
	for i := range s.Players {
		p := &s.Players[i]
		if p.ID != selfID && p.IsAlive && len(p.Hand) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// resolveTarget 校验目标玩家：存在、存活、不是自己，needCards 时还要求有手牌
func resolveTarget(s *entities.MatchState, actorID, targetID string, needCards bool) (*entities.Player, error) {
	if targetID == "" {
		return nil, violation(CodeMalformedAction, "target player is required")
	}
	if targetID == actorID {
		return nil, violation(CodeInvalidTarget, "cannot target yourself")
	}
	target := s.Player(targetID)
	if target == nil {
		return nil, violation(CodeInvalidTarget, "target player not in this game")
	}
	if !target.IsAlive {
		return nil, violation(CodeInvalidTarget, "%s has been eliminated", target.Name)
	}
	if needCards && len(target.Hand) == 0 {
		return nil, violation(CodeInvalidTarget, "%s has no cards", target.Name)
	}
	return target, nil
}
