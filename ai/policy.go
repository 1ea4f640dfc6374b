package ai

import (
	"kitten-game/entities"
	"kitten-game/game"
)

// 危险度阈值：下一张摸到炸弹的概率
const (
	peekDanger    = 0.3
	shuffleDanger = 0.4
	attackDanger  = 0.3
	skipDanger    = 0.25

	smallHand = 4
	largeHand = 7
)

// Decider 给出机器人的下一个动作，没有可做的事时返回 false
type Decider interface {
	Decide(state *entities.MatchState, botID string) (game.Action, bool)
}

// Policy 基于规则的机器人，除了目标平手和放回炸弹的位置外都是确定的
type Policy struct {
	rng game.Randomizer
}

var _ Decider = (*Policy)(nil)

func NewPolicy(rng game.Randomizer) *Policy {
	if rng == nil {
		rng = game.DefaultRand
	}
	return &Policy{rng: rng}
}

func (p *Policy) Decide(state *entities.MatchState, botID string) (game.Action, bool) {
	if state == nil || state.Status != entities.MatchStatusPlaying {
		return nil, false
	}
	bot := state.Player(botID)
	if bot == nil || !bot.IsAlive {
		return nil, false
	}
	if pending := state.PendingAction; pending != nil {
		if pending.PlayerID != botID {
			return nil, false
		}
		return p.respond(state, bot, pending)
	}
	if cur := state.CurrentPlayer(); cur == nil || cur.ID != botID {
		return nil, false
	}
	return p.takeTurn(state, bot), true
}

func (p *Policy) respond(state *entities.MatchState, bot *entities.Player, pending *entities.PendingAction) (game.Action, bool) {
	switch pending.Kind {
	case entities.PendingFavorGive:
		card, ok := cardToGive(bot.Hand)
		if !ok {
			return nil, false
		}
		return game.GiveFavor{PlayerID: bot.ID, CardID: card.ID}, true
	case entities.PendingDefusePlace:
		pos := p.rng.Intn(3)
		if pos > len(state.Deck) {
			pos = len(state.Deck)
		}
		return game.PlaceDefused{PlayerID: bot.ID, Position: pos}, true
	case entities.PendingPeekFuture:
		return game.AckFuture{PlayerID: bot.ID}, true
	case entities.PendingStealRandom:
		target := p.richestOpponent(state, bot.ID, true)
		if target == nil {
			return nil, false
		}
		return game.StealRandom{PlayerID: bot.ID, TargetPlayerID: target.ID}, true
	case entities.PendingStealNamed:
		target := p.richestOpponent(state, bot.ID, false)
		if target == nil {
			return nil, false
		}
		return game.StealNamed{PlayerID: bot.ID, TargetPlayerID: target.ID, CardType: entities.CardDefuse}, true
	}
	return nil, false
}

func (p *Policy) takeTurn(state *entities.MatchState, bot *entities.Player) game.Action {
	danger := DangerLevel(state)

	if danger > peekDanger || !bot.HasType(entities.CardDefuse) {
		if c, ok := firstOfType(bot.Hand, entities.CardSeeTheFuture); ok {
			return game.PlayCard{PlayerID: bot.ID, CardID: c.ID}
		}
		if c, ok := firstOfType(bot.Hand, entities.CardShuffle); ok && danger > shuffleDanger {
			return game.PlayCard{PlayerID: bot.ID, CardID: c.ID}
		}
		if c, ok := firstOfType(bot.Hand, entities.CardAttack); ok && danger > attackDanger {
			return game.PlayCard{PlayerID: bot.ID, CardID: c.ID}
		}
		if c, ok := firstOfType(bot.Hand, entities.CardSkip); ok && danger > skipDanger {
			return game.PlayCard{PlayerID: bot.ID, CardID: c.ID}
		}
	}

	victims := opponents(state, bot.ID, true)
	if pair, ok := findPair(bot.Hand); ok && len(victims) > 0 {
		chance := 0.5
		if len(bot.Hand) >= largeHand {
			chance = 0.8
		}
		if p.rng.Float64() < chance {
			return game.PlayPair{PlayerID: bot.ID, CardIDs: pair}
		}
	}

	if len(bot.Hand) < smallHand && len(victims) > 0 {
		if c, ok := firstOfType(bot.Hand, entities.CardFavor); ok {
			target := victims[p.rng.Intn(len(victims))]
			return game.PlayCard{PlayerID: bot.ID, CardID: c.ID, TargetPlayerID: target.ID}
		}
	}

	return game.Draw{PlayerID: bot.ID}
}

// DangerLevel 假设均匀分布时下一张是炸弹的概率
func DangerLevel(state *entities.MatchState) float64 {
	if len(state.Deck) == 0 {
		return 0
	}
	return float64(state.AliveCount()-1) / float64(len(state.Deck))
}

// richestOpponent 手牌最多的存活对手，平手时随机
func (p *Policy) richestOpponent(state *entities.MatchState, selfID string, needCards bool) *entities.Player {
	candidates := opponents(state, selfID, needCards)
	if len(candidates) == 0 {
		return nil
	}
	most := -1
	var best []*entities.Player
	for _, c := range candidates {
		switch n := len(c.Hand); {
		case n > most:
			most = n
			best = []*entities.Player{c}
		case n == most:
			best = append(best, c)
		}
	}
	return best[p.rng.Intn(len(best))]
}

func opponents(state *entities.MatchState, selfID string, needCards bool) []*entities.Player {
	var out []*entities.Player
	for i := range state.Players {
		o := &state.Players[i]
		if o.ID == selfID || !o.IsAlive || (needCards && len(o.Hand) == 0) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func firstOfType(hand []entities.Card, t entities.CardType) (entities.Card, bool) {
	for _, c := range hand {
		if c.Type == t {
			return c, true
		}
	}
	return entities.Card{}, false
}

// findPair 找到第一对相同的猫牌
func findPair(hand []entities.Card) ([2]string, bool) {
	seen := make(map[entities.CardType]string)
	for _, c := range hand {
		if !c.Type.IsCat() {
			continue
		}
		if first, ok := seen[c.Type]; ok {
			return [2]string{first, c.ID}, true
		}
		seen[c.Type] = c.ID
	}
	return [2]string{}, false
}
