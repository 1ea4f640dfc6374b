package stats

import (
	"kitten-game/entities"
	"kitten-game/game"
)

// Derive 计算一次真人动作（以及随后机器人连续行动）带来的统计增量。
// before 是动作前的状态，applied 是动作刚生效后的状态，final 是机器人推进之后的状态。
// 结果只包含真人玩家。
func Derive(before, applied, final *entities.MatchState, actorID string, kind game.ActionKind) map[string]Delta {
	out := map[string]Delta{}
	if before == nil || applied == nil || final == nil {
		return out
	}
	add := func(playerID string, d Delta) {
		if game.IsAIPlayer(playerID) || d.IsZero() {
			return
		}
		out[playerID] = out[playerID].Add(d)
	}

	switch kind {
	case game.ActionPlayCard, game.ActionNope:
		add(actorID, Delta{CardsPlayed: 1})
	case game.ActionPlayPair:
		add(actorID, Delta{CardsPlayed: 2})
	case game.ActionPlayTriple:
		add(actorID, Delta{CardsPlayed: 3})
	case game.ActionDefusePlace:
		add(actorID, Delta{DefusesUsed: 1})
	case game.ActionStealRandom, game.ActionStealNamed:
		if gained := handSize(applied, actorID) - handSize(before, actorID); gained > 0 {
			add(actorID, Delta{CardsStolen: gained})
		}
	}

	for _, p := range before.Players {
		if !p.IsAlive {
			continue
		}
		if after := final.Player(p.ID); after != nil && !after.IsAlive {
			add(p.ID, Delta{Explosions: 1})
		}
	}

	if before.Status != entities.MatchStatusFinished && final.Status == entities.MatchStatusFinished {
		for _, p := range final.Players {
			if p.ID == final.WinnerID {
				add(p.ID, Delta{GamesPlayed: 1, Wins: 1})
			} else {
				add(p.ID, Delta{GamesPlayed: 1, Losses: 1})
			}
		}
	}
	return out
}

func handSize(state *entities.MatchState, playerID string) int {
	if p := state.Player(playerID); p != nil {
		return len(p.Hand)
	}
	return 0
}
