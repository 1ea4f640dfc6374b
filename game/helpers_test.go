package game

import (
	"fmt"

	"kitten-game/entities"
)

func c(id string, t CardType) Card {
	return Card{ID: id, Type: t}
}

// newTestState 按给定手牌和牌堆构造一个进行中的对局，玩家 id 依次为 p1、p2...
func newTestState(deck []Card, hands ...[]Card) *entities.MatchState {
	players := make([]entities.Player, len(hands))
	for i, h := range hands {
		if h == nil {
			h = []Card{}
		}
		players[i] = entities.Player{
			ID:      fmt.Sprintf("p%d", i+1),
			Name:    fmt.Sprintf("Player %d", i+1),
			Hand:    h,
			IsAlive: true,
		}
	}
	if deck == nil {
		deck = []Card{}
	}
	return &entities.MatchState{
		ID:             "m1",
		Code:           "ABCDEF",
		Status:         entities.MatchStatusPlaying,
		Players:        players,
		Deck:           deck,
		DiscardPile:    []Card{},
		TurnsRemaining: 1,
		HostID:         "p1",
	}
}

func testEngine() *Engine {
	return NewEngine(NewSeededRand(7))
}

func hasCardID(cards []Card, id string) bool {
	for _, c := range cards {
		if c.ID == id {
			return true
		}
	}
	return false
}

func countType(cards []Card, t CardType) int {
	n := 0
	for _, c := range cards {
		if c.Type == t {
			n++
		}
	}
	return n
}
