package ai

import "kitten-game/entities"

// keepValue 越大越舍不得送人
var keepValue = map[entities.CardType]int{
	entities.CardDefuse:       100,
	entities.CardNope:         90,
	entities.CardAttack:       80,
	entities.CardSeeTheFuture: 70,
	entities.CardSkip:         60,
	entities.CardShuffle:      50,
	entities.CardFavor:        40,
}

const (
	loneCatValue   = 10
	pairedCatValue = 15
)

func cardValue(c entities.Card, hand []entities.Card) int {
	if v, ok := keepValue[c.Type]; ok {
		return v
	}
	if c.Type.IsCat() {
		n := 0
		for _, h := range hand {
			if h.Type == c.Type {
				n++
			}
		}
		if n >= 2 {
			return pairedCatValue
		}
		return loneCatValue
	}
	return 0
}

// cardToGive 被要 favor 时交出价值最低的牌，只有全是 defuse 时才会交出 defuse
func cardToGive(hand []entities.Card) (entities.Card, bool) {
	if len(hand) == 0 {
		return entities.Card{}, false
	}
	best := hand[0]
	bestValue := cardValue(best, hand)
	for _, c := range hand[1:] {
		if v := cardValue(c, hand); v < bestValue {
			best, bestValue = c, v
		}
	}
	return best, true
}
