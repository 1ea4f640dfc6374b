package game

import "kitten-game/entities"

const (
	HandSize      = 7
	MinPlayers    = 2
	MaxPlayers    = 5
	defuseCeiling = 6
)

var actionCardCounts = []struct {
	Type  CardType
	Count int
}{
	{entities.CardAttack, 4},
	{entities.CardSkip, 4},
	{entities.CardFavor, 4},
	{entities.CardShuffle, 4},
	{entities.CardSeeTheFuture, 5},
	{entities.CardNope, 5},
}

const catCardCount = 4

// BuildDeck 生成牌堆和每人的起手牌：
// 先洗动作牌和猫牌，每人发 7 张再各补 1 张 defuse，
// 剩余的牌加入 max(0, 6-n) 张 defuse 和 n-1 张炸弹后再洗一次。
// playerCount 的范围由调用方保证。
func BuildDeck(playerCount int, rng Randomizer) ([]Card, [][]Card) {
	if rng == nil {
		rng = DefaultRand
	}

	base := make([]Card, 0, 46)
	for _, entry := range actionCardCounts {
		for i := 0; i < entry.Count; i++ {
			base = append(base, newCard(entry.Type))
		}
	}
	for _, cat := range entities.CatCardTypes {
		for i := 0; i < catCardCount; i++ {
			base = append(base, newCard(cat))
		}
	}
	shuffleCards(base, rng)

	hands := make([][]Card, playerCount)
	for p := 0; p < playerCount; p++ {
		hand := make([]Card, 0, HandSize+1)
		hand = append(hand, base[:HandSize]...)
		base = base[HandSize:]
		hands[p] = append(hand, newCard(entities.CardDefuse))
	}

	deck := append([]Card(nil), base...)
	for i := 0; i < defuseCeiling-playerCount; i++ {
		deck = append(deck, newCard(entities.CardDefuse))
	}
	for i := 0; i < playerCount-1; i++ {
		deck = append(deck, newCard(entities.CardExplodingKitten))
	}
	shuffleCards(deck, rng)

	return deck, hands
}

// shuffleCards 原地 Fisher-Yates 洗牌
func shuffleCards(cards []Card, rng Randomizer) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}
