package game

import "kitten-game/entities"

func (t *transition) draw(actor *entities.Player) error {
	if !t.isCurrent(actor) {
		return ErrWrongTurn
	}
	if len(t.state.Deck) == 0 {
		return ErrEmptyDeck
	}
	card := t.state.Deck[0]
	t.state.Deck = t.state.Deck[1:]

	if card.Type != entities.CardExplodingKitten {
		actor.Hand = append(actor.Hand, card)
		t.logf(actor.ID, "%s drew a card", actor.Name)
		t.finishTurnStep()
		return nil
	}

	for i, c := range actor.Hand {
		if c.Type != entities.CardDefuse {
			continue
		}
		t.discard(removeFromHand(actor, i))
		held := card
		t.state.PendingAction = &entities.PendingAction{
			Kind:     PendingDefusePlace,
			PlayerID: actor.ID,
			Card:     &held,
		}
		t.logf(actor.ID, "%s drew an Exploding Kitten but defused it!", actor.Name)
		return nil
	}

	t.explode(actor, card)
	return nil
}

// explode 没有 defuse：玩家出局，手牌和炸弹全部进入弃牌堆
func (t *transition) explode(actor *entities.Player, kitten Card) {
	actor.IsAlive = false
	t.discard(actor.Hand...)
	t.discard(kitten)
	actor.Hand = []Card{}
	t.logf(actor.ID, "%s exploded!", actor.Name)

	if t.checkWinner() {
		return
	}
	t.advanceTurn()
	t.state.TurnsRemaining = 1
}
