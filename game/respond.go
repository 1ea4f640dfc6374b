package game

import "kitten-game/entities"

func (t *transition) placeDefused(actor *entities.Player, position int) error {
	pending := t.state.PendingAction
	deck := t.state.Deck
	if position < 0 {
		position = 0
	}
	if position > len(deck) {
		position = len(deck)
	}

	kitten := newCard(entities.CardExplodingKitten)
	if pending.Card != nil {
		kitten = *pending.Card
	}
	placed := make([]Card, 0, len(deck)+1)
	placed = append(placed, deck[:position]...)
	placed = append(placed, kitten)
	placed = append(placed, deck[position:]...)
	t.state.Deck = placed
	t.state.PendingAction = nil

	t.logf(actor.ID, "%s put the Exploding Kitten back into the deck", actor.Name)
	t.finishTurnStep()
	return nil
}

func (t *transition) giveFavor(actor *entities.Player, cardID string) error {
	if cardID == "" {
		return violation(CodeMalformedAction, "cardId is required")
	}
	idx := actor.CardIndex(cardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	requester := t.state.Player(t.state.PendingAction.SourcePlayerID)
	if requester == nil {
		return violation(CodeInvalidTarget, "favor requester not found")
	}
	card := removeFromHand(actor, idx)
	requester.Hand = append(requester.Hand, card)
	t.state.PendingAction = nil
	t.logf(actor.ID, "%s gave a card to %s", actor.Name, requester.Name)
	return nil
}

func (t *transition) ackFuture(actor *entities.Player) {
	t.state.PendingAction = nil
	t.logf(actor.ID, "%s finished looking at the future", actor.Name)
}

func (t *transition) stealRandom(actor *entities.Player, targetID string) error {
	target, err := resolveTarget(t.state, actor.ID, targetID, true)
	if err != nil {
		return err
	}
	card := removeFromHand(target, t.rng.Intn(len(target.Hand)))
	actor.Hand = append(actor.Hand, card)
	t.state.PendingAction = nil
	t.logf(actor.ID, "%s stole a card from %s", actor.Name, target.Name)
	return nil
}

// stealNamed 对方没有该牌型时不算错误，只记录一次落空
func (t *transition) stealNamed(actor *entities.Player, targetID string, cardType CardType) error {
	if !cardType.Valid() {
		return violation(CodeMalformedAction, "unknown card type %q", cardType)
	}
	target, err := resolveTarget(t.state, actor.ID, targetID, false)
	if err != nil {
		return err
	}
	t.state.PendingAction = nil
	for i, c := range target.Hand {
		if c.Type == cardType {
			actor.Hand = append(actor.Hand, removeFromHand(target, i))
			t.logf(actor.ID, "%s took a %s from %s", actor.Name, cardType.DisplayName(), target.Name)
			return nil
		}
	}
	t.logf(actor.ID, "%s asked %s for a %s, but they had none", actor.Name, target.Name, cardType.DisplayName())
	return nil
}
