package game

import (
	"kitten-game/entities"
)

const peekDepth = 3

func (t *transition) playCard(actor *entities.Player, a PlayCard) error {
	if a.CardID == "" {
		return violation(CodeMalformedAction, "cardId is required")
	}
	idx := actor.CardIndex(a.CardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	card := actor.Hand[idx]
	if card.Type == entities.CardNope {
		return t.playNope(actor, idx)
	}
	if t.state.PendingAction != nil {
		return violation(CodePendingMismatch, "only %s or Nope can be played now", ResponseKind(t.state.PendingAction.Kind))
	}
	if !t.isCurrent(actor) {
		return ErrWrongTurn
	}

	switch {
	case card.Type.IsCat():
		return violation(CodeMismatchedSet, "%s can only be played as a pair or triple", card.Type.DisplayName())
	case card.Type == entities.CardDefuse:
		return violation(CodeMalformedAction, "Defuse is only played when drawing an Exploding Kitten")
	case !card.Type.Valid() || card.Type == entities.CardExplodingKitten:
		return violation(CodeMalformedAction, "%s cannot be played", card.Type)
	}

	var target *entities.Player
	if card.Type == entities.CardFavor {
		var err error
		if target, err = resolveTarget(t.state, actor.ID, a.TargetPlayerID, true); err != nil {
			return err
		}
	}

	t.discard(removeFromHand(actor, idx))

	switch card.Type {
	case entities.CardAttack:
		t.advanceTurn()
		t.state.TurnsRemaining++
		next := t.state.CurrentPlayer()
		t.logf(actor.ID, "%s played Attack! %s must take %d turns", actor.Name, next.Name, t.state.TurnsRemaining)
	case entities.CardSkip:
		t.logf(actor.ID, "%s played Skip", actor.Name)
		t.finishTurnStep()
	case entities.CardShuffle:
		shuffleCards(t.state.Deck, t.rng)
		t.logf(actor.ID, "%s shuffled the deck", actor.Name)
	case entities.CardSeeTheFuture:
		n := peekDepth
		if len(t.state.Deck) < n {
			n = len(t.state.Deck)
		}
		t.state.PendingAction = &entities.PendingAction{
			Kind:     PendingPeekFuture,
			PlayerID: actor.ID,
			Cards:    append([]Card{}, t.state.Deck[:n]...),
		}
		t.logf(actor.ID, "%s is seeing the future", actor.Name)
	case entities.CardFavor:
		t.state.PendingAction = &entities.PendingAction{
			Kind:           PendingFavorGive,
			PlayerID:       target.ID,
			SourcePlayerID: actor.ID,
		}
		t.logf(actor.ID, "%s asked %s for a favor", actor.Name, target.Name)
	}
	return nil
}

func (t *transition) playNopeByID(actor *entities.Player, cardID string) error {
	if cardID == "" {
		return violation(CodeMalformedAction, "cardId is required")
	}
	idx := actor.CardIndex(cardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	if actor.Hand[idx].Type != entities.CardNope {
		return violation(CodeMalformedAction, "card is not a Nope")
	}
	return t.playNope(actor, idx)
}

// playNope 有 pending 时直接取消它，否则只记一条日志
func (t *transition) playNope(actor *entities.Player, idx int) error {
	t.discard(removeFromHand(actor, idx))
	if pending := t.state.PendingAction; pending != nil {
		t.state.PendingAction = nil
		t.logf(actor.ID, "%s played Nope and cancelled the %s", actor.Name, pending.Kind)
		return nil
	}
	t.logf(actor.ID, "%s played Nope", actor.Name)
	return nil
}

// playSet 两张或三张同类猫牌，两张进入随机偷牌，三张进入指定牌型偷牌
func (t *transition) playSet(actor *entities.Player, cardIDs []string) error {
	if !t.isCurrent(actor) {
		return ErrWrongTurn
	}
	seen := make(map[string]bool, len(cardIDs))
	var setType CardType
	for i, id := range cardIDs {
		if id == "" || seen[id] {
			return violation(CodeMalformedAction, "a set needs %d distinct card ids", len(cardIDs))
		}
		seen[id] = true
		idx := actor.CardIndex(id)
		if idx < 0 {
			return ErrUnknownCard
		}
		ct := actor.Hand[idx].Type
		if !ct.IsCat() {
			return violation(CodeMismatchedSet, "%s is not a cat card", ct.DisplayName())
		}
		if i == 0 {
			setType = ct
		} else if ct != setType {
			return ErrMismatchedSet
		}
	}

	kind := PendingStealRandom
	if len(cardIDs) == 3 {
		kind = PendingStealNamed
	}
	if kind == PendingStealRandom && len(opponentsWithCards(t.state, actor.ID)) == 0 {
		return violation(CodeInvalidTarget, "no opponent has cards to steal")
	}

	for _, id := range cardIDs {
		t.discard(removeFromHand(actor, actor.CardIndex(id)))
	}
	t.state.PendingAction = &entities.PendingAction{Kind: kind, PlayerID: actor.ID}
	t.logf(actor.ID, "%s played %d %s cards", actor.Name, len(cardIDs), setType.DisplayName())
	return nil
}
