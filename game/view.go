package game

import "kitten-game/entities"

// Project 生成某个玩家可见的对局视图：其他人的手牌和整个牌堆都换成占位牌，
// 数量保持不变；弃牌堆公开；peek 看到的牌和暂存的炸弹只给应答者本人看。
// 不会修改传入的状态。
func Project(state *entities.MatchState, viewerID string) *entities.MatchState {
	if state == nil {
		return nil
	}
	view := state.Clone()
	for i := range view.Players {
		if view.Players[i].ID != viewerID {
			view.Players[i].Hand = hiddenCards(len(view.Players[i].Hand))
		}
	}
	view.Deck = hiddenCards(len(view.Deck))
	if pending := view.PendingAction; pending != nil && pending.PlayerID != viewerID {
		pending.Cards = nil
		pending.Card = nil
	}
	return view
}

func hiddenCards(n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = Card{ID: entities.HiddenCardID, Type: entities.CardHidden}
	}
	return out
}
