package service

import (
	"kitten-game/dto"
	"kitten-game/entities"
	"kitten-game/game"
)

// DecodeAction 把客户端请求转换为具体的动作类型。
// defuse_place 没带 position 时在 [0, len(deck)] 内随机取一个位置。
func DecodeAction(playerID string, req dto.ActionRequest, state *entities.MatchState, rng game.Randomizer) (game.Action, error) {
	switch game.ActionKind(req.Type) {
	case game.ActionPlayCard:
		switch len(req.CardIDs) {
		case 0:
			return game.PlayCard{PlayerID: playerID, CardID: req.CardID, TargetPlayerID: req.TargetPlayerID}, nil
		case 1:
			return game.PlayCard{PlayerID: playerID, CardID: req.CardIDs[0], TargetPlayerID: req.TargetPlayerID}, nil
		case 2:
			return game.PlayPair{PlayerID: playerID, CardIDs: [2]string{req.CardIDs[0], req.CardIDs[1]}}, nil
		case 3:
			return game.PlayTriple{PlayerID: playerID, CardIDs: [3]string{req.CardIDs[0], req.CardIDs[1], req.CardIDs[2]}}, nil
		}
	case game.ActionPlayPair:
		if len(req.CardIDs) == 2 {
			return game.PlayPair{PlayerID: playerID, CardIDs: [2]string{req.CardIDs[0], req.CardIDs[1]}}, nil
		}
	case game.ActionPlayTriple:
		if len(req.CardIDs) == 3 {
			return game.PlayTriple{PlayerID: playerID, CardIDs: [3]string{req.CardIDs[0], req.CardIDs[1], req.CardIDs[2]}}, nil
		}
	case game.ActionDraw:
		return game.Draw{PlayerID: playerID}, nil
	case game.ActionDefusePlace:
		if req.Position != nil {
			return game.PlaceDefused{PlayerID: playerID, Position: *req.Position}, nil
		}
		pos := 0
		if state != nil {
			pos = rng.Intn(len(state.Deck) + 1)
		}
		return game.PlaceDefused{PlayerID: playerID, Position: pos}, nil
	case game.ActionFavorGive:
		return game.GiveFavor{PlayerID: playerID, CardID: req.CardID}, nil
	case game.ActionPeekAck:
		return game.AckFuture{PlayerID: playerID}, nil
	case game.ActionStealRandom:
		return game.StealRandom{PlayerID: playerID, TargetPlayerID: req.TargetPlayerID}, nil
	case game.ActionStealNamed:
		return game.StealNamed{PlayerID: playerID, TargetPlayerID: req.TargetPlayerID, CardType: game.CardType(req.CardType)}, nil
	case game.ActionNope:
		return game.Nope{PlayerID: playerID, CardID: req.CardID}, nil
	default:
		return nil, &game.RuleViolation{Code: game.CodeMalformedAction, Reason: "unknown action type " + req.Type}
	}
	return nil, &game.RuleViolation{Code: game.CodeMalformedAction, Reason: "wrong number of cardIds for " + req.Type}
}
