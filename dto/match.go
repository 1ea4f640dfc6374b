package dto

import "kitten-game/entities"

type MatchMode string

const (
	MatchModeSingle MatchMode = "single"
	MatchModeMulti  MatchMode = "multi"
)

type CreateMatchRequest struct {
	PlayerName string    `json:"playerName" binding:"required"`
	Avatar     int       `json:"avatar"`
	Mode       MatchMode `json:"mode"`
	BotCount   int       `json:"botCount"`
}

type JoinMatchRequest struct {
	Code       string `json:"code" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
	Avatar     int    `json:"avatar"`
}

// SeatResponse 创建或加入对局后返回，token 之后放在 Authorization 头里
type SeatResponse struct {
	MatchID  string               `json:"matchId"`
	PlayerID string               `json:"playerId"`
	Code     string               `json:"code"`
	Token    string               `json:"token"`
	State    *entities.MatchState `json:"state"`
}

type PollResponse struct {
	Changed  bool                 `json:"changed"`
	Revision int64                `json:"revision"`
	State    *entities.MatchState `json:"state,omitempty"`
}
