package dto

// ActionRequest 客户端提交的动作，type 决定其余哪些字段有意义
type ActionRequest struct {
	Type           string   `json:"type" mapstructure:"type" binding:"required"`
	CardID         string   `json:"cardId,omitempty" mapstructure:"cardId"`
	CardIDs        []string `json:"cardIds,omitempty" mapstructure:"cardIds"`
	TargetPlayerID string   `json:"targetPlayerId,omitempty" mapstructure:"targetPlayerId"`
	CardType       string   `json:"cardType,omitempty" mapstructure:"cardType"`
	// defuse_place 不填时随机放
	Position       *int     `json:"position,omitempty" mapstructure:"position"`
}
