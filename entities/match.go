package entities

type MatchStatus string

const (
	MatchStatusWaiting  MatchStatus = "waiting"
	MatchStatusPlaying  MatchStatus = "playing"
	MatchStatusFinished MatchStatus = "finished"
)

type PendingKind string

const (
	PendingFavorGive   PendingKind = "favor_give"
	PendingDefusePlace PendingKind = "defuse_place"
	PendingPeekFuture  PendingKind = "peek_future"
	PendingStealRandom PendingKind = "steal_random"
	PendingStealNamed  PendingKind = "steal_named"
)

// PendingAction 等待某个玩家应答的动作，存在时阻断其他一切出牌
type PendingAction struct {
	Kind PendingKind `json:"type"`
	// 需要应答的玩家
	PlayerID string `json:"playerId"`
	// favor 的发起者
	SourcePlayerID string `json:"sourcePlayerId,omitempty"`
	// peek_future 看到的牌（按摸牌顺序）
	Cards []Card `json:"cards,omitempty"`
	// defuse_place 期间暂存的炸弹
	Card *Card `json:"card,omitempty"`
}

type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hand    []Card `json:"hand"`
	IsAlive bool   `json:"isAlive"`
	IsAI    bool   `json:"isAI"`
	Avatar  int    `json:"avatar"`
}

// CountType 手牌中某种牌的数量
func (p *Player) CountType(t CardType) int {
	n := 0
	for _, c := range p.Hand {
		if c.Type == t {
			n++
		}
	}
	return n
}

// HasType 手牌中是否有某种牌
func (p *Player) HasType(t CardType) bool {
	return p.CountType(t) > 0
}

// CardIndex 按 id 查找手牌位置，找不到返回 -1
func (p *Player) CardIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

type LogEntry struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	PlayerID  string `json:"playerId,omitempty"`
}

type MatchState struct {
	ID                 string         `json:"id"`
	Code               string         `json:"code"`
	Status             MatchStatus    `json:"status"`
	Players            []Player       `json:"players"`
	Deck               []Card         `json:"deck"`
	DiscardPile        []Card         `json:"discardPile"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	TurnsRemaining     int            `json:"turnsRemaining"`
	PendingAction      *PendingAction `json:"pendingAction,omitempty"`
	WinnerID           string         `json:"winnerId,omitempty"`
	Logs               []LogEntry     `json:"logs"`
	CreatedAt          int64          `json:"createdAt"`
	UpdatedAt          int64          `json:"updatedAt"`
	IsMultiplayer      bool           `json:"isMultiplayer"`
	HostID             string         `json:"hostId"`
	Revision           int64          `json:"revision"`
}

// Clone 深拷贝整个对局，修改副本不会影响原对象
func (m *MatchState) Clone() *MatchState {
	if m == nil {
		return nil
	}
	out := *m
	out.Players = make([]Player, len(m.Players))
	for i, p := range m.Players {
		p.Hand = cloneCards(p.Hand)
		out.Players[i] = p
	}
	out.Deck = cloneCards(m.Deck)
	out.DiscardPile = cloneCards(m.DiscardPile)
	out.Logs = append([]LogEntry(nil), m.Logs...)
	if m.PendingAction != nil {
		pa := *m.PendingAction
		pa.Cards = cloneCards(m.PendingAction.Cards)
		if m.PendingAction.Card != nil {
			held := *m.PendingAction.Card
			pa.Card = &held
		}
		out.PendingAction = &pa
	}
	return &out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append(make([]Card, 0, len(cards)), cards...)
}

// PlayerIndex 按 id 查找座位号，找不到返回 -1
func (m *MatchState) PlayerIndex(playerID string) int {
	for i := range m.Players {
		if m.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// Player 返回指向 Players 内元素的指针，便于原地修改
func (m *MatchState) Player(playerID string) *Player {
	if i := m.PlayerIndex(playerID); i >= 0 {
		return &m.Players[i]
	}
	return nil
}

func (m *MatchState) CurrentPlayer() *Player {
	if m.CurrentPlayerIndex < 0 || m.CurrentPlayerIndex >= len(m.Players) {
		return nil
	}
	return &m.Players[m.CurrentPlayerIndex]
}

func (m *MatchState) AliveCount() int {
	n := 0
	for _, p := range m.Players {
		if p.IsAlive {
			n++
		}
	}
	return n
}

// TotalCards 统计所有区域内的牌：存活玩家手牌、牌堆、弃牌堆以及拆除炸弹时暂存的那张
func (m *MatchState) TotalCards() int {
	n := len(m.Deck) + len(m.DiscardPile)
	for _, p := range m.Players {
		if p.IsAlive {
			n += len(p.Hand)
		}
	}
	if m.PendingAction != nil && m.PendingAction.Card != nil {
		n++
	}
	return n
}
