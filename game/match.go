package game

import (
	"strings"

	"kitten-game/entities"
)

const (
	// BotIDPrefix 机器人玩家 id 的前缀
	BotIDPrefix   = "ai_"
	MaxNameLength = 20
	JoinCodeLen   = 6
	matchIDLen    = 12
)

var BotNames = []string{"Whiskers", "Mittens", "Shadow", "Patches"}

const joinCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func IsAIPlayer(playerID string) bool {
	return strings.HasPrefix(playerID, BotIDPrefix)
}

// NewPlayer 创建一名真人玩家，名字超长时截断
func NewPlayer(name string, avatar int) entities.Player {
	return entities.Player{
		ID:      NewID(matchIDLen),
		Name:    TruncateName(name),
		Hand:    []Card{},
		IsAlive: true,
		Avatar:  avatar,
	}
}

func NewBot(seat int) entities.Player {
	return entities.Player{
		ID:      BotIDPrefix + NewID(8),
		Name:    BotNames[seat%len(BotNames)],
		Hand:    []Card{},
		IsAlive: true,
		IsAI:    true,
		Avatar:  seat + 1,
	}
}

func TruncateName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}

// NewJoinCode 六位大写字母数字邀请码
func NewJoinCode(rng Randomizer) string {
	if rng == nil {
		rng = DefaultRand
	}
	b := make([]byte, JoinCodeLen)
	for i := range b {
		b[i] = joinCodeLetters[rng.Intn(len(joinCodeLetters))]
	}
	return string(b)
}

// CreateMatch 创建处于 waiting 状态的对局，房主坐 0 号位，随后是 botCount 个机器人
func (e *Engine) CreateMatch(host entities.Player, multiplayer bool, botCount int) *entities.MatchState {
	if botCount < 0 {
		botCount = 0
	}
	if botCount > MaxPlayers-1 {
		botCount = MaxPlayers - 1
	}
	if host.Hand == nil {
		host.Hand = []Card{}
	}
	host.IsAlive = true

	now := e.now().UnixMilli()
	players := make([]entities.Player, 0, botCount+1)
	players = append(players, host)
	for i := 0; i < botCount; i++ {
		players = append(players, NewBot(i))
	}

	return &entities.MatchState{
		ID:             NewID(matchIDLen),
		Code:           NewJoinCode(e.rng),
		Status:         entities.MatchStatusWaiting,
		Players:        players,
		Deck:           []Card{},
		DiscardPile:    []Card{},
		TurnsRemaining: 1,
		Logs: []entities.LogEntry{
			{Message: host.Name + " created the game", Timestamp: now, PlayerID: host.ID},
		},
		CreatedAt:     now,
		UpdatedAt:     now,
		IsMultiplayer: multiplayer,
		HostID:        host.ID,
	}
}

// JoinMatch 在开局前加入一名玩家
func (e *Engine) JoinMatch(state *entities.MatchState, player entities.Player) (*entities.MatchState, error) {
	if state.Status != entities.MatchStatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(state.Players) >= MaxPlayers {
		return nil, ErrMatchFull
	}
	next := state.Clone()
	if player.Hand == nil {
		player.Hand = []Card{}
	}
	player.IsAlive = true
	next.Players = append(next.Players, player)

	now := e.now().UnixMilli()
	next.Logs = append(next.Logs, entities.LogEntry{Message: player.Name + " joined the game", Timestamp: now, PlayerID: player.ID})
	next.Revision++
	next.UpdatedAt = now
	return next, nil
}

// StartMatch 发牌并进入 playing 状态
func (e *Engine) StartMatch(state *entities.MatchState) (*entities.MatchState, error) {
	if state.Status != entities.MatchStatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(state.Players) < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(state.Players) > MaxPlayers {
		return nil, ErrMatchFull
	}

	next := state.Clone()
	deck, hands := BuildDeck(len(next.Players), e.rng)
	for i := range next.Players {
		next.Players[i].Hand = hands[i]
		next.Players[i].IsAlive = true
	}
	next.Deck = deck
	next.DiscardPile = []Card{}
	next.Status = entities.MatchStatusPlaying
	next.CurrentPlayerIndex = 0
	next.TurnsRemaining = 1
	next.PendingAction = nil
	next.WinnerID = ""

	now := e.now().UnixMilli()
	next.Logs = append(next.Logs, entities.LogEntry{Message: "Game started!", Timestamp: now})
	next.Revision++
	next.UpdatedAt = now
	return next, nil
}
