package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kitten-game/ai"
	"kitten-game/dto"
	"kitten-game/entities"
	"kitten-game/game"
	"kitten-game/repository"
	"kitten-game/stats"
	"kitten-game/utils"
)

type recordingStats struct {
	mu     sync.Mutex
	deltas map[string]stats.Delta
}

func (r *recordingStats) Record(_ context.Context, playerID string, d stats.Delta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deltas == nil {
		r.deltas = map[string]stats.Delta{}
	}
	r.deltas[playerID] = r.deltas[playerID].Add(d)
	return nil
}

func (r *recordingStats) Get(_ context.Context, playerID string) (stats.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s stats.Stats
	s.Apply(r.deltas[playerID])
	return s, nil
}

// staleOnce 第一次 Update 返回并发冲突
type staleOnce struct {
	repository.MatchStore
	mu      sync.Mutex
	updates int
}

func (s *staleOnce) Update(ctx context.Context, state *entities.MatchState, base int64) error {
	s.mu.Lock()
	s.updates++
	first := s.updates == 1
	s.mu.Unlock()
	if first {
		return repository.ErrStaleRevision
	}
	return s.MatchStore.Update(ctx, state, base)
}

type fixture struct {
	svc    *MatchService
	store  repository.MatchStore
	stats  *recordingStats
	tokens *utils.TokenIssuer
}

func newFixture(t *testing.T, wrap func(repository.MatchStore) repository.MatchStore) *fixture {
	t.Helper()
	return newFixtureWithSteps(t, wrap, 0)
}

func newFixtureWithSteps(t *testing.T, wrap func(repository.MatchStore) repository.MatchStore, maxSteps int) *fixture {
	t.Helper()
	mem, err := repository.NewMemoryMatchStore(64)
	require.NoError(t, err)
	var store repository.MatchStore = mem
	if wrap != nil {
		store = wrap(mem)
	}
	engine := game.NewEngine(game.NewSeededRand(11))
	bots := ai.NewOrchestrator(engine, ai.NewPolicy(engine.Rand()), maxSteps, zap.NewNop())
	rec := &recordingStats{}
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	return &fixture{
		svc:    NewMatchService(store, engine, bots, rec, tokens, zap.NewNop()),
		store:  store,
		stats:  rec,
		tokens: tokens,
	}
}

func card(id string, t entities.CardType) entities.Card {
	return entities.Card{ID: id, Type: t}
}

// twoHumans 两名真人的进行中对局，p1 先手
func twoHumans(deck []entities.Card, h1, h2 []entities.Card) *entities.MatchState {
	return &entities.MatchState{
		ID:     "m1",
		Code:   "KITTEN",
		Status: entities.MatchStatusPlaying,
		Players: []entities.Player{
			{ID: "p1", Name: "Alice", Hand: h1, IsAlive: true},
			{ID: "p2", Name: "Bob", Hand: h2, IsAlive: true},
		},
		Deck:           deck,
		DiscardPile:    []entities.Card{},
		TurnsRemaining: 1,
		Logs:           []entities.LogEntry{},
		IsMultiplayer:  true,
		HostID:         "p1",
		Revision:       5,
	}
}

func TestCreateSinglePlayerMatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seat, err := f.svc.CreateMatch(ctx, dto.CreateMatchRequest{PlayerName: "  Alice  ", Mode: dto.MatchModeSingle})
	require.NoError(t, err)
	assert.Len(t, seat.Code, game.JoinCodeLen)

	view := seat.State
	require.Len(t, view.Players, 1+DefaultBotCount)
	assert.Equal(t, entities.MatchStatusPlaying, view.Status)
	assert.Equal(t, "Alice", view.Players[0].Name)
	assert.Equal(t, seat.PlayerID, view.Players[0].ID)
	for _, p := range view.Players[1:] {
		assert.True(t, p.IsAI)
		assert.True(t, strings.HasPrefix(p.ID, game.BotIDPrefix))
		for _, c := range p.Hand {
			assert.Equal(t, entities.CardHidden, c.Type)
		}
	}
	for _, c := range view.Players[0].Hand {
		assert.NotEqual(t, entities.CardHidden, c.Type)
	}

	claims, err := f.tokens.Parse(seat.Token)
	require.NoError(t, err)
	assert.Equal(t, seat.MatchID, claims.MatchID)
	assert.Equal(t, seat.PlayerID, claims.PlayerID)
}

func TestCreateMatchBotCountClamped(t *testing.T) {
	f := newFixture(t, nil)
	seat, err := f.svc.CreateMatch(context.Background(), dto.CreateMatchRequest{PlayerName: "A", BotCount: 9})
	require.NoError(t, err)
	assert.Len(t, seat.State.Players, game.MaxPlayers)

	seat, err = f.svc.CreateMatch(context.Background(), dto.CreateMatchRequest{PlayerName: "A", BotCount: -2})
	require.NoError(t, err)
	assert.Len(t, seat.State.Players, 2)
}

func TestCreateMatchValidation(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.CreateMatch(context.Background(), dto.CreateMatchRequest{PlayerName: "   "})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.svc.CreateMatch(context.Background(), dto.CreateMatchRequest{PlayerName: "A", Mode: "coop"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMultiplayerLobby(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	host, err := f.svc.CreateMatch(ctx, dto.CreateMatchRequest{PlayerName: "Host", Mode: dto.MatchModeMulti})
	require.NoError(t, err)
	assert.Equal(t, entities.MatchStatusWaiting, host.State.Status)
	require.Len(t, host.State.Players, 1)

	_, err = f.svc.StartMatch(ctx, host.MatchID, host.PlayerID)
	assert.ErrorIs(t, err, game.ErrTooFewPlayers)

	guest, err := f.svc.JoinMatch(ctx, dto.JoinMatchRequest{Code: strings.ToLower(host.Code), PlayerName: "Guest"})
	require.NoError(t, err)
	assert.Equal(t, host.MatchID, guest.MatchID)
	assert.Len(t, guest.State.Players, 2)
	assert.Equal(t, host.State.Revision+1, guest.State.Revision)

	_, err = f.svc.StartMatch(ctx, host.MatchID, guest.PlayerID)
	assert.ErrorIs(t, err, game.ErrNotHost)

	view, err := f.svc.StartMatch(ctx, host.MatchID, host.PlayerID)
	require.NoError(t, err)
	assert.Equal(t, entities.MatchStatusPlaying, view.Status)
	assert.Len(t, view.Players[0].Hand, game.HandSize+1)

	_, err = f.svc.JoinMatch(ctx, dto.JoinMatchRequest{Code: host.Code, PlayerName: "Late"})
	assert.ErrorIs(t, err, game.ErrAlreadyStarted)
}

func TestJoinMatchFull(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host, err := f.svc.CreateMatch(ctx, dto.CreateMatchRequest{PlayerName: "Host", Mode: "multiplayer"})
	require.NoError(t, err)
	for i := 0; i < game.MaxPlayers-1; i++ {
		_, err := f.svc.JoinMatch(ctx, dto.JoinMatchRequest{Code: host.Code, PlayerName: "Guest"})
		require.NoError(t, err)
	}
	_, err = f.svc.JoinMatch(ctx, dto.JoinMatchRequest{Code: host.Code, PlayerName: "Sixth"})
	assert.ErrorIs(t, err, game.ErrMatchFull)

	_, err = f.svc.JoinMatch(ctx, dto.JoinMatchRequest{Code: "NOPE00", PlayerName: "X"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubmitActionAgainstBots(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seat, err := f.svc.CreateMatch(ctx, dto.CreateMatchRequest{PlayerName: "Alice", BotCount: 2})
	require.NoError(t, err)

	view, err := f.svc.SubmitAction(ctx, seat.MatchID, seat.PlayerID, dto.ActionRequest{Type: "draw"})
	require.NoError(t, err)
	assert.Greater(t, view.Revision, seat.State.Revision)

	// 机器人行动完之后要么对局结束，要么等待真人
	if view.Status == entities.MatchStatusPlaying {
		if view.PendingAction != nil {
			assert.Equal(t, seat.PlayerID, view.PendingAction.PlayerID)
		} else {
			assert.Equal(t, seat.PlayerID, view.Players[view.CurrentPlayerIndex].ID)
		}
	}
}

// humanVsBots p1 是真人，ai_1、ai_2 是空手的机器人，p1 先手
func humanVsBots(deck []entities.Card) *entities.MatchState {
	return &entities.MatchState{
		ID:     "m1",
		Code:   "KITTEN",
		Status: entities.MatchStatusPlaying,
		Players: []entities.Player{
			{ID: "p1", Name: "Alice", Hand: []entities.Card{}, IsAlive: true},
			{ID: "ai_1", Name: "Whiskers", Hand: []entities.Card{}, IsAlive: true, IsAI: true},
			{ID: "ai_2", Name: "Mittens", Hand: []entities.Card{}, IsAlive: true, IsAI: true},
		},
		Deck:           deck,
		DiscardPile:    []entities.Card{},
		TurnsRemaining: 1,
		Logs:           []entities.LogEntry{},
		HostID:         "p1",
		Revision:       3,
	}
}

func botDeck(n int) []entities.Card {
	deck := []entities.Card{}
	for i := 0; i < n; i++ {
		deck = append(deck, card(fmt.Sprintf("c%d", i), entities.CardBeardCat))
	}
	return append(deck, card("k2", entities.CardExplodingKitten))
}

func TestSubmitActionFinishesBotsAfterHumanExplodes(t *testing.T) {
	f := newFixtureWithSteps(t, nil, 2)
	ctx := context.Background()
	deck := append([]entities.Card{card("k1", entities.CardExplodingKitten)}, botDeck(10)...)
	require.NoError(t, f.store.Create(ctx, humanVsBots(deck)))

	view, err := f.svc.SubmitAction(ctx, "m1", "p1", dto.ActionRequest{Type: "draw"})
	require.NoError(t, err)

	assert.Equal(t, entities.MatchStatusFinished, view.Status)
	assert.True(t, game.IsAIPlayer(view.WinnerID))
	assert.Equal(t, stats.Delta{GamesPlayed: 1, Losses: 1, Explosions: 1}, f.stats.deltas["p1"])

	stored, err := f.store.Load(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, entities.MatchStatusFinished, stored.Status)
}

func TestGetMatchResumesStalledBots(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	state := humanVsBots(botDeck(10))
	state.Players[0].IsAlive = false
	state.CurrentPlayerIndex = 1
	require.NoError(t, f.store.Create(ctx, state))

	view, err := f.svc.GetMatch(ctx, "m1", "p1")
	require.NoError(t, err)

	assert.Equal(t, entities.MatchStatusFinished, view.Status)
	assert.Greater(t, view.Revision, state.Revision)
	assert.Equal(t, stats.Delta{GamesPlayed: 1, Losses: 1}, f.stats.deltas["p1"])

	// 已经结束的对局不会再次记录
	_, err = f.svc.GetMatch(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Equal(t, stats.Delta{GamesPlayed: 1, Losses: 1}, f.stats.deltas["p1"])
}

func TestPollResumesStalledBots(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	state := humanVsBots(botDeck(6))
	state.Players[0].IsAlive = false
	state.CurrentPlayerIndex = 2
	require.NoError(t, f.store.Create(ctx, state))

	resp, err := f.svc.Poll(ctx, "m1", "p1", state.Revision)
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	require.NotNil(t, resp.State)
	assert.Equal(t, entities.MatchStatusFinished, resp.State.Status)
}

func TestSubmitActionRuleViolation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	state := twoHumans([]entities.Card{card("d1", entities.CardTacoCat)}, []entities.Card{card("s1", entities.CardSkip)}, []entities.Card{})
	require.NoError(t, f.store.Create(ctx, state))

	_, err := f.svc.SubmitAction(ctx, "m1", "p2", dto.ActionRequest{Type: "draw"})
	assert.ErrorIs(t, err, game.ErrWrongTurn)

	_, err = f.svc.SubmitAction(ctx, "m1", "p1", dto.ActionRequest{Type: "dance"})
	assert.ErrorIs(t, err, game.ErrMalformedAction)

	stored, err := f.store.Load(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Revision)
}

func TestSubmitActionRecordsStats(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	state := twoHumans(
		[]entities.Card{card("d1", entities.CardTacoCat)},
		[]entities.Card{card("s1", entities.CardSkip)},
		[]entities.Card{card("x1", entities.CardBeardCat)},
	)
	require.NoError(t, f.store.Create(ctx, state))

	view, err := f.svc.SubmitAction(ctx, "m1", "p1", dto.ActionRequest{Type: "play_card", CardID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentPlayerIndex)
	assert.Equal(t, stats.Delta{CardsPlayed: 1}, f.stats.deltas["p1"])

	profile, err := f.svc.PlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, profile.Stats.XP)
	assert.Equal(t, 1, profile.Level.Level)
}

func TestSubmitDefusePlaceWithoutPosition(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	kitten := card("k1", entities.CardExplodingKitten)
	state := twoHumans(
		[]entities.Card{card("a", entities.CardTacoCat), card("b", entities.CardTacoCat), card("c", entities.CardTacoCat)},
		[]entities.Card{},
		[]entities.Card{card("x1", entities.CardBeardCat)},
	)
	state.DiscardPile = []entities.Card{card("def", entities.CardDefuse)}
	state.PendingAction = &entities.PendingAction{Kind: entities.PendingDefusePlace, PlayerID: "p1", Card: &kitten}
	require.NoError(t, f.store.Create(ctx, state))

	_, err := f.svc.SubmitAction(ctx, "m1", "p1", dto.ActionRequest{Type: "defuse_place"})
	require.NoError(t, err)

	stored, err := f.store.Load(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, stored.Deck, 4)
	found := false
	for _, c := range stored.Deck {
		if c.ID == "k1" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Nil(t, stored.PendingAction)
	assert.Equal(t, 1, stored.CurrentPlayerIndex)
	assert.Equal(t, stats.Delta{DefusesUsed: 1}, f.stats.deltas["p1"])
}

func TestSubmitActionRetriesStaleRevision(t *testing.T) {
	var wrapped *staleOnce
	f := newFixture(t, func(s repository.MatchStore) repository.MatchStore {
		wrapped = &staleOnce{MatchStore: s}
		return wrapped
	})
	ctx := context.Background()
	state := twoHumans([]entities.Card{card("d1", entities.CardTacoCat)}, []entities.Card{}, []entities.Card{})
	require.NoError(t, f.store.Create(ctx, state))

	view, err := f.svc.SubmitAction(ctx, "m1", "p1", dto.ActionRequest{Type: "draw"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), view.Revision)
	assert.Equal(t, 2, wrapped.updates)
}

func TestPoll(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	state := twoHumans([]entities.Card{card("d1", entities.CardTacoCat)}, []entities.Card{card("h1", entities.CardNope)}, []entities.Card{card("h2", entities.CardAttack)})
	require.NoError(t, f.store.Create(ctx, state))

	res, err := f.svc.Poll(ctx, "m1", "p1", 5)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(5), res.Revision)
	assert.Nil(t, res.State)

	res, err = f.svc.Poll(ctx, "m1", "p1", 4)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.NotNil(t, res.State)
	assert.Equal(t, "h1", res.State.Players[0].Hand[0].ID)
	assert.Equal(t, entities.HiddenCardID, res.State.Players[1].Hand[0].ID)
	assert.Equal(t, entities.CardHidden, res.State.Deck[0].Type)

	_, err = f.svc.Poll(ctx, "missing", "p1", 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetMatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.Create(ctx, twoHumans([]entities.Card{}, []entities.Card{card("h1", entities.CardNope)}, []entities.Card{card("h2", entities.CardAttack)})))

	view, err := f.svc.GetMatch(ctx, "m1", "p2")
	require.NoError(t, err)
	assert.Equal(t, entities.CardHidden, view.Players[0].Hand[0].Type)
	assert.Equal(t, entities.CardAttack, view.Players[1].Hand[0].Type)
}

func TestSweepStale(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	old := twoHumans([]entities.Card{}, []entities.Card{}, []entities.Card{})
	old.UpdatedAt = time.Now().Add(-48 * time.Hour).UnixMilli()
	require.NoError(t, f.store.Create(ctx, old))

	removed, err := f.svc.SweepStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunJanitor(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
