package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitten-game/entities"
)

func TestCreateMatch(t *testing.T) {
	engine := testEngine()
	host := NewPlayer("  Alice  ", 2)

	state := engine.CreateMatch(host, false, 3)

	assert.Equal(t, entities.MatchStatusWaiting, state.Status)
	require.Len(t, state.Players, 4)
	assert.Equal(t, host.ID, state.Players[0].ID)
	assert.Equal(t, "Alice", state.Players[0].Name)
	assert.Equal(t, host.ID, state.HostID)
	for i, bot := range state.Players[1:] {
		assert.True(t, bot.IsAI)
		assert.True(t, IsAIPlayer(bot.ID))
		assert.Equal(t, BotNames[i], bot.Name)
	}
	assert.Len(t, state.Code, JoinCodeLen)
	assert.Equal(t, strings.ToUpper(state.Code), state.Code)
	assert.Len(t, state.ID, 12)
	assert.Zero(t, state.Revision)
	assert.Len(t, state.Logs, 1)
}

func TestCreateMatchClampsBots(t *testing.T) {
	engine := testEngine()
	assert.Len(t, engine.CreateMatch(NewPlayer("a", 0), false, 9).Players, MaxPlayers)
	assert.Len(t, engine.CreateMatch(NewPlayer("a", 0), true, -1).Players, 1)
}

func TestStartMatch(t *testing.T) {
	engine := testEngine()
	state := engine.CreateMatch(NewPlayer("Alice", 0), true, 0)

	_, err := engine.StartMatch(state)
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	state, err = engine.JoinMatch(state, NewPlayer("Bob", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Revision)

	started, err := engine.StartMatch(state)
	require.NoError(t, err)
	assert.Equal(t, entities.MatchStatusPlaying, started.Status)
	assert.Equal(t, int64(2), started.Revision)
	assert.Equal(t, 0, started.CurrentPlayerIndex)
	assert.Equal(t, 1, started.TurnsRemaining)
	for _, p := range started.Players {
		assert.Len(t, p.Hand, HandSize+1)
		assert.True(t, p.HasType(entities.CardDefuse))
	}
	assert.Equal(t, 46+4+1+2, started.TotalCards())
	assert.Equal(t, entities.MatchStatusWaiting, state.Status, "input is not mutated")

	_, err = engine.StartMatch(started)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestJoinMatch(t *testing.T) {
	engine := testEngine()
	state := engine.CreateMatch(NewPlayer("Host", 0), true, 0)
	var err error
	for i := 1; i < MaxPlayers; i++ {
		state, err = engine.JoinMatch(state, NewPlayer("Guest", i))
		require.NoError(t, err)
	}
	_, err = engine.JoinMatch(state, NewPlayer("Late", 9))
	assert.ErrorIs(t, err, ErrMatchFull)

	started, err := engine.StartMatch(state)
	require.NoError(t, err)
	_, err = engine.JoinMatch(started, NewPlayer("Later", 9))
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "abcdefghijklmnopqrst", TruncateName("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "short", TruncateName(" short "))
	assert.Len(t, []rune(TruncateName(strings.Repeat("猫", 30))), MaxNameLength)
}
