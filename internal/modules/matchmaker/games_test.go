package matchmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eloqueue/internal/domain"
)

func newKeyedGame(t *testing.T, roundID int64, teams ...*domain.Team) *InGameContext {
	t.Helper()
	round := &domain.Round{RoundID: roundID, Participants: len(teams)}
	principal := NewPrincipal(PrincipalMaxSum, round, DefaultConfig(), testLogger())
	return NewInGameContext(principal, principal.FormMatches(teams, nil))
}

func TestPushGameRejectsKeyCollision(t *testing.T) {
	games := NewGames()
	require.NoError(t, games.PushGame(newKeyedGame(t, 1, testTeam(1, 1000), testTeam(2, 1000))))

	var exists *GameAlreadyExistError
	err := games.PushGame(newKeyedGame(t, 1, testTeam(3, 1000), testTeam(4, 1000)))
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, int64(1), exists.Key)
	assert.Equal(t, 1, games.Len())
}

func TestContextsKeepRegistrationOrder(t *testing.T) {
	games := NewGames()
	g1 := newKeyedGame(t, 1, testTeam(1, 1000), testTeam(2, 1000))
	g2 := newKeyedGame(t, 2, testTeam(3, 1000), testTeam(4, 1000))
	require.NoError(t, games.PushGame(g1))
	require.NoError(t, games.PushGame(g2))

	assert.Equal(t, []*InGameContext{g1, g2}, games.Contexts())

	games.Remove(1)
	assert.Equal(t, []*InGameContext{g2}, games.Contexts())
	_, ok := games.Get(1)
	assert.False(t, ok)
}

func TestAddResultRoutesToOwningContext(t *testing.T) {
	games := NewGames()
	t1, t2 := testTeam(1, 1000), testTeam(2, 1000)
	t3, t4 := testTeam(3, 1000), testTeam(4, 1000)
	g1 := newKeyedGame(t, 1, t1, t2)
	g2 := newKeyedGame(t, 2, t3, t4)
	require.NoError(t, games.PushGame(g1))
	require.NoError(t, games.PushGame(g2))

	result := report(g2.Matches()[0], 1, 0)
	key, err := games.AddResult(result)
	require.NoError(t, err)
	assert.Equal(t, int64(2), key)
	assert.True(t, g2.IsComplete())
	assert.False(t, g1.IsComplete())
}

func TestAddResultWithoutContext(t *testing.T) {
	games := NewGames()
	orphan := pairing(testTeam(1, 1000), testTeam(2, 1000))
	orphan.MatchID = 1

	var missing *MissingContextError
	_, err := games.AddResult(orphan)
	require.ErrorAs(t, err, &missing)
}

func TestContextOfPlayer(t *testing.T) {
	games := NewGames()
	t1, t2 := testTeam(1, 1000), testTeam(2, 1000)
	g1 := newKeyedGame(t, 1, t1, t2)
	require.NoError(t, games.PushGame(g1))

	assert.Same(t, g1, games.ContextOfPlayer(t1.PlayerOne))
	assert.Nil(t, games.ContextOfPlayer(testPlayer(999)))
	assert.Same(t, g1, games.Lookup(domain.ByTeam(t2)))
}
