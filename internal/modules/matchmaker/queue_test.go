package matchmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eloqueue/internal/domain"
)

func TestQueueTeamTracksBothPlayers(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	team := testTeam(1, 1000)

	require.NoError(t, q.QueueTeam(team))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 2, q.PlayerCount(), "the player set holds twice as many entries as the queue")
	assert.True(t, q.HasPlayer(team.PlayerOne))
	assert.True(t, q.HasPlayer(team.PlayerTwo))
	assert.Same(t, team, q.TeamOfPlayer(team.PlayerTwo))
}

func TestQueueTeamRejectsBusyPlayer(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	t1 := testTeam(1, 1000)
	require.NoError(t, q.QueueTeam(t1))

	poached := &domain.Team{
		TeamID:    2,
		Name:      "poached",
		PlayerOne: t1.PlayerOne,
		PlayerTwo: testPlayer(99),
	}
	err := q.QueueTeam(poached)

	var alreadyQueued *AlreadyQueuedError
	require.ErrorAs(t, err, &alreadyQueued)
	assert.True(t, alreadyQueued.Player.Equal(t1.PlayerOne))
	assert.True(t, alreadyQueued.Team.Equal(t1))
	assert.Equal(t, 1, q.Len(), "a rejected queue leaves the state untouched")
	assert.Equal(t, 2, q.PlayerCount())
}

func TestQueueTeamRejectsMissingPlayers(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	var missingFields *MissingFieldsError
	require.ErrorAs(t, q.QueueTeam(&domain.Team{TeamID: 1, Name: "half"}), &missingFields)
}

func TestDequeueTeamFreesPlayers(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	team := testTeam(1, 1000)
	require.NoError(t, q.QueueTeam(team))

	require.NoError(t, q.DequeueTeam(team))
	assert.Zero(t, q.Len())
	assert.Zero(t, q.PlayerCount())

	var notQueued *NotQueuedError
	require.ErrorAs(t, q.DequeueTeam(team), &notQueued)
}

func TestQueueOrderIsInsertionOrder(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	t1, t2, t3 := testTeam(1, 1000), testTeam(2, 1100), testTeam(3, 1200)
	for _, team := range []*domain.Team{t1, t2, t3} {
		require.NoError(t, q.QueueTeam(team))
	}
	require.NoError(t, q.DequeueTeam(t2))
	assert.Equal(t, []*domain.Team{t1, t3}, q.Teams())
}

func TestLookupResolvesEveryKeyKind(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	t1, t2 := testTeam(1, 1000), testTeam(2, 1000)
	require.NoError(t, q.QueueTeam(t1))
	require.NoError(t, q.QueueTeam(t2))

	assert.Same(t, t1, q.Lookup(domain.ByPlayer(t1.PlayerTwo)))
	assert.Same(t, t2, q.Lookup(domain.ByTeam(t2)))
	assert.Same(t, t2, q.Lookup(domain.ByIndex(1)))
	assert.Nil(t, q.Lookup(domain.ByIndex(5)))
	assert.Same(t, t1, q.Lookup(domain.ByMatch(pairing(t1, testTeam(9, 1000)))))
}

func TestHistoryRingDropsOldest(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 2)
	m1 := pairing(testTeam(1, 1000), testTeam(2, 1000))
	m2 := pairing(testTeam(3, 1000), testTeam(4, 1000))
	m3 := pairing(testTeam(5, 1000), testTeam(6, 1000))

	for _, m := range []*domain.Match{m1, m2, m3} {
		require.NoError(t, q.PushHistory(m))
	}
	history := q.History()
	require.Len(t, history, 2)
	assert.Same(t, m2, history[0])
	assert.Same(t, m3, history[1])
}

func TestHistoryDisabledAtZero(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 0)
	require.NoError(t, q.PushHistory(pairing(testTeam(1, 1000), testTeam(2, 1000))))
	assert.Empty(t, q.History())
}

func TestClearKeepsHistory(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 1}, 3)
	require.NoError(t, q.QueueTeam(testTeam(1, 1000)))
	require.NoError(t, q.PushHistory(pairing(testTeam(2, 1000), testTeam(3, 1000))))

	q.Clear()
	assert.True(t, q.IsEmpty())
	assert.Len(t, q.History(), 1)

	q.ClearHistory()
	assert.Empty(t, q.History())
}

func TestAdvanceRound(t *testing.T) {
	q := NewQueueContext(&domain.Round{RoundID: 4}, 3)
	q.AdvanceRound()
	assert.Equal(t, int64(5), q.Round().RoundID)
}
