package sqlite

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eloqueue/internal/domain"
	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db, log))
	return NewStorage(db)
}

func player(id int64, name string) *domain.Player {
	return &domain.Player{DiscordID: id, Name: name}
}

func TestRegisterTeam(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	team, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)
	assert.NotZero(t, team.TeamID)
	assert.Equal(t, 1000.0, team.Elo)

	loaded, err := storage.Teams.GetByName(ctx, "alpha", 1000)
	require.NoError(t, err)
	assert.Equal(t, team.TeamID, loaded.TeamID)
	assert.Equal(t, "ann", loaded.PlayerOne.Name)
	assert.Equal(t, 1000.0, loaded.Elo)
}

func TestRegisterTeamRejectsTakenName(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)

	_, err = storage.RegisterTeam(ctx, "alpha", player(3, "cid"), player(4, "dee"), 1000)
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestRegisterTeamRejectsSelfTeam(t *testing.T) {
	storage := newTestStorage(t)
	_, err := storage.RegisterTeam(context.Background(), "solo", player(1, "ann"), player(1, "ann"), 1000)
	require.ErrorIs(t, err, ErrSelfTeam)
}

func TestRegisterTeamRejectsDuplicatePair(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)

	// Same pair in reverse order counts as the same team.
	_, err = storage.RegisterTeam(ctx, "beta", player(2, "bob"), player(1, "ann"), 1000)
	var duplicate *DuplicatePairError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "alpha", duplicate.ExistingTeam)
}

func TestRegisterTeamRejectsMissingFields(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.RegisterTeam(ctx, "", player(1, "ann"), player(2, "bob"), 1000)
	require.ErrorIs(t, err, ErrInvalidRegistration)

	_, err = storage.RegisterTeam(ctx, "alpha", nil, player(2, "bob"), 1000)
	require.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestPlayerUpsertRenames(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Players.Upsert(ctx, player(1, "ann")))
	require.NoError(t, storage.Players.Upsert(ctx, player(1, "anna")))

	got, err := storage.Players.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Name)

	exists, err := storage.Players.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = storage.Players.GetByID(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNextRoundID(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	next, err := storage.Rounds.NextRoundID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "an empty table starts at round 1")

	end := time.Now()
	require.NoError(t, storage.Rounds.Insert(ctx, &domain.Round{
		RoundID:      7,
		StartTime:    end.Add(-time.Minute),
		EndTime:      &end,
		Participants: 4,
	}))

	next, err = storage.Rounds.NextRoundID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), next)

	round, err := storage.Rounds.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, round.Participants)
	assert.NotNil(t, round.EndTime)
}

func TestInsertMatchMovesTeamElo(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	alpha, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)
	beta, err := storage.RegisterTeam(ctx, "beta", player(3, "cid"), player(4, "dee"), 1000)
	require.NoError(t, err)

	round := &domain.Round{RoundID: 1, StartTime: time.Now(), Participants: 2}
	require.NoError(t, storage.Rounds.Insert(ctx, round))

	match := &domain.Match{
		MatchID: 1,
		Round:   round,
		TeamOne: &domain.Result{Team: alpha, Points: 7, Delta: 208},
		TeamTwo: &domain.Result{Team: beta, Points: 3, Delta: 80},
	}
	require.NoError(t, storage.Matches.InsertWithResults(ctx, match))
	assert.NotZero(t, match.TeamOne.ResultID)
	assert.NotZero(t, match.TeamTwo.ResultID)

	reloaded, err := storage.Teams.GetByName(ctx, "alpha", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1208.0, reloaded.Elo, "stored deltas feed the team rating")
}

func TestLeaderboardOrdersByDelta(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	alpha, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)
	beta, err := storage.RegisterTeam(ctx, "beta", player(3, "cid"), player(4, "dee"), 1000)
	require.NoError(t, err)
	_, err = storage.RegisterTeam(ctx, "gamma", player(5, "eve"), player(6, "fay"), 1000)
	require.NoError(t, err)

	round := &domain.Round{RoundID: 1, StartTime: time.Now(), Participants: 2}
	require.NoError(t, storage.Rounds.Insert(ctx, round))
	require.NoError(t, storage.Matches.InsertWithResults(ctx, &domain.Match{
		MatchID: 1,
		Round:   round,
		TeamOne: &domain.Result{Team: alpha, Points: 7, Delta: 208},
		TeamTwo: &domain.Result{Team: beta, Points: 3, Delta: -80},
	}))

	entries, err := storage.Teams.Leaderboard(ctx, 1000, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alpha", entries[0].Team.Name)
	assert.Equal(t, 1208.0, entries[0].Team.Elo)
	assert.Equal(t, 1, entries[0].Played)

	assert.Equal(t, "gamma", entries[1].Team.Name, "teams without results sit at base rating")
	assert.Zero(t, entries[1].Played)

	assert.Equal(t, "beta", entries[2].Team.Name)
	assert.Equal(t, 920.0, entries[2].Team.Elo)
}

func TestPersistResultsHandler(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()

	alpha, err := storage.RegisterTeam(ctx, "alpha", player(1, "ann"), player(2, "bob"), 1000)
	require.NoError(t, err)
	beta, err := storage.RegisterTeam(ctx, "beta", player(3, "cid"), player(4, "dee"), 1000)
	require.NoError(t, err)

	round := &domain.Round{RoundID: 1, StartTime: time.Now().Add(-time.Minute), Participants: 2}
	principal := matchmaker.NewPrincipal(matchmaker.PrincipalMaxSum, round, matchmaker.DefaultConfig(), log)
	game := matchmaker.NewInGameContext(principal, principal.FormMatches([]*domain.Team{alpha, beta}, nil))

	match := game.Matches()[0]
	require.NoError(t, game.AddResult(&domain.Match{
		MatchID: match.MatchID,
		Round:   round,
		TeamOne: &domain.Result{Team: alpha, Points: 7},
		TeamTwo: &domain.Result{Team: beta, Points: 3},
	}))
	end := time.Now()
	round.EndTime = &end

	handler := NewPersistResultsHandler(storage, time.Second, log)
	assert.Equal(t, events.KindRoundEnd, handler.Kind())
	assert.True(t, handler.Requeue())
	require.True(t, handler.IsReady(events.Context{Source: game, Round: round}))
	require.NoError(t, handler.Handle(events.Context{Source: game, Round: round}))

	assert.Equal(t, 1208.0, alpha.Elo, "the delta lands on the in-memory rating too")
	assert.Equal(t, 1080.0, beta.Elo)

	stored, err := storage.Rounds.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, stored.EndTime)

	reloaded, err := storage.Teams.GetByName(ctx, "beta", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1080.0, reloaded.Elo)

	next, err := storage.Rounds.NextRoundID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}
