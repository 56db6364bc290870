package matchmaker

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eloqueue/internal/domain"
)

// inactiveRound yields a period factor of 0 with the default period
// (active 3, duty cycle 1): phase 1/3 is past the 0.2 cutoff.
const inactiveRound = int64(1)

// activeRound yields a period factor of 1: 3 mod 3 is phase 0.
const activeRound = int64(3)

func newCore(roundID int64) *utilityCore {
	return &utilityCore{round: &domain.Round{RoundID: roundID}, config: DefaultConfig()}
}

func TestExpectedScore(t *testing.T) {
	core := newCore(inactiveRound)

	equal := core.ExpectedScore(testTeam(1, 1000), testTeam(2, 1000))
	assert.Equal(t, 0.5, equal)

	underdog := core.ExpectedScore(testTeam(1, 1000), testTeam(2, 1200))
	favorite := core.ExpectedScore(testTeam(2, 1200), testTeam(1, 1000))
	assert.Equal(t, 0.2403, underdog, "expected scores are rounded to 4 decimals")
	assert.Equal(t, 0.7597, favorite)
}

func TestExpectedScoreScalesWithPointsPerMatch(t *testing.T) {
	core := newCore(inactiveRound)
	core.config.PointsPerMatch = 10
	assert.Equal(t, 5.0, core.ExpectedScore(testTeam(1, 1000), testTeam(2, 1000)))
}

func TestPeriodFactorSquareWave(t *testing.T) {
	for roundID, want := range map[int64]float64{1: 0, 2: 0, 3: 1, 4: 0, 5: 0, 6: 1} {
		core := newCore(roundID)
		assert.Equal(t, want, core.PeriodFactor(), "round %d", roundID)
	}

	disabled := newCore(3)
	disabled.config.Period.Active = 0
	assert.Zero(t, disabled.PeriodFactor())
}

func TestMatchUtilityStoresExpectedPoints(t *testing.T) {
	core := newCore(inactiveRound)
	match := pairing(testTeam(1, 1000), testTeam(2, 1200))
	core.MatchUtility(match)
	assert.Equal(t, 0.2403, match.TeamOne.Points)
	assert.Equal(t, 0.7597, match.TeamTwo.Points)
}

func eloDiff(m *domain.Match) float64 {
	d := m.TeamOne.Team.Elo - m.TeamTwo.Team.Elo
	if d < 0 {
		return -d
	}
	return d
}

func TestMaxSumPairsCloseRatingsWhenPeriodInactive(t *testing.T) {
	teams := []*domain.Team{testTeam(1, 1000), testTeam(2, 1000), testTeam(3, 1200), testTeam(4, 1200)}
	p := NewPrincipal(PrincipalMaxSum, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())

	matches := p.FormMatches(teams, nil)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Zero(t, eloDiff(m), "without the diversity wave, equal ratings pair up")
	}
}

func TestMaxSumPairsDistantRatingsWhenPeriodActive(t *testing.T) {
	teams := []*domain.Team{testTeam(1, 1000), testTeam(2, 1000), testTeam(3, 1200), testTeam(4, 1200)}
	p := NewPrincipal(PrincipalMaxSum, &domain.Round{RoundID: activeRound}, DefaultConfig(), testLogger())

	matches := p.FormMatches(teams, nil)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, 200.0, eloDiff(m), "the diversity wave rewards uneven pairings")
	}
}

func TestFormMatchesAvoidsRecentPairings(t *testing.T) {
	t1, t2 := testTeam(1, 1000), testTeam(2, 1000)
	t3, t4 := testTeam(3, 1000), testTeam(4, 1000)
	history := []*domain.Match{pairing(t1, t2), pairing(t3, t4)}
	p := NewPrincipal(PrincipalMaxSum, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())

	matches := p.FormMatches([]*domain.Team{t1, t2, t3, t4}, history)
	require.Len(t, matches, 2)
	for _, m := range matches {
		for _, played := range history {
			assert.False(t, m.SamePairing(played), "recent pairing repeated: %s", m)
		}
	}
}

func TestFormMatchesFallsBackWhenHistoryBlocksEverything(t *testing.T) {
	t1, t2 := testTeam(1, 1000), testTeam(2, 1000)
	history := []*domain.Match{pairing(t1, t2)}
	p := NewPrincipal(PrincipalMaxSum, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())

	matches := p.FormMatches([]*domain.Team{t1, t2}, history)
	require.Len(t, matches, 1, "with no unplayed pairing left, history is ignored")
	assert.True(t, matches[0].SamePairing(history[0]))
}

func TestFormMatchesWithTooFewTeams(t *testing.T) {
	p := NewPrincipal(PrincipalMaxSum, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())
	assert.Nil(t, p.FormMatches(nil, nil))
	assert.Nil(t, p.FormMatches([]*domain.Team{testTeam(1, 1000)}, nil))
}

func TestCandidateIDsAreOneBasedEnumerationOrder(t *testing.T) {
	teams := []*domain.Team{testTeam(1, 1000), testTeam(2, 1000), testTeam(3, 1000), testTeam(4, 1000)}
	core := newCore(inactiveRound)

	candidates := core.candidates(teams, nil)
	require.Len(t, candidates, 6)
	for i, c := range candidates {
		assert.Equal(t, int64(i+1), c.MatchID)
	}
	assert.True(t, candidates[0].SamePairing(pairing(teams[0], teams[1])))
	assert.True(t, candidates[5].SamePairing(pairing(teams[2], teams[3])))
}

func TestCandidateIDsKeepNumberingAcrossHistoryGaps(t *testing.T) {
	teams := []*domain.Team{testTeam(1, 1000), testTeam(2, 1000), testTeam(3, 1000)}
	core := newCore(inactiveRound)

	candidates := core.candidates(teams, []*domain.Match{pairing(teams[0], teams[1])})
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(2), candidates[0].MatchID, "ids count skipped pairs too")
	assert.Equal(t, int64(3), candidates[1].MatchID)
}

func TestEveryPolicyCoversEachTeamOnce(t *testing.T) {
	teams := []*domain.Team{
		testTeam(1, 900), testTeam(2, 1000), testTeam(3, 1100),
		testTeam(4, 1200), testTeam(5, 1300), testTeam(6, 1400),
	}
	for _, name := range []string{PrincipalMaxSum, PrincipalMinVariance, PrincipalMaxMin, PrincipalMinMax} {
		p := NewPrincipal(name, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())
		assert.Equal(t, name, p.Name())

		matches := p.FormMatches(teams, nil)
		require.Len(t, matches, 3, name)

		seen := map[int64]bool{}
		for _, m := range matches {
			for _, team := range []*domain.Team{m.TeamOne.Team, m.TeamTwo.Team} {
				assert.False(t, seen[team.TeamID], "%s fielded team %d twice", name, team.TeamID)
				seen[team.TeamID] = true
			}
		}
		assert.Len(t, seen, 6, name)
	}
}

func TestMinVariancePrefersEvenUtilities(t *testing.T) {
	// 1000 vs 1000 and 1400 vs 1400 are both perfectly balanced, but the
	// mixed sets spread their utilities. Variance keeps the balanced split.
	teams := []*domain.Team{testTeam(1, 1000), testTeam(2, 1000), testTeam(3, 1400), testTeam(4, 1400)}
	p := NewPrincipal(PrincipalMinVariance, &domain.Round{RoundID: inactiveRound}, DefaultConfig(), testLogger())

	matches := p.FormMatches(teams, nil)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Zero(t, eloDiff(m))
	}
}

func TestUnknownPrincipalFallsBackToMaxSum(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	p := NewPrincipal("nonexistent", &domain.Round{RoundID: inactiveRound}, DefaultConfig(), log)

	assert.Equal(t, PrincipalMaxSum, p.Name())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	matches := p.FormMatches([]*domain.Team{testTeam(1, 1000), testTeam(2, 1000)}, nil)
	require.Len(t, matches, 1)
}
