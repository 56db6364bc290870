package domain

import "fmt"

// Match pits two teams against each other within a round. Each side owns a
// Result slot which starts as an expected-score shell and is overwritten by
// the reported result.
type Match struct {
	MatchID   int64   `json:"match_id"`
	Round     *Round  `json:"round"`
	TeamOne   *Result `json:"team_one"`
	TeamTwo   *Result `json:"team_two"`
	OddsRatio float64 `json:"odds_ratio"`
}

// Valid reports whether both result slots reference valid teams.
func (m *Match) Valid() bool {
	return m != nil && m.TeamOne.Valid() && m.TeamTwo.Valid()
}

// Equal compares matches by primary key.
func (m *Match) Equal(other *Match) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.MatchID == other.MatchID
}

// HasPlayer reports whether the player belongs to either side of the match.
func (m *Match) HasPlayer(p *Player) bool {
	if !m.Valid() {
		return false
	}
	return m.TeamOne.Team.HasPlayer(p) || m.TeamTwo.Team.HasPlayer(p)
}

// HasTeam reports whether the team plays on either side of the match.
func (m *Match) HasTeam(t *Team) bool {
	if !m.Valid() || t == nil {
		return false
	}
	return m.TeamOne.Team.Equal(t) || m.TeamTwo.Team.Equal(t)
}

// SamePairing reports whether both matches pit the same unordered pair of
// teams against each other. The anti-repeat history compares pairings, not
// match identities.
func (m *Match) SamePairing(other *Match) bool {
	if !m.Valid() || !other.Valid() {
		return false
	}
	return (m.TeamOne.Team.Equal(other.TeamOne.Team) && m.TeamTwo.Team.Equal(other.TeamTwo.Team)) ||
		(m.TeamOne.Team.Equal(other.TeamTwo.Team) && m.TeamTwo.Team.Equal(other.TeamOne.Team))
}

// Players returns the four players of the match in side order.
func (m *Match) Players() []*Player {
	if !m.Valid() {
		return nil
	}
	return []*Player{
		m.TeamOne.Team.PlayerOne,
		m.TeamOne.Team.PlayerTwo,
		m.TeamTwo.Team.PlayerOne,
		m.TeamTwo.Team.PlayerTwo,
	}
}

func (m *Match) String() string {
	if m == nil {
		return "<nil match>"
	}
	return fmt.Sprintf("match %d: %s vs %s", m.MatchID, m.TeamOne.Team, m.TeamTwo.Team)
}
