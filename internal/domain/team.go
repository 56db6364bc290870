package domain

import "fmt"

// Team pairs two distinct players under a unique name. Elo starts at the
// configured base and moves only by absorbing result deltas.
type Team struct {
	TeamID    int64   `json:"team_id"`
	Name      string  `json:"name"`
	PlayerOne *Player `json:"player_one"`
	PlayerTwo *Player `json:"player_two"`
	Elo       float64 `json:"elo"`
}

// Valid reports whether both player slots are populated with identified
// players. Queueing and match formation require a valid team.
func (t *Team) Valid() bool {
	return t != nil && t.PlayerOne.Valid() && t.PlayerTwo.Valid()
}

// Equal compares teams by primary key.
func (t *Team) Equal(other *Team) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.TeamID == other.TeamID
}

// HasPlayer reports whether the player is one of the team's two members.
func (t *Team) HasPlayer(p *Player) bool {
	if t == nil || !p.Valid() {
		return false
	}
	return t.PlayerOne.Equal(p) || t.PlayerTwo.Equal(p)
}

func (t *Team) String() string {
	if t == nil {
		return "<nil team>"
	}
	return fmt.Sprintf("%s(%.0f)", t.Name, t.Elo)
}
