package matchmaker

import (
	"fmt"

	"eloqueue/internal/domain"
)

// InGameState tracks the lifecycle of an ongoing round.
type InGameState int

const (
	StateInGame InGameState = iota
	StateEnded
)

func (s InGameState) String() string {
	if s == StateEnded {
		return "ENDED"
	}
	return "INGAME"
}

// InGameContext holds one ongoing round: its matches, the principal that
// formed them, and the set of players who have already reported. The
// transition to ENDED is monotonic; once complete no further result is
// accepted.
type InGameContext struct {
	principal Principal
	matches   []*domain.Match
	reported  map[int64]struct{}
	state     InGameState
	key       int64
}

// NewInGameContext wraps the matches a principal formed for its round. The
// context key is derived from the round id and is stable for the lifetime
// of the context.
func NewInGameContext(principal Principal, matches []*domain.Match) *InGameContext {
	return &InGameContext{
		principal: principal,
		matches:   matches,
		reported:  make(map[int64]struct{}),
		state:     StateInGame,
		key:       principal.Round().RoundID,
	}
}

// Key returns the registry key of the context.
func (c *InGameContext) Key() int64 { return c.key }

// Round returns the round this context tracks.
func (c *InGameContext) Round() *domain.Round { return c.principal.Round() }

// Principal returns the agent that formed the matches.
func (c *InGameContext) Principal() Principal { return c.principal }

// Matches returns the round's matches. The slice is a copy; the matches
// are shared.
func (c *InGameContext) Matches() []*domain.Match {
	matches := make([]*domain.Match, len(c.matches))
	copy(matches, c.matches)
	return matches
}

// IsComplete reports whether every match of the round has reported.
func (c *InGameContext) IsComplete() bool { return c.state == StateEnded }

// MatchOfPlayer returns the match the player is currently in, or nil.
func (c *InGameContext) MatchOfPlayer(p *domain.Player) *domain.Match {
	if !p.Valid() {
		return nil
	}
	for _, match := range c.matches {
		if match.HasPlayer(p) {
			return match
		}
	}
	return nil
}

// Lookup resolves a polymorphic key to the match it designates, or nil.
func (c *InGameContext) Lookup(key domain.LookupKey) *domain.Match {
	switch key.Kind() {
	case domain.LookupByPlayer:
		return c.MatchOfPlayer(key.Player())
	case domain.LookupByTeam:
		team := key.Team()
		if !team.Valid() {
			return nil
		}
		m1 := c.MatchOfPlayer(team.PlayerOne)
		m2 := c.MatchOfPlayer(team.PlayerTwo)
		if m1 != nil && m1 == m2 {
			return m1
		}
		return nil
	case domain.LookupByMatch:
		match := key.Match()
		if !match.Valid() {
			return nil
		}
		if m := c.Lookup(domain.ByTeam(match.TeamOne.Team)); m != nil {
			return m
		}
		return c.Lookup(domain.ByTeam(match.TeamTwo.Team))
	case domain.LookupByIndex:
		if key.Index() < 0 || key.Index() >= len(c.matches) {
			return nil
		}
		return c.matches[key.Index()]
	}
	return nil
}

// AddResult absorbs a reported result for one of the round's matches. The
// stored expected points become the baseline for the Elo delta:
// delta = k_factor * (reported - expected). All four players are marked as
// reported; the round ends when every match has reported.
func (c *InGameContext) AddResult(result *domain.Match) error {
	if c.state == StateEnded {
		return &GameEndedError{Result: result}
	}
	if !result.Valid() {
		return &MissingFieldsError{Message: "match is invalid, check for missing fields", Entity: result}
	}

	for _, p := range result.Players() {
		if _, dup := c.reported[p.DiscordID]; dup {
			return &DuplicateResultError{Result: result}
		}
	}

	var match *domain.Match
	for _, m := range c.matches {
		if m.Equal(result) {
			match = m
			break
		}
	}
	if match == nil {
		return &MatchNotFoundError{Result: result}
	}

	for _, p := range result.Players() {
		c.reported[p.DiscordID] = struct{}{}
	}

	k := float64(c.principal.Config().KFactor)
	result.TeamOne.Delta = k * (result.TeamOne.Points - match.TeamOne.Points)
	result.TeamTwo.Delta = k * (result.TeamTwo.Points - match.TeamTwo.Points)

	match.TeamOne = result.TeamOne
	match.TeamTwo = result.TeamTwo

	if len(c.reported) == 4*len(c.matches) {
		c.state = StateEnded
	}
	return nil
}

func (c *InGameContext) String() string {
	return fmt.Sprintf("InGameContext(state=%s, round_id=%d, principal=%s)",
		c.state, c.Round().RoundID, c.principal.Name())
}
