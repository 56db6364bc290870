package matchmaker

import "eloqueue/internal/domain"

// QueueContext holds the wait queue: a membership set of queued players, the
// insertion-ordered list of queued teams, the descriptor of the next round
// and a bounded FIFO of recently played matches used for anti-repeat.
//
// Invariant: every queued player belongs to exactly one queued team, so the
// player set always holds twice as many entries as the queue.
type QueueContext struct {
	round      *domain.Round
	players    map[int64]*domain.Player
	queue      []*domain.Team
	history    []*domain.Match
	maxHistory int
}

// NewQueueContext creates an empty queue working toward the given round.
// maxHistory bounds the anti-repeat ring; zero disables it.
func NewQueueContext(round *domain.Round, maxHistory int) *QueueContext {
	return &QueueContext{
		round:      round,
		players:    make(map[int64]*domain.Player),
		maxHistory: maxHistory,
	}
}

// Round returns the descriptor of the round the queue is filling.
func (q *QueueContext) Round() *domain.Round { return q.round }

// AdvanceRound bumps the round counter after a round has been formed.
func (q *QueueContext) AdvanceRound() { q.round.RoundID++ }

// Len returns the number of queued teams.
func (q *QueueContext) Len() int { return len(q.queue) }

// PlayerCount returns the size of the queued-player set.
func (q *QueueContext) PlayerCount() int { return len(q.players) }

// IsEmpty reports whether no team is queued.
func (q *QueueContext) IsEmpty() bool {
	return len(q.players) == 0 && len(q.queue) == 0
}

// Teams returns the queued teams in insertion order. The slice is a copy;
// the teams are shared.
func (q *QueueContext) Teams() []*domain.Team {
	teams := make([]*domain.Team, len(q.queue))
	copy(teams, q.queue)
	return teams
}

// History returns the recent-match ring, oldest first.
func (q *QueueContext) History() []*domain.Match {
	history := make([]*domain.Match, len(q.history))
	copy(history, q.history)
	return history
}

// HasPlayer reports whether the player is queued with any team.
func (q *QueueContext) HasPlayer(p *domain.Player) bool {
	if !p.Valid() {
		return false
	}
	_, ok := q.players[p.DiscordID]
	return ok
}

// TeamOfPlayer returns the queued team the player belongs to, or nil.
func (q *QueueContext) TeamOfPlayer(p *domain.Player) *domain.Team {
	if !q.HasPlayer(p) {
		return nil
	}
	for _, team := range q.queue {
		if team.HasPlayer(p) {
			return team
		}
	}
	return nil
}

// Lookup resolves a polymorphic key to the queued team it designates, or
// nil when nothing matches.
func (q *QueueContext) Lookup(key domain.LookupKey) *domain.Team {
	switch key.Kind() {
	case domain.LookupByPlayer:
		return q.TeamOfPlayer(key.Player())
	case domain.LookupByTeam:
		team := key.Team()
		if !team.Valid() {
			return nil
		}
		t1 := q.TeamOfPlayer(team.PlayerOne)
		t2 := q.TeamOfPlayer(team.PlayerTwo)
		if t1 != nil && t1 == t2 {
			return t1
		}
		return nil
	case domain.LookupByMatch:
		match := key.Match()
		if !match.Valid() {
			return nil
		}
		if t := q.Lookup(domain.ByTeam(match.TeamOne.Team)); t != nil {
			return t
		}
		return q.Lookup(domain.ByTeam(match.TeamTwo.Team))
	case domain.LookupByIndex:
		if key.Index() < 0 || key.Index() >= len(q.queue) {
			return nil
		}
		return q.queue[key.Index()]
	}
	return nil
}

// QueueTeam adds the team to the queue. Both players must be free: a player
// may not wait in two teams at once.
func (q *QueueContext) QueueTeam(team *domain.Team) error {
	if !team.Valid() {
		return &MissingFieldsError{Message: "missing player fields when queuing team", Entity: team}
	}

	if current := q.TeamOfPlayer(team.PlayerOne); current != nil {
		return &AlreadyQueuedError{Player: team.PlayerOne, Team: current}
	}
	if current := q.TeamOfPlayer(team.PlayerTwo); current != nil {
		return &AlreadyQueuedError{Player: team.PlayerTwo, Team: current}
	}

	q.players[team.PlayerOne.DiscordID] = team.PlayerOne
	q.players[team.PlayerTwo.DiscordID] = team.PlayerTwo
	q.queue = append(q.queue, team)
	return nil
}

// DequeueTeam removes a queued team and frees both players.
func (q *QueueContext) DequeueTeam(team *domain.Team) error {
	if !team.Valid() {
		return &MissingFieldsError{Message: "missing player fields when dequeuing team", Entity: team}
	}
	if q.Lookup(domain.ByTeam(team)) == nil {
		return &NotQueuedError{Team: team}
	}

	delete(q.players, team.PlayerOne.DiscordID)
	delete(q.players, team.PlayerTwo.DiscordID)
	for i, queued := range q.queue {
		if queued.Equal(team) {
			q.queue = append(q.queue[:i:i], q.queue[i+1:]...)
			break
		}
	}
	return nil
}

// PushHistory appends a played match to the anti-repeat ring, dropping the
// oldest entry once the ring is full. A no-op when history is disabled.
func (q *QueueContext) PushHistory(match *domain.Match) error {
	if !match.Valid() {
		return &MissingFieldsError{Message: "missing match fields when adding to history", Entity: match}
	}
	if q.maxHistory == 0 {
		return nil
	}

	q.history = append(q.history, match)
	if len(q.history) > q.maxHistory {
		q.history = q.history[1:]
	}
	return nil
}

// Clear empties the queue and the player set. History is kept.
func (q *QueueContext) Clear() {
	q.players = make(map[int64]*domain.Player)
	q.queue = nil
}

// ClearHistory empties the anti-repeat ring.
func (q *QueueContext) ClearHistory() {
	q.history = nil
}
