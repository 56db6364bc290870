package matchmaker

import (
	"fmt"

	"eloqueue/internal/domain"
)

// MissingFieldsError reports an operation called with an under-populated
// entity.
type MissingFieldsError struct {
	Message string
	Entity  any
}

func (e *MissingFieldsError) Error() string { return e.Message }

// AlreadyQueuedError reports an attempt to queue a player who is already
// queued, carrying the offending player and their current team.
type AlreadyQueuedError struct {
	Player *domain.Player
	Team   *domain.Team
}

func (e *AlreadyQueuedError) Error() string {
	return fmt.Sprintf("player %s is already queued in team %q", e.Player, e.Team.Name)
}

// NotQueuedError reports a dequeue of a team that is not in the queue.
type NotQueuedError struct {
	Team *domain.Team
}

func (e *NotQueuedError) Error() string {
	return fmt.Sprintf("team %q is not queued", e.Team.Name)
}

// GameAlreadyExistError reports a round-key collision in the games
// registry.
type GameAlreadyExistError struct {
	Key int64
}

func (e *GameAlreadyExistError) Error() string {
	return fmt.Sprintf("game with key %d already exists", e.Key)
}

// GameEndedError reports a result submitted for a round that already
// completed.
type GameEndedError struct {
	Result *domain.Match
}

func (e *GameEndedError) Error() string {
	return fmt.Sprintf("game has already ended, result for match %d rejected", e.Result.MatchID)
}

// MatchNotFoundError reports a result referencing a match that is not part
// of the ongoing round.
type MatchNotFoundError struct {
	Result *domain.Match
}

func (e *MatchNotFoundError) Error() string {
	return fmt.Sprintf("match %d not found in the ongoing round", e.Result.MatchID)
}

// DuplicateResultError reports a result whose players have already
// reported.
type DuplicateResultError struct {
	Result *domain.Match
}

func (e *DuplicateResultError) Error() string {
	return fmt.Sprintf("result for match %d has already been reported", e.Result.MatchID)
}

// MissingContextError reports a result that no in-game context accepted.
type MissingContextError struct {
	Result *domain.Match
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("result for match %d has no associated ongoing round", e.Result.MatchID)
}
