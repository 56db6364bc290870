// Package matchmaker implements the Elo-based matchmaking engine for
// fixed-size teams of two: the wait queue and its invariants, the ongoing
// round contexts, the principal agents that form rounds, and the façade
// that wires them to the event kernel.
package matchmaker

import (
	"sync"

	"github.com/sirupsen/logrus"

	"eloqueue/internal/domain"
	"eloqueue/internal/modules/events"
)

// MatchMaker is the public façade of the engine. All mutations funnel
// through it and are serialized by an internal mutex; event dispatch
// happens after the state mutation completed, so handlers always observe a
// consistent view. External handlers (persistence, broadcast, metrics)
// plug in through RegisterHandler and must not call back into the façade.
type MatchMaker struct {
	mu     sync.Mutex
	log    *logrus.Logger
	config *Config
	queue  *QueueContext
	games  *Games
	evmap  *events.EventMap
}

// New builds a matchmaker with an empty queue working toward
// startRoundID. The trigger handler is registered at construction.
func New(log *logrus.Logger, config Config, startRoundID int64) *MatchMaker {
	cfg := config
	mm := &MatchMaker{
		log:    log,
		config: &cfg,
		queue:  NewQueueContext(&domain.Round{RoundID: startRoundID}, cfg.MaxHistory),
		games:  NewGames(),
		evmap:  events.NewEventMap(),
	}
	mm.evmap.Register(NewMatchTriggerHandler(mm.config, mm.games, mm.evmap, log))
	return mm
}

// Config returns a snapshot of the current configuration.
func (mm *MatchMaker) Config() Config {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return *mm.config
}

// SetThreshold changes the queue size at which round formation fires.
func (mm *MatchMaker) SetThreshold(n int) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.config.TriggerThreshold = n
	mm.log.WithField("trigger_threshold", n).Info("Trigger threshold updated")
}

// SetPrincipal changes the selection policy used for the next rounds.
// Unknown names fall back to max_sum when the next round forms.
func (mm *MatchMaker) SetPrincipal(name string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.config.Principal = name
	mm.log.WithField("principal", name).Info("Principal updated")
}

// HasQueuedPlayer reports whether the player is waiting in the queue.
func (mm *MatchMaker) HasQueuedPlayer(p *domain.Player) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.queue.HasPlayer(p)
}

// HasQueuedTeam reports whether the team is waiting in the queue.
func (mm *MatchMaker) HasQueuedTeam(t *domain.Team) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.queue.Lookup(domain.ByTeam(t)) != nil
}

// IsPlayerAvailable reports whether the player is neither queued nor in an
// ongoing round.
func (mm *MatchMaker) IsPlayerAvailable(p *domain.Player) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return !mm.queue.HasPlayer(p) && mm.games.ContextOfPlayer(p) == nil
}

// IsTeamAvailable reports whether neither of the team's players is queued
// or in an ongoing round.
func (mm *MatchMaker) IsTeamAvailable(t *domain.Team) bool {
	if !t.Valid() {
		return false
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	for _, p := range []*domain.Player{t.PlayerOne, t.PlayerTwo} {
		if mm.queue.HasPlayer(p) || mm.games.ContextOfPlayer(p) != nil {
			return false
		}
	}
	return true
}

// GetQueue returns the queued teams in insertion order.
func (mm *MatchMaker) GetQueue() []*domain.Team {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.queue.Teams()
}

// GetGames returns the ongoing in-game contexts in registration order.
func (mm *MatchMaker) GetGames() []*InGameContext {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.games.Contexts()
}

// GetTeamOfPlayer returns the team the player is queued with, or nil.
func (mm *MatchMaker) GetTeamOfPlayer(p *domain.Player) *domain.Team {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.queue.TeamOfPlayer(p)
}

// GetMatchOfPlayer returns the ongoing match the player is part of, or
// nil.
func (mm *MatchMaker) GetMatchOfPlayer(p *domain.Player) *domain.Match {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if ctx := mm.games.ContextOfPlayer(p); ctx != nil {
		return ctx.MatchOfPlayer(p)
	}
	return nil
}

// CurrentRoundID returns the id the next formed round will carry.
func (mm *MatchMaker) CurrentRoundID() int64 {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.queue.Round().RoundID
}

// QueueTeam adds a team to the wait queue and dispatches a QUEUE event,
// which may trigger round formation. Returns the first error that
// prevented the mutation, or the last error of the dispatch.
func (mm *MatchMaker) QueueTeam(team *domain.Team) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if err := mm.queue.QueueTeam(team); err != nil {
		return err
	}
	mm.log.WithFields(logrus.Fields{
		"team":       team.Name,
		"queue_size": mm.queue.Len(),
	}).Info("Team queued")
	return mm.evmap.Handle(events.NewQueueEvent(mm.queue, team))
}

// DequeueTeam removes a queued team and dispatches a DEQUEUE event.
func (mm *MatchMaker) DequeueTeam(team *domain.Team) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if err := mm.queue.DequeueTeam(team); err != nil {
		return err
	}
	mm.log.WithFields(logrus.Fields{
		"team":       team.Name,
		"queue_size": mm.queue.Len(),
	}).Info("Team dequeued")
	return mm.evmap.Handle(events.NewDequeueEvent(mm.queue, team))
}

// InsertResult routes a reported match to its ongoing round, records the
// pairing in the anti-repeat history and dispatches a RESULT event. The
// owning context is captured before the dispatch because the round-end
// handler may remove it from the registry during that same dispatch.
func (mm *MatchMaker) InsertResult(match *domain.Match) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	key, err := mm.games.AddResult(match)
	if err != nil {
		return err
	}
	context, _ := mm.games.Get(key)

	if err := mm.queue.PushHistory(match); err != nil {
		mm.log.WithError(err).Warn("Could not push match to history")
	}
	mm.log.WithFields(logrus.Fields{
		"match_id": match.MatchID,
		"round_id": key,
	}).Info("Result inserted")
	return mm.evmap.Handle(events.NewResultEvent(context, match))
}

// Reset clears the queue, the games registry and every registered handler,
// then re-registers the trigger handler. The round counter keeps
// advancing; it is never reset.
func (mm *MatchMaker) Reset() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queue.Clear()
	mm.games.Clear()
	mm.evmap.Clear()
	mm.evmap.Register(NewMatchTriggerHandler(mm.config, mm.games, mm.evmap, mm.log))
	mm.log.Info("Matchmaker reset")
}

// ClearQueue empties the wait queue.
func (mm *MatchMaker) ClearQueue() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queue.Clear()
}

// ClearHistory empties the anti-repeat history ring.
func (mm *MatchMaker) ClearHistory() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queue.ClearHistory()
}

// RegisterHandler plugs an external event handler (persistence, broadcast,
// metrics) into the event map.
func (mm *MatchMaker) RegisterHandler(h events.Handler) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.evmap.Register(h)
}

// HandlerRegistered reports whether a handler with the tag is registered
// for the kind.
func (mm *MatchMaker) HandlerRegistered(kind events.Kind, tag int64) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.evmap.Registered(kind, tag)
}
