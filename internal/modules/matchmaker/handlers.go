package matchmaker

import (
	"hash/fnv"
	"time"

	"github.com/sirupsen/logrus"

	"eloqueue/internal/domain"
	"eloqueue/internal/modules/events"
)

func handlerTag(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

// MatchTriggerHandler forms a new round when the queue reaches the trigger
// threshold: it instantiates the configured principal, moves the formed
// matches into a fresh in-game context, clears the queue and registers the
// paired GameEndHandler before announcing the round start.
type MatchTriggerHandler struct {
	config *Config
	games  *Games
	evmap  *events.EventMap
	log    *logrus.Logger
}

// NewMatchTriggerHandler builds the trigger handler over the shared config,
// games registry and event map.
func NewMatchTriggerHandler(config *Config, games *Games, evmap *events.EventMap, log *logrus.Logger) *MatchTriggerHandler {
	return &MatchTriggerHandler{config: config, games: games, evmap: evmap, log: log}
}

func (h *MatchTriggerHandler) Kind() events.Kind { return events.KindQueue }
func (h *MatchTriggerHandler) Tag() int64        { return handlerTag("MatchTriggerHandler") }
func (h *MatchTriggerHandler) Requeue() bool     { return true }

func (h *MatchTriggerHandler) IsReady(ctx events.Context) bool {
	queue, ok := ctx.Source.(*QueueContext)
	return ok && queue.Len() == h.config.TriggerThreshold
}

func (h *MatchTriggerHandler) Handle(ctx events.Context) error {
	queue, ok := ctx.Source.(*QueueContext)
	if !ok {
		return events.NewHandlingError(h, "expected a queue context for a QUEUE event")
	}
	if queue.Round().RoundID == 0 {
		return events.NewHandlingError(h, "expected a round id to trigger matches")
	}

	round := &domain.Round{
		RoundID:      queue.Round().RoundID,
		StartTime:    time.Now(),
		Participants: queue.Len(),
	}
	principal := NewPrincipal(h.config.Principal, round, *h.config, h.log)
	matches := principal.FormMatches(queue.Teams(), queue.History())
	context := NewInGameContext(principal, matches)

	queue.Clear()

	if err := h.games.PushGame(context); err != nil {
		return events.WrapHandlingError(h, err, "unable to push game to registry")
	}
	queue.AdvanceRound()

	h.evmap.Register(NewGameEndHandler(round, h.games, h.evmap, h.log))
	h.log.WithFields(logrus.Fields{
		"round_id":  round.RoundID,
		"matches":   len(matches),
		"principal": principal.Name(),
	}).Info("Round started")

	return h.evmap.Handle(events.NewRoundStartEvent(context, round))
}

// GameEndHandler watches one specific round and clears it from the games
// registry once every match has reported. Single shot: it never requeues.
type GameEndHandler struct {
	round *domain.Round
	games *Games
	evmap *events.EventMap
	log   *logrus.Logger
}

// NewGameEndHandler binds a handler to the round it waits on.
func NewGameEndHandler(round *domain.Round, games *Games, evmap *events.EventMap, log *logrus.Logger) *GameEndHandler {
	return &GameEndHandler{round: round, games: games, evmap: evmap, log: log}
}

func (h *GameEndHandler) Kind() events.Kind { return events.KindResult }
func (h *GameEndHandler) Tag() int64        { return h.round.RoundID }
func (h *GameEndHandler) Requeue() bool     { return false }

func (h *GameEndHandler) IsReady(ctx events.Context) bool {
	context, ok := ctx.Source.(*InGameContext)
	if !ok {
		return false
	}
	if _, registered := h.games.Get(context.Key()); !registered {
		return false
	}
	if context.Round().RoundID != h.round.RoundID {
		return false
	}
	return context.IsComplete()
}

func (h *GameEndHandler) Handle(ctx events.Context) error {
	context, ok := ctx.Source.(*InGameContext)
	if !ok {
		return events.NewHandlingError(h, "expected an in-game context for a RESULT event")
	}

	h.games.Remove(context.Key())
	now := time.Now()
	h.round.EndTime = &now

	h.log.WithFields(logrus.Fields{
		"round_id": h.round.RoundID,
		"duration": h.round.Duration().String(),
	}).Info("Round ended")

	return h.evmap.Handle(events.NewRoundEndEvent(context, h.round))
}
