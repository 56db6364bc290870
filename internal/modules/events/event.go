// Package events is the dispatch substrate that drives the matchmaker's
// state transitions: queue changes trigger round formation, results drive
// round completion. Handlers are registered by event kind, polled for
// readiness and invoked synchronously; long-running side effects belong on
// the handler's own executor, never inside the dispatch.
package events

import "eloqueue/internal/domain"

// Kind discriminates the event types flowing through the kernel.
type Kind int

const (
	KindQueue Kind = iota + 1
	KindDequeue
	KindResult
	KindRoundStart
	KindRoundEnd
)

func (k Kind) String() string {
	switch k {
	case KindQueue:
		return "QUEUE"
	case KindDequeue:
		return "DEQUEUE"
	case KindResult:
		return "RESULT"
	case KindRoundStart:
		return "ROUND_START"
	case KindRoundEnd:
		return "ROUND_END"
	}
	return "UNKNOWN"
}

// Kinds lists every event kind, in dispatch-map order.
func Kinds() []Kind {
	return []Kind{KindQueue, KindDequeue, KindResult, KindRoundStart, KindRoundEnd}
}

// Context bundles the originating container (queue context or in-game
// context) with the optional domain objects the event carries. Handlers
// assert Source to the concrete context they expect.
type Context struct {
	Source any

	Player *domain.Player
	Team   *domain.Team
	Match  *domain.Match
	Round  *domain.Round
}

// Event pairs a kind with its context.
type Event struct {
	Kind Kind
	Ctx  Context
}

// NewQueueEvent marks a team entering the queue.
func NewQueueEvent(source any, team *domain.Team) Event {
	return Event{Kind: KindQueue, Ctx: Context{Source: source, Team: team}}
}

// NewDequeueEvent marks a team leaving the queue.
func NewDequeueEvent(source any, team *domain.Team) Event {
	return Event{Kind: KindDequeue, Ctx: Context{Source: source, Team: team}}
}

// NewResultEvent marks a reported result for a match of an ongoing round.
func NewResultEvent(source any, match *domain.Match) Event {
	return Event{Kind: KindResult, Ctx: Context{Source: source, Match: match}}
}

// NewRoundStartEvent marks a freshly formed round.
func NewRoundStartEvent(source any, round *domain.Round) Event {
	return Event{Kind: KindRoundStart, Ctx: Context{Source: source, Round: round}}
}

// NewRoundEndEvent marks a round whose every match has reported.
func NewRoundEndEvent(source any, round *domain.Round) Event {
	return Event{Kind: KindRoundEnd, Ctx: Context{Source: source, Round: round}}
}

// Handler reacts to events of a single kind. Tag identifies the handler for
// registration and removal. A handler whose Requeue reports false is
// deregistered after its first invocation, as is any handler that returns
// an error from Handle.
type Handler interface {
	Kind() Kind
	Tag() int64
	IsReady(ctx Context) bool
	Handle(ctx Context) error
	Requeue() bool
}
