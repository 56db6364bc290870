package sqlite

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/sirupsen/logrus"

	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
)

// PersistResultsHandler is the durable sink of completed rounds: on every
// round end it writes the round, its matches and their results, then folds
// each delta into the in-memory team Elo so the next round forms against
// updated ratings.
type PersistResultsHandler struct {
	storage *Storage
	timeout time.Duration
	log     *logrus.Logger
}

// NewPersistResultsHandler builds the sink over storage. timeout bounds
// each round's write; dispatch is synchronous.
func NewPersistResultsHandler(storage *Storage, timeout time.Duration, log *logrus.Logger) *PersistResultsHandler {
	return &PersistResultsHandler{storage: storage, timeout: timeout, log: log}
}

func (h *PersistResultsHandler) Kind() events.Kind { return events.KindRoundEnd }

func (h *PersistResultsHandler) Tag() int64 {
	f := fnv.New64a()
	f.Write([]byte("PersistResultsHandler"))
	return int64(f.Sum64())
}

func (h *PersistResultsHandler) Requeue() bool { return true }

func (h *PersistResultsHandler) IsReady(ctx events.Context) bool {
	_, ok := ctx.Source.(*matchmaker.InGameContext)
	return ok && ctx.Round != nil
}

func (h *PersistResultsHandler) Handle(ctx events.Context) error {
	game, ok := ctx.Source.(*matchmaker.InGameContext)
	if !ok {
		return events.NewHandlingError(h, "expected an in-game context for a ROUND_END event")
	}

	cctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.storage.Rounds.Insert(cctx, ctx.Round); err != nil {
		return events.WrapHandlingError(h, err, "unable to persist round")
	}
	for _, match := range game.Matches() {
		if err := h.storage.Matches.InsertWithResults(cctx, match); err != nil {
			return events.WrapHandlingError(h, err, "unable to persist match")
		}
		match.TeamOne.Team.Elo += match.TeamOne.Delta
		match.TeamTwo.Team.Elo += match.TeamTwo.Delta
	}

	h.log.WithFields(logrus.Fields{
		"round_id": ctx.Round.RoundID,
		"matches":  len(game.Matches()),
	}).Info("Round persisted")
	return nil
}
