package broadcast

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"time"

	"github.com/sirupsen/logrus"

	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
)

func handlerTag(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

// RoundStartHandler publishes a RoundStartMessage whenever a round forms.
type RoundStartHandler struct {
	publisher Publisher
	timeout   time.Duration
	log       *logrus.Logger
}

// NewRoundStartHandler builds the start announcer over publisher.
func NewRoundStartHandler(publisher Publisher, timeout time.Duration, log *logrus.Logger) *RoundStartHandler {
	return &RoundStartHandler{publisher: publisher, timeout: timeout, log: log}
}

func (h *RoundStartHandler) Kind() events.Kind { return events.KindRoundStart }
func (h *RoundStartHandler) Tag() int64        { return handlerTag("RoundStartHandler") }
func (h *RoundStartHandler) Requeue() bool     { return true }

func (h *RoundStartHandler) IsReady(ctx events.Context) bool {
	_, ok := ctx.Source.(*matchmaker.InGameContext)
	return ok && ctx.Round != nil
}

func (h *RoundStartHandler) Handle(ctx events.Context) error {
	game, ok := ctx.Source.(*matchmaker.InGameContext)
	if !ok {
		return events.NewHandlingError(h, "expected an in-game context for a ROUND_START event")
	}

	payload, err := json.Marshal(NewRoundStartMessage(game))
	if err != nil {
		return events.WrapHandlingError(h, err, "unable to encode round start message")
	}

	cctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.publisher.Publish(cctx, ChannelRoundStart, payload); err != nil {
		return events.WrapHandlingError(h, err, "unable to publish round start")
	}

	h.log.WithFields(logrus.Fields{
		"round_id": ctx.Round.RoundID,
		"channel":  ChannelRoundStart,
	}).Debug("Round start published")
	return nil
}

// RoundEndHandler publishes a RoundEndMessage whenever a round completes.
type RoundEndHandler struct {
	publisher Publisher
	timeout   time.Duration
	log       *logrus.Logger
}

// NewRoundEndHandler builds the end announcer over publisher.
func NewRoundEndHandler(publisher Publisher, timeout time.Duration, log *logrus.Logger) *RoundEndHandler {
	return &RoundEndHandler{publisher: publisher, timeout: timeout, log: log}
}

func (h *RoundEndHandler) Kind() events.Kind { return events.KindRoundEnd }
func (h *RoundEndHandler) Tag() int64        { return handlerTag("RoundEndHandler") }
func (h *RoundEndHandler) Requeue() bool     { return true }

func (h *RoundEndHandler) IsReady(ctx events.Context) bool {
	_, ok := ctx.Source.(*matchmaker.InGameContext)
	return ok && ctx.Round != nil
}

func (h *RoundEndHandler) Handle(ctx events.Context) error {
	game, ok := ctx.Source.(*matchmaker.InGameContext)
	if !ok {
		return events.NewHandlingError(h, "expected an in-game context for a ROUND_END event")
	}

	payload, err := json.Marshal(NewRoundEndMessage(game, ctx.Round))
	if err != nil {
		return events.WrapHandlingError(h, err, "unable to encode round end message")
	}

	cctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.publisher.Publish(cctx, ChannelRoundEnd, payload); err != nil {
		return events.WrapHandlingError(h, err, "unable to publish round end")
	}

	h.log.WithFields(logrus.Fields{
		"round_id": ctx.Round.RoundID,
		"channel":  ChannelRoundEnd,
	}).Debug("Round end published")
	return nil
}
