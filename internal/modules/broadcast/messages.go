package broadcast

import (
	"time"

	"github.com/google/uuid"

	"eloqueue/internal/domain"
	"eloqueue/internal/modules/matchmaker"
)

// Envelope frames every published message with a unique id, the message
// kind and the send timestamp.
type Envelope struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	SentAt time.Time `json:"sent_at"`
}

// SideSummary is one team's view of a match. Points carry the expected
// score at round start and the reported score at round end.
type SideSummary struct {
	Team   string  `json:"team"`
	Elo    float64 `json:"elo"`
	Points float64 `json:"points"`
	Delta  float64 `json:"delta,omitempty"`
}

// MatchSummary pairs the two sides of one match.
type MatchSummary struct {
	MatchID int64       `json:"match_id"`
	TeamOne SideSummary `json:"team_one"`
	TeamTwo SideSummary `json:"team_two"`
}

// RoundStartMessage announces a freshly formed round with the expected
// score of every match.
type RoundStartMessage struct {
	Envelope
	RoundID   int64          `json:"round_id"`
	Principal string         `json:"principal"`
	Matches   []MatchSummary `json:"matches"`
}

// RoundEndMessage announces a completed round with the reported points and
// the Elo deltas of every match.
type RoundEndMessage struct {
	Envelope
	RoundID  int64          `json:"round_id"`
	Duration string         `json:"duration"`
	Matches  []MatchSummary `json:"matches"`
}

func summarize(matches []*domain.Match) []MatchSummary {
	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchSummary{
			MatchID: m.MatchID,
			TeamOne: SideSummary{
				Team:   m.TeamOne.Team.Name,
				Elo:    m.TeamOne.Team.Elo,
				Points: m.TeamOne.Points,
				Delta:  m.TeamOne.Delta,
			},
			TeamTwo: SideSummary{
				Team:   m.TeamTwo.Team.Name,
				Elo:    m.TeamTwo.Team.Elo,
				Points: m.TeamTwo.Points,
				Delta:  m.TeamTwo.Delta,
			},
		})
	}
	return out
}

// NewRoundStartMessage builds the start announcement for the round the
// context tracks.
func NewRoundStartMessage(game *matchmaker.InGameContext) RoundStartMessage {
	return RoundStartMessage{
		Envelope: Envelope{
			ID:     uuid.New(),
			Kind:   "round_start",
			SentAt: time.Now(),
		},
		RoundID:   game.Round().RoundID,
		Principal: game.Principal().Name(),
		Matches:   summarize(game.Matches()),
	}
}

// NewRoundEndMessage builds the end announcement for a completed round.
func NewRoundEndMessage(game *matchmaker.InGameContext, round *domain.Round) RoundEndMessage {
	return RoundEndMessage{
		Envelope: Envelope{
			ID:     uuid.New(),
			Kind:   "round_end",
			SentAt: time.Now(),
		},
		RoundID:  round.RoundID,
		Duration: round.Duration().String(),
		Matches:  summarize(game.Matches()),
	}
}
