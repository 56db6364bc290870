package sqlite

import (
	"time"

	"eloqueue/internal/domain"
)

// teamRow mirrors the team_details_with_delta view. A team's Elo is not a
// stored column; it is the configured base plus the sum of its deltas.
type teamRow struct {
	TeamID        int64   `db:"team_id"`
	Name          string  `db:"name"`
	PlayerOneID   int64   `db:"player_one_id"`
	PlayerOneName string  `db:"player_one_name"`
	PlayerTwoID   int64   `db:"player_two_id"`
	PlayerTwoName string  `db:"player_two_name"`
	DeltaSum      float64 `db:"delta_sum"`
	ResultsPlayed int     `db:"results_played"`
}

func (r *teamRow) toDomain(baseElo int) *domain.Team {
	return &domain.Team{
		TeamID: r.TeamID,
		Name:   r.Name,
		PlayerOne: &domain.Player{
			DiscordID: r.PlayerOneID,
			Name:      r.PlayerOneName,
		},
		PlayerTwo: &domain.Player{
			DiscordID: r.PlayerTwoID,
			Name:      r.PlayerTwoName,
		},
		Elo: float64(baseElo) + r.DeltaSum,
	}
}

type roundRow struct {
	RoundID      int64      `db:"round_id"`
	StartTime    time.Time  `db:"start_time"`
	EndTime      *time.Time `db:"end_time"`
	Participants int        `db:"participants"`
}

func (r *roundRow) toDomain() *domain.Round {
	return &domain.Round{
		RoundID:      r.RoundID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Participants: r.Participants,
	}
}

// LeaderboardEntry is one row of the standings, ordered by Elo.
type LeaderboardEntry struct {
	Rank   int          `json:"rank"`
	Team   *domain.Team `json:"team"`
	Played int          `json:"played"`
}
