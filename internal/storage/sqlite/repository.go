package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"eloqueue/internal/domain"
)

// ErrNotFound is returned by Get* methods when no row matches.
var ErrNotFound = errors.New("not found")

// PlayerRepository stores registered players.
type PlayerRepository interface {
	Upsert(ctx context.Context, player *domain.Player) error
	Exists(ctx context.Context, discordID int64) (bool, error)
	GetByID(ctx context.Context, discordID int64) (*domain.Player, error)
}

// TeamRepository stores teams and serves the Elo standings. Team Elo is
// reconstructed as baseElo plus the team's accumulated result deltas.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, teamID int64, baseElo int) (*domain.Team, error)
	GetByName(ctx context.Context, name string, baseElo int) (*domain.Team, error)
	NameExists(ctx context.Context, name string) (bool, error)
	PairedTeam(ctx context.Context, playerOne, playerTwo int64) (string, bool, error)
	Leaderboard(ctx context.Context, baseElo, limit int) ([]LeaderboardEntry, error)
}

// RoundRepository stores completed rounds.
type RoundRepository interface {
	Insert(ctx context.Context, round *domain.Round) error
	GetByID(ctx context.Context, roundID int64) (*domain.Round, error)
	NextRoundID(ctx context.Context) (int64, error)
}

// MatchRepository stores reported matches together with their two results.
type MatchRepository interface {
	InsertWithResults(ctx context.Context, match *domain.Match) error
}

// Storage bundles the repositories over one database handle.
type Storage struct {
	Players PlayerRepository
	Teams   TeamRepository
	Rounds  RoundRepository
	Matches MatchRepository

	db *sqlx.DB
}

// NewStorage wires the repositories over db.
func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Players: &playerRepository{db: db},
		Teams:   &teamRepository{db: db},
		Rounds:  &roundRepository{db: db},
		Matches: &matchRepository{db: db},
		db:      db,
	}
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

type playerRepository struct {
	db *sqlx.DB
}

func (r *playerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	const query = `INSERT INTO player (discord_id, name) VALUES (:discord_id, :name)
	               ON CONFLICT (discord_id) DO UPDATE SET name = excluded.name`
	if _, err := r.db.NamedExecContext(ctx, query, player); err != nil {
		return fmt.Errorf("unable to upsert player %d: %w", player.DiscordID, err)
	}
	return nil
}

func (r *playerRepository) Exists(ctx context.Context, discordID int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM player WHERE discord_id = ?`, discordID)
	if err != nil {
		return false, fmt.Errorf("unable to check player %d: %w", discordID, err)
	}
	return count > 0, nil
}

func (r *playerRepository) GetByID(ctx context.Context, discordID int64) (*domain.Player, error) {
	var player domain.Player
	err := r.db.GetContext(ctx, &player, `SELECT discord_id, name FROM player WHERE discord_id = ?`, discordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get player %d: %w", discordID, err)
	}
	return &player, nil
}

type teamRepository struct {
	db *sqlx.DB
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `INSERT INTO team (name, player_one, player_two) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, team.Name, team.PlayerOne.DiscordID, team.PlayerTwo.DiscordID)
	if err != nil {
		return fmt.Errorf("unable to create team %q: %w", team.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("unable to read id of team %q: %w", team.Name, err)
	}
	team.TeamID = id
	return nil
}

const teamDetailsQuery = `SELECT team_id, name,
       player_one_id, player_one_name, player_two_id, player_two_name,
       delta_sum, results_played
FROM team_details_with_delta`

func (r *teamRepository) GetByID(ctx context.Context, teamID int64, baseElo int) (*domain.Team, error) {
	var row teamRow
	err := r.db.GetContext(ctx, &row, teamDetailsQuery+` WHERE team_id = ?`, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get team %d: %w", teamID, err)
	}
	return row.toDomain(baseElo), nil
}

func (r *teamRepository) GetByName(ctx context.Context, name string, baseElo int) (*domain.Team, error) {
	var row teamRow
	err := r.db.GetContext(ctx, &row, teamDetailsQuery+` WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get team %q: %w", name, err)
	}
	return row.toDomain(baseElo), nil
}

func (r *teamRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM team WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("unable to check team name %q: %w", name, err)
	}
	return count > 0, nil
}

// PairedTeam returns the name of the team already registered for the
// unordered player pair, if any. Each pair of players may form one team.
func (r *teamRepository) PairedTeam(ctx context.Context, playerOne, playerTwo int64) (string, bool, error) {
	const query = `SELECT name FROM team
	               WHERE (player_one = ? AND player_two = ?)
	                  OR (player_one = ? AND player_two = ?)`
	var name string
	err := r.db.GetContext(ctx, &name, query, playerOne, playerTwo, playerTwo, playerOne)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("unable to check pair (%d, %d): %w", playerOne, playerTwo, err)
	}
	return name, true, nil
}

func (r *teamRepository) Leaderboard(ctx context.Context, baseElo, limit int) ([]LeaderboardEntry, error) {
	var rows []teamRow
	err := r.db.SelectContext(ctx, &rows, teamDetailsQuery+` ORDER BY delta_sum DESC, name ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to load leaderboard: %w", err)
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			Team:   row.toDomain(baseElo),
			Played: row.ResultsPlayed,
		})
	}
	return entries, nil
}

type roundRepository struct {
	db *sqlx.DB
}

func (r *roundRepository) Insert(ctx context.Context, round *domain.Round) error {
	const query = `INSERT INTO round (round_id, start_time, end_time, participants)
	               VALUES (:round_id, :start_time, :end_time, :participants)`
	row := roundRow{
		RoundID:      round.RoundID,
		StartTime:    round.StartTime,
		EndTime:      round.EndTime,
		Participants: round.Participants,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("unable to insert round %d: %w", round.RoundID, err)
	}
	return nil
}

func (r *roundRepository) GetByID(ctx context.Context, roundID int64) (*domain.Round, error) {
	var row roundRow
	err := r.db.GetContext(ctx, &row, `SELECT round_id, start_time, end_time, participants FROM round WHERE round_id = ?`, roundID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get round %d: %w", roundID, err)
	}
	return row.toDomain(), nil
}

// NextRoundID returns the id the next round should carry, one past the
// highest persisted round. An empty table yields 1.
func (r *roundRepository) NextRoundID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.GetContext(ctx, &next, `SELECT COALESCE(MAX(round_id), 0) + 1 FROM round`)
	if err != nil {
		return 0, fmt.Errorf("unable to compute next round id: %w", err)
	}
	return next, nil
}

type matchRepository struct {
	db *sqlx.DB
}

// InsertWithResults stores the match and both of its results in one
// transaction. The round must already be persisted.
func (r *matchRepository) InsertWithResults(ctx context.Context, match *domain.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertResult := func(result *domain.Result) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO result (team_id, points, delta) VALUES (?, ?, ?)`,
			result.Team.TeamID, result.Points, result.Delta)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	one, err := insertResult(match.TeamOne)
	if err != nil {
		return fmt.Errorf("unable to insert result for team %d: %w", match.TeamOne.Team.TeamID, err)
	}
	two, err := insertResult(match.TeamTwo)
	if err != nil {
		return fmt.Errorf("unable to insert result for team %d: %w", match.TeamTwo.Team.TeamID, err)
	}
	match.TeamOne.ResultID = one
	match.TeamTwo.ResultID = two

	oddsRatio := match.OddsRatio
	if oddsRatio == 0 {
		oddsRatio = 1.0
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (round_id, result_one, result_two, odds_ratio) VALUES (?, ?, ?, ?)`,
		match.Round.RoundID, one, two, oddsRatio)
	if err != nil {
		return fmt.Errorf("unable to insert match of round %d: %w", match.Round.RoundID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit match of round %d: %w", match.Round.RoundID, err)
	}
	return nil
}
