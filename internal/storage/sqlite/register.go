package sqlite

import (
	"context"
	"errors"
	"fmt"

	"eloqueue/internal/domain"
)

// Registration failures surfaced to the gateway.
var (
	ErrInvalidRegistration = errors.New("registration requires a team name and two identified players")
	ErrSelfTeam            = errors.New("a player cannot form a team with themselves")
	ErrNameTaken           = errors.New("team name is already taken")
)

// DuplicatePairError reports a player pair that already registered a team.
type DuplicatePairError struct {
	ExistingTeam string
}

func (e *DuplicatePairError) Error() string {
	return fmt.Sprintf("players are already registered as team %q", e.ExistingTeam)
}

// RegisterTeam creates a team for two players, creating the players on
// first sight. Each team name and each unordered player pair is unique.
// The returned team starts at baseElo.
func (s *Storage) RegisterTeam(ctx context.Context, name string, playerOne, playerTwo *domain.Player, baseElo int) (*domain.Team, error) {
	if name == "" || !playerOne.Valid() || !playerTwo.Valid() {
		return nil, ErrInvalidRegistration
	}
	if playerOne.Equal(playerTwo) {
		return nil, ErrSelfTeam
	}

	taken, err := s.Teams.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	existing, paired, err := s.Teams.PairedTeam(ctx, playerOne.DiscordID, playerTwo.DiscordID)
	if err != nil {
		return nil, err
	}
	if paired {
		return nil, &DuplicatePairError{ExistingTeam: existing}
	}

	if err := s.Players.Upsert(ctx, playerOne); err != nil {
		return nil, err
	}
	if err := s.Players.Upsert(ctx, playerTwo); err != nil {
		return nil, err
	}

	team := &domain.Team{
		Name:      name,
		PlayerOne: playerOne,
		PlayerTwo: playerTwo,
		Elo:       float64(baseElo),
	}
	if err := s.Teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}
