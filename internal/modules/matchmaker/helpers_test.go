package matchmaker

import (
	"fmt"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"eloqueue/internal/domain"
)

func testLogger() *logrus.Logger {
	log, _ := logtest.NewNullLogger()
	return log
}

func testPlayer(id int64) *domain.Player {
	return &domain.Player{DiscordID: id, Name: fmt.Sprintf("p%d", id)}
}

// testTeam builds team id with players 2*id-1 and 2*id, so player ids never
// collide across teams.
func testTeam(id int64, elo float64) *domain.Team {
	return &domain.Team{
		TeamID:    id,
		Name:      fmt.Sprintf("team%d", id),
		PlayerOne: testPlayer(2*id - 1),
		PlayerTwo: testPlayer(2 * id),
		Elo:       elo,
	}
}

func pairing(t1, t2 *domain.Team) *domain.Match {
	return &domain.Match{
		TeamOne: &domain.Result{Team: t1},
		TeamTwo: &domain.Result{Team: t2},
	}
}
