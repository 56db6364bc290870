package matchmaker

import (
	"math"

	"github.com/sirupsen/logrus"

	"eloqueue/internal/domain"
)

// Recognized principal names.
const (
	PrincipalMaxSum      = "max_sum"
	PrincipalMinVariance = "min_variance"
	PrincipalMaxMin      = "maxmin"
	PrincipalMinMax      = "minmax"
)

// Principal is the selection policy that maps the queued teams and the
// recent-match history to the matches of a new round. A principal is
// instantiated per round and also carries the round's Elo parameters, which
// the in-game context consults when computing deltas.
type Principal interface {
	Name() string
	Round() *domain.Round
	Config() Config
	FormMatches(teams []*domain.Team, history []*domain.Match) []*domain.Match
}

// NewPrincipal returns the principal registered under name. Unknown names
// fall back to max_sum with a warning.
func NewPrincipal(name string, round *domain.Round, config Config, log *logrus.Logger) Principal {
	core := utilityCore{round: round, config: config}
	switch name {
	case PrincipalMaxSum:
		return &maxSum{core}
	case PrincipalMinVariance:
		return &minVariance{core}
	case PrincipalMaxMin:
		return &maxMin{core}
	case PrincipalMinMax:
		return &minMax{core}
	}
	log.WithFields(logrus.Fields{
		"principal": name,
		"known":     []string{PrincipalMaxSum, PrincipalMinVariance, PrincipalMaxMin, PrincipalMinMax},
	}).Warn("Unknown principal, falling back to max_sum")
	return &maxSum{core}
}

// utilityCore implements the utility model shared by every policy.
type utilityCore struct {
	round  *domain.Round
	config Config
}

func (c *utilityCore) Round() *domain.Round { return c.round }
func (c *utilityCore) Config() Config       { return c.config }

// ExpectedScore computes the Elo expected score of lhs against rhs, scaled
// by points-per-match and rounded to 4 decimals.
func (c *utilityCore) ExpectedScore(lhs, rhs *domain.Team) float64 {
	expected := float64(c.config.PointsPerMatch) / (1 + math.Pow(10, (rhs.Elo-lhs.Elo)/400))
	return math.Round(expected*10000) / 10000
}

// PeriodFactor evaluates the diversity square wave for the current round:
// 1 while (round_id mod active)/active stays below duty_cycle/5, else 0.
func (c *utilityCore) PeriodFactor() float64 {
	active := c.config.Period.Active
	if active <= 0 {
		return 0
	}
	phase := float64(c.round.RoundID%int64(active)) / float64(active)
	if phase >= c.config.Period.DutyCycle/5 {
		return 0
	}
	return 1
}

// MatchUtility scores a candidate match and, as a side effect, stores each
// side's expected score in its result shell. The in-game context later uses
// those expected points as the delta baseline.
func (c *utilityCore) MatchUtility(match *domain.Match) float64 {
	match.TeamOne.Points = c.ExpectedScore(match.TeamOne.Team, match.TeamTwo.Team)
	match.TeamTwo.Points = c.ExpectedScore(match.TeamTwo.Team, match.TeamOne.Team)

	distance := math.Exp(-math.Abs(match.TeamOne.Points - match.TeamTwo.Points)) // (0; 1]
	return distance + c.PeriodFactor()/distance
}

// candidates enumerates every unordered pair of teams as a candidate match
// with a fresh 1-based id, dropping pairings present in history.
func (c *utilityCore) candidates(teams []*domain.Team, history []*domain.Match) []*domain.Match {
	var out []*domain.Match
	id := int64(0)
	for i := 0; i < len(teams); i++ {
	pairs:
		for j := i + 1; j < len(teams); j++ {
			id++
			candidate := &domain.Match{
				MatchID: id,
				Round:   c.round,
				TeamOne: &domain.Result{Team: teams[i]},
				TeamTwo: &domain.Result{Team: teams[j]},
			}
			for _, played := range history {
				if candidate.SamePairing(played) {
					continue pairs
				}
			}
			out = append(out, candidate)
		}
	}
	return out
}

// forEachFeasibleSet visits every size-k combination of candidates in which
// no team appears twice, in lexicographic enumeration order. Branches that
// reuse a team are pruned during the walk.
func forEachFeasibleSet(candidates []*domain.Match, k int, visit func([]*domain.Match)) {
	set := make([]*domain.Match, 0, k)
	used := make(map[int64]struct{}, 2*k)

	var walk func(start int)
	walk = func(start int) {
		if len(set) == k {
			visit(set)
			return
		}
		for i := start; i < len(candidates); i++ {
			m := candidates[i]
			t1 := m.TeamOne.Team.TeamID
			t2 := m.TeamTwo.Team.TeamID
			if _, ok := used[t1]; ok {
				continue
			}
			if _, ok := used[t2]; ok {
				continue
			}
			used[t1] = struct{}{}
			used[t2] = struct{}{}
			set = append(set, m)
			walk(i + 1)
			set = set[:len(set)-1]
			delete(used, t1)
			delete(used, t2)
		}
	}
	walk(0)
}

// pickSet folds every feasible set through score and keeps the first-seen
// extremum. When the history filter leaves no feasible set, enumeration is
// retried over the unfiltered candidates.
func (c *utilityCore) pickSet(
	teams []*domain.Team,
	history []*domain.Match,
	score func(utilities []float64) float64,
	better func(candidate, best float64) bool,
) []*domain.Match {
	if len(teams) < 2 {
		return nil
	}
	k := len(teams) / 2

	pick := c.pickFrom(c.candidates(teams, history), k, score, better)
	if pick == nil && len(history) > 0 {
		pick = c.pickFrom(c.candidates(teams, nil), k, score, better)
	}
	return pick
}

func (c *utilityCore) pickFrom(
	candidates []*domain.Match,
	k int,
	score func(utilities []float64) float64,
	better func(candidate, best float64) bool,
) []*domain.Match {
	utilities := make(map[*domain.Match]float64, len(candidates))
	for _, m := range candidates {
		utilities[m] = c.MatchUtility(m)
	}

	var best []*domain.Match
	var bestScore float64
	scratch := make([]float64, k)

	forEachFeasibleSet(candidates, k, func(set []*domain.Match) {
		for i, m := range set {
			scratch[i] = utilities[m]
		}
		s := score(scratch)
		if best == nil || better(s, bestScore) {
			bestScore = s
			best = append(best[:0:0], set...)
		}
	})
	return best
}

func sum(utilities []float64) float64 {
	total := 0.0
	for _, u := range utilities {
		total += u
	}
	return total
}

func variance(utilities []float64) float64 {
	if len(utilities) == 0 {
		return 0
	}
	mean := sum(utilities) / float64(len(utilities))
	v := 0.0
	for _, u := range utilities {
		v += (u - mean) * (u - mean)
	}
	return v / float64(len(utilities))
}

func minOf(utilities []float64) float64 {
	m := math.Inf(1)
	for _, u := range utilities {
		m = math.Min(m, u)
	}
	return m
}

func maxOf(utilities []float64) float64 {
	m := math.Inf(-1)
	for _, u := range utilities {
		m = math.Max(m, u)
	}
	return m
}

func argmax(candidate, best float64) bool { return candidate > best }
func argmin(candidate, best float64) bool { return candidate < best }

// maxSum picks the theoretical best set by total utility, which may carry a
// large variance across its matches.
type maxSum struct{ utilityCore }

func (p *maxSum) Name() string { return PrincipalMaxSum }

func (p *maxSum) FormMatches(teams []*domain.Team, history []*domain.Match) []*domain.Match {
	return p.pickSet(teams, history, sum, argmax)
}

// minVariance centers the utility of the round's matches.
type minVariance struct{ utilityCore }

func (p *minVariance) Name() string { return PrincipalMinVariance }

func (p *minVariance) FormMatches(teams []*domain.Team, history []*domain.Match) []*domain.Match {
	return p.pickSet(teams, history, variance, argmin)
}

// maxMin lifts the floor: the worst match of the set is as good as it can
// be.
type maxMin struct{ utilityCore }

func (p *maxMin) Name() string { return PrincipalMaxMin }

func (p *maxMin) FormMatches(teams []*domain.Team, history []*domain.Match) []*domain.Match {
	return p.pickSet(teams, history, minOf, argmax)
}

// minMax caps the ceiling, pushing the better teams toward diverse
// pairings.
type minMax struct{ utilityCore }

func (p *minMax) Name() string { return PrincipalMinMax }

func (p *minMax) FormMatches(teams []*domain.Team, history []*domain.Match) []*domain.Match {
	return p.pickSet(teams, history, maxOf, argmin)
}
