package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eloqueue/internal/domain"
	"eloqueue/internal/modules/matchmaker"
)

type playerPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (p playerPayload) toDomain() *domain.Player {
	return &domain.Player{DiscordID: p.ID, Name: p.Name}
}

type registerTeamRequest struct {
	Name      string        `json:"name"`
	PlayerOne playerPayload `json:"player_one"`
	PlayerTwo playerPayload `json:"player_two"`
}

func (s *Server) registerTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	team, err := s.storage.RegisterTeam(r.Context(), req.Name,
		req.PlayerOne.toDomain(), req.PlayerTwo.toDomain(), s.mm.Config().BaseElo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, team)
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	team, err := s.storage.Teams.GetByName(r.Context(), name, s.mm.Config().BaseElo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.storage.Teams.Leaderboard(r.Context(), s.mm.Config().BaseElo, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

type queueView struct {
	RoundID   int64          `json:"round_id"`
	Size      int            `json:"size"`
	Threshold int            `json:"threshold"`
	Teams     []*domain.Team `json:"teams"`
}

func (s *Server) getQueue(w http.ResponseWriter, _ *http.Request) {
	teams := s.mm.GetQueue()
	s.writeJSON(w, http.StatusOK, queueView{
		RoundID:   s.mm.CurrentRoundID(),
		Size:      len(teams),
		Threshold: s.mm.Config().TriggerThreshold,
		Teams:     teams,
	})
}

type queueRequest struct {
	Team string `json:"team"`
}

func (s *Server) queueTeam(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	team, err := s.storage.Teams.GetByName(r.Context(), req.Team, s.mm.Config().BaseElo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.mm.GetMatchOfPlayer(team.PlayerOne) != nil || s.mm.GetMatchOfPlayer(team.PlayerTwo) != nil {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "team is playing an ongoing round"})
		return
	}

	if err := s.mm.QueueTeam(team); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, queueView{
		RoundID:   s.mm.CurrentRoundID(),
		Size:      len(s.mm.GetQueue()),
		Threshold: s.mm.Config().TriggerThreshold,
	})
}

func (s *Server) dequeueTeam(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	team, err := s.storage.Teams.GetByName(r.Context(), req.Team, s.mm.Config().BaseElo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.mm.DequeueTeam(team); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, queueView{
		RoundID:   s.mm.CurrentRoundID(),
		Size:      len(s.mm.GetQueue()),
		Threshold: s.mm.Config().TriggerThreshold,
	})
}

type sideView struct {
	Team   string  `json:"team"`
	Elo    float64 `json:"elo"`
	Points float64 `json:"points"`
	Delta  float64 `json:"delta"`
}

type matchView struct {
	MatchID int64    `json:"match_id"`
	TeamOne sideView `json:"team_one"`
	TeamTwo sideView `json:"team_two"`
}

type gameView struct {
	RoundID   int64       `json:"round_id"`
	Principal string      `json:"principal"`
	Complete  bool        `json:"complete"`
	Matches   []matchView `json:"matches"`
}

func side(result *domain.Result) sideView {
	return sideView{
		Team:   result.Team.Name,
		Elo:    result.Team.Elo,
		Points: result.Points,
		Delta:  result.Delta,
	}
}

func (s *Server) getGames(w http.ResponseWriter, _ *http.Request) {
	games := s.mm.GetGames()
	views := make([]gameView, 0, len(games))
	for _, game := range games {
		matches := game.Matches()
		view := gameView{
			RoundID:   game.Round().RoundID,
			Principal: game.Principal().Name(),
			Complete:  game.IsComplete(),
			Matches:   make([]matchView, 0, len(matches)),
		}
		for _, m := range matches {
			view.Matches = append(view.Matches, matchView{
				MatchID: m.MatchID,
				TeamOne: side(m.TeamOne),
				TeamTwo: side(m.TeamTwo),
			})
		}
		views = append(views, view)
	}
	s.writeJSON(w, http.StatusOK, views)
}

type resultRequest struct {
	MatchID   int64   `json:"match_id"`
	RoundID   int64   `json:"round_id"`
	PointsOne float64 `json:"points_one"`
	PointsTwo float64 `json:"points_two"`
}

type resultResponse struct {
	MatchID  int64   `json:"match_id"`
	RoundID  int64   `json:"round_id"`
	DeltaOne float64 `json:"delta_one"`
	DeltaTwo float64 `json:"delta_two"`
}

// insertResult resolves the reported match among the ongoing rounds.
// Match ids restart per round, so RoundID disambiguates when more than one
// round is in flight; without it the first carrier of the id wins.
func (s *Server) insertResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var report *domain.Match
	for _, game := range s.mm.GetGames() {
		if req.RoundID != 0 && game.Round().RoundID != req.RoundID {
			continue
		}
		for _, m := range game.Matches() {
			if m.MatchID != req.MatchID {
				continue
			}
			report = &domain.Match{
				MatchID: req.MatchID,
				Round:   game.Round(),
				TeamOne: &domain.Result{Team: m.TeamOne.Team, Points: req.PointsOne},
				TeamTwo: &domain.Result{Team: m.TeamTwo.Team, Points: req.PointsTwo},
			}
			break
		}
		if report != nil {
			break
		}
	}
	if report == nil {
		s.writeError(w, &matchmaker.MissingContextError{Result: &domain.Match{MatchID: req.MatchID}})
		return
	}

	if err := s.mm.InsertResult(report); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{
		MatchID:  report.MatchID,
		RoundID:  report.Round.RoundID,
		DeltaOne: report.TeamOne.Delta,
		DeltaTwo: report.TeamTwo.Delta,
	})
}

type thresholdRequest struct {
	Threshold int `json:"threshold"`
}

func (s *Server) setThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decode(r, &req); err != nil || req.Threshold < 2 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "threshold must be at least 2"})
		return
	}
	s.mm.SetThreshold(req.Threshold)
	s.writeJSON(w, http.StatusNoContent, nil)
}

type principalRequest struct {
	Principal string `json:"principal"`
}

func (s *Server) setPrincipal(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := decode(r, &req); err != nil || req.Principal == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "principal must be set"})
		return
	}
	s.mm.SetPrincipal(req.Principal)
	s.writeJSON(w, http.StatusNoContent, nil)
}

// reset clears the engine state. The event map is rebuilt, so the
// side-effect handlers are registered again afterwards.
func (s *Server) reset(w http.ResponseWriter, _ *http.Request) {
	s.mm.Reset()
	for _, h := range s.externals {
		s.mm.RegisterHandler(h)
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) clearQueue(w http.ResponseWriter, _ *http.Request) {
	s.mm.ClearQueue()
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) clearHistory(w http.ResponseWriter, _ *http.Request) {
	s.mm.ClearHistory()
	s.writeJSON(w, http.StatusNoContent, nil)
}
