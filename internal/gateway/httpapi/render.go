package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
	"eloqueue/internal/storage/sqlite"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("Unable to encode response")
	}
}

// writeError maps the engine's error taxonomy onto HTTP statuses. Handler
// failures during dispatch count toward the error metric; the underlying
// state mutation has already been applied when one surfaces.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var handling *events.HandlingError
	if errors.As(err, &handling) {
		s.collectors.HandlerErrors.Inc()
		s.log.WithError(err).Error("Handler failed during dispatch")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	var (
		missingFields *matchmaker.MissingFieldsError
		alreadyQueued *matchmaker.AlreadyQueuedError
		notQueued     *matchmaker.NotQueuedError
		gameExists    *matchmaker.GameAlreadyExistError
		gameEnded     *matchmaker.GameEndedError
		matchNotFound *matchmaker.MatchNotFoundError
		duplicate     *matchmaker.DuplicateResultError
		noContext     *matchmaker.MissingContextError
		duplicatePair *sqlite.DuplicatePairError
	)
	switch {
	case errors.As(err, &missingFields):
		return http.StatusBadRequest
	case errors.As(err, &alreadyQueued):
		return http.StatusConflict
	case errors.As(err, &notQueued):
		return http.StatusNotFound
	case errors.As(err, &gameExists):
		return http.StatusConflict
	case errors.As(err, &gameEnded):
		return http.StatusConflict
	case errors.As(err, &matchNotFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &noContext):
		return http.StatusNotFound
	case errors.As(err, &duplicatePair):
		return http.StatusConflict
	case errors.Is(err, sqlite.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sqlite.ErrInvalidRegistration):
		return http.StatusBadRequest
	case errors.Is(err, sqlite.ErrSelfTeam):
		return http.StatusBadRequest
	case errors.Is(err, sqlite.ErrNameTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
