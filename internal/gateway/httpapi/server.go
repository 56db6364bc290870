// Package httpapi is the service surface of the engine: registration,
// queueing, result reporting, read views and the admin knobs, all routed
// through the matchmaker façade which serializes internally.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"eloqueue/internal/metrics"
	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
	"eloqueue/internal/storage/sqlite"
)

// Server carries the gateway's dependencies. externals are the side-effect
// handlers (persistence, broadcast, metrics) re-registered after an admin
// reset, which clears the event map.
type Server struct {
	log        *logrus.Logger
	mm         *matchmaker.MatchMaker
	storage    *sqlite.Storage
	collectors *metrics.Collectors
	registry   *prometheus.Registry
	externals  []events.Handler

	http *http.Server
}

// NewServer builds the gateway listening on addr.
func NewServer(
	addr string,
	log *logrus.Logger,
	mm *matchmaker.MatchMaker,
	storage *sqlite.Storage,
	collectors *metrics.Collectors,
	registry *prometheus.Registry,
	externals []events.Handler,
) *Server {
	s := &Server{
		log:        log,
		mm:         mm,
		storage:    storage,
		collectors: collectors,
		registry:   registry,
		externals:  externals,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router assembles the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Route("/api", func(r chi.Router) {
		r.Post("/teams", s.registerTeam)
		r.Get("/teams/{name}", s.getTeam)
		r.Get("/leaderboard", s.leaderboard)

		r.Get("/queue", s.getQueue)
		r.Post("/queue", s.queueTeam)
		r.Delete("/queue", s.dequeueTeam)

		r.Get("/games", s.getGames)
		r.Post("/results", s.insertResult)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/threshold", s.setThreshold)
			r.Post("/principal", s.setPrincipal)
			r.Post("/reset", s.reset)
			r.Post("/clear-queue", s.clearQueue)
			r.Post("/clear-history", s.clearHistory)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// requestID stamps every request with a uuid, echoed in the response and
// attached to the request log line.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("Request received")
		next.ServeHTTP(w, r)
	})
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.WithField("addr", s.http.Addr).Info("HTTP gateway listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
