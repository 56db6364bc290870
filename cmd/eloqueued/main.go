package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"eloqueue/internal/config"
	"eloqueue/internal/gateway/httpapi"
	"eloqueue/internal/logging"
	"eloqueue/internal/metrics"
	"eloqueue/internal/modules/broadcast"
	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
	"eloqueue/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to the JSON config file")
	flag.Parse()

	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("Unable to load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	handlerTimeout := time.Duration(cfg.HandlerTimeoutSeconds) * time.Second

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Unable to open database")
	}
	if err := sqlite.Migrate(db, log); err != nil {
		log.WithError(err).Fatal("Unable to migrate database")
	}
	storage := sqlite.NewStorage(db)
	defer storage.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()

	nextRound, err := storage.Rounds.NextRoundID(bootCtx)
	if err != nil {
		log.WithError(err).Fatal("Unable to seed round counter")
	}
	mm := matchmaker.New(log, cfg.MatchMaker, nextRound)
	log.WithFields(logrus.Fields{
		"round_id":  nextRound,
		"principal": cfg.MatchMaker.Principal,
		"threshold": cfg.MatchMaker.TriggerThreshold,
	}).Info("Matchmaker ready")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	engineMetrics := metrics.NewCollectors(registry)

	externals := []events.Handler{
		sqlite.NewPersistResultsHandler(storage, handlerTimeout, log),
	}
	externals = append(externals, metrics.Handlers(engineMetrics)...)

	if cfg.Redis.Enabled {
		publisher, err := broadcast.NewRedisPublisher(bootCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.WithError(err).Fatal("Unable to connect to redis")
		}
		defer publisher.Close()
		externals = append(externals,
			broadcast.NewRoundStartHandler(publisher, handlerTimeout, log),
			broadcast.NewRoundEndHandler(publisher, handlerTimeout, log),
		)
	}
	for _, h := range externals {
		mm.RegisterHandler(h)
	}

	server := httpapi.NewServer(cfg.HTTPAddr, log, mm, storage, engineMetrics, registry, externals)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("HTTP gateway failed")
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown incomplete")
		}
	}
}
