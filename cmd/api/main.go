package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatherhub/gatherhub/internal/cache"
	"github.com/gatherhub/gatherhub/internal/config"
	"github.com/gatherhub/gatherhub/internal/db"
	"github.com/gatherhub/gatherhub/internal/directory"
	httpx "github.com/gatherhub/gatherhub/internal/http"
	"github.com/gatherhub/gatherhub/internal/observability"
	"github.com/gatherhub/gatherhub/internal/queue"
	"github.com/gatherhub/gatherhub/internal/queue/redisclient"
	"github.com/gatherhub/gatherhub/internal/repo/memory"
	"github.com/gatherhub/gatherhub/internal/repo/postgres"
	"github.com/gatherhub/gatherhub/internal/service"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional, real environments set vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is on only when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)

		shutdownTracer, err := observability.InitTracer(ctx, "gatherhub-api", cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	deps := httpx.Deps{Gatherer: registry}

	// store wiring: explicit instances passed by ownership, no singletons
	switch cfg.Store {
	case "postgres":
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		ctx, cancel := config.WithTimeout(5 * time.Second)
		err = db.EnsureSchema(ctx, pool)
		cancel()

		if err != nil {
			log.Error("schema setup failed", "err", err)
			os.Exit(1)
		}

		deps.Users = postgres.NewUsersRepo(pool)
		deps.Events = postgres.NewEventsRepo(pool)
		deps.Ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}

		wireEngine(&deps, cfg, postgres.NewRegistrationsRepo(pool, prom), log)

	default:
		deps.Users = memory.NewUsersRepo()
		deps.Events = memory.NewEventsRepo()

		wireEngine(&deps, cfg, memory.NewRegistrationsRepo(), log)
	}

	router := httpx.NewRouter(log, cfg, prom, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// wireEngine builds the registration engine on top of whichever store was
// selected, fronting event lookups with the TTL cache and attaching the
// redis publisher when configured.
func wireEngine(deps *httpx.Deps, cfg config.Config, store service.RegistrationStore, log *slog.Logger) {
	events := directory.NewCachedEvents(deps.Events, cache.New(cfg.EventCacheTTL))
	deps.InvalidateEvent = events.Invalidate

	var enqueuer service.Enqueuer

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		enqueuer = queue.NewPublisher(rc, cfg.QueueKey)
	}

	deps.Engine = service.NewRegistrationService(store, deps.Users, events, enqueuer, log)
}
