package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"google.golang.org/grpc"

	"github.com/krxsh13/ScamGuard/internal/api"
	"github.com/krxsh13/ScamGuard/internal/api/handlers"
	apimiddleware "github.com/krxsh13/ScamGuard/internal/api/middleware"
	"github.com/krxsh13/ScamGuard/internal/config"
	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/internal/domain/services/detection"
	grpcserver "github.com/krxsh13/ScamGuard/internal/grpc/scamcheck"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/cache"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/database"
	"github.com/krxsh13/ScamGuard/internal/infrastructure/database/repository"
	"github.com/krxsh13/ScamGuard/internal/streaming"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to config file (default: search ./, ./config, /etc/scamguard)")
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Int("keywords", detection.DefaultRuleset().KeywordCount()).
		Msg("starting ScamGuard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra := initInfrastructure(ctx, cfg, log)
	defer infra.Close()

	// Analysis side channels are optional; only configured sinks are wired
	analysisDeps := services.AnalysisDependencies{}
	var limiter apimiddleware.Limiter
	var verdictReader services.VerdictReader
	if infra.redis != nil {
		analysisDeps.Counter = infra.redis
		verdictReader = infra.redis
		limiter = infra.redis
	}

	var rollups services.RollupRepository
	if infra.db != nil {
		repos := repository.NewRepositories(infra.db.Pool())
		analysisDeps.Audits = repos.Audits
		rollups = repos.Verdicts
	}

	eventBus := streaming.NewEventBus(infra.nats, log)
	defer eventBus.Close()
	if err := eventBus.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to relay NATS events, streaming local events only")
	}
	analysisDeps.Publisher = eventBus

	wsHub := streaming.NewWebSocketHub(eventBus, log)
	go wsHub.Run(ctx)

	analysisService := services.NewAnalysisService(detection.Default(), services.AnalysisConfig{
		MaxTextBytes:      cfg.Analysis.MaxTextBytes,
		MaxBatchSize:      cfg.Analysis.MaxBatchSize,
		BatchConcurrency:  cfg.Analysis.BatchConcurrency,
		SideEffectTimeout: services.DefaultAnalysisConfig().SideEffectTimeout,
	}, analysisDeps, log)

	statsService := services.NewStatsService(verdictReader, rollups, analysisService, eventBus, log)

	var scheduler *services.Scheduler
	if cfg.Stats.RollupEnabled && verdictReader != nil && rollups != nil {
		scheduler = services.NewScheduler(services.RollerFunc(func(ctx context.Context, day time.Time) error {
			_, err := statsService.Rollup(ctx, day)
			return err
		}), cfg.Stats.RollupSchedule, log)
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
	}

	checks := infra.checks()
	httpChecks := make(map[string]handlers.ReadinessCheck, len(checks))
	grpcChecks := make(map[string]grpcserver.HealthCheck, len(checks))
	for name, check := range checks {
		httpChecks[name] = check
		grpcChecks[name] = check
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Analysis:       analysisService,
		Stats:          statsService,
		Hub:            wsHub,
		EventBus:       eventBus,
		Checks:         httpChecks,
		Version:        cfg.App.Version,
		MaxUploadBytes: cfg.Analysis.MaxUploadBytes,
		Logger:         log,
	})

	router := api.NewRouter(*cfg, h, limiter, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	var grpcServer *grpc.Server
	if cfg.Server.GRPCEnabled {
		grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create gRPC listener")
		}

		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor(log)))
		grpcserver.NewServer(analysisService, log).Register(grpcServer)
		grpcserver.RegisterHealthServer(ctx, grpcServer, grpcChecks, log)

		go func() {
			log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
			if err := grpcServer.Serve(grpcListener); err != nil {
				log.Fatal().Err(err).Msg("gRPC server failed")
			}
		}()
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	log.Info().Msg("shutdown complete")
}

// infrastructure holds the optional backing services. A nil field means the
// service is disabled or unreachable.
type infrastructure struct {
	db    *database.PostgresDB
	redis *cache.RedisCache
	nats  *streaming.NATSPublisher
}

// initInfrastructure connects the enabled backing services. Failures degrade
// to running without the service; the engine itself needs none of them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) *infrastructure {
	infra := &infrastructure{}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without audit and rollups")
		} else if cfg.Database.MigrateOnStart {
			if err := db.Migrate(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to run migrations, continuing without database")
				db.Close()
			} else {
				infra.db = db
			}
		} else {
			infra.db = db
		}
	}

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without counters and rate limiting")
		} else {
			infra.redis = redisCache
		}
	}

	if cfg.NATS.Enabled {
		natsPublisher, err := streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing with local streaming")
		} else {
			infra.nats = natsPublisher
		}
	}

	log.Info().
		Bool("postgres", infra.db != nil).
		Bool("redis", infra.redis != nil).
		Bool("nats", infra.nats != nil).
		Msg("infrastructure initialized")

	return infra
}

// checks returns readiness probes for the connected services
func (i *infrastructure) checks() map[string]func(context.Context) error {
	checks := make(map[string]func(context.Context) error)
	if i.db != nil {
		checks["postgres"] = i.db.Ping
	}
	if i.redis != nil {
		checks["redis"] = i.redis.Ping
	}
	if i.nats != nil {
		nats := i.nats
		checks["nats"] = func(context.Context) error {
			if !nats.IsConnected() {
				return streaming.ErrNotConnected
			}
			return nil
		}
	}
	return checks
}

// Close releases the database and cache. NATS is closed by the event bus.
func (i *infrastructure) Close() {
	if i.db != nil {
		i.db.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
}
