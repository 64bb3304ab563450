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
	"google.golang.org/grpc"

	"elderguard/internal/api"
	"elderguard/internal/api/handlers"
	"elderguard/internal/config"
	"elderguard/internal/domain/services"
	"elderguard/internal/domain/services/ai"
	grpchealth "elderguard/internal/grpc/health"
	"elderguard/internal/infrastructure/cache"
	"elderguard/internal/infrastructure/database"
	"elderguard/internal/infrastructure/database/repository"
	"elderguard/pkg/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadDefault()
	if err != nil {
		logger.New(logger.DefaultConfig()).Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.ForEnvironment(cfg.App.Environment, logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ElderGuard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra := initInfrastructure(ctx, cfg, log)
	defer infra.close(log)

	// Analysis pipeline
	detector := ai.NewLanguageDetector(log)
	translator := services.NewTranslationService(cfg.Translation.Endpoint, cfg.Translation.Timeout, detector, log)
	classifier := services.NewClassifierClient(cfg.Classifier.Endpoint, cfg.Classifier.Timeout, log)
	virusTotal := services.NewVirusTotalClient(services.VirusTotalOptions{
		APIKey:   cfg.VirusTotal.APIKey,
		BaseURL:  cfg.VirusTotal.BaseURL,
		Timeout:  cfg.VirusTotal.Timeout,
		CacheTTL: cfg.VirusTotal.CacheTTL,
	}, infra.redis, log)
	if !virusTotal.Configured() {
		log.Warn().Msg("VirusTotal API key not configured, link checks will be reported as unknown")
	}

	expander := services.NewURLExpander(log)
	var pipelineExpander *services.URLExpander
	if cfg.Analysis.ExpandURLs {
		pipelineExpander = expander
	}
	linkChecker := services.NewURLReputationService(virusTotal, pipelineExpander, log)

	analyzer := services.NewAnalyzer(translator, classifier, linkChecker, services.AnalyzerConfig{
		Timeout:            cfg.Analysis.Timeout,
		MaxConcurrentScans: cfg.Analysis.MaxConcurrentScans,
	}, log)

	// Accounts and reports
	var profiles *services.ProfileService
	if infra.mongo != nil {
		users := repository.NewUserRepository(infra.mongo.Database().Collection(database.UsersCollection))
		profiles = services.NewProfileService(users, log)
	} else {
		log.Warn().Msg("running without MongoDB - user profiles unavailable")
	}

	var reportStore services.ReportStore
	if infra.postgres != nil {
		reportStore = repository.NewReportRepository(infra.postgres.Pool())
	} else {
		log.Warn().Msg("running without database - scam reports unavailable")
	}
	reports := services.NewReportService(reportStore, log)

	var retention *services.RetentionScheduler
	if reports.Available() && cfg.Reports.PurgeSchedule != "" && cfg.Reports.Retention > 0 {
		retention, err = services.NewRetentionScheduler(reports, cfg.Reports.PurgeSchedule, cfg.Reports.Retention, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule report retention")
		}
		retention.Start()
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Analyzer:   analyzer,
		Classifier: classifier,
		Scanner:    virusTotal,
		Expander:   expander,
		Translator: translator,
		Profiles:   profiles,
		Reports:    reports,
		Alerts:     services.NewAlertBuilder(time.Local),
		Checks:     infra.httpChecks(),
		Version:    cfg.App.Version,
		Logger:     log,
	})

	router := api.NewRouter(*cfg, h, infra.redis, log)

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
	if cfg.Server.GRPCPort > 0 {
		grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create gRPC listener")
		}

		grpcServer = grpc.NewServer()
		healthServer := grpchealth.Register(grpcServer, infra.grpcChecks(), 10*time.Second, log)
		go healthServer.Run(ctx)

		go func() {
			log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
			if err := grpcServer.Serve(grpcListener); err != nil {
				log.Fatal().Err(err).Msg("gRPC server failed")
			}
		}()
	}

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

	if retention != nil {
		if err := retention.Stop(); err != nil {
			log.Error().Err(err).Msg("retention scheduler shutdown error")
		}
	}

	log.Info().Msg("shutdown complete")
}

// infrastructure holds the optional stores; a nil field means disabled or unreachable
type infrastructure struct {
	redis    *cache.RedisCache
	postgres *database.PostgresDB
	mongo    *database.MongoDB
}

// initInfrastructure connects every enabled store. Failures are logged and the store is left disabled.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) *infrastructure {
	infra := &infrastructure{}

	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache and rate limiting")
		} else {
			infra.redis = rc
		}
	}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without scam reports")
		} else if err := db.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to prepare PostgreSQL schema, continuing without scam reports")
			db.Close()
		} else {
			infra.postgres = db
		}
	}

	if cfg.Mongo.Enabled {
		m, err := database.NewMongo(ctx, cfg.Mongo, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without user profiles")
		} else {
			if err := m.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure MongoDB indexes")
			}
			infra.mongo = m
		}
	}

	return infra
}

func (i *infrastructure) httpChecks() map[string]handlers.Pinger {
	checks := make(map[string]handlers.Pinger)
	if i.redis != nil {
		checks["redis"] = i.redis
	}
	if i.postgres != nil {
		checks["postgres"] = i.postgres
	}
	if i.mongo != nil {
		checks["mongo"] = i.mongo
	}
	return checks
}

func (i *infrastructure) grpcChecks() map[string]grpchealth.Pinger {
	checks := make(map[string]grpchealth.Pinger)
	for name, p := range i.httpChecks() {
		checks[name] = p
	}
	return checks
}

func (i *infrastructure) close(log *logger.Logger) {
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Redis")
		}
	}
	if i.postgres != nil {
		i.postgres.Close()
	}
	if i.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := i.mongo.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close MongoDB")
		}
	}
}
