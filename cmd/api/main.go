package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/cache"
	"github.com/anup-shanbhag/TrelloQuora/internal/config"
	"github.com/anup-shanbhag/TrelloQuora/internal/database"
	"github.com/anup-shanbhag/TrelloQuora/internal/events"
	"github.com/anup-shanbhag/TrelloQuora/internal/handlers"
	"github.com/anup-shanbhag/TrelloQuora/internal/jobs"
	"github.com/anup-shanbhag/TrelloQuora/internal/log"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository/memstore"
	"github.com/anup-shanbhag/TrelloQuora/internal/security"
	"github.com/anup-shanbhag/TrelloQuora/internal/server"
	"github.com/anup-shanbhag/TrelloQuora/internal/service"
	"github.com/anup-shanbhag/TrelloQuora/internal/session"
	"github.com/anup-shanbhag/TrelloQuora/internal/storage"
)

type stores struct {
	pool      *pgxpool.Pool
	users     service.UserStore
	sessions  session.Store
	questions service.QuestionStore
	answers   service.AnswerStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		if cfg.Store.Driver == config.StoreDriverPostgres {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		logger.Warn().Err(err).Msg("redis unavailable, running without session cache and events")
		redisClient = nil
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open stores")
	}

	sessionStore := st.sessions
	if redisClient != nil && cfg.Security.SessionCacheTTL > 0 {
		sessionStore = repository.NewCachedSessionStore(st.sessions, redisClient, cfg.Security.SessionCacheTTL, logger)
	}

	tokens, err := security.NewTokenIssuer(cfg.Security.TokenSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token issuer")
	}

	authority := session.NewAuthority(sessionStore, tokens, logger,
		session.WithTTL(cfg.Security.SessionTTL),
		session.WithMaxActive(cfg.Security.MaxActiveSessions),
	)

	var publisher *events.Publisher
	if redisClient != nil {
		publisher = events.NewPublisher(redisClient, cfg.Events.Stream)
	}

	archiver := openArchive(ctx, cfg, st, logger)

	users := service.NewUserService(st.users, authority, security.NewPasswordHasher(), archiver, publisher, logger)
	questions := service.NewQuestionService(st.questions, st.users, authority, publisher, logger)
	answers := service.NewAnswerService(st.answers, st.questions, authority, publisher, logger)

	if cfg.Admin.Password != "" {
		admin, created, err := users.EnsureAdmin(ctx, service.SignupInput{
			UserName: cfg.Admin.UserName,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap admin")
		}
		logger.Info().Str("user_id", admin.UUID).Bool("created", created).Msg("admin account ready")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		Users:     users,
		Questions: questions,
		Answers:   answers,
		DB:        st.pool,
		Cache:     redisClient,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if publisher != nil {
		scheduler = jobs.NewScheduler(publisher, cfg.Jobs.CleanupSchedule, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, st.pool, redisClient)
}

func openStores(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		mem := memstore.New()
		return stores{
			users:     mem.Users(),
			sessions:  mem.Sessions(),
			questions: mem.Questions(),
			answers:   mem.Answers(),
		}, nil
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return stores{}, err
		}
		if cfg.Postgres.MigrateOnStart {
			if err := database.MigratePool(ctx, pool); err != nil {
				pool.Close()
				return stores{}, err
			}
		}
		return stores{
			pool:      pool,
			users:     repository.NewUserRepository(pool),
			sessions:  repository.NewSessionRepository(pool),
			questions: repository.NewQuestionRepository(pool),
			answers:   repository.NewAnswerRepository(pool),
		}, nil
	default:
		return stores{}, errors.New("unknown store driver " + cfg.Store.Driver)
	}
}

func openArchive(ctx context.Context, cfg *config.AppConfig, st stores, logger zerolog.Logger) *service.Archiver {
	if cfg.Storage.Endpoint == "" {
		logger.Warn().Msg("storage endpoint not configured, deleted users are not archived")
		return nil
	}

	archiveStore, err := storage.NewArchiveStore(cfg.Storage, cfg.Security.ArchiveSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init archive store")
	}
	if err := archiveStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure archive bucket failed")
	}
	return service.NewArchiver(archiveStore, st.questions, st.answers)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
