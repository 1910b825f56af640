package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nexacorp/accounts-api/docs"
	"github.com/nexacorp/accounts-api/internal/api"
	"github.com/nexacorp/accounts-api/internal/core/service"
	"github.com/nexacorp/accounts-api/internal/infrastructure/config"
	"github.com/nexacorp/accounts-api/internal/infrastructure/db/mongo"
	"github.com/nexacorp/accounts-api/internal/infrastructure/db/postgres"
	"github.com/nexacorp/accounts-api/internal/infrastructure/db/redis"
	"github.com/nexacorp/accounts-api/internal/infrastructure/queue"
	"github.com/nexacorp/accounts-api/pkg/logger"
)

// @title           Accounts API
// @version         1.0
// @description     Customer account CRUD with role-based access control and a credit ledger.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores: constructed here, closed here ---
	pg, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer func() { _ = pg.Close() }()

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories and services ---
	accountRepo := postgres.NewAccountRepository(pg)
	ledgerRepo := mongo.NewLedgerRepository(mongoDB)
	if err := ledgerRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ledger index creation failed")
	}
	dedup := redis.NewDedupChecker(rdb)

	dispatcher := queue.NewDispatcher(0, ledgerRepo, log)
	dispatcher.Start(ctx)

	tokens := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLSeconds)*time.Second)
	ledger := service.NewCreditLedger(accountRepo, dispatcher, log)
	accounts := service.NewAccountService(accountRepo, ledger, ledgerRepo, dedup, log)
	auth := service.NewAuthService(accountRepo, tokens)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Auth:     auth,
		Tokens:   tokens,
		Postgres: pg,
		Mongo:    mongoDB,
		Redis:    rdb,
		Logger:   log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
