package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/homeledger/homeledger/internal/auth"
	authStore "github.com/homeledger/homeledger/internal/auth/store"
	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/internal/database"
	"github.com/homeledger/homeledger/internal/dedupe"
	ledgerHttp "github.com/homeledger/homeledger/internal/http"
	analyticsHandler "github.com/homeledger/homeledger/internal/http/analytics"
	authHandler "github.com/homeledger/homeledger/internal/http/authapi"
	importHandler "github.com/homeledger/homeledger/internal/http/importcsv"
	referenceHandler "github.com/homeledger/homeledger/internal/http/reference"
	txHandler "github.com/homeledger/homeledger/internal/http/transaction"
	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/reference"
	refStore "github.com/homeledger/homeledger/internal/reference/store"
	"github.com/homeledger/homeledger/internal/transaction"
	txStore "github.com/homeledger/homeledger/internal/transaction/store"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpen:     cfg.DB.MaxOpenConns,
		MaxIdle:     cfg.DB.MaxIdleConns,
		MaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		authService        = auth.NewService(authStore.New(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		transactionService = transaction.NewService(txStore.New(db))
		dedupeService      = dedupe.NewService(txStore.New(db))
		referenceService   = reference.NewService(refStore.New(db))
		importService      = importer.NewService()
	)

	seeded, err := referenceService.SeedCatalog(context.Background())
	if err != nil {
		slog.Error("failed to seed category catalog", "error", err)
		os.Exit(1)
	}
	if seeded > 0 {
		slog.Info("seeded category catalog", "created", seeded)
	}

	var (
		authH        = authHandler.NewHandler(authService)
		transactionH = txHandler.NewHandler(transactionService, dedupeService)
		importH      = importHandler.NewHandler(importService, transactionService, referenceService)
		analyticsH   = analyticsHandler.NewHandler(transactionService, referenceService)
		referenceH   = referenceHandler.NewHandler(referenceService)
	)

	router := ledgerHttp.New(authService, authH, transactionH, importH, analyticsH, referenceH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
