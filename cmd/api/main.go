package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/logger"
	"github.com/safar/go-storefront/internal/observability"
	"github.com/safar/go-storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, logg, cfg.Tracing)
	if err != nil {
		logg.Fatal("Init tracing", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logg.Fatal("Connect to database", "error", err)
	}
	defer db.Close()

	logg.Info("Connected to database successfully")

	if n, err := store.PurgeExpiredTokens(ctx, db); err != nil {
		logg.Warn("Purge expired blacklisted tokens", "error", err)
	} else if n > 0 {
		logg.Info("Purged expired blacklisted tokens", "count", n)
	}

	var blacklist auth.Blacklist = store.PostgresBlacklist{DB: db}
	if cfg.Redis.Addr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logg.Fatal("Connect to redis", "error", err)
		}
		defer rdb.Close()
		blacklist = auth.NewRedisBlacklist(rdb)
		logg.Info("Using redis token blacklist", "addr", cfg.Redis.Addr)
	}

	langs, err := i18n.NewNegotiator(cfg.I18n.Languages)
	if err != nil {
		logg.Fatal("Init languages", "error", err)
	}

	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}

	srv := api.NewServer(api.Deps{
		DB:          db,
		Log:         logg,
		Tokens:      auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, blacklist),
		Langs:       langs,
		Server:      cfg.Server,
		ServiceName: serviceName,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Server error", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server shutdown", "error", err)
	}
}
