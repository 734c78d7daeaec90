package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mazaohq/mazao-pos-backend/api/routes"
	"github.com/mazaohq/mazao-pos-backend/internal/auth"
	"github.com/mazaohq/mazao-pos-backend/internal/cron"
	"github.com/mazaohq/mazao-pos-backend/internal/products"
	"github.com/mazaohq/mazao-pos-backend/internal/reports"
	"github.com/mazaohq/mazao-pos-backend/internal/sales"
	"github.com/mazaohq/mazao-pos-backend/internal/session"
	"github.com/mazaohq/mazao-pos-backend/internal/shops"
	"github.com/mazaohq/mazao-pos-backend/internal/staff"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/db"
	"github.com/mazaohq/mazao-pos-backend/pkg/env"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/metrics"
	"github.com/mazaohq/mazao-pos-backend/pkg/migrate"
	"github.com/mazaohq/mazao-pos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	reg := prometheus.NewRegistry()
	sessionMetrics := metrics.NewSessionMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, session cache and rate limiting disabled")
	}

	sessionRegistry := session.NewRegistry(sessionMetrics.SetActiveSessions)

	authParams := auth.ServiceParams{
		Registry:      sessionRegistry,
		JWTConfig:     cfg.JWT,
		SessionConfig: cfg.Session,
		Logger:        logg,
		Redis:         redisClient,
		Metrics:       sessionMetrics,
	}

	deps := routes.Deps{
		Config:  cfg,
		Logger:  logg,
		Redis:   redisClient,
		Metrics: reg,
	}

	cronRegistry := cron.NewRegistry()

	if cfg.DB.Configured() {
		dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}

		staffRepo := staff.NewRepository(dbClient.DB())
		shopRepo := shops.NewRepository(dbClient.DB())
		productRepo := products.NewRepository(dbClient.DB())

		authParams.StaffRepo = staffRepo
		authParams.ShopRepo = shopRepo

		shopService, err := shops.NewService(shopRepo)
		exitOnErr(logg, "shop service", err)
		productService, err := products.NewService(productRepo)
		exitOnErr(logg, "product service", err)
		saleService, err := sales.NewService(sales.ServiceParams{
			Tx:   dbClient,
			Repo: sales.NewRepository(dbClient.DB()),
		})
		exitOnErr(logg, "sales service", err)
		reportService, err := reports.NewService(reports.NewRepository(dbClient.DB()), time.Now)
		exitOnErr(logg, "report service", err)
		staffService, err := staff.NewService(staffRepo, cfg.Password)
		exitOnErr(logg, "staff service", err)

		deps.DB = dbClient
		deps.Shops = shopService
		deps.Products = productService
		deps.Sales = saleService
		deps.Reports = reportService
		deps.Staff = staffService

		retentionJob, err := cron.NewReceiptRetentionJob(cron.ReceiptRetentionJobParams{
			Logger:     logg,
			DB:         dbClient,
			Repository: productRepo,
		})
		exitOnErr(logg, "receipt retention job", err)
		cronRegistry.Register(retentionJob)
	} else {
		logg.Warn(context.Background(), "database not configured, running in demo mode")
	}

	authService, err := auth.NewService(authParams)
	exitOnErr(logg, "auth service", err)
	deps.Auth = authService

	sweepJob, err := cron.NewSessionSweepJob(cron.SessionSweepJobParams{
		Logger:   logg,
		Registry: sessionRegistry,
		Metrics:  sessionMetrics,
	})
	exitOnErr(logg, "session sweep job", err)
	cronRegistry.Register(sweepJob)

	var lock cron.Lock = cron.NoopLock{}
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("cron"), 0)
		exitOnErr(logg, "cron lock", err)
	}
	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cronRegistry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Session.SweepInterval,
	})
	exitOnErr(logg, "cron service", err)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := cronService.Run(rootCtx); err != nil {
			logg.Error(rootCtx, "cron service stopped", err)
		}
	}()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(rootCtx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"demo_mode": !cfg.DB.Configured(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	go func() {
		<-rootCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to build "+what, err)
	os.Exit(1)
}
