package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/config"
	httpapi "orvio-console/internal/http"
	"orvio-console/internal/kiosk"
	"orvio-console/internal/service"
	"orvio-console/internal/session"
	"orvio-console/internal/view"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := session.NewRedisKV(redisClient)
	sessions := session.NewStore(kv, cfg.Session.TTL)

	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)

	dashboard := view.NewDashboardLoader(api, logger)
	fridges := view.NewFridgesLoader(api, logger)
	detail := view.NewFridgeDetailLoader(api, logger)
	alerts := view.NewAlertsLoader(api, logger)
	transactions := view.NewTransactionsLoader(api, logger)
	admins := view.NewAdminsLoader(api, logger)

	flow := kiosk.NewFlow(kv, cfg.Kiosk.CartTTL, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(api, sessions, logger))
	router.RegisterConsoleRoutes(httpapi.NewConsoleHandler(
		dashboard, fridges, detail, alerts, transactions, sessions, logger))
	router.RegisterAdminRoutes(httpapi.NewAdminHandler(admins, sessions, logger))
	router.RegisterExportRoutes(httpapi.NewExportHandler(
		fridges, alerts, transactions, sessions, logger))
	router.RegisterKioskRoutes(httpapi.NewKioskHandler(flow, logger))

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
}
