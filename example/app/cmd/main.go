package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bibliofile/library-query-go/example/app"
	"github.com/bibliofile/library-query-go/example/shell"
	"github.com/bibliofile/library-query-go/example/shell/config"
	"github.com/bibliofile/library-query-go/libquery/postgresengine"
)

const defaultConfigPath = "example/config.yaml"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	configPath := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("loading config failed", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := config.NewPGXPool(ctx, cfg)
	if err != nil {
		logger.Fatal("connecting to database failed", zap.Error(err))
	}
	defer pool.Close()

	logger.Info("connected to database", zap.String("dbname", cfg.DB.DBName))

	store, err := postgresengine.NewQueryStoreFromPGXPool(
		pool,
		postgresengine.WithLogger(shell.NewZapLogger(logger)),
	)
	if err != nil {
		logger.Fatal("creating query store failed", zap.Error(err))
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies(nil)

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := router.Group("/api/v1")
	app.RegisterRoutes(api, store)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))

		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(serveErr))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("shutdown failed", zap.Error(shutdownErr))
	}

	logger.Info("server stopped")
}
