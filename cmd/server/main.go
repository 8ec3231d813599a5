package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/subarna007/fpl-helper/internal/api"
	"github.com/subarna007/fpl-helper/internal/services"
	"github.com/subarna007/fpl-helper/pkg/config"
	"github.com/subarna007/fpl-helper/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	rt := services.NewRuntime(ctx, cfg, log)
	defer rt.Close()

	router := api.NewRouter(api.Dependencies{
		Planner:     rt.Planner,
		Breakers:    rt.Breakers,
		Cache:       rt.Cache,
		Metrics:     rt.Metrics,
		CorsOrigins: cfg.CorsOrigins,
		Logger:      log,
	})

	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithService("fpl-helper").WithFields(logrus.Fields{
			"port":         cfg.Port,
			"env":          cfg.Env,
			"odds_enabled": cfg.OddsEnabled,
			"cache":        rt.Cache != nil,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
