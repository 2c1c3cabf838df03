// Command server runs the Two-Man Spades HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tomalden/twospades/internal/cache"
	"github.com/tomalden/twospades/internal/config"
	"github.com/tomalden/twospades/internal/database"
	"github.com/tomalden/twospades/internal/server"
	"github.com/tomalden/twospades/internal/session"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		logrus.Info("loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.Server.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if cfg.Server.RedisAddr != "" {
		if err := cache.InitRedis(cfg.Server.RedisAddr); err != nil {
			logrus.WithError(err).Warn("redis unavailable, action history disabled")
		}
	}
	if cfg.Server.DatabaseURL != "" {
		if err := database.ConnectDB(context.Background(), cfg.Server.DatabaseURL); err != nil {
			logrus.WithError(err).Warn("postgres unavailable, game persistence disabled")
		}
	}

	secret := []byte(cfg.Server.SessionSecret)
	if len(secret) == 0 {
		logrus.Warn("no session secret configured, sessions will not survive restarts")
		secret = []byte(time.Now().Format(time.RFC3339Nano))
	}

	store := session.NewStore(secret, &cfg.Strategy, cfg.Game.TargetScore)
	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.New(store, cfg.Server.Debug).Handler(),
	}

	go func() {
		logrus.WithField("addr", cfg.Server.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
	if database.DB != nil {
		database.DB.Close()
	}
	if cache.Rdb != nil {
		_ = cache.Rdb.Close()
	}
}
