package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wildflover-bot/internal/api"
	"wildflover-bot/internal/bot"
	"wildflover-bot/internal/config"
	"wildflover-bot/internal/session"
	"wildflover-bot/internal/storage"
	"wildflover-bot/internal/ticket"
	"wildflover-bot/internal/verify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store := storage.New(cfg.Ticket.DataPath, logger)
	if err := store.Init(); err != nil {
		logger.Fatal("ticket store init failed", zap.Error(err))
	}

	var sessions session.Store
	if cfg.Session.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		sessions, err = session.NewRedis(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
		cancel()
		if err != nil {
			logger.Fatal("redis connect failed", zap.String("addr", cfg.Session.RedisAddr), zap.Error(err))
		}
		logger.Info("session store ready", zap.String("backend", "redis"))
	} else {
		sessions = session.NewMemory()
		logger.Info("session store ready", zap.String("backend", "memory"))
	}
	defer sessions.Close()

	tickets := ticket.NewManager(cfg.Ticket, store, logger)
	verifier := verify.NewVerifier(sessions, cfg.Verify, logger)
	oauthFlow := verify.NewOAuth(cfg.ClientID, cfg.OAuth, verifier, sessions, logger)

	botSvc, err := bot.New(cfg, logger, tickets, sessions, verifier, oauthFlow)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var server *api.Server
	if cfg.API.Enabled {
		server = api.New(cfg.API, verifier, oauthFlow, logger)
		go func() {
			logger.Info("api listening", zap.String("addr", cfg.API.Addr))
			if err := server.Listen(); err != nil {
				logger.Error("api server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown()
	}
	botSvc.Close(ctx)
}
