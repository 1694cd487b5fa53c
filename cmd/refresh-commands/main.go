// Command refresh-commands wipes and re-registers the global slash
// commands, for when the deployed set drifts from the code.
package main

import (
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wildflover-bot/internal/bot"
	"wildflover-bot/internal/config"
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

	if cfg.ClientID == "" {
		logger.Fatal("CLIENT_ID is required")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("session init failed", zap.Error(err))
	}

	if _, err := session.ApplicationCommandBulkOverwrite(cfg.ClientID, "", nil); err != nil {
		logger.Fatal("command wipe failed", zap.Error(err))
	}
	logger.Info("existing commands cleared")

	registered, err := session.ApplicationCommandBulkOverwrite(cfg.ClientID, "", bot.Commands())
	if err != nil {
		logger.Fatal("command registration failed", zap.Error(err))
	}
	for _, cmd := range registered {
		logger.Info("command registered", zap.String("name", cmd.Name), zap.String("id", cmd.ID))
	}
	logger.Info("refresh complete", zap.Int("count", len(registered)))
}
