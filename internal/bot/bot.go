package bot

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/modules/autorole"
	"wildflover-bot/internal/modules/welcome"
	"wildflover-bot/internal/session"
	"wildflover-bot/internal/ticket"
	"wildflover-bot/internal/verify"
)

type Bot struct {
	cfg           config.Config
	cfgMu         sync.Mutex
	logger        *zap.Logger
	session       *discordgo.Session
	tickets       *ticket.Manager
	ticketHandler *ticket.Handler
	verifyHandler *verify.Handler
	oauth         *verify.OAuth
	autorole      *autorole.Module
	welcome       *welcome.Module
	startedAt     time.Time
}

func New(cfg config.Config, logger *zap.Logger, tickets *ticket.Manager, sessions session.Store, verifier *verify.Verifier, oauthFlow *verify.OAuth) (*Bot, error) {
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		session: discord,
		tickets: tickets,
		oauth:   oauthFlow,
	}
	b.ticketHandler = ticket.NewHandler(tickets, sessions, cfg.Session, logger)
	b.verifyHandler = verify.NewHandler(verifier, oauthFlow, cfg.Verify, logger)
	b.autorole = autorole.New(cfg.AutoRole, logger)
	b.welcome = welcome.New(cfg.Welcome, cfg.DefaultLanguage, logger)

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}
	b.startedAt = time.Now()

	if err := b.registerCommands(); err != nil {
		return err
	}
	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
	if err := session.UpdateGameStatus(0, "/help"); err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
	}
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot || msg.GuildID == "" {
		return
	}
	b.autorole.HandleMessage(session, msg)
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	b.welcome.HandleMemberAdd(session, event)
}

func (b *Bot) onGuildMemberRemove(session *discordgo.Session, event *discordgo.GuildMemberRemove) {
	b.welcome.HandleMemberRemove(session, event)
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

func commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
	}
}
