package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/lang"
	"wildflover-bot/internal/policy"
	"wildflover-bot/internal/ticket"
	"wildflover-bot/internal/tutorial"
	"wildflover-bot/internal/verify"
)

const (
	colorInfo    = 0x5865F2
	colorSuccess = 0x57F287
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(session, interaction)
	case discordgo.InteractionMessageComponent:
		if b.ticketHandler.HandleComponent(session, interaction) {
			return
		}
		if b.verifyHandler.HandleComponent(session, interaction) {
			return
		}
		b.logger.Debug("unhandled component",
			zap.String("custom_id", interaction.MessageComponentData().CustomID))
	case discordgo.InteractionModalSubmit:
		if !b.ticketHandler.HandleModal(session, interaction) {
			b.logger.Debug("unhandled modal",
				zap.String("custom_id", interaction.ModalSubmitData().CustomID))
		}
	}
}

func (b *Bot) handleCommand(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	data := interaction.ApplicationCommandData()

	if interaction.Member == nil {
		b.respond(session, interaction, "This command only works in a server.", true)
		return
	}

	switch data.Name {
	case "ping":
		b.handlePing(session, interaction)
	case "info":
		b.handleInfo(session, interaction)
	case "config":
		b.handleConfig(session, interaction)
	case "help":
		b.handleHelp(session, interaction)
	case "tutorial":
		b.handleTutorial(session, interaction, data.Options)
	case "setwelcome":
		b.handleSetWelcome(session, interaction, data.Options)
	case "rules":
		b.handleRules(session, interaction)
	case "ticket":
		b.handleTicket(session, interaction, data.Options)
	case "verify":
		b.handleVerify(session, interaction, data.Options)
	case "authlogin":
		b.handleAuthLogin(session, interaction)
	}
}

func (b *Bot) handlePing(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	latency := session.HeartbeatLatency().Milliseconds()
	b.respond(session, interaction, fmt.Sprintf("🏓 Pong! Gateway latency: %dms", latency), true)
}

func (b *Bot) handleInfo(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	uptime := time.Since(b.startedAt).Round(time.Second)
	stats := b.tickets.Stats()
	fields := []*discordgo.MessageEmbedField{
		{Name: "Uptime", Value: uptime.String(), Inline: true},
		{Name: "Servers", Value: fmt.Sprintf("%d", len(session.State.Guilds)), Inline: true},
		{Name: "Open tickets", Value: fmt.Sprintf("%d", stats.Open), Inline: true},
	}
	b.respondEmbed(session, interaction, commandEmbed("Wildflover", "Community bot for the Wildflover app.", colorInfo, fields), true)
}

func (b *Bot) handleConfig(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if !policy.IsAdministrator(interaction.Member) {
		b.respond(session, interaction, "Administrator only.", true)
		return
	}

	b.cfgMu.Lock()
	cfg := b.cfg
	b.cfgMu.Unlock()

	fields := []*discordgo.MessageEmbedField{
		{Name: "Welcome channel", Value: channelRef(cfg.Welcome.ChannelID), Inline: true},
		{Name: "Leave channel", Value: channelRef(cfg.Welcome.LeaveChannelID), Inline: true},
		{Name: "Welcome DM", Value: onOff(cfg.Welcome.DMEnabled), Inline: true},
		{Name: "Auto-role channel", Value: channelRef(cfg.AutoRole.ChannelID), Inline: true},
		{Name: "Verification role", Value: roleRef(cfg.Verify.RoleID), Inline: true},
		{Name: "Max open tickets", Value: fmt.Sprintf("%d", cfg.Ticket.MaxOpenPerUser), Inline: true},
		{Name: "Language", Value: cfg.DefaultLanguage, Inline: true},
		{Name: "Session backend", Value: cfg.Session.Backend, Inline: true},
		{Name: "HTTP API", Value: onOff(cfg.API.Enabled), Inline: true},
	}
	b.respondEmbed(session, interaction, commandEmbed("Configuration", "", colorInfo, fields), true)
}

func channelRef(id string) string {
	if id == "" {
		return "not set"
	}
	return "<#" + id + ">"
}

func roleRef(id string) string {
	if id == "" {
		return "not set"
	}
	return "<@&" + id + ">"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (b *Bot) handleHelp(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	fields := []*discordgo.MessageEmbedField{
		{Name: "/ping", Value: "Check the bot latency", Inline: false},
		{Name: "/info", Value: "Bot status and statistics", Inline: false},
		{Name: "/tutorial", Value: "Open a feature guide in your language", Inline: false},
		{Name: "/verify guide", Value: "How to verify, step by step", Inline: false},
		{Name: "/authlogin", Value: "Get a Discord login link for the app", Inline: false},
		{Name: "Staff", Value: "/config, /setwelcome, /rules, /ticket panel, /ticket stats, /verify panel, /verify access", Inline: false},
	}
	b.respondEmbed(session, interaction, commandEmbed("Commands", "", colorInfo, fields), true)
}

func (b *Bot) handleTutorial(session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	topic := ""
	language := b.cfg.DefaultLanguage
	for _, opt := range options {
		switch opt.Name {
		case "topic":
			topic = opt.StringValue()
		case "language":
			language = opt.StringValue()
		}
	}
	if !lang.Supported(language) {
		language = "en"
	}
	b.respondEmbed(session, interaction, tutorial.Embed(topic, language), true)
}

func (b *Bot) handleSetWelcome(session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !policy.IsAdministrator(interaction.Member) {
		b.respond(session, interaction, "Administrator only.", true)
		return
	}
	if len(options) == 0 {
		b.respond(session, interaction, "Pick a channel.", true)
		return
	}
	channel := options[0].ChannelValue(session)
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		b.respond(session, interaction, "Pick a text channel.", true)
		return
	}

	b.cfgMu.Lock()
	err := config.SaveWelcomeChannel(&b.cfg, channel.ID)
	b.cfgMu.Unlock()
	if err != nil {
		b.logger.Error("welcome channel save failed", zap.String("channel_id", channel.ID), zap.Error(err))
		b.respond(session, interaction, "The channel was not saved, check the bot logs.", true)
		return
	}
	b.welcome.SetChannelID(channel.ID)
	b.logger.Info("welcome channel updated", zap.String("channel_id", channel.ID))
	b.respondEmbed(session, interaction, commandEmbed("Welcome channel updated",
		fmt.Sprintf("Welcome cards now go to <#%s>.", channel.ID), colorSuccess, nil), true)
}

func (b *Bot) handleRules(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if !policy.IsAdministrator(interaction.Member) {
		b.respond(session, interaction, "Administrator only.", true)
		return
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "1. Be respectful", Value: "No harassment, hate speech or personal attacks.", Inline: false},
		{Name: "2. No spam", Value: "No flooding, mass mentions or unsolicited advertising.", Inline: false},
		{Name: "3. Keep it on topic", Value: "Use the right channel for your subject.", Inline: false},
		{Name: "4. Support goes through tickets", Value: "Open a ticket instead of DMing the staff.", Inline: false},
		{Name: "5. Follow Discord's rules", Value: "The Terms of Service and Community Guidelines apply everywhere.", Inline: false},
	}
	b.respondEmbed(session, interaction, commandEmbed("Server rules", "Breaking these rules can get you warned, muted or banned.", colorInfo, fields), false)
}

func (b *Bot) handleTicket(session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "panel":
		if !policy.IsAdministrator(interaction.Member) {
			b.respond(session, interaction, "Administrator only.", true)
			return
		}
		_, err := session.ChannelMessageSendComplex(interaction.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{ticket.PanelEmbed()},
			Components: ticket.PanelComponents(),
		})
		if err != nil {
			b.logger.Error("ticket panel post failed", zap.String("channel_id", interaction.ChannelID), zap.Error(err))
			b.respond(session, interaction, "Could not post the panel here.", true)
			return
		}
		b.respond(session, interaction, "Support panel posted.", true)
	case "stats":
		if !policy.CanManageTickets(interaction.Member) {
			b.respond(session, interaction, "Staff only.", true)
			return
		}
		b.respondEmbed(session, interaction, ticket.StatsEmbed(b.tickets.Stats()), true)
	}
}

func (b *Bot) handleVerify(session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "panel":
		if !policy.IsAdministrator(interaction.Member) {
			b.respond(session, interaction, "Administrator only.", true)
			return
		}
		embed, components := verify.RolePanel(b.verifyRoleName(session, interaction.GuildID))
		_, err := session.ChannelMessageSendComplex(interaction.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err != nil {
			b.logger.Error("verify panel post failed", zap.String("channel_id", interaction.ChannelID), zap.Error(err))
			b.respond(session, interaction, "Could not post the panel here.", true)
			return
		}
		b.respond(session, interaction, "Verification panel posted.", true)
	case "access":
		if !policy.IsAdministrator(interaction.Member) {
			b.respond(session, interaction, "Administrator only.", true)
			return
		}
		embed, components := verify.AccessPanel()
		_, err := session.ChannelMessageSendComplex(interaction.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err != nil {
			b.logger.Error("access panel post failed", zap.String("channel_id", interaction.ChannelID), zap.Error(err))
			b.respond(session, interaction, "Could not post the panel here.", true)
			return
		}
		b.respond(session, interaction, "App access panel posted.", true)
	case "guide":
		b.respondEmbed(session, interaction, verify.Guide(), true)
	}
}

func (b *Bot) verifyRoleName(session *discordgo.Session, guildID string) string {
	if b.cfg.Verify.RoleID == "" {
		return "member"
	}
	if guild, err := session.State.Guild(guildID); err == nil && guild != nil {
		for _, role := range guild.Roles {
			if role.ID == b.cfg.Verify.RoleID {
				return role.Name
			}
		}
	}
	return "member"
}

func (b *Bot) handleAuthLogin(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	url, err := b.oauth.AuthURL(interaction.Member.User.ID)
	if err != nil {
		b.logger.Error("auth url failed", zap.String("user_id", interaction.Member.User.ID), zap.Error(err))
		b.respond(session, interaction, "Could not build the login link, try again later.", true)
		return
	}
	b.respond(session, interaction, "Log in with Discord to link the app: "+url, true)
}
