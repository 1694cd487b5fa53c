package bot

import (
	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/tutorial"
)

// Commands is the full slash-command set. The refresh binary reuses it.
func Commands() []*discordgo.ApplicationCommand {
	topicChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(tutorial.Topics()))
	for _, topic := range tutorial.Topics() {
		topicChoices = append(topicChoices, &discordgo.ApplicationCommandOptionChoice{Name: topic, Value: topic})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check the bot latency",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Check the bot latency",
				discordgo.Turkish:   "Botun gecikmesini kontrol et",
			},
		},
		{
			Name:        "info",
			Description: "Bot status and statistics",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Bot status and statistics",
				discordgo.Turkish:   "Bot durumu ve istatistikleri",
			},
		},
		{
			Name:        "config",
			Description: "Show the current bot configuration",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Show the current bot configuration",
				discordgo.Turkish:   "Mevcut bot yapılandırmasını göster",
			},
		},
		{
			Name:        "help",
			Description: "List the available commands",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "List the available commands",
				discordgo.Turkish:   "Kullanılabilir komutları listele",
			},
		},
		{
			Name:        "tutorial",
			Description: "Open a feature guide",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Open a feature guide",
				discordgo.Turkish:   "Bir özellik rehberi aç",
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "topic",
					Description: "The guide to open",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "The guide to open",
						discordgo.Turkish:   "Açılacak rehber",
					},
					Required: true,
					Choices:  topicChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "language",
					Description: "Guide language",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Guide language",
						discordgo.Turkish:   "Rehber dili",
					},
					Required: false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "English", Value: "en"},
						{Name: "Türkçe", Value: "tr"},
					},
				},
			},
		},
		{
			Name:        "setwelcome",
			Description: "Set the welcome card channel",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Set the welcome card channel",
				discordgo.Turkish:   "Karşılama kartı kanalını ayarla",
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for welcome cards",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Channel for welcome cards",
						discordgo.Turkish:   "Karşılama kartları için kanal",
					},
					Required: true,
				},
			},
		},
		{
			Name:        "rules",
			Description: "Post the server rules",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Post the server rules",
				discordgo.Turkish:   "Sunucu kurallarını yayınla",
			},
		},
		{
			Name:        "ticket",
			Description: "Ticket system",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Ticket system",
				discordgo.Turkish:   "Bilet sistemi",
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "panel",
					Description: "Post the support panel in this channel",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Post the support panel in this channel",
						discordgo.Turkish:   "Destek panelini bu kanala gönder",
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show ticket statistics",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Show ticket statistics",
						discordgo.Turkish:   "Bilet istatistiklerini göster",
					},
				},
			},
		},
		{
			Name:        "verify",
			Description: "Verification panels",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Verification panels",
				discordgo.Turkish:   "Doğrulama panelleri",
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "panel",
					Description: "Post the role verification panel in this channel",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Post the role verification panel in this channel",
						discordgo.Turkish:   "Rol doğrulama panelini bu kanala gönder",
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "access",
					Description: "Post the app access panel in this channel",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "Post the app access panel in this channel",
						discordgo.Turkish:   "Uygulama erişim panelini bu kanala gönder",
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "guide",
					Description: "How to verify, step by step",
					DescriptionLocalizations: map[discordgo.Locale]string{
						discordgo.EnglishUS: "How to verify, step by step",
						discordgo.Turkish:   "Adım adım doğrulama rehberi",
					},
				},
			},
		},
		{
			Name:        "authlogin",
			Description: "Get a Discord login link for the app",
			DescriptionLocalizations: &map[discordgo.Locale]string{
				discordgo.EnglishUS: "Get a Discord login link for the app",
				discordgo.Turkish:   "Uygulama için Discord giriş bağlantısı al",
			},
		},
	}
}

func (b *Bot) registerCommands() error {
	commands := Commands()

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildID := guild.ID
		guildCmds, err := b.session.ApplicationCommands(appID, guildID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guildID, cmd.ID)
		}
	}
	return nil
}
