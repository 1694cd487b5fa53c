// Package welcome posts the greeting and farewell cards and the onboarding
// DM when members join or leave.
package welcome

import (
	"bytes"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/card"
	"wildflover-bot/internal/config"
	"wildflover-bot/internal/lang"
)

type Module struct {
	mu       sync.RWMutex
	cfg      config.WelcomeConfig
	language string
	logger   *zap.Logger
}

func New(cfg config.WelcomeConfig, language string, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{cfg: cfg, language: language, logger: logger}
}

// SetChannelID swaps the welcome channel at runtime, used by the setwelcome
// command.
func (m *Module) SetChannelID(channelID string) {
	m.mu.Lock()
	m.cfg.ChannelID = channelID
	m.mu.Unlock()
}

func (m *Module) snapshot() config.WelcomeConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Module) HandleMemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}
	cfg := m.snapshot()

	if cfg.ChannelID != "" {
		m.sendCard(s, cfg.ChannelID, "welcome.png", card.Profile{
			Username:    e.User.Username,
			DisplayName: e.User.GlobalName,
			AvatarURL:   e.User.AvatarURL("256"),
			MemberCount: m.memberCount(s, e.GuildID),
		}, card.KindWelcome)
	}

	if cfg.DMEnabled {
		m.sendDM(s, e.User.ID)
	}
}

func (m *Module) HandleMemberRemove(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	if e.User == nil || e.User.Bot {
		return
	}
	cfg := m.snapshot()
	channelID := cfg.LeaveChannelID
	if channelID == "" {
		channelID = cfg.ChannelID
	}
	if channelID == "" {
		return
	}
	m.sendCard(s, channelID, "goodbye.png", card.Profile{
		Username:    e.User.Username,
		DisplayName: e.User.GlobalName,
		AvatarURL:   e.User.AvatarURL("256"),
	}, card.KindLeave)
}

func (m *Module) sendCard(s *discordgo.Session, channelID, filename string, profile card.Profile, kind card.Kind) {
	data, err := card.Render(profile, kind, m.snapshot().BackgroundPath)
	if err != nil {
		m.logger.Error("card render failed", zap.String("username", profile.Username), zap.Error(err))
		return
	}
	if _, err := s.ChannelFileSend(channelID, filename, bytes.NewReader(data)); err != nil {
		m.logger.Warn("card send failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (m *Module) sendDM(s *discordgo.Session, userID string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		// DMs closed is normal, drop it.
		m.logger.Debug("dm channel failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       lang.T(m.language, "welcome.dm.title"),
		Description: lang.T(m.language, "welcome.dm.desc"),
		Color:       0x5865F2,
		Footer:      &discordgo.MessageEmbedFooter{Text: lang.T(m.language, "welcome.dm.footer")},
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		m.logger.Debug("dm send failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (m *Module) memberCount(s *discordgo.Session, guildID string) int {
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil && guild.MemberCount > 0 {
		return guild.MemberCount
	}
	if guild, err := s.Guild(guildID); err == nil && guild != nil {
		return guild.ApproximateMemberCount
	}
	return 0
}
