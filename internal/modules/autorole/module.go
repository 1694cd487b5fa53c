// Package autorole grants the configured role when the target user is
// mentioned in the watched channel.
package autorole

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/policy"
)

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

type Module struct {
	cfg    config.AutoRoleConfig
	clock  Clock
	logger *zap.Logger
}

func New(cfg config.AutoRoleConfig, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{cfg: cfg, clock: realClock{}, logger: logger}
}

// WithClock overrides the timer source for tests.
func (m *Module) WithClock(clock Clock) *Module {
	m.clock = clock
	return m
}

// Eligible reports whether the message triggers the role grant: a human
// message in the watched channel mentioning the target user.
func Eligible(cfg config.AutoRoleConfig, msg *discordgo.MessageCreate) bool {
	if msg == nil || msg.Author == nil || msg.Author.Bot {
		return false
	}
	if cfg.ChannelID == "" || msg.ChannelID != cfg.ChannelID {
		return false
	}
	if cfg.TargetUserID == "" {
		return false
	}
	for _, mention := range msg.Mentions {
		if mention.ID == cfg.TargetUserID {
			return true
		}
	}
	return false
}

func (m *Module) HandleMessage(s *discordgo.Session, msg *discordgo.MessageCreate) {
	if !Eligible(m.cfg, msg) {
		return
	}

	if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, "✅"); err != nil {
		m.logger.Warn("reaction failed", zap.String("message_id", msg.ID), zap.Error(err))
	}

	guild, err := s.State.Guild(msg.GuildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(msg.GuildID)
		if err != nil {
			m.logger.Warn("guild lookup failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
			return
		}
	}
	role := resolveRole(guild.Roles, m.cfg)
	if role == nil {
		m.logger.Warn("auto role not found",
			zap.String("guild_id", msg.GuildID),
			zap.String("role_id", m.cfg.RoleID),
			zap.String("role_name", m.cfg.RoleName))
		return
	}

	member := msg.Member
	if member == nil {
		member, _ = s.GuildMember(msg.GuildID, msg.Author.ID)
	}
	if member != nil {
		for _, roleID := range member.Roles {
			if roleID == role.ID {
				return
			}
		}
	}

	botMember, err := s.State.Member(msg.GuildID, s.State.User.ID)
	if err != nil || botMember == nil {
		botMember, _ = s.GuildMember(msg.GuildID, s.State.User.ID)
	}
	if !policy.BotCanAssign(guild, botMember, role) {
		m.logger.Warn("auto role above bot role",
			zap.String("guild_id", msg.GuildID),
			zap.String("role_id", role.ID))
		return
	}

	if err := s.GuildMemberRoleAdd(msg.GuildID, msg.Author.ID, role.ID); err != nil {
		m.logger.Error("auto role grant failed",
			zap.String("user_id", msg.Author.ID),
			zap.String("role_id", role.ID),
			zap.Error(err))
		return
	}
	m.logger.Info("auto role granted",
		zap.String("user_id", msg.Author.ID),
		zap.String("role_id", role.ID))

	reply, err := s.ChannelMessageSendReply(msg.ChannelID,
		"✅ Role assigned, welcome aboard!", msg.Reference())
	if err != nil {
		m.logger.Warn("confirmation reply failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
		return
	}

	delay := time.Duration(m.cfg.DeleteDelayMs) * time.Millisecond
	if delay <= 0 {
		return
	}
	channelID, replyID := msg.ChannelID, reply.ID
	m.clock.AfterFunc(delay, func() {
		if err := s.ChannelMessageDelete(channelID, replyID); err != nil {
			m.logger.Warn("confirmation cleanup failed", zap.String("message_id", replyID), zap.Error(err))
		}
	})
}

func resolveRole(roles []*discordgo.Role, cfg config.AutoRoleConfig) *discordgo.Role {
	if cfg.RoleID != "" {
		for _, role := range roles {
			if role.ID == cfg.RoleID {
				return role
			}
		}
		return nil
	}
	if cfg.RoleName == "" {
		return nil
	}
	for _, role := range roles {
		if strings.EqualFold(role.Name, cfg.RoleName) {
			return role
		}
	}
	return nil
}
