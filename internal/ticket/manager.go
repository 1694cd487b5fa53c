package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/storage"
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

var (
	ErrQuotaExceeded = errors.New("open ticket limit reached")
	ErrUnknownTicket = errors.New("no ticket for this channel")
)

var supportRoleHints = []string{"support", "staff", "mod"}

// Manager drives the ticket lifecycle: channel creation, closing with
// deferred deletion, claiming and transcripts.
type Manager struct {
	cfg    config.TicketConfig
	store  *storage.Store
	clock  Clock
	logger *zap.Logger
}

func NewManager(cfg config.TicketConfig, store *storage.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: cfg, store: store, clock: realClock{}, logger: logger}
}

// WithClock overrides the timer source for tests.
func (m *Manager) WithClock(clock Clock) *Manager {
	m.clock = clock
	return m
}

func (m *Manager) Stats() storage.Stats { return m.store.Stats() }

func (m *Manager) Get(channelID string) *storage.Ticket { return m.store.Get(channelID) }

// ChannelName derives the next ticket channel name from the number of
// existing tickets. Overlapping creations can mint the same suffix; channel
// identity is the snowflake, the name is cosmetic.
func ChannelName(prefix string, existing int) string {
	return fmt.Sprintf("%s-%d", prefix, existing+1)
}

// Create opens the ticket channel and persists the record.
func (m *Manager) Create(s *discordgo.Session, guildID string, user *discordgo.User, category Category, reason, contact string) (*discordgo.Channel, *storage.Ticket, error) {
	if open := m.store.UserOpen(user.ID); len(open) >= m.cfg.MaxOpenPerUser {
		return nil, nil, ErrQuotaExceeded
	}

	parentID, err := m.ensureContainer(s, guildID)
	if err != nil {
		return nil, nil, fmt.Errorf("ticket container: %w", err)
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:   user.ID,
			Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages |
				discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles |
				discordgo.PermissionEmbedLinks,
		},
		{
			ID:   s.State.User.ID,
			Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages |
				discordgo.PermissionReadMessageHistory | discordgo.PermissionManageChannels,
		},
	}
	if role := m.supportRole(s, guildID); role != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:   role.ID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages |
				discordgo.PermissionReadMessageHistory | discordgo.PermissionManageMessages,
		})
	}

	channel, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 ChannelName(category.Prefix, m.store.Count()),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket for %s", category.Label, user.Username),
		ParentID:             parentID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create channel: %w", err)
	}

	ticket, err := m.store.Create(storage.CreateTicket{
		ID:       channel.ID,
		UserID:   user.ID,
		Username: user.Username,
		Category: category.ID,
		Reason:   reason,
		Contact:  contact,
	})
	if err != nil {
		// The channel exists but the record does not; remove the channel so
		// the two never diverge.
		if _, delErr := s.ChannelDelete(channel.ID); delErr != nil {
			m.logger.Error("orphan channel cleanup failed", zap.String("channel_id", channel.ID), zap.Error(delErr))
		}
		return nil, nil, fmt.Errorf("persist ticket: %w", err)
	}

	if _, err := s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:    fmt.Sprintf("<@%s>", user.ID),
		Embeds:     []*discordgo.MessageEmbed{WelcomeEmbed(ticket, category)},
		Components: ControlComponents(),
	}); err != nil {
		m.logger.Warn("ticket welcome message failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	m.log(s, guildID, LogEmbed("opened", ticket, user.ID))
	m.logger.Info("ticket created",
		zap.String("channel_id", channel.ID),
		zap.String("user_id", user.ID),
		zap.String("category", category.ID))
	return channel, ticket, nil
}

// Close marks the record closed, posts the notice and schedules the channel
// and record deletion.
func (m *Manager) Close(s *discordgo.Session, channelID string, closedBy *discordgo.User) (*storage.Ticket, error) {
	ticket, err := m.store.Close(channelID, closedBy.ID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrUnknownTicket
	}

	delay := time.Duration(m.cfg.CloseDelaySeconds) * time.Second
	if _, err := s.ChannelMessageSendEmbed(channelID, ClosedEmbed(closedBy.ID, delay)); err != nil {
		m.logger.Warn("close notice failed", zap.String("channel_id", channelID), zap.Error(err))
	}

	var guildID, parentID string
	if channel, err := s.Channel(channelID); err == nil {
		guildID = channel.GuildID
		parentID = channel.ParentID
	}
	m.log(s, guildID, LogEmbed("closed", ticket, closedBy.ID))

	m.clock.AfterFunc(delay, func() {
		m.finalize(s, channelID, guildID, parentID)
	})
	return ticket, nil
}

// finalize runs after the close delay. Failures are logged only; the record
// is removed even when the channel delete fails so a dead channel cannot pin
// a ticket open.
func (m *Manager) finalize(s *discordgo.Session, channelID, guildID, parentID string) {
	if _, err := s.ChannelDelete(channelID); err != nil {
		m.logger.Warn("ticket channel delete failed", zap.String("channel_id", channelID), zap.Error(err))
	}
	if _, err := m.store.Delete(channelID); err != nil {
		m.logger.Error("ticket record delete failed", zap.String("channel_id", channelID), zap.Error(err))
	}
	if parentID == "" || guildID == "" {
		return
	}
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return
	}
	for _, c := range channels {
		if c.ParentID == parentID && c.ID != channelID {
			return
		}
	}
	if _, err := s.ChannelDelete(parentID); err != nil {
		m.logger.Warn("empty ticket container delete failed", zap.String("channel_id", parentID), zap.Error(err))
	}
}

// Claim records the staff member on the ticket and announces it.
func (m *Manager) Claim(s *discordgo.Session, channelID string, staff *discordgo.User) (*storage.Ticket, error) {
	ticket, err := m.store.Update(channelID, func(t *storage.Ticket) {
		t.ClaimedBy = staff.ID
	})
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrUnknownTicket
	}
	if _, err := s.ChannelMessageSend(channelID, fmt.Sprintf("🙋 <@%s> will handle this ticket.", staff.ID)); err != nil {
		m.logger.Warn("claim notice failed", zap.String("channel_id", channelID), zap.Error(err))
	}
	return ticket, nil
}

// Transcript fetches the channel history and renders it as a text file.
// Channels longer than the fetch limit are silently truncated to the most
// recent messages.
func (m *Manager) Transcript(s *discordgo.Session, channelID, channelName string) (string, []byte, error) {
	limit := m.cfg.TranscriptLimit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	msgs, err := s.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return "", nil, fmt.Errorf("fetch messages: %w", err)
	}
	filename := fmt.Sprintf("transcript-%s-%s.txt", channelName, uuid.NewString()[:8])
	return filename, formatTranscript(msgs), nil
}

// formatTranscript renders messages oldest first, one line each. The API
// returns them newest first.
func formatTranscript(msgs []*discordgo.Message) []byte {
	var b strings.Builder
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		content := msg.Content
		if content == "" && len(msg.Attachments) > 0 {
			content = "[attachment: " + msg.Attachments[0].Filename + "]"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n",
			msg.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			msg.Author.Username,
			content)
	}
	return []byte(b.String())
}

// ensureContainer finds or creates the category channel that groups ticket
// channels, hidden from everyone by default.
func (m *Manager) ensureContainer(s *discordgo.Session, guildID string) (string, error) {
	for _, c := range m.guildChannels(s, guildID) {
		if c.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(c.Name, m.cfg.CategoryName) {
			return c.ID, nil
		}
	}
	created, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: m.cfg.CategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (m *Manager) guildChannels(s *discordgo.Session, guildID string) []*discordgo.Channel {
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil && len(guild.Channels) > 0 {
		return guild.Channels
	}
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		m.logger.Warn("guild channels fetch failed", zap.String("guild_id", guildID), zap.Error(err))
		return nil
	}
	return channels
}

func (m *Manager) supportRole(s *discordgo.Session, guildID string) *discordgo.Role {
	var roles []*discordgo.Role
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		roles = guild.Roles
	}
	if roles == nil {
		fetched, err := s.GuildRoles(guildID)
		if err != nil {
			return nil
		}
		roles = fetched
	}
	return findSupportRole(roles)
}

func findSupportRole(roles []*discordgo.Role) *discordgo.Role {
	for _, role := range roles {
		name := strings.ToLower(role.Name)
		for _, hint := range supportRoleHints {
			if strings.Contains(name, hint) {
				return role
			}
		}
	}
	return nil
}

// log posts to the configured log channel when one exists in the guild.
func (m *Manager) log(s *discordgo.Session, guildID string, embed *discordgo.MessageEmbed) {
	if guildID == "" {
		return
	}
	for _, c := range m.guildChannels(s, guildID) {
		if c.Type == discordgo.ChannelTypeGuildText && c.Name == m.cfg.LogChannelName {
			if _, err := s.ChannelMessageSendEmbed(c.ID, embed); err != nil {
				m.logger.Warn("ticket log failed", zap.String("channel_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}
