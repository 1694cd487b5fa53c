package verify

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/policy"
)

const (
	CustomIDRoleButton   = "verify_role"
	CustomIDAccessButton = "auth_verify"
	CustomIDOAuthButton  = "auth_oauth"
)

// Handler routes the verification buttons.
type Handler struct {
	verifier *Verifier
	oauth    *OAuth
	roleID   string
	logger   *zap.Logger
}

func NewHandler(verifier *Verifier, oauth *OAuth, cfg config.VerifyConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{verifier: verifier, oauth: oauth, roleID: cfg.RoleID, logger: logger}
}

// HandleComponent reports whether the interaction was one of ours.
func (h *Handler) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	switch i.MessageComponentData().CustomID {
	case CustomIDRoleButton:
		h.handleRoleButton(s, i)
	case CustomIDAccessButton:
		h.handleAccessButton(s, i)
	case CustomIDOAuthButton:
		h.handleOAuthButton(s, i)
	default:
		return false
	}
	return true
}

func (h *Handler) handleRoleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	if h.roleID == "" {
		h.respond(s, i, "Verification is not configured on this server.")
		return
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			h.logger.Warn("guild lookup failed", zap.String("guild_id", i.GuildID), zap.Error(err))
			h.respond(s, i, "Something went wrong, try again later.")
			return
		}
	}

	var role *discordgo.Role
	for _, r := range guild.Roles {
		if r.ID == h.roleID {
			role = r
			break
		}
	}
	if role == nil {
		h.respond(s, i, "The verification role no longer exists, contact an administrator.")
		return
	}

	for _, roleID := range i.Member.Roles {
		if roleID == h.roleID {
			h.respondEmbed(s, i, alreadyVerifiedEmbed(role.Name))
			return
		}
	}

	botMember, err := s.State.Member(i.GuildID, s.State.User.ID)
	if err != nil || botMember == nil {
		botMember, _ = s.GuildMember(i.GuildID, s.State.User.ID)
	}
	if !policy.BotCanAssign(guild, botMember, role) {
		h.respond(s, i, "The bot's role sits below the verification role, contact an administrator.")
		return
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, h.roleID); err != nil {
		h.logger.Error("role grant failed",
			zap.String("guild_id", i.GuildID),
			zap.String("user_id", i.Member.User.ID),
			zap.Error(err))
		h.respond(s, i, "Could not assign the role, try again later.")
		return
	}
	h.respondEmbed(s, i, roleGrantedEmbed(role.Name))
}

func (h *Handler) handleAccessButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	record, err := h.verifier.Mark(context.Background(), i.Member.User)
	if err != nil {
		h.logger.Error("verification failed", zap.String("user_id", i.Member.User.ID), zap.Error(err))
		h.respond(s, i, "Verification failed, try again later.")
		return
	}
	h.respondEmbed(s, i, accessVerifiedEmbed(record))
}

func (h *Handler) handleOAuthButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	url, err := h.oauth.AuthURL(i.Member.User.ID)
	if err != nil {
		h.logger.Error("auth url failed", zap.String("user_id", i.Member.User.ID), zap.Error(err))
		h.respond(s, i, "Could not start the login, try again later.")
		return
	}
	h.respond(s, i, "Log in with Discord to finish: "+url)
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("interaction respond failed", zap.Error(err))
	}
}

func (h *Handler) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("interaction respond failed", zap.Error(err))
	}
}
