package ticket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/policy"
	"wildflover-bot/internal/session"
)

const pickKeyPrefix = "ticket:pick:"

// Handler routes the ticket buttons, select menu and modal. The pending
// category pick lives in the session store with a TTL so abandoned flows
// clean themselves up.
type Handler struct {
	manager  *Manager
	sessions session.Store
	pickTTL  time.Duration
	logger   *zap.Logger
}

func NewHandler(manager *Manager, sessions session.Store, cfg config.SessionConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.SelectionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Handler{manager: manager, sessions: sessions, pickTTL: ttl, logger: logger}
}

// HandleComponent reports whether the interaction was one of ours.
func (h *Handler) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	switch i.MessageComponentData().CustomID {
	case CustomIDCreate:
		h.handleCreateButton(s, i)
	case CustomIDCategoryPick:
		h.handleCategoryPick(s, i)
	case CustomIDClose:
		h.handleCloseButton(s, i)
	case CustomIDCloseConfirm:
		h.handleCloseConfirm(s, i)
	case CustomIDCloseCancel:
		h.respond(s, i, "Close cancelled.")
	case CustomIDClaim:
		h.handleClaim(s, i)
	case CustomIDTranscript:
		h.handleTranscript(s, i)
	default:
		return false
	}
	return true
}

// HandleModal reports whether the modal submit was ours.
func (h *Handler) HandleModal(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.ModalSubmitData().CustomID != CustomIDModal {
		return false
	}
	h.handleModalSubmit(s, i)
	return true
}

func (h *Handler) handleCreateButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "What do you need help with?",
			Components: CategorySelect(),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("category select failed", zap.Error(err))
	}
}

func (h *Handler) handleCategoryPick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 || i.Member == nil {
		return
	}
	category, ok := CategoryByID(values[0])
	if !ok {
		h.respond(s, i, "Unknown category, start again.")
		return
	}

	key := pickKeyPrefix + i.Member.User.ID
	if err := h.sessions.Set(context.Background(), key, []byte(category.ID), h.pickTTL); err != nil {
		h.logger.Error("category pick store failed", zap.String("user_id", i.Member.User.ID), zap.Error(err))
		h.respond(s, i, "Something went wrong, try again.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   CustomIDModal,
			Title:      category.Label,
			Components: ModalComponents(),
		},
	})
	if err != nil {
		h.logger.Warn("modal open failed", zap.Error(err))
	}
}

func (h *Handler) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	h.deferReply(s, i)

	ctx := context.Background()
	key := pickKeyPrefix + i.Member.User.ID
	picked, err := h.sessions.Get(ctx, key)
	if err != nil || picked == nil {
		h.edit(s, i, "Your category selection expired, press the ticket button again.")
		return
	}
	if err := h.sessions.Delete(ctx, key); err != nil {
		h.logger.Warn("category pick cleanup failed", zap.Error(err))
	}
	category, ok := CategoryByID(string(picked))
	if !ok {
		h.edit(s, i, "Your category selection expired, press the ticket button again.")
		return
	}

	reason, contact := modalValues(i.ModalSubmitData())
	channel, _, err := h.manager.Create(s, i.GuildID, i.Member.User, category, reason, contact)
	if errors.Is(err, ErrQuotaExceeded) {
		h.edit(s, i, "You already have too many open tickets. Close one before opening another.")
		return
	}
	if err != nil {
		h.logger.Error("ticket create failed", zap.String("user_id", i.Member.User.ID), zap.Error(err))
		h.edit(s, i, "Could not open the ticket, contact an administrator.")
		return
	}
	h.edit(s, i, fmt.Sprintf("Your ticket is ready: <#%s>", channel.ID))
}

func modalValues(data discordgo.ModalSubmitInteractionData) (reason, contact string) {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if !ok {
				continue
			}
			switch input.CustomID {
			case modalFieldReason:
				reason = input.Value
			case modalFieldContact:
				contact = input.Value
			}
		}
	}
	return reason, contact
}

func (h *Handler) handleCloseButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	ticket := h.manager.Get(i.ChannelID)
	if ticket == nil {
		h.respond(s, i, "This channel is not a ticket.")
		return
	}
	if !policy.CanCloseTicket(i.Member, i.Member.User.ID, ticket) {
		h.respond(s, i, "Only the ticket opener or the staff can close this ticket.")
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "Close this ticket? The channel will be deleted shortly after.",
			Components: CloseConfirmComponents(),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("close confirm failed", zap.Error(err))
	}
}

func (h *Handler) handleCloseConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	ticket := h.manager.Get(i.ChannelID)
	if ticket == nil {
		h.respond(s, i, "This channel is not a ticket.")
		return
	}
	if !policy.CanCloseTicket(i.Member, i.Member.User.ID, ticket) {
		h.respond(s, i, "Only the ticket opener or the staff can close this ticket.")
		return
	}
	h.deferReply(s, i)
	if _, err := h.manager.Close(s, i.ChannelID, i.Member.User); err != nil {
		h.logger.Error("ticket close failed", zap.String("channel_id", i.ChannelID), zap.Error(err))
		h.edit(s, i, "Could not close the ticket, contact an administrator.")
		return
	}
	h.edit(s, i, "Ticket closed.")
}

func (h *Handler) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	if !policy.CanClaimTicket(i.Member) {
		h.respond(s, i, "Only the staff can claim tickets.")
		return
	}
	if _, err := h.manager.Claim(s, i.ChannelID, i.Member.User); err != nil {
		if errors.Is(err, ErrUnknownTicket) {
			h.respond(s, i, "This channel is not a ticket.")
			return
		}
		h.logger.Error("ticket claim failed", zap.String("channel_id", i.ChannelID), zap.Error(err))
		h.respond(s, i, "Could not claim the ticket, try again later.")
		return
	}
	h.respond(s, i, "Ticket claimed.")
}

func (h *Handler) handleTranscript(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	if !policy.CanManageTickets(i.Member) {
		h.respond(s, i, "Only the staff can export transcripts.")
		return
	}
	h.deferReply(s, i)

	channelName := i.ChannelID
	if channel, err := s.Channel(i.ChannelID); err == nil {
		channelName = channel.Name
	}
	filename, content, err := h.manager.Transcript(s, i.ChannelID, channelName)
	if err != nil {
		h.logger.Error("transcript failed", zap.String("channel_id", i.ChannelID), zap.Error(err))
		h.edit(s, i, "Could not build the transcript, try again later.")
		return
	}
	message := "Transcript attached."
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
		Files: []*discordgo.File{
			{Name: filename, ContentType: "text/plain", Reader: bytes.NewReader(content)},
		},
	})
	if err != nil {
		h.logger.Warn("transcript upload failed", zap.Error(err))
	}
}

func (h *Handler) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		h.logger.Warn("interaction defer failed", zap.Error(err))
	}
}

func (h *Handler) edit(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		h.logger.Warn("interaction edit failed", zap.Error(err))
	}
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
