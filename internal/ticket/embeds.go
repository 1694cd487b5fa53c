package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/storage"
)

const (
	colorDanger  = 0xED4245
	colorNeutral = 0x99AAB5
	colorPanel   = 0x5865F2
)

// PanelEmbed is the public support panel.
func PanelEmbed() *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString("Need help? Open a ticket and the staff will get back to you.\n\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "%s **%s** — %s\n", c.Emoji, c.Label, c.Description)
	}
	return &discordgo.MessageEmbed{
		Title:       "Support",
		Description: b.String(),
		Color:       colorPanel,
	}
}

// WelcomeEmbed opens a new ticket channel.
func WelcomeEmbed(t *storage.Ticket, category Category) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", category.Emoji, category.Label),
		Description: fmt.Sprintf("Thanks <@%s>, the staff has been notified. Describe anything you left out of the form here.", t.UserID),
		Color:       category.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: t.Reason, Inline: false},
			contactField(t),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Use the buttons below to manage this ticket"},
		Timestamp: time.UnixMilli(t.CreatedAt).UTC().Format(time.RFC3339),
	}
}

func contactField(t *storage.Ticket) *discordgo.MessageEmbedField {
	contact := t.Contact
	if contact == "" {
		contact = "none given"
	}
	return &discordgo.MessageEmbedField{Name: "Contact", Value: contact, Inline: false}
}

// ClosedEmbed is the notice posted before the deferred deletion.
func ClosedEmbed(closedBy string, delay time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ticket closed",
		Description: fmt.Sprintf("Closed by <@%s>. This channel will be deleted in %d seconds.", closedBy, int(delay.Seconds())),
		Color:       colorDanger,
	}
}

// LogEmbed records a ticket event in the log channel.
func LogEmbed(action string, t *storage.Ticket, actorID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Ticket " + action,
		Color: colorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", t.ID), Inline: true},
			{Name: "Opened by", Value: fmt.Sprintf("<@%s>", t.UserID), Inline: true},
			{Name: "Category", Value: t.Category, Inline: true},
			{Name: "By", Value: fmt.Sprintf("<@%s>", actorID), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// StatsEmbed summarizes the store for the staff stats command.
func StatsEmbed(stats storage.Stats) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Ticket statistics",
		Color: colorPanel,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: fmt.Sprintf("%d", stats.Total), Inline: true},
			{Name: "Open", Value: fmt.Sprintf("%d", stats.Open), Inline: true},
			{Name: "Pending", Value: fmt.Sprintf("%d", stats.Pending), Inline: true},
			{Name: "Closed", Value: fmt.Sprintf("%d", stats.Closed), Inline: true},
		},
	}
}
