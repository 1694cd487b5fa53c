package ticket

import "github.com/bwmarrin/discordgo"

const (
	CustomIDCreate       = "ticket_create"
	CustomIDCategoryPick = "ticket_category"
	CustomIDModal        = "ticket_modal"
	CustomIDClose        = "ticket_close"
	CustomIDCloseConfirm = "ticket_close_confirm"
	CustomIDCloseCancel  = "ticket_close_cancel"
	CustomIDClaim        = "ticket_claim"
	CustomIDTranscript   = "ticket_transcript"

	modalFieldReason  = "ticket_reason"
	modalFieldContact = "ticket_contact"
)

// PanelComponents is the single open-ticket button under the public panel.
func PanelComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Open a ticket",
					Style:    discordgo.PrimaryButton,
					CustomID: CustomIDCreate,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎫"},
				},
			},
		},
	}
}

// CategorySelect is the ephemeral queue picker.
func CategorySelect() []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, discordgo.SelectMenuOption{
			Label:       c.Label,
			Value:       c.ID,
			Description: c.Description,
			Emoji:       &discordgo.ComponentEmoji{Name: c.Emoji},
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    CustomIDCategoryPick,
					Placeholder: "Pick a category",
					Options:     options,
				},
			},
		},
	}
}

// ModalComponents is the reason/contact form shown after the category pick.
func ModalComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    modalFieldReason,
					Label:       "Describe your problem",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "What happened, what did you expect?",
					Required:    true,
					MinLength:   10,
					MaxLength:   1000,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    modalFieldContact,
					Label:       "Other contact (optional)",
					Style:       discordgo.TextInputShort,
					Placeholder: "Email or other handle",
					Required:    false,
					MaxLength:   100,
				},
			},
		},
	}
}

// ControlComponents are the buttons pinned in every ticket channel.
func ControlComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close",
					Style:    discordgo.DangerButton,
					CustomID: CustomIDClose,
					Emoji:    &discordgo.ComponentEmoji{Name: "🔒"},
				},
				discordgo.Button{
					Label:    "Claim",
					Style:    discordgo.SuccessButton,
					CustomID: CustomIDClaim,
					Emoji:    &discordgo.ComponentEmoji{Name: "🙋"},
				},
				discordgo.Button{
					Label:    "Transcript",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomIDTranscript,
					Emoji:    &discordgo.ComponentEmoji{Name: "📄"},
				},
			},
		},
	}
}

// CloseConfirmComponents asks for confirmation before the deferred delete.
func CloseConfirmComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close ticket",
					Style:    discordgo.DangerButton,
					CustomID: CustomIDCloseConfirm,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomIDCloseCancel,
				},
			},
		},
	}
}
