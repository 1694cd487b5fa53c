package verify

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPrimary = 0x5865F2
	colorSuccess = 0x57F287
	colorNeutral = 0x99AAB5
)

// RolePanel is the admin-posted embed with the verification button.
func RolePanel(roleName string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:       "Server verification",
		Description: fmt.Sprintf("Press the button below to receive the **%s** role and unlock the server.", roleName),
		Color:       colorPrimary,
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Verify",
					Style:    discordgo.SuccessButton,
					CustomID: CustomIDRoleButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
				},
			},
		},
	}
	return embed, components
}

// AccessPanel is the app-access embed with the instant and OAuth buttons.
func AccessPanel() (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: "App access",
		Description: "Link your Discord account to use the Wildflover app.\n\n" +
			"**Verify** records your account instantly.\n" +
			"**Login with Discord** confirms ownership through Discord's login page.",
		Color: colorPrimary,
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Verify",
					Style:    discordgo.PrimaryButton,
					CustomID: CustomIDAccessButton,
				},
				discordgo.Button{
					Label:    "Login with Discord",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomIDOAuthButton,
				},
			},
		},
	}
	return embed, components
}

// Guide explains the verification steps, posted by the guide command.
func Guide() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "How to verify",
		Color: colorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "1. Find the panel", Value: "Look for the verification panel posted by the moderators.", Inline: false},
			{Name: "2. Press Verify", Value: "The bot records your account and assigns the member role.", Inline: false},
			{Name: "3. Open the app", Value: "Log in inside the Wildflover app with the same Discord account.", Inline: false},
			{Name: "Trouble?", Value: "Open a support ticket and the staff will sort it out.", Inline: false},
		},
	}
}

func roleGrantedEmbed(roleName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Verified",
		Description: fmt.Sprintf("You received the **%s** role. Welcome!", roleName),
		Color:       colorSuccess,
	}
}

func alreadyVerifiedEmbed(roleName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Already verified",
		Description: fmt.Sprintf("You already have the **%s** role.", roleName),
		Color:       colorNeutral,
	}
}

func accessVerifiedEmbed(record *Record) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Account linked",
		Description: "Your Discord account is now linked to the app.",
		Color:       colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Account", Value: record.Username, Inline: true},
			{Name: "Linked at", Value: time.UnixMilli(record.Timestamp).UTC().Format(time.RFC3339), Inline: true},
		},
	}
}
