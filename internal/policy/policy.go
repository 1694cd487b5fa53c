// Package policy holds the authorization predicates for ticket and
// verification actions. Interaction members carry resolved permissions, so
// the predicates only read Member.Permissions.
package policy

import (
	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/storage"
)

func IsAdministrator(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

// CanManageTickets gates staff-only ticket actions like stats and forced
// deletion.
func CanManageTickets(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	return member.Permissions&(discordgo.PermissionManageChannels|discordgo.PermissionAdministrator) != 0
}

// CanCloseTicket allows channel managers and the ticket's opener.
func CanCloseTicket(member *discordgo.Member, userID string, ticket *storage.Ticket) bool {
	if CanManageTickets(member) {
		return true
	}
	return ticket != nil && ticket.UserID == userID
}

// CanClaimTicket requires message management, the baseline support-staff
// permission.
func CanClaimTicket(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	return member.Permissions&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}

// BotCanAssign reports whether the bot's highest role sits above the target
// role, which Discord requires for role assignment.
func BotCanAssign(guild *discordgo.Guild, botMember *discordgo.Member, role *discordgo.Role) bool {
	if guild == nil || botMember == nil || role == nil {
		return false
	}
	highest := 0
	roleMap := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, r := range guild.Roles {
		roleMap[r.ID] = r
	}
	for _, roleID := range botMember.Roles {
		if r := roleMap[roleID]; r != nil && r.Position > highest {
			highest = r.Position
		}
	}
	return highest > role.Position
}
