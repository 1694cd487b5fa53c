package autorole

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/config"
)

func testConfig() config.AutoRoleConfig {
	return config.AutoRoleConfig{
		ChannelID:    "chan-1",
		TargetUserID: "target-1",
		RoleName:     "wildflover",
	}
}

func message(channelID, authorID string, bot bool, mentionIDs ...string) *discordgo.MessageCreate {
	mentions := make([]*discordgo.User, 0, len(mentionIDs))
	for _, id := range mentionIDs {
		mentions = append(mentions, &discordgo.User{ID: id})
	}
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: channelID,
			Author:    &discordgo.User{ID: authorID, Bot: bot},
			Mentions:  mentions,
		},
	}
}

func TestEligible(t *testing.T) {
	cfg := testConfig()

	if !Eligible(cfg, message("chan-1", "user-1", false, "target-1")) {
		t.Fatal("mention in watched channel must be eligible")
	}
	if Eligible(cfg, message("chan-2", "user-1", false, "target-1")) {
		t.Fatal("wrong channel must not be eligible")
	}
	if Eligible(cfg, message("chan-1", "user-1", false, "someone-else")) {
		t.Fatal("wrong mention must not be eligible")
	}
	if Eligible(cfg, message("chan-1", "user-1", false)) {
		t.Fatal("no mention must not be eligible")
	}
	if Eligible(cfg, message("chan-1", "bot-1", true, "target-1")) {
		t.Fatal("bot author must not be eligible")
	}
}

func TestEligibleUnconfigured(t *testing.T) {
	msg := message("chan-1", "user-1", false, "target-1")

	cfg := testConfig()
	cfg.ChannelID = ""
	if Eligible(cfg, msg) {
		t.Fatal("missing channel config must not be eligible")
	}

	cfg = testConfig()
	cfg.TargetUserID = ""
	if Eligible(cfg, msg) {
		t.Fatal("missing target config must not be eligible")
	}
}

func TestResolveRoleByID(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Name: "other"},
		{ID: "2", Name: "wildflover"},
	}

	cfg := config.AutoRoleConfig{RoleID: "2"}
	if got := resolveRole(roles, cfg); got == nil || got.ID != "2" {
		t.Fatalf("role = %+v", got)
	}

	cfg = config.AutoRoleConfig{RoleID: "99"}
	if got := resolveRole(roles, cfg); got != nil {
		t.Fatalf("role = %+v", got)
	}
}

func TestResolveRoleByName(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Name: "Other"},
		{ID: "2", Name: "Wildflover"},
	}

	cfg := config.AutoRoleConfig{RoleName: "wildflover"}
	if got := resolveRole(roles, cfg); got == nil || got.ID != "2" {
		t.Fatalf("role = %+v", got)
	}

	if got := resolveRole(roles, config.AutoRoleConfig{}); got != nil {
		t.Fatalf("role = %+v", got)
	}
}
