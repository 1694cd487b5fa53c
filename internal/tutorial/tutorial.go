// Package tutorial renders the multilingual feature guides as embeds.
package tutorial

import (
	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/lang"
)

const embedColor = 0x9B59B6

var topics = []string{
	"menu",
	"home",
	"champions",
	"skinpage",
	"chroma",
	"marketplace",
	"filters",
	"history",
	"customs",
	"activate",
	"settings",
	"troubleshoot",
}

func Topics() []string {
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

func Known(topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Embed builds the guide embed for a topic. Unknown topics get a pointer to
// the menu instead of an error.
func Embed(topic, language string) *discordgo.MessageEmbed {
	if !Known(topic) {
		return &discordgo.MessageEmbed{
			Title:       lang.T(language, "tutorial.menu.title"),
			Description: lang.T(language, "tutorial.unknown"),
			Color:       embedColor,
			Footer:      &discordgo.MessageEmbedFooter{Text: lang.T(language, "tutorial.footer")},
		}
	}
	return &discordgo.MessageEmbed{
		Title:       lang.T(language, "tutorial."+topic+".title"),
		Description: lang.T(language, "tutorial."+topic+".desc"),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: lang.T(language, "tutorial.footer")},
	}
}
