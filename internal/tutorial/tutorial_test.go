package tutorial

import "testing"

func TestEmbedKnownTopic(t *testing.T) {
	embed := Embed("home", "en")
	if embed.Title != "Home screen" {
		t.Fatalf("title = %q", embed.Title)
	}
	if embed.Description == "" {
		t.Fatal("empty description")
	}
}

func TestEmbedTurkish(t *testing.T) {
	embed := Embed("home", "tr")
	if embed.Title != "Ana ekran" {
		t.Fatalf("title = %q", embed.Title)
	}
}

func TestEmbedUnknownTopicPointsToMenu(t *testing.T) {
	embed := Embed("nonsense", "en")
	if embed.Description != "Unknown topic. Use /tutorial menu to see what is available." {
		t.Fatalf("description = %q", embed.Description)
	}
}

func TestAllTopicsHaveTranslations(t *testing.T) {
	for _, topic := range Topics() {
		for _, language := range []string{"en", "tr"} {
			embed := Embed(topic, language)
			if embed.Title == "" || embed.Title[0] == '{' {
				t.Fatalf("topic %s lang %s title = %q", topic, language, embed.Title)
			}
			if embed.Description == "" || embed.Description[0] == '{' {
				t.Fatalf("topic %s lang %s desc = %q", topic, language, embed.Description)
			}
		}
	}
}
