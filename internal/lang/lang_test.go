package lang

import "testing"

func TestLookup(t *testing.T) {
	if got := T("en", "tutorial.home.title"); got != "Home screen" {
		t.Fatalf("en lookup = %q", got)
	}
	if got := T("tr", "tutorial.home.title"); got != "Ana ekran" {
		t.Fatalf("tr lookup = %q", got)
	}
}

func TestFallbackToEnglish(t *testing.T) {
	if got := T("de", "tutorial.home.title"); got != "Home screen" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestMissingKeyIsVisible(t *testing.T) {
	if got := T("en", "no.such.key"); got != "{no.such.key}" {
		t.Fatalf("missing = %q", got)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("en") || !Supported("tr") {
		t.Fatal("en and tr must be supported")
	}
	if Supported("de") {
		t.Fatal("de must not be supported")
	}
}

func TestLocalesCoverSameKeys(t *testing.T) {
	for key := range tables["en"] {
		if _, ok := tables["tr"][key]; !ok {
			t.Fatalf("tr missing key %q", key)
		}
	}
	for key := range tables["tr"] {
		if _, ok := tables["en"][key]; !ok {
			t.Fatalf("en missing key %q", key)
		}
	}
}
