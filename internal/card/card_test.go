package card

import (
	"bytes"
	"image/png"
	"testing"
	"unicode/utf8"
)

func TestRenderWelcomePNG(t *testing.T) {
	data, err := Render(Profile{Username: "alice", MemberCount: 42}, KindWelcome, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1024 || bounds.Dy() != 450 {
		t.Fatalf("bounds = %v", bounds)
	}
}

func TestRenderLeavePNG(t *testing.T) {
	data, err := Render(Profile{Username: "bob"}, KindLeave, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRenderMissingBackgroundFile(t *testing.T) {
	data, err := Render(Profile{Username: "carol", MemberCount: 1}, KindWelcome, "does/not/exist.png")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRenderMultiByteUsername(t *testing.T) {
	data, err := Render(Profile{Username: "Ülkü", MemberCount: 7}, KindWelcome, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestAvatarInitial(t *testing.T) {
	cases := map[string]string{
		"alice":  "A",
		"  bob":  "B",
		"Ülkü":   "Ü",
		"字幕":     "字",
		"":       "?",
		"   ":    "?",
	}
	for username, want := range cases {
		got := avatarInitial(username)
		if got != want {
			t.Fatalf("initial(%q) = %q, want %q", username, got, want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("initial(%q) = %q is not valid UTF-8", username, got)
		}
	}
}

func TestRenderEmptyUsername(t *testing.T) {
	if _, err := Render(Profile{}, KindWelcome, ""); err != nil {
		t.Fatalf("render: %v", err)
	}
}
