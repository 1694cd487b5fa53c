package verify

import (
	"testing"
	"time"
)

func TestStateRoundTrip(t *testing.T) {
	m := NewStateManager("secret", 10)

	state, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	userID, tokenID, err := m.Validate(state)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("userID = %q", userID)
	}
	if tokenID == "" {
		t.Fatal("empty token id")
	}
}

func TestStateUniqueIDs(t *testing.T) {
	m := NewStateManager("secret", 10)

	a, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, idA, _ := m.Validate(a)
	_, idB, _ := m.Validate(b)
	if idA == idB {
		t.Fatal("token ids must differ")
	}
}

func TestStateExpiry(t *testing.T) {
	m := NewStateManager("secret", 10)
	base := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return base }

	state, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	m.now = func() time.Time { return base.Add(11 * time.Minute) }
	if _, _, err := m.Validate(state); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestStateWrongSecret(t *testing.T) {
	issuer := NewStateManager("secret-a", 10)
	checker := NewStateManager("secret-b", 10)

	state, err := issuer.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := checker.Validate(state); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestStateGarbage(t *testing.T) {
	m := NewStateManager("secret", 10)
	if _, _, err := m.Validate("not-a-token"); err == nil {
		t.Fatal("expected parse error")
	}
}
