package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.json")
	s := New(path, nil)
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s, path
}

func TestCreateAndReload(t *testing.T) {
	s, path := newTestStore(t)

	created, err := s.Create(CreateTicket{
		ID:       "chan-1",
		UserID:   "user-1",
		Username: "alice",
		Category: "technical",
		Reason:   "cannot log in",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusOpen {
		t.Fatalf("status = %q", created.Status)
	}
	if created.CreatedAt == 0 || created.CreatedAt != created.LastActivity {
		t.Fatalf("timestamps = %d/%d", created.CreatedAt, created.LastActivity)
	}

	reopened := New(path, nil)
	if err := reopened.Init(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Get("chan-1")
	if got == nil || got.Username != "alice" || got.Category != "technical" {
		t.Fatalf("reloaded ticket = %+v", got)
	}
}

func TestInitRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := New(path, nil)
	if err := s.Init(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestUserOpenExcludesClosed(t *testing.T) {
	s, _ := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Create(CreateTicket{ID: id, UserID: "u1", Username: "alice"}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if _, err := s.Create(CreateTicket{ID: "d", UserID: "u2", Username: "bob"}); err != nil {
		t.Fatalf("create d: %v", err)
	}
	if _, err := s.Close("b", "mod-1"); err != nil {
		t.Fatalf("close: %v", err)
	}

	open := s.UserOpen("u1")
	if len(open) != 2 {
		t.Fatalf("open tickets = %d", len(open))
	}
}

func TestCloseSetsFields(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Create(CreateTicket{ID: "a", UserID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	closed, err := s.Close("a", "mod-1")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != StatusClosed || closed.ClosedBy != "mod-1" || closed.ClosedAt == 0 {
		t.Fatalf("closed = %+v", closed)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s, path := newTestStore(t)
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	got, err := s.Update("nope", func(tk *Ticket) { tk.ClaimedBy = "mod-1" })
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != nil {
		t.Fatalf("got = %+v", got)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if after.ModTime() != before.ModTime() || after.Size() != before.Size() {
		t.Fatal("file rewritten on unknown-id update")
	}
}

func TestUpdateBumpsLastActivity(t *testing.T) {
	s, _ := newTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)
	s.WithNow(func() time.Time { return base })
	if _, err := s.Create(CreateTicket{ID: "a", UserID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.WithNow(func() time.Time { return base.Add(time.Minute) })
	got, err := s.Update("a", func(tk *Ticket) { tk.ClaimedBy = "mod-1" })
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ClaimedBy != "mod-1" {
		t.Fatalf("claimedBy = %q", got.ClaimedBy)
	}
	if got.LastActivity != base.Add(time.Minute).UnixMilli() {
		t.Fatalf("lastActivity = %d", got.LastActivity)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Create(CreateTicket{ID: "a", UserID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := s.Delete("a")
	if err != nil || !removed {
		t.Fatalf("delete = %v, %v", removed, err)
	}
	if s.Get("a") != nil {
		t.Fatal("ticket still present")
	}
	removed, err = s.Delete("a")
	if err != nil || removed {
		t.Fatalf("second delete = %v, %v", removed, err)
	}
}

func TestStatsSumToTotal(t *testing.T) {
	s, _ := newTestStore(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := s.Create(CreateTicket{ID: id, UserID: "u1", Username: "alice"}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if _, err := s.Close("a", "mod-1"); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats := s.Stats()
	if stats.Total != 4 || stats.Open != 3 || stats.Closed != 1 || stats.Pending != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Open+stats.Pending+stats.Closed != stats.Total {
		t.Fatalf("stats do not sum: %+v", stats)
	}
}
