package ticket

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/session"
	"wildflover-bot/internal/storage"
)

// recordingTransport captures request bodies and answers 204 so interaction
// responses succeed without reaching Discord.
type recordingTransport struct {
	bodies []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		rt.bodies = append(rt.bodies, string(body))
	}
	return &http.Response{
		StatusCode: http.StatusNoContent,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}, nil
}

func newRecordingSession() (*discordgo.Session, *recordingTransport) {
	rt := &recordingTransport{}
	s := &discordgo.Session{
		Client:      &http.Client{Transport: rt},
		Ratelimiter: discordgo.NewRatelimiter(),
		State:       discordgo.NewState(),
	}
	s.State.User = &discordgo.User{ID: "bot"}
	return s, rt
}

func newTestHandler(t *testing.T) (*Handler, *storage.Store) {
	t.Helper()
	m, store := newTestManager(t)
	sessions := session.NewMemory()
	t.Cleanup(func() { sessions.Close() })
	return NewHandler(m, sessions, config.SessionConfig{}, nil), store
}

func componentInteraction(customID, channelID string, member *discordgo.Member) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: channelID,
		Member:    member,
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func TestCloseConfirmOutsideTicketChannel(t *testing.T) {
	h, _ := newTestHandler(t)
	s, rt := newRecordingSession()

	staff := &discordgo.Member{
		User:        &discordgo.User{ID: "mod-1"},
		Permissions: discordgo.PermissionManageChannels,
	}
	if !h.HandleComponent(s, componentInteraction(CustomIDCloseConfirm, "random-chan", staff)) {
		t.Fatal("close confirm not routed")
	}
	if len(rt.bodies) != 1 || !strings.Contains(rt.bodies[0], "not a ticket") {
		t.Fatalf("responses = %v", rt.bodies)
	}
}

func TestCloseConfirmRejectsStranger(t *testing.T) {
	h, store := newTestHandler(t)
	s, rt := newRecordingSession()

	if _, err := store.Create(storage.CreateTicket{ID: "chan-1", UserID: "opener", Username: "alice"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stranger := &discordgo.Member{User: &discordgo.User{ID: "someone-else"}}
	if !h.HandleComponent(s, componentInteraction(CustomIDCloseConfirm, "chan-1", stranger)) {
		t.Fatal("close confirm not routed")
	}
	if len(rt.bodies) != 1 || !strings.Contains(rt.bodies[0], "ticket opener or the staff") {
		t.Fatalf("responses = %v", rt.bodies)
	}
	if got := store.Get("chan-1"); got == nil || got.Status != storage.StatusOpen {
		t.Fatalf("ticket = %+v", got)
	}
}
