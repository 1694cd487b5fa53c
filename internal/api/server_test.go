package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/verify"
)

type stubVerification struct {
	records map[string]*verify.Record
	err     error
}

func (s *stubVerification) Lookup(_ context.Context, userID string) (*verify.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records[userID], nil
}

type stubOAuth struct {
	record *verify.Record
	err    error
}

func (s *stubOAuth) HandleCallback(context.Context, string, string) (*verify.Record, error) {
	return s.record, s.err
}

func newTestServer(verification Verification, oauth OAuthCallback) *Server {
	return New(config.APIConfig{Addr: ":0"}, verification, oauth, nil)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestVerifyCheckVerified(t *testing.T) {
	srv := newTestServer(&stubVerification{records: map[string]*verify.Record{
		"u1": {UserID: "u1", Username: "alice", Verified: true, Timestamp: 123},
	}}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/verify/check?userId=u1", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	var body struct {
		Verified bool `json:"verified"`
		User     struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Verified || body.User.ID != "u1" || body.User.Username != "alice" || body.Timestamp != 123 {
		t.Fatalf("body = %+v", body)
	}
}

func TestVerifyCheckUnknownUser(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/verify/check?userId=nobody", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["verified"] != false {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["user"]; ok {
		t.Fatal("unverified response must not carry a user")
	}
}

func TestVerifyCheckMissingUserID(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/verify/check", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestVerifyCheckLookupError(t *testing.T) {
	srv := newTestServer(&stubVerification{err: errors.New("backend down")}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/verify/check?userId=u1", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOAuthCallback(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{record: &verify.Record{Username: "alice"}})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/oauth/callback?code=c&state=s", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOAuthCallbackReplay(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{err: verify.ErrStateReplayed})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/oauth/callback?code=c&state=s", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOAuthCallbackMissingParams(t *testing.T) {
	srv := newTestServer(&stubVerification{}, &stubOAuth{})

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/oauth/callback", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
