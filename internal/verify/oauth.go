package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/session"
)

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

var meURL = "https://discord.com/api/users/@me"

var ErrStateReplayed = errors.New("oauth state already used")

// OAuth runs the authorization-code login against Discord. The state token
// is single use: its id is recorded in the session store on first sight.
type OAuth struct {
	conf     *oauth2.Config
	states   *StateManager
	sessions session.Store
	verifier *Verifier
	stateTTL time.Duration
	logger   *zap.Logger
}

func NewOAuth(clientID string, cfg config.OAuthConfig, verifier *Verifier, sessions session.Store, logger *zap.Logger) *OAuth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     discordEndpoint,
		},
		states:   NewStateManager(cfg.StateSecret, cfg.StateTTLMinutes),
		sessions: sessions,
		verifier: verifier,
		stateTTL: time.Duration(cfg.StateTTLMinutes) * time.Minute,
		logger:   logger,
	}
}

// AuthURL builds the Discord authorize URL for the user.
func (o *OAuth) AuthURL(userID string) (string, error) {
	state, err := o.states.Generate(userID)
	if err != nil {
		return "", err
	}
	return o.conf.AuthCodeURL(state), nil
}

// HandleCallback finishes the flow: state check, code exchange, profile
// fetch, verified record.
func (o *OAuth) HandleCallback(ctx context.Context, code, state string) (*Record, error) {
	userID, tokenID, err := o.states.Validate(state)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}

	replayKey := "oauth:state:" + tokenID
	seen, err := o.sessions.Get(ctx, replayKey)
	if err != nil {
		return nil, err
	}
	if seen != nil {
		return nil, ErrStateReplayed
	}
	if err := o.sessions.Set(ctx, replayKey, []byte("1"), o.stateTTL); err != nil {
		return nil, err
	}

	token, err := o.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	profile, err := o.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		o.logger.Warn("oauth account mismatch",
			zap.String("state_user_id", userID),
			zap.String("token_user_id", profile.UserID))
	}
	return o.verifier.MarkProfile(ctx, *profile)
}

func (o *OAuth) fetchProfile(ctx context.Context, token *oauth2.Token) (*Record, error) {
	client := o.conf.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: status %d", resp.StatusCode)
	}

	var me struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		Discriminator string `json:"discriminator"`
		GlobalName    string `json:"global_name"`
		Avatar        string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &Record{
		UserID:        me.ID,
		Username:      me.Username,
		Discriminator: me.Discriminator,
		GlobalName:    me.GlobalName,
		Avatar:        me.Avatar,
	}, nil
}
