// Package verify implements the three verification flows: the role-grant
// panel, the button-based app access check and the OAuth login.
package verify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/session"
)

const recordKeyPrefix = "verified:"

// Record is the stored profile snapshot for a verified user. The desktop app
// polls it through the HTTP API.
type Record struct {
	UserID        string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Verified      bool   `json:"verified"`
	Timestamp     int64  `json:"timestamp"`
}

type Verifier struct {
	sessions session.Store
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewVerifier(sessions session.Store, cfg config.VerifyConfig, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		sessions: sessions,
		ttl:      time.Duration(cfg.RecordTTLHours) * time.Hour,
		logger:   logger,
		now:      time.Now,
	}
}

// Mark stores a verified record for the Discord user.
func (v *Verifier) Mark(ctx context.Context, user *discordgo.User) (*Record, error) {
	record := Record{
		UserID:        user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		GlobalName:    user.GlobalName,
		Avatar:        user.Avatar,
	}
	return v.MarkProfile(ctx, record)
}

func (v *Verifier) MarkProfile(ctx context.Context, record Record) (*Record, error) {
	record.Verified = true
	record.Timestamp = v.now().UnixMilli()
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if err := v.sessions.Set(ctx, recordKeyPrefix+record.UserID, data, v.ttl); err != nil {
		return nil, err
	}
	v.logger.Info("user verified", zap.String("user_id", record.UserID), zap.String("username", record.Username))
	return &record, nil
}

// Lookup returns the verified record, or nil when the user never verified or
// the record expired.
func (v *Verifier) Lookup(ctx context.Context, userID string) (*Record, error) {
	data, err := v.sessions.Get(ctx, recordKeyPrefix+userID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
