package verify

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateManager issues and checks the OAuth state parameter: a short-lived
// HS256 token carrying the requesting user and a one-time id.
type StateManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateManager(secret string, ttlMinutes int) *StateManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 10
	}
	return &StateManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}
}

func (m *StateManager) Generate(userID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate returns the user id and the token's one-time id. Expired or
// tampered tokens fail here; replay is the caller's check.
func (m *StateManager) Validate(state string) (userID, tokenID string, err error) {
	parsed, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return "", "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", "", errors.New("invalid state claims")
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", errors.New("incomplete state claims")
	}
	return claims.Subject, claims.ID, nil
}
