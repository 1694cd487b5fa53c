package session

import (
	"context"
	"time"
)

// Store is a small TTL key-value cache. It holds verified-user records,
// consumed OAuth state ids and pending ticket category picks.
type Store interface {
	// Get returns the stored value, or nil when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }
