package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	StatusOpen    = "open"
	StatusPending = "pending"
	StatusClosed  = "closed"
)

// Ticket is one support ticket record. The ID is the Discord channel ID of
// the ticket channel. Timestamps are unix milliseconds.
type Ticket struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Category     string `json:"category"`
	Reason       string `json:"reason"`
	Contact      string `json:"contact,omitempty"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"createdAt"`
	LastActivity int64  `json:"lastActivity"`
	ClosedAt     int64  `json:"closedAt,omitempty"`
	ClosedBy     string `json:"closedBy,omitempty"`
	ClaimedBy    string `json:"claimedBy,omitempty"`
}

type CreateTicket struct {
	ID       string
	UserID   string
	Username string
	Category string
	Reason   string
	Contact  string
}

type Stats struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// Store persists tickets as a single JSON document. Every mutation rewrites
// the whole file; the mutex serializes the map+file cycle.
type Store struct {
	mu      sync.Mutex
	path    string
	tickets map[string]*Ticket
	now     func() time.Time
	logger  *zap.Logger
}

func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:    path,
		tickets: make(map[string]*Ticket),
		now:     time.Now,
		logger:  logger,
	}
}

// WithNow overrides the time source for tests.
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

// Init loads the data file, creating it (and its directory) when absent.
// A present but unparseable file is an error; silently starting empty would
// clobber the records on the next write.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("read tickets: %w", err)
	}
	loaded := make(map[string]*Ticket)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse tickets: %w", err)
	}
	s.tickets = loaded
	s.logger.Info("tickets loaded", zap.Int("count", len(loaded)))
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.tickets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Create(data CreateTicket) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	t := &Ticket{
		ID:           data.ID,
		UserID:       data.UserID,
		Username:     data.Username,
		Category:     data.Category,
		Reason:       data.Reason,
		Contact:      data.Contact,
		Status:       StatusOpen,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.tickets[t.ID] = t
	if err := s.save(); err != nil {
		return nil, err
	}
	dup := *t
	return &dup, nil
}

// Get returns a copy of the ticket, or nil when unknown.
func (s *Store) Get(id string) *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil
	}
	dup := *t
	return &dup
}

// UserOpen returns the user's tickets that are still open.
func (s *Store) UserOpen(userID string) []*Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Ticket
	for _, t := range s.tickets {
		if t.UserID == userID && t.Status == StatusOpen {
			dup := *t
			out = append(out, &dup)
		}
	}
	return out
}

// All returns every ticket, optionally filtered by status. An empty status
// returns everything.
func (s *Store) All(status string) []*Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Ticket
	for _, t := range s.tickets {
		if status != "" && t.Status != status {
			continue
		}
		dup := *t
		out = append(out, &dup)
	}
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Total: len(s.tickets)}
	for _, t := range s.tickets {
		switch t.Status {
		case StatusOpen:
			stats.Open++
		case StatusPending:
			stats.Pending++
		case StatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// Update applies mutate to the ticket, bumps LastActivity and persists.
// An unknown id is a no-op returning nil with no file write.
func (s *Store) Update(id string, mutate func(*Ticket)) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	mutate(t)
	t.LastActivity = s.now().UnixMilli()
	if err := s.save(); err != nil {
		return nil, err
	}
	dup := *t
	return &dup, nil
}

func (s *Store) Close(id, closedBy string) (*Ticket, error) {
	closedAt := s.now().UnixMilli()
	return s.Update(id, func(t *Ticket) {
		t.Status = StatusClosed
		t.ClosedAt = closedAt
		t.ClosedBy = closedBy
	})
}

// Delete removes the record. It reports whether the id existed; the file is
// only rewritten when something was removed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return false, nil
	}
	delete(s.tickets, id)
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}
