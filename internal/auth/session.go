package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionData struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps login sessions keyed by the id embedded in the bearer token.
type SessionStore interface {
	SetSession(ctx context.Context, sessionID string, data *SessionData, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

func NewSessionID() string {
	return uuid.NewString()
}

type memoryEntry struct {
	data      SessionData
	expiresAt time.Time
}

// MemorySessionStore is used when no Redis is configured. Expired sessions are
// dropped on read and swept on every write.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemorySessionStore) SetSession(_ context.Context, sessionID string, data *SessionData, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sessionID] = memoryEntry{data: *data, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemorySessionStore) GetSession(_ context.Context, sessionID string) (*SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	data := entry.data
	return &data, nil
}

func (s *MemorySessionStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
