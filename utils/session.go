package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when a token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// AdminSession is the server-side record behind an admin JWT.
type AdminSession struct {
	Subject   string    `json:"sub"`
	Role      string    `json:"role"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore persists admin sessions keyed by subject and token hash.
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, session AdminSession) error
	Get(ctx context.Context, subject, tokenHash string) (*AdminSession, error)
	Delete(ctx context.Context, subject, tokenHash string) error
	// DeleteAll revokes every session of subject.
	DeleteAll(ctx context.Context, subject string) error
}

func sessionKey(subject, tokenHash string) string {
	return AdminSessionPrefix + subject + ":" + tokenHash
}

// RedisSessionStore keeps sessions in Redis with a TTL matching the token expiry.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, tokenHash string, session AdminSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal admin session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("admin session already expired")
	}
	if err := s.client.Set(ctx, sessionKey(session.Subject, tokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save admin session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, subject, tokenHash string) (*AdminSession, error) {
	data, err := s.client.Get(ctx, sessionKey(subject, tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin session: %w", err)
	}
	var session AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, subject, tokenHash string) error {
	return s.client.Del(ctx, sessionKey(subject, tokenHash)).Err()
}

func (s *RedisSessionStore) DeleteAll(ctx context.Context, subject string) error {
	iter := s.client.Scan(ctx, 0, sessionKey(subject, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan admin sessions: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// MemorySessionStore is used with STORE_BACKEND=memory and in tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]AdminSession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]AdminSession), now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, tokenHash string, session AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey(session.Subject, tokenHash)] = session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, subject, tokenHash string) (*AdminSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(subject, tokenHash)
	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !session.ExpiresAt.After(s.now()) {
		delete(s.sessions, key)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, subject, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(subject, tokenHash))
	return nil
}

func (s *MemorySessionStore) DeleteAll(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := sessionKey(subject, "")
	for key := range s.sessions {
		if strings.HasPrefix(key, prefix) {
			delete(s.sessions, key)
		}
	}
	return nil
}
