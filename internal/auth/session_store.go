package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomly/internal/cache"
)

const (
	sessionKeyPrefix    = "session:"
	oauthStateKeyPrefix = "oauth_state:"

	// OAuthStateTTL bounds how long a login attempt may sit between the
	// redirect to Google and the callback.
	OAuthStateTTL = 10 * time.Minute
)

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	StoreSession(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (uuid.UUID, error)
	DeleteSession(ctx context.Context, sessionID string) error
	StoreOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// SessionStore handles server-side session records and OAuth state nonces
// in Redis. The signed session JWT only references a record here; identity
// lives in the users table, never in the session blob.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// StoreSession stores a session record in Redis with TTL.
func (s *SessionStore) StoreSession(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id": userID.String(),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	key := sessionKeyPrefix + sessionID
	return s.cache.Set(ctx, key, payload, ttl)
}

// GetSession retrieves the user ID behind a session record.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (uuid.UUID, error) {
	key := sessionKeyPrefix + sessionID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return uuid.Nil, fmt.Errorf("session not found")
	}

	var sessionData map[string]interface{}
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return uuid.Nil, fmt.Errorf("unmarshal session data: %w", err)
	}

	raw, ok := sessionData["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user_id in session data")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse user_id: %w", err)
	}
	return userID, nil
}

// DeleteSession removes a session record from Redis.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	return s.cache.Delete(ctx, key)
}

// StoreOAuthState records a login state nonce with a short TTL.
func (s *SessionStore) StoreOAuthState(ctx context.Context, state string) error {
	key := oauthStateKeyPrefix + state
	return s.cache.Set(ctx, key, []byte("1"), OAuthStateTTL)
}

// ConsumeOAuthState atomically checks and removes a state nonce. A nonce
// can be consumed at most once.
func (s *SessionStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	key := oauthStateKeyPrefix + state
	data, err := s.cache.GetDel(ctx, key)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
