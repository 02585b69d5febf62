package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/google/uuid"
)

// SessionData is what the storefront login stores for a cookie session.
type SessionData struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps cookie sessions in Redis under <prefix><key>.
type SessionStore struct {
	cache  *cache.RedisClient
	prefix string
	ttl    time.Duration
}

func NewSessionStore(c *cache.RedisClient, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, key string) (*SessionData, error) {
	if key == "" {
		return nil, ErrSessionNotFound
	}
	var data SessionData
	if err := s.cache.GetJSON(ctx, s.prefix+key, &data); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if data.Email == "" {
		return nil, ErrSessionNotFound
	}
	return &data, nil
}

// Create stores data under a new random key and returns the key.
func (s *SessionStore) Create(ctx context.Context, data *SessionData) (string, error) {
	key := uuid.NewString()
	if err := s.cache.SetJSON(ctx, s.prefix+key, data, s.ttl); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, s.prefix+key)
}
