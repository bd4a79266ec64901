package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chargebook/internal/models"
)

// ErrNotFound means the session id is unknown or expired.
var ErrNotFound = errors.New("session: not found")

// Session is the credential state held for one signed-in dashboard. It is the
// only place backend tokens live; nothing else reads or writes them.
type Session struct {
	ID           string      `json:"-"`
	UserID       string      `json:"userId"`
	Role         models.Role `json:"role"`
	AuthToken    string      `json:"authToken"`
	RefreshToken string      `json:"refreshToken"`
	IssuedAt     time.Time   `json:"issuedAt"`
}

// Store keeps sessions in redis, sealed at rest.
type Store struct {
	client *redis.Client
	key    *[keySize]byte
	ttl    time.Duration
}

// NewStore returns a redis-backed session store.
func NewStore(client *redis.Client, hexKey string, ttl time.Duration) (*Store, error) {
	key, err := ParseKey(hexKey)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, key: key, ttl: ttl}, nil
}

func (s *Store) redisKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create seals and stores a new session, returning its id.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	sess.IssuedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	sealed, err := seal(s.key, data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	encoded := base64.StdEncoding.EncodeToString(sealed)
	if err := s.client.Set(ctx, s.redisKey(id), encoded, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get loads and unseals a session.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	result, err := s.client.Get(ctx, s.redisKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(result)
	if err != nil {
		return nil, errSealTampered
	}
	data, err := open(s.key, sealed)
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

// Update reseals a session in place, keeping its id. TTL restarts.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return ErrNotFound
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	sealed, err := seal(s.key, data)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(sealed)
	return s.client.Set(ctx, s.redisKey(sess.ID), encoded, s.ttl).Err()
}

// Refresh bumps the TTL of a live session.
func (s *Store) Refresh(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, s.redisKey(id), s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Clear deletes the session wholesale. Used by logout and on any backend 401.
func (s *Store) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.redisKey(id)).Err()
}
