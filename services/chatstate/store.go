package chatstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	models "gamerscove/models/redis"

	"github.com/redis/go-redis/v9"
)

const (
	// maxMessages bounds the conversation window fed back to the model.
	maxMessages = 20

	defaultTTL = 2 * time.Hour
)

// Store keeps per-session chat state in Redis, keyed by session id.
// Key format: "chat:session:{id}". Sessions expire after the TTL so
// abandoned conversations do not accumulate.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: defaultTTL}
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat:session:%s", id)
}

// Load returns the session for id, or an empty session when none exists.
func (s *Store) Load(ctx context.Context, id string) (*models.ChatSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.ChatSession{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat session %s: %w", id, err)
	}

	var session models.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("corrupt chat session %s: %w", id, err)
	}
	return &session, nil
}

// Save persists the session, trimming the message window to its bound and
// refreshing the TTL.
func (s *Store) Save(ctx context.Context, id string, session *models.ChatSession) error {
	if len(session.Messages) > maxMessages {
		session.Messages = session.Messages[len(session.Messages)-maxMessages:]
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling chat session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(id), data, s.ttl).Err()
}

// Delete removes a session outright.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}
