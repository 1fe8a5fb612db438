package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// SessionMemoryRepository stores dialogue sessions in process memory.
// Sessions do not survive a restart.
type SessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[int64]models.Session
}

// NewSessionMemoryRepository creates an empty in-memory session store
func NewSessionMemoryRepository() *SessionMemoryRepository {
	return &SessionMemoryRepository{sessions: make(map[int64]models.Session)}
}

// Get returns a copy of the session, or nil if the conversation has none
func (r *SessionMemoryRepository) Get(_ context.Context, conversationID int64) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[conversationID]
	if !ok {
		return nil, nil
	}
	if s.Amount != nil {
		amount := *s.Amount
		s.Amount = &amount
	}
	return &s, nil
}

// Put stores a copy of the session, replacing any previous one
func (r *SessionMemoryRepository) Put(_ context.Context, s *models.Session) error {
	stored := *s
	if s.Amount != nil {
		amount := *s.Amount
		stored.Amount = &amount
	}

	r.mu.Lock()
	r.sessions[s.ConversationID] = stored
	r.mu.Unlock()
	return nil
}

// Delete drops the session of a conversation. Missing sessions are not an error.
func (r *SessionMemoryRepository) Delete(_ context.Context, conversationID int64) error {
	r.mu.Lock()
	delete(r.sessions, conversationID)
	r.mu.Unlock()
	return nil
}

// SessionRedisRepository stores dialogue sessions in Redis so they survive restarts.
// Idle sessions expire after exp.
type SessionRedisRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewSessionRedisRepository creates a Redis session store with the given idle TTL
func NewSessionRedisRepository(client *redis.Client, expiration time.Duration) *SessionRedisRepository {
	return &SessionRedisRepository{client: client, exp: expiration}
}

func sessionKey(conversationID int64) string {
	return fmt.Sprintf("session:%d", conversationID)
}

// Get returns the session, or nil if it is missing or expired
func (r *SessionRedisRepository) Get(ctx context.Context, conversationID int64) (*models.Session, error) {
	key := sessionKey(conversationID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.Log.Errorw("session read failed", "key", key, "error", err)
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal(val, &s); err != nil {
		logger.Log.Errorw("session is corrupt", "key", key, "error", err)
		return nil, err
	}
	return &s, nil
}

// Put stores the session and refreshes its TTL
func (r *SessionRedisRepository) Put(ctx context.Context, s *models.Session) error {
	key := sessionKey(s.ConversationID)

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Debugw("session stored",
		"key", key,
		"state", s.State.String(),
		"error", err,
	)
	return err
}

// Delete drops the session of a conversation
func (r *SessionRedisRepository) Delete(ctx context.Context, conversationID int64) error {
	key := sessionKey(conversationID)
	err := r.client.Del(ctx, key).Err()
	logger.Log.Debugw("session deleted", "key", key, "error", err)
	return err
}
