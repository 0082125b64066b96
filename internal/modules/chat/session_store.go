package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ride-booking/internal/models"

	"github.com/go-redis/redis/v8"
)

// SessionStore persists the booking context and the conversation log of each
// chat session. Sessions are scoped to the owning user.
type SessionStore interface {
	// LoadContext returns the zero context for an unknown session.
	LoadContext(ctx context.Context, userID, sessionID string) (models.BookingContext, error)
	SaveContext(ctx context.Context, userID, sessionID string, bc models.BookingContext) error
	AppendTurns(ctx context.Context, userID, sessionID string, turns ...models.ConversationTurn) error
	// History returns models.ErrNotFound for an unknown session.
	History(ctx context.Context, userID, sessionID string) ([]models.ConversationTurn, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

// RedisSessionStore keeps the context as a JSON string and the turns as a list,
// both expiring ttl after the last write.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func stateKey(userID, sessionID string) string {
	return fmt.Sprintf("chat:%s:%s:context", userID, sessionID)
}

func turnsKey(userID, sessionID string) string {
	return fmt.Sprintf("chat:%s:%s:turns", userID, sessionID)
}

func (s *RedisSessionStore) LoadContext(ctx context.Context, userID, sessionID string) (models.BookingContext, error) {
	var bc models.BookingContext
	raw, err := s.rdb.Get(ctx, stateKey(userID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return bc, nil
	}
	if err != nil {
		return bc, fmt.Errorf("store.LoadContext: %w", err)
	}
	if err := json.Unmarshal(raw, &bc); err != nil {
		return models.BookingContext{}, fmt.Errorf("store.LoadContext: decode: %w", err)
	}
	return bc, nil
}

func (s *RedisSessionStore) SaveContext(ctx context.Context, userID, sessionID string, bc models.BookingContext) error {
	raw, err := json.Marshal(bc)
	if err != nil {
		return fmt.Errorf("store.SaveContext: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, stateKey(userID, sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store.SaveContext: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) AppendTurns(ctx context.Context, userID, sessionID string, turns ...models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("store.AppendTurns: encode: %w", err)
		}
		values = append(values, raw)
	}
	key := turnsKey(userID, sessionID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store.AppendTurns: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) History(ctx context.Context, userID, sessionID string) ([]models.ConversationTurn, error) {
	items, err := s.rdb.LRange(ctx, turnsKey(userID, sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("store.History: %w", err)
	}
	if len(items) == 0 {
		return nil, models.ErrNotFound
	}
	turns := make([]models.ConversationTurn, 0, len(items))
	for _, item := range items {
		var t models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("store.History: decode: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID, sessionID string) error {
	if err := s.rdb.Del(ctx, stateKey(userID, sessionID), turnsKey(userID, sessionID)).Err(); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}
	return nil
}

type memorySession struct {
	context models.BookingContext
	turns   []models.ConversationTurn
	expires time.Time
}

// sweepInterval bounds how often writes scan for expired sessions.
const sweepInterval = time.Minute

// MemorySessionStore is the single-process store used when redis is not configured.
// Like the redis store, a session expires ttl after its last write.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*memorySession
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemorySessionStore builds a store whose sessions live ttl after the last
// write; a non-positive ttl keeps them until deleted.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*memorySession), ttl: ttl, now: time.Now}
}

func (s *MemorySessionStore) expired(sess *memorySession, now time.Time) bool {
	return !sess.expires.IsZero() && !now.Before(sess.expires)
}

// lookup returns the live session, dropping it when expired.
func (s *MemorySessionStore) lookup(key string) *memorySession {
	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}
	if s.expired(sess, s.now()) {
		delete(s.sessions, key)
		return nil
	}
	return sess
}

// touch returns the session for a write, creating it and extending its expiry.
func (s *MemorySessionStore) touch(key string) *memorySession {
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		for k, sess := range s.sessions {
			if s.expired(sess, now) {
				delete(s.sessions, k)
			}
		}
		s.lastSweep = now
	}
	sess := s.lookup(key)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[key] = sess
	}
	if s.ttl > 0 {
		sess.expires = now.Add(s.ttl)
	}
	return sess
}

func memoryKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

func (s *MemorySessionStore) LoadContext(ctx context.Context, userID, sessionID string) (models.BookingContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.lookup(memoryKey(userID, sessionID)); sess != nil {
		return sess.context, nil
	}
	return models.BookingContext{}, nil
}

func (s *MemorySessionStore) SaveContext(ctx context.Context, userID, sessionID string, bc models.BookingContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(memoryKey(userID, sessionID)).context = bc
	return nil
}

func (s *MemorySessionStore) AppendTurns(ctx context.Context, userID, sessionID string, turns ...models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.touch(memoryKey(userID, sessionID))
	sess.turns = append(sess.turns, turns...)
	return nil
}

func (s *MemorySessionStore) History(ctx context.Context, userID, sessionID string) ([]models.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(memoryKey(userID, sessionID))
	if sess == nil || len(sess.turns) == 0 {
		return nil, models.ErrNotFound
	}
	return append([]models.ConversationTurn(nil), sess.turns...), nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, memoryKey(userID, sessionID))
	return nil
}
