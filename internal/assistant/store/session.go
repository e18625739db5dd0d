package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/utils/json"
)

// SessionStore persists conversation history server-side, keyed by a
// caller-supplied session id. The chat pipeline itself stays stateless;
// this store is an opt-in convenience for clients that do not want to
// round-trip history themselves.
type SessionStore interface {
	// Load returns the stored history for a session, oldest first.
	// A missing session yields an empty history, not an error.
	Load(ctx context.Context, sessionID string) ([]model.ConversationTurn, error)

	// Append adds turns to a session and refreshes its TTL.
	Append(ctx context.Context, sessionID string, turns ...model.ConversationTurn) error

	// Clear removes a session.
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionConfig configures the Redis-backed session store.
type RedisSessionConfig struct {
	// TTL is the idle expiry for a session.
	TTL time.Duration
	// MaxTurns caps how many turns are retained per session.
	MaxTurns int
	// KeyPrefix namespaces session keys.
	KeyPrefix string
}

// redisCommands is the subset of the Redis API the session store uses.
// *goredis.Client satisfies it.
type redisCommands interface {
	LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *goredis.StatusCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisSessionStore implements SessionStore on a Redis list, one
// JSON-encoded turn per element. RPUSH is atomic on the server, so
// concurrent appends to the same session interleave without losing
// turns.
type RedisSessionStore struct {
	redis  redisCommands
	config *RedisSessionConfig
}

// NewRedisSessionStore creates a session store on an existing Redis client.
func NewRedisSessionStore(redis redisCommands, config *RedisSessionConfig) *RedisSessionStore {
	if config == nil {
		config = &RedisSessionConfig{
			TTL:       30 * time.Minute,
			MaxTurns:  20,
			KeyPrefix: "volt:session:",
		}
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "volt:session:"
	}
	return &RedisSessionStore{redis: redis, config: config}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.config.KeyPrefix + sessionID
}

// Load returns stored turns for the session, oldest first.
func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	if sessionID == "" {
		return nil, nil
	}

	elems, err := s.redis.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if len(elems) == 0 {
		return nil, nil
	}

	turns := make([]model.ConversationTurn, 0, len(elems))
	for _, elem := range elems {
		var turn model.ConversationTurn
		if err := json.Unmarshal([]byte(elem), &turn); err != nil {
			logger.Warnw("dropping corrupt session payload", "session", sessionID, "error", err.Error())
			_ = s.redis.Del(ctx, s.key(sessionID)).Err()
			return nil, nil
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append pushes turns onto the session list, trims to MaxTurns and
// refreshes the TTL.
func (s *RedisSessionStore) Append(ctx context.Context, sessionID string, turns ...model.ConversationTurn) error {
	if sessionID == "" || len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", sessionID, err)
		}
		values = append(values, string(data))
	}

	key := s.key(sessionID)
	if err := s.redis.RPush(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}
	if s.config.MaxTurns > 0 {
		if err := s.redis.LTrim(ctx, key, int64(-s.config.MaxTurns), -1).Err(); err != nil {
			return fmt.Errorf("failed to trim session %s: %w", sessionID, err)
		}
	}
	if err := s.redis.Expire(ctx, key, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", sessionID, err)
	}
	return nil
}

// Clear removes the session.
func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.redis.Del(ctx, s.key(sessionID)).Err()
}
