package store

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/model"
)

// fakeRedis implements redisCommands over an in-memory list map.
type fakeRedis struct {
	lists   map[string][]string
	expired map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		lists:   make(map[string][]string),
		expired: make(map[string]time.Duration),
	}
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd {
	elems := f.lists[key]
	if start == 0 && stop == -1 {
		return goredis.NewStringSliceResult(elems, nil)
	}
	return goredis.NewStringSliceResult(nil, nil)
}

func (f *fakeRedis) RPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd {
	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.(string))
	}
	return goredis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LTrim(ctx context.Context, key string, start, stop int64) *goredis.StatusCmd {
	elems := f.lists[key]
	n := int64(len(elems))
	if start < 0 {
		start += n
	}
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		stop += n
	}
	if start <= stop && start < n {
		f.lists[key] = elems[start : stop+1]
	}
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd {
	f.expired[key] = expiration
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	for _, key := range keys {
		delete(f.lists, key)
	}
	return goredis.NewIntResult(int64(len(keys)), nil)
}

func newSessionStore(redis *fakeRedis, maxTurns int) *RedisSessionStore {
	return NewRedisSessionStore(redis, &RedisSessionConfig{
		TTL:      time.Minute,
		MaxTurns: maxTurns,
	})
}

func TestSessionAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	redis := newFakeRedis()
	sessions := newSessionStore(redis, 20)

	err := sessions.Append(ctx, "s-1",
		model.ConversationTurn{Role: model.RoleUser, Content: "hiking boots"},
		model.ConversationTurn{Role: model.RoleAssistant, Content: "Try the Trail Runner.", ProductIDs: []int64{1}},
	)
	require.NoError(t, err)

	turns, err := sessions.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hiking boots", turns[0].Content)
	assert.Equal(t, []int64{1}, turns[1].ProductIDs)
	assert.Equal(t, time.Minute, redis.expired["volt:session:s-1"])
}

func TestSessionLoadMissing(t *testing.T) {
	sessions := newSessionStore(newFakeRedis(), 20)

	turns, err := sessions.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSessionAppendTrimsToMaxTurns(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionStore(newFakeRedis(), 4)

	for i := 0; i < 6; i++ {
		err := sessions.Append(ctx, "s-1",
			model.ConversationTurn{Role: model.RoleUser, Content: "q"},
		)
		require.NoError(t, err)
	}

	turns, err := sessions.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Len(t, turns, 4)
}

// Each turn is its own list element, so two writers pushing at once
// can interleave but never overwrite each other's turns.
func TestSessionInterleavedAppendsKeepBothWriters(t *testing.T) {
	ctx := context.Background()
	redis := newFakeRedis()
	sessions := newSessionStore(redis, 20)

	require.NoError(t, sessions.Append(ctx, "s-1",
		model.ConversationTurn{Role: model.RoleUser, Content: "from writer a"}))
	require.NoError(t, sessions.Append(ctx, "s-1",
		model.ConversationTurn{Role: model.RoleUser, Content: "from writer b"}))

	turns, err := sessions.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "from writer a", turns[0].Content)
	assert.Equal(t, "from writer b", turns[1].Content)
}

func TestSessionCorruptElementDropsSession(t *testing.T) {
	ctx := context.Background()
	redis := newFakeRedis()
	redis.lists["volt:session:s-1"] = []string{"{not json"}
	sessions := newSessionStore(redis, 20)

	turns, err := sessions.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.NotContains(t, redis.lists, "volt:session:s-1")
}

func TestSessionClear(t *testing.T) {
	ctx := context.Background()
	redis := newFakeRedis()
	sessions := newSessionStore(redis, 20)

	require.NoError(t, sessions.Append(ctx, "s-1",
		model.ConversationTurn{Role: model.RoleUser, Content: "q"}))
	require.NoError(t, sessions.Clear(ctx, "s-1"))

	turns, err := sessions.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSessionEmptyIDIsNoop(t *testing.T) {
	ctx := context.Background()
	redis := newFakeRedis()
	sessions := newSessionStore(redis, 20)

	require.NoError(t, sessions.Append(ctx, "", model.ConversationTurn{Role: model.RoleUser, Content: "q"}))
	assert.Empty(t, redis.lists)

	turns, err := sessions.Load(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, turns)
}
