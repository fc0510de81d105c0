package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "test:"), mr
}

func TestRedisStore_PutGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", FieldAuthEmail, "a@x.com", time.Minute))

	v, ok, err := store.Get(ctx, "s1", FieldAuthEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", v)
	assert.True(t, mr.Exists("test:sess:s1:auth_email"))

	_, ok, err = store.Get(ctx, "s2", FieldAuthEmail)
	require.NoError(t, err)
	assert.False(t, ok, "sessions are isolated")
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", FieldChallenge, "x", 120*time.Second))
	mr.FastForward(119 * time.Second)
	_, ok, _ := store.Get(ctx, "s1", FieldChallenge)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, err := store.Get(ctx, "s1", FieldChallenge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_TakeIsSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1", FieldChallenge, "payload", time.Minute))

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := store.Take(ctx, "s1", FieldChallenge); err == nil && ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)
}

func TestRedisStore_DeleteAndEmptyKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1", FieldChallenge, "c", 0))
	require.NoError(t, store.Put(ctx, "s1", FieldAuthEmail, "e", 0))

	require.NoError(t, store.Delete(ctx, "s1", FieldChallenge, FieldAuthEmail))
	_, ok, _ := store.Get(ctx, "s1", FieldAuthEmail)
	assert.False(t, ok)

	assert.ErrorIs(t, store.Put(ctx, "", FieldAuthEmail, "e", 0), ErrEmptySessionKey)
	_, _, err := store.Take(ctx, "", FieldChallenge)
	assert.ErrorIs(t, err, ErrEmptySessionKey)
}

func TestRedisStore_Incr(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	n, err := store.Incr(ctx, "s1", FieldAttempts, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(30 * time.Second)
	n, err = store.Incr(ctx, "s1", FieldAttempts, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// the window started at the first increment
	mr.FastForward(31 * time.Second)
	_, ok, err := store.Get(ctx, "s1", FieldAttempts)
	require.NoError(t, err)
	assert.False(t, ok)
}
