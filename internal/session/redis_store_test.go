package session

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("DASHBOARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DASHBOARD_TEST_REDIS_ADDR not set; skipping Redis tests")
	}
	return addr
}

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr(t), DB: 15})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		client.FlushDB(context.Background()) //nolint:errcheck
		client.Close()
	})
	return NewRedisStore(client)
}

func TestRedisStore(t *testing.T) {
	store := newTestRedisStore(t)
	storeContractTests(t, store, "u1", "u2")

	t.Run("RejectsPastExpiry", func(t *testing.T) {
		_, err := store.Create(context.Background(), "u1", time.Now().Add(-time.Second))
		assert.Error(t, err)
	})

	t.Run("DeleteExpiredPrunesIndex", func(t *testing.T) {
		ctx := context.Background()
		sess, err := store.Create(ctx, "u9", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, store.client.Del(ctx, sessionKey(sess.ID)).Err())

		n, err := store.DeleteExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		members, err := store.client.SMembers(ctx, userSessionsKey("u9")).Result()
		require.NoError(t, err)
		assert.Empty(t, members)
	})
}

// deleteAfterGet deletes key through another client right after the first GET
// of key completes, simulating a sign-out landing inside Extend.
type deleteAfterGet struct {
	key   string
	other *redis.Client
	fired atomic.Bool
}

func (h *deleteAfterGet) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *deleteAfterGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *deleteAfterGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		args := cmd.Args()
		if cmd.Name() == "get" && len(args) > 1 && args[1] == h.key && h.fired.CompareAndSwap(false, true) {
			if delErr := h.other.Del(ctx, h.key).Err(); delErr != nil {
				return delErr
			}
		}
		return err
	}
}

func TestRedisStore_ExtendDoesNotRecreateDeletedSession(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "u1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	hooked := redis.NewClient(&redis.Options{Addr: testRedisAddr(t), DB: 15})
	t.Cleanup(func() { hooked.Close() })
	hook := &deleteAfterGet{key: sessionKey(sess.ID), other: store.client}
	hooked.AddHook(hook)

	err = NewRedisStore(hooked).Extend(ctx, sess.ID, time.Now().Add(48*time.Hour))
	require.True(t, hook.fired.Load())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
