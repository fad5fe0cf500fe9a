package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"comic-auth/internal/model"
)

func TestMemoryTokenStoreResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryTokenStore(12 * time.Hour)
	alice := model.User{ID: "u1", Username: "alice"}

	require.NoError(t, store.Save(ctx, "t1", alice))

	user, ok, err := store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice, user)

	_, ok, err = store.Resolve(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryTokenStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryTokenStore(12 * time.Hour)
	require.NoError(t, store.Save(ctx, "t1", model.User{ID: "u1"}))

	require.NoError(t, store.Delete(ctx, "t1"))
	_, ok, err := store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "t1"))
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryTokenStore(12 * time.Hour)

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "t1", model.User{ID: "u1"}))

	t.Run("expired token misses and stays gone", func(t *testing.T) {
		current = current.Add(12*time.Hour + time.Minute)
		_, ok, err := store.Resolve(ctx, "t1")
		require.NoError(t, err)
		require.False(t, ok)

		// No resurrection even if the clock moves back.
		current = current.Add(-2 * time.Hour)
		_, ok, err = store.Resolve(ctx, "t1")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestMemoryTokenStoreSlidingExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryTokenStore(12 * time.Hour)

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "t1", model.User{ID: "u1"}))

	// Resolve just before expiry renews the window.
	current = current.Add(11*time.Hour + 59*time.Minute)
	_, ok, err := store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)

	// 13h after issuance is only ~1h after the renewal, so it still resolves.
	current = current.Add(time.Hour + time.Minute)
	_, ok, err = store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)

	// Going idle past the renewed window ends the session.
	current = current.Add(12*time.Hour + time.Minute)
	_, ok, err = store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryTokenStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryTokenStore(12 * time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("t%d", i)
			user := model.User{ID: fmt.Sprintf("u%d", i)}
			require.NoError(t, store.Save(ctx, token, user))
			for j := 0; j < 100; j++ {
				got, ok, err := store.Resolve(ctx, token)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, user.ID, got.ID)
			}
			require.NoError(t, store.Delete(ctx, token))
		}(i)
	}
	wg.Wait()
}

func TestRedisTokenStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisTokenStore(client, 12*time.Hour)

	alice := model.User{ID: "u1", Username: "alice", Email: "a@x.com", RoleID: model.DefaultRoleID}
	require.NoError(t, store.Save(ctx, "t1", alice))

	user, ok, err := store.Resolve(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice.ID, user.ID)
	require.Equal(t, alice.Email, user.Email)

	t.Run("resolve slides the key TTL", func(t *testing.T) {
		mr.FastForward(11 * time.Hour)
		_, ok, err := store.Resolve(ctx, "t1")
		require.NoError(t, err)
		require.True(t, ok)

		// 13h after save, but only 2h after the renewal.
		mr.FastForward(2 * time.Hour)
		_, ok, err = store.Resolve(ctx, "t1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("idle token expires", func(t *testing.T) {
		mr.FastForward(12*time.Hour + time.Minute)
		_, ok, err := store.Resolve(ctx, "t1")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "t2", alice))
		require.NoError(t, store.Delete(ctx, "t2"))
		require.NoError(t, store.Delete(ctx, "t2"))
		_, ok, err := store.Resolve(ctx, "t2")
		require.NoError(t, err)
		require.False(t, ok)
	})
}
