package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t, time.Hour)
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  redisStore,
	}
}

func TestStore_AddMergesQuantities(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Add(ctx, "s1", 1, 2))
			require.NoError(t, s.Add(ctx, "s1", 1, 3))
			require.NoError(t, s.Add(ctx, "s1", 2, 1))

			items, err := s.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, map[uint]int{1: 5, 2: 1}, items)
		})
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Add(ctx, "s1", 1, 1))
			require.NoError(t, s.Add(ctx, "s2", 9, 4))

			items, err := s.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, map[uint]int{1: 1}, items)

			_, err = s.Take(ctx, "s1")
			require.NoError(t, err)
			items, err = s.Get(ctx, "s2")
			require.NoError(t, err)
			assert.Equal(t, map[uint]int{9: 4}, items)
		})
	}
}

func TestStore_RemoveTakeRestore(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Add(ctx, "s1", 1, 1))
			require.NoError(t, s.Add(ctx, "s1", 2, 2))
			require.NoError(t, s.Remove(ctx, "s1", 1))
			require.NoError(t, s.Remove(ctx, "s1", 42))

			taken, err := s.Take(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, map[uint]int{2: 2}, taken)

			items, err := s.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Empty(t, items)

			again, err := s.Take(ctx, "s1")
			require.NoError(t, err)
			assert.Empty(t, again)

			require.NoError(t, s.Add(ctx, "s1", 2, 1))
			require.NoError(t, s.Restore(ctx, "s1", taken))
			require.NoError(t, s.Restore(ctx, "s1", nil))
			items, err = s.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, map[uint]int{2: 3}, items)
		})
	}
}

func TestStore_ConcurrentTakesClaimOnce(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Add(ctx, "s1", 1, 2))

			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				owned int
			)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					items, err := s.Take(ctx, "s1")
					assert.NoError(t, err)
					if len(items) > 0 {
						mu.Lock()
						owned++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, owned)
		})
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.Add(ctx, "s1", 1, 1))
				}()
			}
			wg.Wait()

			items, err := s.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, 20, items[1])
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "s1", 1, 1))
	now = now.Add(30 * time.Second)
	items, _ := s.Get(ctx, "s1")
	assert.Len(t, items, 1)

	now = now.Add(2 * time.Minute)
	items, _ = s.Get(ctx, "s1")
	assert.Empty(t, items)
}

func TestRedisStore_ExpiryAndKeyLayout(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "abc", 7, 2))
	assert.True(t, mr.Exists("cart:session:abc"))
	assert.Equal(t, "2", mr.HGet("cart:session:abc", "7"))
	assert.Equal(t, time.Minute, mr.TTL("cart:session:abc"))

	mr.FastForward(2 * time.Minute)
	items, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisStore_CorruptField(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	mr.HSet("cart:session:bad", "not-a-number", "1")

	_, err := s.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "corrupt cart field")
}
