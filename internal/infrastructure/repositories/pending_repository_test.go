package repositories

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/booklib/domain"
)

func TestPendingRegistrationRepositoryImpl(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewPendingRegistrationRepository(client, "signup_data_", 15*time.Minute)
	ctx := context.Background()

	_, err := repo.Find(ctx, "ana")
	assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)

	pending := &domain.PendingRegistration{
		Username:     "ana",
		FirstName:    "Ana",
		Email:        "a@x.com",
		PasswordHash: "hash-1",
		Extra:        map[string]string{"bio": "reader"},
	}
	require.NoError(t, repo.Save(ctx, pending))
	assert.True(t, mr.Exists("signup_data_ana"))
	assert.Equal(t, 15*time.Minute, mr.TTL("signup_data_ana"))

	got, err := repo.Find(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.PasswordHash)
	assert.Equal(t, "reader", got.Extra["bio"])

	t.Run("save overwrites and resets ttl", func(t *testing.T) {
		mr.FastForward(10 * time.Minute)
		pending.PasswordHash = "hash-2"
		require.NoError(t, repo.Save(ctx, pending))
		assert.Equal(t, 15*time.Minute, mr.TTL("signup_data_ana"))

		got, err := repo.Find(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, "hash-2", got.PasswordHash)
	})

	t.Run("expires", func(t *testing.T) {
		mr.FastForward(16 * time.Minute)
		_, err := repo.Find(ctx, "ana")
		assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, pending))
		require.NoError(t, repo.Delete(ctx, "ana"))
		_, err := repo.Find(ctx, "ana")
		assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
	})
}

func TestRedisLocker(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	t.Run("second acquire waits then fails", func(t *testing.T) {
		locker := NewRedisLocker(client, "lock:", 10*time.Second, 100*time.Millisecond)

		lock, err := locker.Acquire(ctx, "ana")
		require.NoError(t, err)
		assert.True(t, mr.Exists("lock:ana"))

		_, err = locker.Acquire(ctx, "ana")
		assert.ErrorIs(t, err, domain.ErrVerificationBusy)

		other, err := locker.Acquire(ctx, "bob")
		require.NoError(t, err, "locks are per key")
		require.NoError(t, other.Release(ctx))

		require.NoError(t, lock.Release(ctx))
		assert.False(t, mr.Exists("lock:ana"))

		again, err := locker.Acquire(ctx, "ana")
		require.NoError(t, err)
		require.NoError(t, again.Release(ctx))
	})

	t.Run("release keeps a lock taken over by someone else", func(t *testing.T) {
		locker := NewRedisLocker(client, "lock:", 10*time.Second, 100*time.Millisecond)

		lock, err := locker.Acquire(ctx, "carol")
		require.NoError(t, err)
		require.NoError(t, mr.Set("lock:carol", "someone-else"))

		require.NoError(t, lock.Release(ctx))
		assert.True(t, mr.Exists("lock:carol"))
		mr.Del("lock:carol")
	})

	t.Run("serializes concurrent holders", func(t *testing.T) {
		locker := NewRedisLocker(client, "lock:", 10*time.Second, 5*time.Second)

		var inside, maxInside int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				lock, err := locker.Acquire(ctx, "dave")
				if !assert.NoError(t, err) {
					return
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				assert.NoError(t, lock.Release(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxInside)
	})
}
