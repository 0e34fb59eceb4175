package keymutex

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAndRelease(t *testing.T) {
	km := New()

	release, err := km.Lock(context.Background(), "doctor-1", time.Second)
	require.NoError(t, err)
	release()

	// После release ключ свободен и захватывается сразу
	release, err = km.Lock(context.Background(), "doctor-1", time.Second)
	require.NoError(t, err)
	release()
}

func TestLockTimeout(t *testing.T) {
	km := New()

	release, err := km.Lock(context.Background(), "doctor-1", time.Second)
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = km.Lock(context.Background(), "doctor-1", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLockContextCancelled(t *testing.T) {
	km := New()

	release, err := km.Lock(context.Background(), "doctor-1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = km.Lock(ctx, "doctor-1", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDifferentKeysAreIndependent(t *testing.T) {
	km := New()

	releaseA, err := km.Lock(context.Background(), "doctor-a", time.Second)
	require.NoError(t, err)
	defer releaseA()

	// Лок другого врача не блокируется
	releaseB, err := km.Lock(context.Background(), "doctor-b", 10*time.Millisecond)
	require.NoError(t, err)
	releaseB()
}

func TestMutualExclusion(t *testing.T) {
	km := New()

	const goroutines = 50
	var counter, max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := km.Lock(context.Background(), "doctor-1", 5*time.Second)
			require.NoError(t, err)
			defer release()

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, max, "at most one holder per key at any moment")
}

func TestEntriesAreCleanedUp(t *testing.T) {
	km := New()

	release, err := km.Lock(context.Background(), "doctor-1", time.Second)
	require.NoError(t, err)
	release()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "released keys must not leak")
}
