package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

func newTestLimiter(max int, window time.Duration, roll float64) *SlidingWindow {
	l := NewSlidingWindow(Config{MaxRequests: max, Window: window, CompactionProbability: DefaultCompactionProbability}, nil)
	l.roll = func() float64 { return roll }
	return l
}

func TestSlidingWindow_AdmitsExactlyMax(t *testing.T) {
	l := newTestLimiter(3, time.Minute, 1)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("user-1", baseTime.Add(time.Duration(i)*time.Second)), "request %d", i+1)
	}
	assert.False(t, l.Allow("user-1", baseTime.Add(5*time.Second)))
}

func TestSlidingWindow_WindowSlides(t *testing.T) {
	l := newTestLimiter(2, time.Minute, 1)

	require.True(t, l.Allow("user-1", baseTime))
	require.True(t, l.Allow("user-1", baseTime.Add(10*time.Second)))
	require.False(t, l.Allow("user-1", baseTime.Add(30*time.Second)))

	// the first timestamp sits exactly on the boundary and is dropped
	assert.True(t, l.Allow("user-1", baseTime.Add(time.Minute)))
	assert.False(t, l.Allow("user-1", baseTime.Add(time.Minute+time.Second)))
}

func TestSlidingWindow_RejectionsAreNotRecorded(t *testing.T) {
	l := newTestLimiter(1, time.Minute, 1)

	require.True(t, l.Allow("user-1", baseTime))
	for i := 1; i <= 5; i++ {
		require.False(t, l.Allow("user-1", baseTime.Add(time.Duration(i)*time.Second)))
	}
	assert.Len(t, l.store.Get("user-1"), 1)
	assert.True(t, l.Allow("user-1", baseTime.Add(61*time.Second)))
}

func TestSlidingWindow_UsersAreIsolated(t *testing.T) {
	l := newTestLimiter(1, time.Minute, 1)

	assert.True(t, l.Allow("user-1", baseTime))
	assert.False(t, l.Allow("user-1", baseTime))
	assert.True(t, l.Allow("user-2", baseTime))
}

func TestSlidingWindow_Compaction(t *testing.T) {
	l := newTestLimiter(5, time.Minute, 1)

	require.True(t, l.Allow("stale", baseTime))
	require.True(t, l.Allow("fresh", baseTime.Add(90*time.Second)))

	t.Run("skipped when roll misses", func(t *testing.T) {
		l.Allow("other", baseTime.Add(3*time.Minute))
		assert.Contains(t, l.store.Keys(), "stale")
	})

	t.Run("sweeps when roll hits", func(t *testing.T) {
		l.roll = func() float64 { return 0 }
		l.Allow("other", baseTime.Add(3*time.Minute))

		keys := l.store.Keys()
		assert.NotContains(t, keys, "stale")
		assert.Contains(t, keys, "fresh")
		assert.Contains(t, keys, "other")
	})
}

func TestSlidingWindow_RetryAfter(t *testing.T) {
	assert.Equal(t, 900, newTestLimiter(1, 15*time.Minute, 1).RetryAfter())
	assert.Equal(t, 2, newTestLimiter(1, 1500*time.Millisecond, 1).RetryAfter())
}

func TestSlidingWindow_ConcurrentAdmissions(t *testing.T) {
	l := newTestLimiter(50, time.Minute, 1)
	l.now = func() time.Time { return baseTime }

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Admit(context.Background(), "user-1")
			if err == nil && ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted)
}
