package revocation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemory_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	exp := time.Now().Add(time.Hour)

	ok, err := m.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Revoke(ctx, "t1", exp))
	require.NoError(t, m.Revoke(ctx, "t1", exp))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.byExp.Len())

	ok, err = m.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.IsRevoked(ctx, "t2")
	assert.False(t, ok)
}

func TestMemory_SweepEvictsInExpiryOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()

	require.NoError(t, m.Revoke(ctx, "late", base.Add(3*time.Hour)))
	require.NoError(t, m.Revoke(ctx, "early", base.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "mid", base.Add(2*time.Hour)))

	assert.Equal(t, 0, m.Sweep(base))
	assert.Equal(t, 1, m.Sweep(base.Add(time.Hour)))

	ok, _ := m.IsRevoked(ctx, "early")
	assert.False(t, ok)
	ok, _ = m.IsRevoked(ctx, "mid")
	assert.True(t, ok)

	assert.Equal(t, 2, m.Sweep(base.Add(24*time.Hour)))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_RunSweepsUntilCancelled(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	m := NewMemory().WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})
	require.NoError(t, m.Revoke(ctx, "t1", now.Add(time.Minute)))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		m.Run(runCtx, 5*time.Millisecond)
		close(done)
	}()

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tok := fmt.Sprintf("t-%d", j%50)
				assert.NoError(t, m.Revoke(ctx, tok, exp))
				ok, err := m.IsRevoked(ctx, tok)
				assert.NoError(t, err)
				assert.True(t, ok)
				if i == 0 {
					m.Sweep(time.Now())
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
