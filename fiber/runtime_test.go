package fiber

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineRuntime_CurrentIdentifiesFiber(t *testing.T) {
	rt := NewGoroutineRuntime()
	var inner, outer Handle
	outer = rt.Current(context.Background())

	f := rt.Spawn(context.Background(), func(ctx context.Context) error {
		inner = rt.Current(ctx)
		return nil
	})
	require.NoError(t, f.Join())

	assert.Nil(t, outer)
	assert.NotNil(t, inner)
}

func TestGoroutineRuntime_SpawnJoinPropagatesError(t *testing.T) {
	rt := NewGoroutineRuntime()
	sentinel := assert.AnError
	f := rt.Spawn(context.Background(), func(ctx context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, f.Join(), sentinel)
}

func TestCond_WaitWakesOnBroadcast(t *testing.T) {
	rt := NewGoroutineRuntime()
	mu := rt.NewMutex()
	cond := rt.NewCond(mu)

	woke := make(chan error, 1)
	waiting := make(chan struct{})
	go func() {
		mu.Lock()
		close(waiting)
		woke <- cond.Wait(context.Background())
		mu.Unlock()
	}()

	// Wait releases mu only once it is parked, so acquiring mu here
	// guarantees the Broadcast below reaches that waiter.
	<-waiting
	mu.Lock()
	cond.Broadcast()
	mu.Unlock()

	select {
	case err := <-woke:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not wake on Broadcast")
	}
}

func TestCond_WaitRespectsContextCancellation(t *testing.T) {
	rt := NewGoroutineRuntime()
	mu := rt.NewMutex()
	cond := rt.NewCond(mu)

	ctx, cancel := context.WithCancel(context.Background())
	mu.Lock()
	done := make(chan error, 1)
	go func() {
		done <- cond.Wait(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe cancellation")
	}
	mu.Unlock()
}

func TestCond_BroadcastDoesNotWakeUnrelatedLaterWaiters(t *testing.T) {
	rt := NewGoroutineRuntime()
	mu := rt.NewMutex()
	cond := rt.NewCond(mu)

	cond.Broadcast()

	mu.Lock()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := cond.Wait(ctx)
	mu.Unlock()

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRuntime_CriticalSuppressesCancellationForCall(t *testing.T) {
	rt := NewGoroutineRuntime()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := rt.Critical(ctx, func(ctx context.Context) error {
		ran = true
		assert.NoError(t, ctx.Err())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
