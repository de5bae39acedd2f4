package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGateStartsComplete(t *testing.T) {
	g := New()
	require.NoError(t, g.Wait(context.Background()))
}

func TestGateBeginBlocksWait(t *testing.T) {
	g := New()
	g.Begin()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
}

func TestGateCompleteReleasesWaiters(t *testing.T) {
	g := New()
	g.Begin()

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	g.Complete()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Complete")
	}
}

func TestGateReArms(t *testing.T) {
	g := New()

	g.Begin()
	g.Complete()
	require.NoError(t, g.Wait(context.Background()))

	g.Begin()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
}
