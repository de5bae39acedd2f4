package block

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/types"
)

func newTestFrame(start, dur time.Duration) *frame.Frame {
	return &frame.Frame{
		MediaType: types.MediaTypeVideo,
		StartTime: start,
		EndTime:   start + dur,
		Duration:  dur,
	}
}

func TestBufferAddKeepsTimeOrder(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 10, nil)

	b.Add(ctx, newTestFrame(30*time.Millisecond, 10*time.Millisecond))
	b.Add(ctx, newTestFrame(10*time.Millisecond, 10*time.Millisecond))
	b.Add(ctx, newTestFrame(20*time.Millisecond, 10*time.Millisecond))

	require.Equal(t, 3, b.Count(ctx))
	require.Equal(t, 10*time.Millisecond, b.At(ctx, 0).StartTime)
	require.Equal(t, 20*time.Millisecond, b.At(ctx, 1).StartTime)
	require.Equal(t, 30*time.Millisecond, b.At(ctx, 2).StartTime)
}

func TestBufferAddReplacesDuplicateStartTime(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 10, nil)

	first := b.Add(ctx, newTestFrame(10*time.Millisecond, 5*time.Millisecond))
	second := b.Add(ctx, newTestFrame(10*time.Millisecond, 9*time.Millisecond))

	require.Equal(t, 1, b.Count(ctx))
	require.Same(t, second, b.At(ctx, 0))
	require.NotSame(t, first, b.At(ctx, 0))
}

func TestBufferEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 2, nil)

	b.Add(ctx, newTestFrame(10*time.Millisecond, 5*time.Millisecond))
	b.Add(ctx, newTestFrame(20*time.Millisecond, 5*time.Millisecond))
	require.True(t, b.IsSaturated(ctx))

	b.Add(ctx, newTestFrame(30*time.Millisecond, 5*time.Millisecond))

	require.Equal(t, 2, b.Count(ctx))
	require.Equal(t, 20*time.Millisecond, b.At(ctx, 0).StartTime)
	require.Equal(t, 30*time.Millisecond, b.At(ctx, 1).StartTime)
}

func TestBufferGetSnapPosition(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 10, nil)

	b.Add(ctx, newTestFrame(10*time.Millisecond, 10*time.Millisecond))
	b.Add(ctx, newTestFrame(30*time.Millisecond, 10*time.Millisecond))

	pos, found := b.GetSnapPosition(ctx, 15*time.Millisecond)
	require.True(t, found)
	require.Equal(t, 10*time.Millisecond, pos)

	_, found = b.GetSnapPosition(ctx, 5*time.Millisecond)
	require.False(t, found)

	pos, found = b.GetSnapPosition(ctx, 35*time.Millisecond)
	require.True(t, found)
	require.Equal(t, 30*time.Millisecond, pos)
}

func TestBufferCoversUpTo(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 10, nil)

	require.False(t, b.CoversUpTo(ctx, 0, 10*time.Millisecond))

	b.Add(ctx, newTestFrame(0, 50*time.Millisecond))

	require.True(t, b.CoversUpTo(ctx, 0, 40*time.Millisecond))
	require.False(t, b.CoversUpTo(ctx, 20*time.Millisecond, 40*time.Millisecond))
}

func TestBufferClearReleasesEveryBlock(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer(types.MediaTypeVideo, 10, nil)

	b.Add(ctx, newTestFrame(10*time.Millisecond, 5*time.Millisecond))
	b.Add(ctx, newTestFrame(20*time.Millisecond, 5*time.Millisecond))
	require.Equal(t, 2, b.Count(ctx))

	b.Clear(ctx)
	require.Equal(t, 0, b.Count(ctx))
	require.Nil(t, b.At(ctx, 0))
}
