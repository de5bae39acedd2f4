package packet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueuePushDequeueOrder(t *testing.T) {
	ctx := context.Background()
	q := NewQueue()

	a := CreateEmptyPacket(0)
	b := CreateEmptyPacket(0)
	q.Push(ctx, a)
	q.Push(ctx, b)

	require.Same(t, a, q.Peek(ctx))
	require.Same(t, a, q.Dequeue(ctx))
	require.Same(t, b, q.Dequeue(ctx))
	require.Nil(t, q.Dequeue(ctx))

	ReleasePacket(a)
	ReleasePacket(b)
}

func TestQueueBufferLengthIgnoresSentinels(t *testing.T) {
	ctx := context.Background()
	q := NewQueue()

	flush := CreateFlushPacket(0)
	empty := CreateEmptyPacket(0)
	q.Push(ctx, flush)
	q.Push(ctx, empty)

	require.EqualValues(t, 0, q.BufferLength(ctx))
	require.Equal(t, 2, q.Count(ctx))

	q.Clear(ctx)
	require.Equal(t, 0, q.Count(ctx))
}

func TestQueueClearReleasesEveryPacket(t *testing.T) {
	ctx := context.Background()
	q := NewQueue()

	q.Push(ctx, CreateFlushPacket(1))
	q.Push(ctx, CreateEmptyPacket(1))
	q.Push(ctx, CreateEmptyPacket(1))

	require.Equal(t, 3, q.Count(ctx))
	q.Clear(ctx)
	require.Equal(t, 0, q.Count(ctx))
	require.Nil(t, q.Peek(ctx))
}
