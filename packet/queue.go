package packet

import (
	"context"

	"github.com/xaionaro-go/xsync"
)

// Queue is a FIFO of owned Packets for one stream. It is safe for a
// single producer (the reader loop) and a single consumer (the decoder
// loop) to use concurrently; both push and pop go through the same
// lock so probes from other threads (buffer-length reporting) are also
// safe, matching spec.md §5's "internally locked to allow reader
// probes" requirement for the sibling MediaBlockBuffer.
type Queue struct {
	locker xsync.Mutex
	items  []*Packet
	length int64 // BufferLength: sum of payload bytes, sentinels contribute zero
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends p to the tail of the queue.
func (q *Queue) Push(ctx context.Context, p *Packet) {
	q.locker.Do(ctx, func() {
		q.items = append(q.items, p)
		if size := p.Size(); size > 0 {
			q.length += int64(size)
		}
	})
}

// Peek returns the head packet without removing it, or nil if empty.
func (q *Queue) Peek(ctx context.Context) *Packet {
	var ret *Packet
	q.locker.Do(ctx, func() {
		if len(q.items) > 0 {
			ret = q.items[0]
		}
	})
	return ret
}

// Dequeue removes and returns the head packet, or nil if empty.
func (q *Queue) Dequeue(ctx context.Context) *Packet {
	var ret *Packet
	q.locker.Do(ctx, func() {
		if len(q.items) == 0 {
			return
		}
		ret = q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		if size := ret.Size(); size > 0 {
			q.length -= int64(size)
		}
	})
	return ret
}

// Clear dequeues and releases every remaining packet.
func (q *Queue) Clear(ctx context.Context) {
	q.locker.Do(ctx, func() {
		for _, p := range q.items {
			ReleasePacket(p)
		}
		q.items = nil
		q.length = 0
	})
}

// BufferLength is the sum of payload bytes of every queued packet.
// Sentinels contribute zero.
func (q *Queue) BufferLength(ctx context.Context) int64 {
	var ret int64
	q.locker.Do(ctx, func() { ret = q.length })
	return ret
}

// Count is the number of queued packets, sentinels included.
func (q *Queue) Count(ctx context.Context) int {
	var ret int
	q.locker.Do(ctx, func() { ret = len(q.items) })
	return ret
}
