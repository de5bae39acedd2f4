package block

import (
	"context"
	"sort"
	"time"

	"github.com/xaionaro-go/xsync"

	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/types"
)

// Buffer is a bounded, time-ordered cache of Blocks for one media
// type. It is single-producer (the decoder loop calls Add) /
// single-consumer (the renderer timer reads), but internally locked so
// the reader loop can cheaply probe IndexOf/GetSnapPosition without
// coordinating with either.
type Buffer struct {
	locker       xsync.Mutex
	mediaType    types.MediaType
	capacity     int
	materializer Materializer
	blocks       []*Block // kept sorted by StartTime
}

func NewBuffer(mediaType types.MediaType, capacity int, materializer Materializer) *Buffer {
	if materializer == nil {
		materializer = DefaultMaterializer
	}
	return &Buffer{
		mediaType:    mediaType,
		capacity:     capacity,
		materializer: materializer,
	}
}

func (b *Buffer) MediaType() types.MediaType { return b.mediaType }

// Add materializes f into a Block and inserts it in time order. If the
// buffer is at capacity, the oldest block is evicted and released
// first. A duplicate StartTime replaces the existing block in place
// (see DESIGN.md's Open Question decisions for the chosen policy).
func (b *Buffer) Add(ctx context.Context, f *frame.Frame) *Block {
	blk := b.materializer(f)
	if blk == nil {
		return nil
	}
	b.locker.Do(ctx, func() {
		if i, found := b.findIndexLocked(blk.StartTime); found {
			logger.Tracef(ctx, "block buffer(%s): replacing block at %s", b.mediaType, blk.StartTime)
			b.blocks[i].Release()
			b.blocks[i] = blk
			return
		}
		if len(b.blocks) >= b.capacity && b.capacity > 0 {
			logger.Tracef(ctx, "block buffer(%s): evicting oldest block at capacity %d", b.mediaType, b.capacity)
			b.blocks[0].Release()
			b.blocks = b.blocks[1:]
		}
		i := sort.Search(len(b.blocks), func(i int) bool {
			return b.blocks[i].StartTime >= blk.StartTime
		})
		b.blocks = append(b.blocks, nil)
		copy(b.blocks[i+1:], b.blocks[i:])
		b.blocks[i] = blk
	})
	return blk
}

func (b *Buffer) findIndexLocked(t time.Duration) (int, bool) {
	i := sort.Search(len(b.blocks), func(i int) bool {
		return b.blocks[i].StartTime >= t
	})
	if i < len(b.blocks) && b.blocks[i].StartTime == t {
		return i, true
	}
	return i, false
}

// coveringIndexLocked returns the index of the block whose
// [StartTime, EndTime) range contains t, or the nearest block at or
// before t if none covers it exactly, or -1 if every block starts
// after t.
func (b *Buffer) coveringIndexLocked(t time.Duration) int {
	// last block with StartTime <= t
	i := sort.Search(len(b.blocks), func(i int) bool {
		return b.blocks[i].StartTime > t
	}) - 1
	return i
}

// IndexOf returns the position of the last block whose StartTime is at
// or before t, or -1 if every block starts after t. That block's
// EndTime is not checked, so t may lie past its end.
func (b *Buffer) IndexOf(ctx context.Context, t time.Duration) int {
	var ret int
	b.locker.Do(ctx, func() { ret = b.coveringIndexLocked(t) })
	return ret
}

// GetSnapPosition returns the StartTime of the last block whose
// StartTime is at or before t, or (0, false) if every block starts
// after t. That block's EndTime is not checked, so t may lie past its
// end.
func (b *Buffer) GetSnapPosition(ctx context.Context, t time.Duration) (time.Duration, bool) {
	var (
		ret   time.Duration
		found bool
	)
	b.locker.Do(ctx, func() {
		i := b.coveringIndexLocked(t)
		if i < 0 {
			return
		}
		ret = b.blocks[i].StartTime
		found = true
	})
	return ret, found
}

// At returns the block at index i, or nil if out of range.
func (b *Buffer) At(ctx context.Context, i int) *Block {
	var ret *Block
	b.locker.Do(ctx, func() {
		if i < 0 || i >= len(b.blocks) {
			return
		}
		ret = b.blocks[i]
	})
	return ret
}

// Count returns the number of cached blocks.
func (b *Buffer) Count(ctx context.Context) int {
	var ret int
	b.locker.Do(ctx, func() { ret = len(b.blocks) })
	return ret
}

// IsSaturated reports whether the buffer is at capacity.
func (b *Buffer) IsSaturated(ctx context.Context) bool {
	return b.Count(ctx) >= b.capacity
}

// CoversUpTo reports whether the buffer contains a block whose
// EndTime reaches at least clock+lookahead — used by the decoder loop
// to decide whether the main component has decoded enough ahead of
// the clock.
func (b *Buffer) CoversUpTo(ctx context.Context, clock time.Duration, lookahead time.Duration) bool {
	var ret bool
	b.locker.Do(ctx, func() {
		if len(b.blocks) == 0 {
			return
		}
		last := b.blocks[len(b.blocks)-1]
		ret = last.EndTime >= clock+lookahead
	})
	return ret
}

// Clear releases every cached block.
func (b *Buffer) Clear(ctx context.Context) {
	b.locker.Do(ctx, func() {
		for _, blk := range b.blocks {
			blk.Release()
		}
		b.blocks = nil
	})
}
