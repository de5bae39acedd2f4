// Package component implements MediaComponent: one decodable stream,
// from codec-context initialization through the packet queue and
// frame pump to disposal. Audio, video, and subtitle streams share
// this type; only the pump (how ReceiveNextFrame is implemented) and
// the materializer (how a decoded Frame becomes a renderer-ready
// Block) vary per media type, selected once at construction instead
// of through a type hierarchy.
package component

import (
	"context"
	"fmt"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/dustin/go-humanize"
	"go.uber.org/atomic"

	"github.com/playcore/mediacore/block"
	"github.com/playcore/mediacore/codec"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/packet"
	"github.com/playcore/mediacore/types"
)

// pump implements one media type's decode strategy: how ReceiveNextFrame
// drives the codec and how a flush/clear request is applied.
type pump interface {
	receiveNextFrame(ctx context.Context, c *Component) *frame.Frame
	clearQueuedPackets(ctx context.Context, c *Component, flushBuffers bool)
}

// decoderHandle is the subset of *codec.Decoder the pumps drive,
// factored out so av_pump.go/subtitle_pump.go can be exercised in
// tests against a fake instead of a live codec context.
type decoderHandle interface {
	CodecContext(ctx context.Context) codec.Stream
	FlushBuffers(ctx context.Context)
	DecodeSubtitle(ctx context.Context, pkt *astiav.Packet) (*astiav.Subtitle, bool, error)
	Close(ctx context.Context) error
}

var _ decoderHandle = (*codec.Decoder)(nil)

// Component is one decodable stream, from codec-context initialization
// through the packet queue and frame pump to disposal.
type Component struct {
	objectID  types.ObjectID
	MediaType types.MediaType

	StreamIndex int
	CodecID     astiav.CodecID
	CodecName   string
	Bitrate     int64

	// HardwareName and IsUsingHardwareDecoding mirror the decoder's own
	// fields, surfaced here for the renderer timer's hardware-decoder-
	// name diagnostic.
	HardwareName            string
	IsUsingHardwareDecoding bool

	StartTimeOffset time.Duration
	Duration        time.Duration

	StreamInfo container.StreamInfo

	// timeBase is the packet/frame timebase PTS/duration values from
	// the codec are expressed in.
	timeBase astiav.Rational

	decoder decoderHandle
	queue   *packet.Queue
	pump    pump

	materializer      block.Materializer
	onFrameDecoded    func(f *frame.Frame, mt types.MediaType)
	onSubtitleDecoded func(f *frame.Frame)

	lifetimeBytesRead atomic.Int64
	hasCodecPackets   atomic.Bool
	isDisposed        atomic.Bool
}

func (c *Component) GetObjectID() types.ObjectID { return c.objectID }

// LifetimeBytesRead is the running sum of every non-sentinel packet's
// payload size ever accepted by SendPacket.
func (c *Component) LifetimeBytesRead() int64 { return c.lifetimeBytesRead.Load() }

// HasCodecPackets reports whether the codec currently holds at least
// one accepted, unflushed packet.
func (c *Component) HasCodecPackets() bool { return c.hasCodecPackets.Load() }

// IsDisposed reports whether Dispose has completed.
func (c *Component) IsDisposed() bool { return c.isDisposed.Load() }

// PacketBufferLength is the queue's current payload-byte backlog.
func (c *Component) PacketBufferLength(ctx context.Context) int64 {
	if c.queue == nil {
		return 0
	}
	return c.queue.BufferLength(ctx)
}

// PacketBufferCount is the queue's current packet count, sentinels
// included.
func (c *Component) PacketBufferCount(ctx context.Context) int {
	if c.queue == nil {
		return 0
	}
	return c.queue.Count(ctx)
}

// SendPacket accepts a demuxed packet (nil requests an empty/drain
// sentinel instead) into the queue.
func (c *Component) SendPacket(ctx context.Context, p *packet.Packet) {
	if p == nil {
		c.SendEmptyPacket(ctx)
		return
	}
	if size := p.Size(); size > 0 {
		c.lifetimeBytesRead.Add(int64(size))
	}
	c.queue.Push(ctx, p)
}

// SendEmptyPacket pushes a fresh empty sentinel for this stream.
func (c *Component) SendEmptyPacket(ctx context.Context) {
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))
}

// ClearQueuedPackets drains the queue, releasing every packet. When
// flushBuffers is true it additionally asks the pump to flush the
// codec's internal buffers and clears HasCodecPackets.
func (c *Component) ClearQueuedPackets(ctx context.Context, flushBuffers bool) {
	c.queue.Clear(ctx)
	if flushBuffers {
		c.pump.clearQueuedPackets(ctx, c, true)
	}
}

// ReceiveNextFrame returns the next decoded MediaFrame, or nil.
func (c *Component) ReceiveNextFrame(ctx context.Context) *frame.Frame {
	f := c.pump.receiveNextFrame(ctx, c)
	if f == nil {
		return nil
	}
	switch {
	case c.onSubtitleDecoded != nil && f.MediaType == types.MediaTypeSubtitle:
		c.onSubtitleDecoded(f)
	case c.onFrameDecoded != nil:
		c.onFrameDecoded(f, f.MediaType)
	}
	return f
}

// MaterializeFrame turns a decoded Frame into a renderer-ready Block
// using this component's materializer, stored as a closure instead of
// a virtual method.
func (c *Component) MaterializeFrame(f *frame.Frame) *block.Block {
	return c.materializer(f)
}

// Dispose releases the codec context and drains the queue exactly
// once. It is safe to call concurrently with an in-flight
// ReceiveNextFrame: the codec.Decoder's own locking (guarded by the
// same global codec lock used for Open) serializes against it.
func (c *Component) Dispose(ctx context.Context) error {
	if !c.isDisposed.CompareAndSwap(false, true) {
		return nil
	}
	logger.Debugf(
		ctx, "disposing component %s (stream %d), lifetime read %s",
		c.MediaType, c.StreamIndex, humanize.Bytes(uint64(c.LifetimeBytesRead())),
	)
	if c.queue != nil {
		c.queue.Clear(ctx)
	}
	if c.decoder == nil {
		return nil
	}
	if err := c.decoder.Close(ctx); err != nil {
		return fmt.Errorf("closing decoder for stream %d: %w", c.StreamIndex, err)
	}
	return nil
}
