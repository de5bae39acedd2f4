package component

import (
	"context"
	"errors"
	"time"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/avconv"
	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/packet"
)

// avPump implements the send_packet/receive_frame pump for audio and
// video streams.
type avPump struct{}

var _ pump = avPump{}

func (avPump) clearQueuedPackets(ctx context.Context, c *Component, flushBuffers bool) {
	if !flushBuffers {
		return
	}
	c.decoder.FlushBuffers(ctx)
	c.hasCodecPackets.Store(false)
}

// feedPacketsToDecoder drains the queue into the codec. When fillBuffer
// is false it stops after the first consumed packet; otherwise it
// keeps going until send_packet returns AGAIN or the queue empties.
// It returns the number of non-flush packets consumed: those
// send_packet accepted plus those it rejected with a hard error (both
// are dequeued and released).
func (avPump) feedPacketsToDecoder(ctx context.Context, c *Component, fillBuffer bool) int {
	codecCtx := c.decoder.CodecContext(ctx)
	if codecCtx == nil {
		return 0
	}
	accepted := 0
	for {
		head := c.queue.Peek(ctx)
		if head == nil {
			return accepted
		}
		if packet.IsFlushPacket(head) {
			c.decoder.FlushBuffers(ctx)
			c.queue.Dequeue(ctx)
			packet.ReleasePacket(head)
			c.hasCodecPackets.Store(false)
			continue
		}

		err := codecCtx.SendPacket(head.Raw())
		if err != nil {
			if errors.Is(err, astiav.ErrEagain) {
				return accepted
			}
			logger.Warnf(ctx, "send_packet(stream %d): %v", c.StreamIndex, err)
			c.queue.Dequeue(ctx)
			packet.ReleasePacket(head)
			accepted++
			if !fillBuffer {
				return accepted
			}
			continue
		}

		c.queue.Dequeue(ctx)
		packet.ReleasePacket(head)
		accepted++
		c.hasCodecPackets.Store(true)
		if !fillBuffer {
			return accepted
		}
	}
}

// receiveFrameFromDecoder pulls one frame out of the codec, or nil.
func (avPump) receiveFrameFromDecoder(ctx context.Context, c *Component) *frame.Frame {
	codecCtx := c.decoder.CodecContext(ctx)
	if codecCtx == nil {
		return nil
	}

	av := frame.Pool.Get()
	err := codecCtx.ReceiveFrame(av)
	switch {
	case err == nil:
		return buildAVFrame(c, av)
	case errors.Is(err, astiav.ErrEagain):
		c.hasCodecPackets.Store(false)
	case errors.Is(err, astiav.ErrEof):
		c.decoder.FlushBuffers(ctx)
		c.hasCodecPackets.Store(false)
	default:
		logger.Warnf(ctx, "receive_frame(stream %d): %v", c.StreamIndex, err)
	}
	frame.Pool.Put(av)
	return nil
}

func buildAVFrame(c *Component, av *astiav.Frame) *frame.Frame {
	start := avconv.Duration(av.Pts(), c.timeBase)
	if start == avconv.NoDuration {
		start = 0
	}
	var dur time.Duration
	if av.Duration() > 0 {
		dur = avconv.Duration(av.Duration(), c.timeBase)
	}
	return &frame.Frame{
		MediaType:   c.MediaType,
		AV:          av,
		StreamIndex: c.StreamIndex,
		StartTime:   start,
		EndTime:     start + dur,
		Duration:    dur,
	}
}

func (p avPump) receiveNextFrame(ctx context.Context, c *Component) *frame.Frame {
	if f := p.receiveFrameFromDecoder(ctx, c); f != nil {
		return f
	}

	if p.feedPacketsToDecoder(ctx, c, false) > 0 {
		if f := p.receiveFrameFromDecoder(ctx, c); f != nil {
			return f
		}
	}

	for p.feedPacketsToDecoder(ctx, c, true) > 0 {
		if f := p.receiveFrameFromDecoder(ctx, c); f != nil {
			return f
		}
	}
	return nil
}
