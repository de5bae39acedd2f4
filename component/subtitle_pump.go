package component

import (
	"context"
	"time"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/avconv"
	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/packet"
)

// subtitlePump implements the older decode_subtitle2 synchronous
// contract.
type subtitlePump struct{}

var _ pump = subtitlePump{}

func (subtitlePump) clearQueuedPackets(ctx context.Context, c *Component, flushBuffers bool) {
	if !flushBuffers {
		return
	}
	c.decoder.FlushBuffers(ctx)
	c.hasCodecPackets.Store(false)
}

func (subtitlePump) receiveNextFrame(ctx context.Context, c *Component) *frame.Frame {
	probe := packet.CreateEmptyPacket(c.StreamIndex)
	if f := decodeOnePacket(ctx, c, probe); f != nil {
		return f
	}

	head := c.queue.Dequeue(ctx)
	if head == nil {
		return nil
	}
	return decodeOnePacket(ctx, c, head)
}

func decodeOnePacket(ctx context.Context, c *Component, p *packet.Packet) (out *frame.Frame) {
	defer packet.ReleasePacket(p)

	if packet.IsFlushPacket(p) {
		c.decoder.FlushBuffers(ctx)
		c.hasCodecPackets.Store(false)
		return nil
	}
	packetPTS := avconv.Duration(p.Raw().Pts(), c.timeBase)
	if packetPTS == avconv.NoDuration {
		packetPTS = 0
	}

	sub, got, err := c.decoder.DecodeSubtitle(ctx, p.Raw())
	if err != nil {
		c.hasCodecPackets.Store(false)
		return nil
	}
	if !got {
		return nil
	}
	c.hasCodecPackets.Store(true)
	return buildSubtitleFrame(c, sub, packetPTS)
}

// buildSubtitleFrame converts the subtitle's start/end display times,
// millisecond offsets relative to the packet's own PTS (FFmpeg's
// AVSubtitle convention), into this component's absolute timeline.
func buildSubtitleFrame(c *Component, sub *astiav.Subtitle, packetPTS time.Duration) *frame.Frame {
	start := packetPTS + time.Duration(sub.StartDisplayTime())*time.Millisecond
	end := packetPTS + time.Duration(sub.EndDisplayTime())*time.Millisecond
	if end < start {
		end = start
	}
	return &frame.Frame{
		MediaType:   c.MediaType,
		Subtitle:    sub,
		StreamIndex: c.StreamIndex,
		StartTime:   start,
		EndTime:     end,
		Duration:    end - start,
	}
}
