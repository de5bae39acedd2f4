package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/playcore/mediacore/component"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/logger"
)

// backpressurePollInterval is how long the reader loop waits before
// re-checking ShouldReadMorePackets once the buffer is full, instead
// of spinning.
const backpressurePollInterval = 20 * time.Millisecond

// CanReadMorePackets: demuxer not aborted and not at EOF.
func (p *Pipeline) CanReadMorePackets() bool {
	return !p.in.IsReadAborted() && !p.in.IsAtEndOfStream()
}

// ShouldReadMorePackets: no shutdown pending, and either this is a
// live stream or the aggregated packet backlog is under the
// configured soft bound.
func (p *Pipeline) ShouldReadMorePackets(ctx context.Context) bool {
	if p.isShutdownPending() {
		return false
	}
	if p.opts.IsLiveStream {
		return true
	}
	return p.components.PacketBufferLength(ctx) < p.opts.DownloadCacheLength
}

// CanReadMoreFramesOf reports whether c could still yield a frame:
// either more packets can still arrive, or it already has queued
// packets, or the codec is already holding accepted packets.
func (p *Pipeline) CanReadMoreFramesOf(ctx context.Context, c *component.Component) bool {
	if p.CanReadMorePackets() {
		return true
	}
	return c.PacketBufferLength(ctx) > 0 || c.HasCodecPackets()
}

func (p *Pipeline) readerLoop(ctx context.Context) {
	for {
		if p.isShutdownPending() {
			return
		}
		p.readerCycle.Begin()
		p.readOneCycle(ctx)
		p.readerCycle.Complete()

		if p.isShutdownPending() {
			return
		}
		if !p.CanReadMorePackets() {
			return
		}
		if p.ShouldReadMorePackets(ctx) {
			continue
		}
		// Buffer is saturated; wait for the decoder loop to drain it
		// instead of spinning.
		select {
		case <-p.stopSignal.CloseChan():
			return
		case <-ctx.Done():
			return
		case <-time.After(backpressurePollInterval):
		}
	}
}

func (p *Pipeline) readOneCycle(ctx context.Context) {
	for p.ShouldReadMorePackets(ctx) {
		if !p.CanReadMorePackets() {
			return
		}
		raw, streamIndex, atEOF, err := p.in.ReadNextPacket(ctx)
		if atEOF {
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Warnf(ctx, "reader: ReadNextPacket: %v", err)
			return
		}
		c := p.components.ByStreamIndex(streamIndex)
		if c == nil {
			continue
		}
		c.SendPacket(ctx, container.ReleaseReadPacket(raw, streamIndex))
	}
}
