package pipeline

import (
	"context"
	"time"
)

// rendererTimerLoop is the renderer's own cadence: a periodic tick
// that, on each fire, snaps each media type's buffer to the current
// clock and renders the block if it changed since the last tick. The
// rendererBusy flag serializes re-entry so an overrun skips rather
// than stacking (spec.md §5's WaitEvent discipline).
func (p *Pipeline) rendererTimerLoop(ctx context.Context) {
	ticker := time.NewTicker(p.rendererTickInterval)
	defer ticker.Stop()
	defer close(p.rendererStopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopSignal.CloseChan():
			return
		case <-ticker.C:
			p.renderTick(ctx)
		}
	}
}

func (p *Pipeline) renderTick(ctx context.Context) {
	if !p.rendererBusy.CompareAndSwap(false, true) {
		return // previous tick still in flight; skip this one
	}
	defer p.rendererBusy.Store(false)

	p.rendererCycle.Begin()
	defer p.rendererCycle.Complete()

	if p.isShutdownPending() {
		return
	}
	clock := p.clock.Position()
	for t, buf := range p.buffers {
		renderer := p.renderers[t]
		if renderer == nil {
			continue
		}
		startTime, found := buf.GetSnapPosition(ctx, clock)
		if !found {
			continue
		}
		if p.hasRendered[t] && startTime == p.lastRenderTime[t] {
			continue
		}
		idx := buf.IndexOf(ctx, clock)
		if idx < 0 {
			continue
		}
		blk := buf.At(ctx, idx)
		if blk == nil {
			continue
		}
		// Video-block renders additionally update SMPTE timecode and
		// hardware-decoder name on the engine's own state (spec.md
		// §4.7); this core has no engine state to update, so the video
		// Renderer implementation observes those through Render itself.
		renderer.Render(blk, clock)
		p.lastRenderTime[t] = startTime
		p.hasRendered[t] = true
	}
}
