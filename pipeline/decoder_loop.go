package pipeline

import (
	"context"
	"time"

	"github.com/playcore/mediacore/component"
	"github.com/playcore/mediacore/types"
)

// decoderIdlePollInterval is how long the decoder loop waits before
// retrying a cycle that produced no blocks at all, instead of
// spinning while every component is waiting on packets.
const decoderIdlePollInterval = 10 * time.Millisecond

func (p *Pipeline) decoderLoop(ctx context.Context) {
	for {
		if p.isShutdownPending() {
			return
		}
		p.decoderCycle.Begin()
		produced := p.decodeOneCycle(ctx)
		p.decoderCycle.Complete()

		if p.isShutdownPending() {
			return
		}
		if produced {
			continue
		}
		select {
		case <-p.stopSignal.CloseChan():
			return
		case <-ctx.Done():
			return
		case <-time.After(decoderIdlePollInterval):
		}
	}
}

// decodeOneCycle runs one AddNextBlock pass over every component and
// reports whether it produced at least one block.
func (p *Pipeline) decodeOneCycle(ctx context.Context) bool {
	main := p.components.Main()
	var produced bool
	p.components.ForEach(func(t types.MediaType, c *component.Component) {
		buf := p.buffers[t]
		for p.addNextBlock(ctx, t, c) {
			produced = true
			if buf.IsSaturated(ctx) {
				break
			}
			if main != nil && t != main.MediaType {
				if p.buffers[main.MediaType].CoversUpTo(ctx, p.clock.Position(), Lookahead) {
					break
				}
			}
		}
	})
	return produced
}

// addNextBlock decodes one frame from c and, if produced, materializes
// and appends it to the matching block buffer. It returns whether a
// block was added, spec.md §4.7's AddNextBlock.
func (p *Pipeline) addNextBlock(ctx context.Context, t types.MediaType, c *component.Component) bool {
	f := c.ReceiveNextFrame(ctx)
	if f == nil {
		return false
	}
	blk := p.buffers[t].Add(ctx, f)
	return blk != nil
}
