// Package pipeline wires ComponentSet, block buffers, and a
// collection of renderers into the three cooperating loops spec.md
// §4.7 describes: a packet reader, a frame decoder, and a block
// renderer timer.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/playcore/mediacore/block"
	"github.com/playcore/mediacore/component"
	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/cycle"
	"github.com/playcore/mediacore/helpers/closuresignaler"
	"github.com/playcore/mediacore/render"
	"github.com/playcore/mediacore/types"
)

// Lookahead is how far past the clock the decoder loop tries to keep
// the main component's block buffer filled before yielding to other
// components, per spec.md §4.7's "clock plus a lookahead".
const Lookahead = 500 * time.Millisecond

type Pipeline struct {
	in         container.InputContext
	opts       *config.MediaOptions
	components *component.Set
	buffers    map[types.MediaType]*block.Buffer
	renderers  map[types.MediaType]render.Renderer
	clock      render.ClockSource

	readerCycle   cycle.PacketReadingCycle
	decoderCycle  cycle.FrameDecodingCycle
	rendererCycle cycle.BlockRenderingCycle

	isStopWorkersPending atomic.Bool
	stopSignal           *closuresignaler.ClosureSignaler

	lastRenderTime map[types.MediaType]time.Duration // renderer-thread-owned
	hasRendered    map[types.MediaType]bool          // renderer-thread-owned; distinguishes "never rendered" from StartTime==0

	wg sync.WaitGroup

	rendererTickInterval time.Duration
	rendererBusy         atomic.Bool // WaitEvent-style re-entry guard
	rendererStopped      chan struct{}
}

// New builds a Pipeline over an already-populated ComponentSet. It
// creates one Buffer per media type present in components, sized by
// config.DefaultBlockCapacities; the caller supplies at most one
// Renderer per media type.
func New(
	in container.InputContext,
	opts *config.MediaOptions,
	components *component.Set,
	renderers map[types.MediaType]render.Renderer,
	clock render.ClockSource,
) *Pipeline {
	p := &Pipeline{
		in:                   in,
		opts:                 opts,
		components:           components,
		buffers:              make(map[types.MediaType]*block.Buffer),
		renderers:            renderers,
		clock:                clock,
		readerCycle:          cycle.NewPacketReadingCycle(),
		decoderCycle:         cycle.NewFrameDecodingCycle(),
		rendererCycle:        cycle.NewBlockRenderingCycle(),
		stopSignal:           closuresignaler.New(),
		lastRenderTime:       make(map[types.MediaType]time.Duration),
		hasRendered:          make(map[types.MediaType]bool),
		rendererTickInterval: 40 * time.Millisecond,
		rendererStopped:      make(chan struct{}),
	}
	components.ForEach(func(t types.MediaType, c *component.Component) {
		p.buffers[t] = block.NewBuffer(t, config.DefaultBlockCapacities.For(t), nil)
	})
	return p
}

// Start launches the reader, decoder, and renderer-timer loops.
func (p *Pipeline) Start(ctx context.Context) {
	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		p.readerLoop(ctx)
	}()
	go func() {
		defer p.wg.Done()
		p.decoderLoop(ctx)
	}()
	go p.rendererTimerLoop(ctx)
}

// BufferFor exposes the block buffer for a media type, mainly for
// tests and diagnostics.
func (p *Pipeline) BufferFor(t types.MediaType) *block.Buffer {
	return p.buffers[t]
}

func (p *Pipeline) isShutdownPending() bool {
	return p.isStopWorkersPending.Load()
}
