package pipeline

import (
	"context"

	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/render"
)

// StopWorkers runs spec.md §5's shutdown order: pause the clock, set
// the shared shutdown flag, abort the demuxer, stop the renderer
// timer (awaiting any in-flight tick), close every renderer, join the
// reader then the decoder, clear the renderers, and reset the clock.
// Thread abort is never used; every step is cooperative.
func (p *Pipeline) StopWorkers(ctx context.Context) {
	logger.Debugf(ctx, "StopWorkers")
	defer func() { logger.Debugf(ctx, "/StopWorkers") }()

	if pauser, ok := p.clock.(render.Pauser); ok {
		pauser.Pause()
	}

	p.isStopWorkersPending.Store(true)
	p.in.SignalAbortReads()
	p.stopSignal.Close(ctx)

	<-p.rendererStopped

	for _, r := range p.renderers {
		if closer, ok := r.(interface{ Close() }); ok {
			closer.Close()
		}
	}

	p.wg.Wait()

	p.renderers = nil

	if resetter, ok := p.clock.(render.Resetter); ok {
		resetter.Reset()
	}
}

// IsStopWorkersPending reports whether shutdown has been requested;
// polled by the loops between cycles.
func (p *Pipeline) IsStopWorkersPending() bool {
	return p.isShutdownPending()
}
