// Package render pins the engine-side collaborator the block renderer
// timer hands materialized blocks to. This core never implements
// pixel/sample conversion or presentation; it only calls Render at the
// right time with the right block.
package render

import (
	"time"

	"github.com/playcore/mediacore/block"
)

// Renderer consumes one MediaBlock at the current clock position. The
// renderer timer calls Render at most once per tick per media type,
// only when the snapped block differs from the last one rendered.
type Renderer interface {
	Render(b *block.Block, clock time.Duration)
}

// ClockSource is the engine's transport clock. Position is read once
// per renderer timer tick; the renderer timer never blocks on it.
type ClockSource interface {
	Position() time.Duration
}

// Pauser and Resetter are optional ClockSource capabilities StopWorkers
// uses if present, per spec.md §5's "pause clock ... reset clock"
// shutdown steps. A ClockSource that implements neither is shut down
// without touching its run state.
type Pauser interface {
	Pause()
}

type Resetter interface {
	Reset()
}
