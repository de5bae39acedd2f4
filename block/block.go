// Package block implements MediaBlock and MediaBlockBuffer: the
// renderer-ready, time-ordered cache that sits between the decoder loop
// and the renderer timer.
package block

import (
	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/types"
)

// Block is a materialized, renderer-ready frame with timeline
// metadata. It owns the foreign frame memory until the buffer evicts
// or the renderer explicitly releases it.
type Block struct {
	*frame.Frame
}

// Materializer turns a decoded Frame into a renderer-ready Block. Each
// component variant supplies its own as a plain function value instead
// of a virtual method, so materialization stays swappable per media
// type without a type hierarchy.
type Materializer func(f *frame.Frame) *Block

// DefaultMaterializer wraps a Frame as-is: timing already comes from
// the pump, and color/pixel conversion is explicitly the renderer's
// job, not this package's.
func DefaultMaterializer(f *frame.Frame) *Block {
	if f == nil {
		return nil
	}
	return &Block{Frame: f}
}

func (b *Block) MediaType() types.MediaType {
	if b == nil || b.Frame == nil {
		return types.MediaTypeUnknown
	}
	return b.Frame.MediaType
}

func (b *Block) Release() {
	if b == nil {
		return
	}
	b.Frame.Release()
}
