package component

import (
	"context"

	"github.com/playcore/mediacore/types"
)

// Set maps each media type to at most one open Component.
type Set struct {
	byMediaType   map[types.MediaType]*Component
	byStreamIndex map[int]*Component
}

func NewSet() *Set {
	return &Set{
		byMediaType:   make(map[types.MediaType]*Component),
		byStreamIndex: make(map[int]*Component),
	}
}

// Add registers c under its media type and stream index. A second
// component for a media type already present replaces the first.
func (s *Set) Add(c *Component) {
	if old := s.byMediaType[c.MediaType]; old != nil {
		delete(s.byStreamIndex, old.StreamIndex)
	}
	s.byMediaType[c.MediaType] = c
	s.byStreamIndex[c.StreamIndex] = c
}

func (s *Set) ByStreamIndex(i int) *Component {
	return s.byStreamIndex[i]
}

func (s *Set) ByMediaType(t types.MediaType) *Component {
	return s.byMediaType[t]
}

// Main is the distinguished component whose timeline drives snapping:
// video if present, else audio.
func (s *Set) Main() *Component {
	if c := s.byMediaType[types.MediaTypeVideo]; c != nil {
		return c
	}
	return s.byMediaType[types.MediaTypeAudio]
}

// ForEach visits every present component in types.MediaTypes order
// (video, audio, subtitle).
func (s *Set) ForEach(fn func(t types.MediaType, c *Component)) {
	for _, t := range types.MediaTypes {
		if c := s.byMediaType[t]; c != nil {
			fn(t, c)
		}
	}
}

// PacketBufferLength aggregates every component's queue backlog.
func (s *Set) PacketBufferLength(ctx context.Context) int64 {
	var total int64
	s.ForEach(func(_ types.MediaType, c *Component) { total += c.PacketBufferLength(ctx) })
	return total
}

// PacketBufferCount aggregates every component's queued packet count.
func (s *Set) PacketBufferCount(ctx context.Context) int {
	var total int
	s.ForEach(func(_ types.MediaType, c *Component) { total += c.PacketBufferCount(ctx) })
	return total
}

// Dispose disposes every component, collecting but not stopping on
// the first error.
func (s *Set) Dispose(ctx context.Context) error {
	var firstErr error
	s.ForEach(func(_ types.MediaType, c *Component) {
		if err := c.Dispose(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}
