// Package container pins the demuxer-side collaborator this core
// consumes but does not implement: an already-open input container
// that produces packets and stream metadata. A real implementation
// wraps astiav.FormatContext the way the teacher's kernel.Input does;
// this package only names the surface component/pipeline code is
// allowed to call.
package container

import (
	"context"
	"time"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/packet"
)

// StreamInfo is the subset of a demuxed stream's metadata the core
// needs to open and describe a MediaComponent. It also carries the
// live *astiav.Stream handle so MediaComponent initialization can
// stamp the two fields spec.md §4.2 requires it to write back onto
// the stream (forced frame rate, discard policy) without this
// package exposing the rest of the demuxer's surface.
type StreamInfo struct {
	Index           int
	CodecParameters *astiav.CodecParameters
	TimeBase        astiav.Rational
	StartTime       int64 // AV_NOPTS_VALUE if unknown, in TimeBase units
	Duration        int64 // 0/unknown if the stream doesn't report one

	stream *astiav.Stream
}

// NewStreamInfo builds a StreamInfo from a live demuxed stream,
// keeping the handle needed by SetFrameRate/SetDiscardDefault.
func NewStreamInfo(stream *astiav.Stream) StreamInfo {
	return StreamInfo{
		Index:           stream.Index(),
		CodecParameters: stream.CodecParameters(),
		TimeBase:        stream.TimeBase(),
		StartTime:       stream.StartTime(),
		Duration:        stream.Duration(),
		stream:          stream,
	}
}

// SetFrameRate stamps both the average and real frame rate on the
// live stream, spec.md §4.2 step 3's forced-FPS side effect. A
// no-op when this StreamInfo carries no live stream (e.g. a test
// fixture built by struct literal).
func (s StreamInfo) SetFrameRate(q astiav.Rational) {
	if s.stream == nil {
		return
	}
	s.stream.SetAvgFrameRate(q)
	s.stream.SetRFrameRate(q)
}

// SetDiscardDefault stamps discard = default on the live stream,
// spec.md §4.2 step 7.
func (s StreamInfo) SetDiscardDefault() {
	if s.stream == nil {
		return
	}
	s.stream.SetDiscard(astiav.DiscardDefault)
}

// MediaInfo describes every stream the container has demuxed.
type MediaInfo struct {
	Streams []StreamInfo
}

// InputContext is the open-container handle component/pipeline code
// is handed at construction. Implementations must be safe for the
// reader loop to call ReadNextPacket from one goroutine while other
// goroutines call SignalAbortReads/IsReadAborted/IsAtEndOfStream.
type InputContext interface {
	MediaInfo() MediaInfo
	Options() *config.MediaOptions

	// ReadNextPacket pulls the next demuxed packet, or reports EOF.
	// Implementations own the packet until it's wrapped with
	// packet.NewFromDemuxer.
	ReadNextPacket(ctx context.Context) (raw *astiav.Packet, streamIndex int, atEOF bool, err error)

	IsReadAborted() bool
	IsAtEndOfStream() bool
	SignalAbortReads()

	// MediaStartTimeOffset is the container-level start offset used to
	// stamp a MediaComponent whose own stream reports no timestamp.
	MediaStartTimeOffset() time.Duration

	// MediaDuration is the container-level duration used to stamp a
	// MediaComponent whose own stream reports none.
	MediaDuration() time.Duration
}

// ReleaseReadPacket hands a just-read raw packet back into the
// core's pooled representation, tagging it with streamIndex.
func ReleaseReadPacket(raw *astiav.Packet, streamIndex int) *packet.Packet {
	return packet.NewFromDemuxer(raw, streamIndex)
}
