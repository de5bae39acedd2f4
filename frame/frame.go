// Package frame defines MediaFrame, the short-lived handle a
// MediaComponent's pump produces from the codec library and the block
// materializers consume.
package frame

import (
	"time"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/internal/refcount"
	"github.com/playcore/mediacore/types"
)

// Frame is a decoded audio sample batch, video frame, or subtitle,
// plus its presentation timing. For audio/video, StartTime is the
// frame's PTS and EndTime is StartTime+Duration. For subtitles,
// StartTime/EndTime are the sentence's explicit bounds and may span
// many video frames.
type Frame struct {
	MediaType types.MediaType

	// AV holds the decoded audio/video frame. Nil for subtitles.
	AV *astiav.Frame

	// Subtitle holds the decoded subtitle. Nil for audio/video.
	Subtitle *astiav.Subtitle

	StreamIndex int
	StartTime   time.Duration
	EndTime     time.Duration
	Duration    time.Duration
}

// Release returns any foreign storage the Frame owns. After Release,
// the Frame must not be used again.
func (f *Frame) Release() {
	if f == nil {
		return
	}
	if f.AV != nil {
		Pool.Put(f.AV)
		f.AV = nil
	}
	if f.Subtitle != nil {
		refcount.Dec("subtitle")
		f.Subtitle.Free()
		f.Subtitle = nil
	}
}
