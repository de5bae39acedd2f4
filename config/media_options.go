// Package config holds the decoding core's external configuration
// surface. Nothing in this package loads a file or reads the
// environment; the embedding engine populates a MediaOptions and hands
// it to the pipeline.
package config

import (
	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/types"
)

// DecoderParams controls how a single MediaComponent opens its codec.
type DecoderParams struct {
	EnableFastDecoding     bool
	EnableLowDelayDecoding bool
	LowResolutionIndex     types.LowResolutionIndex
	RefCountedFrames       bool
}

// MediaOptions is the configuration consumed by MediaComponent
// initialization and the reader loop's admission control.
type MediaOptions struct {
	// VideoForcedFps stamps the video stream's frame rate and packet
	// timebase when > 0. Zero disables forcing.
	VideoForcedFps float64

	// DecoderCodec maps a stream index to a forced decoder name. An
	// absent or blank entry means "use the default decoder".
	DecoderCodec map[int]string

	DecoderParams DecoderParams

	// StreamCodecOptions returns the raw codec-library options to pass
	// to avcodec_open2 for a given stream index, or nil.
	StreamCodecOptions func(streamIndex int) *astiav.Dictionary

	// VideoHardwareDevice is nil unless hardware-accelerated video
	// decoding was requested.
	VideoHardwareDevice *HardwareDevice

	SubtitlesURL       string
	SubtitlesDelay     int64 // in AV_TIME_BASE units, matching FFmpeg's convention
	IsSubtitleDisabled bool

	// DownloadCacheLength is the soft byte bound the reader loop uses
	// for backpressure against non-live streams.
	DownloadCacheLength int64

	// IsLiveStream disables the DownloadCacheLength backpressure check:
	// a live source has no benefit from buffering ahead.
	IsLiveStream bool
}

// HardwareDevice names the accelerator the hwaccel shim should attach
// for video decoding.
type HardwareDevice struct {
	Type astiav.HardwareDeviceType
	Name string
}

// DecoderCodecFor returns the forced decoder name for streamIndex, or
// "" if none is configured.
func (o *MediaOptions) DecoderCodecFor(streamIndex int) string {
	if o == nil || o.DecoderCodec == nil {
		return ""
	}
	return o.DecoderCodec[streamIndex]
}

// GetStreamCodecOptions returns the raw codec options for streamIndex,
// or nil.
func (o *MediaOptions) GetStreamCodecOptions(streamIndex int) *astiav.Dictionary {
	if o == nil || o.StreamCodecOptions == nil {
		return nil
	}
	return o.StreamCodecOptions(streamIndex)
}

// BlockCapacities gives the per-media-type bound for MediaBlockBuffer
// (see DESIGN.md's Open Question decisions for the chosen defaults).
type BlockCapacities struct {
	Video    int
	Audio    int
	Subtitle int
}

func (c BlockCapacities) For(t types.MediaType) int {
	switch t {
	case types.MediaTypeVideo:
		return c.Video
	case types.MediaTypeAudio:
		return c.Audio
	case types.MediaTypeSubtitle:
		return c.Subtitle
	default:
		return 0
	}
}

// DefaultBlockCapacities is the chosen resolution of the open question
// on K[media_type]; see DESIGN.md.
var DefaultBlockCapacities = BlockCapacities{
	Video:    12,
	Audio:    64,
	Subtitle: 64,
}
