package component

import (
	"context"
	"time"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/avconv"
	"github.com/playcore/mediacore/block"
	"github.com/playcore/mediacore/codec"
	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/errs"
	"github.com/playcore/mediacore/frame"
	"github.com/playcore/mediacore/hwaccel"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/packet"
	"github.com/playcore/mediacore/types"
)

// Callbacks are the engine hooks a ComponentSet wires into every
// component it opens.
type Callbacks struct {
	OnFrameDecoded    func(f *frame.Frame, mt types.MediaType)
	OnSubtitleDecoded func(f *frame.Frame)
}

// Open initializes one stream: allocate and open a codec context,
// bind the decode strategy, and
// prime the queue with a flush sentinel.
func Open(
	ctx context.Context,
	in container.InputContext,
	stream container.StreamInfo,
	opts *config.MediaOptions,
	attacher hwaccel.Attacher,
) (_ret *Component, _err error) {
	if in == nil {
		return nil, errs.ArgumentError{Reason: "container is nil"}
	}
	if stream.CodecParameters == nil {
		return nil, errs.ArgumentError{Reason: "stream has no codec parameters"}
	}
	logger.Tracef(ctx, "component.Open(stream %d)", stream.Index)
	defer func() { logger.Tracef(ctx, "/component.Open(stream %d): %v, %v", stream.Index, _ret, _err) }()

	isVideo := stream.CodecParameters.MediaType() == astiav.MediaTypeVideo

	packetTimeBase := stream.TimeBase
	if isVideo && opts.VideoForcedFps > 0 {
		q := avconv.D2Q(opts.VideoForcedFps, 1_000_000)
		stream.SetFrameRate(q)
		packetTimeBase = avconv.InvertRational(q)
	}

	var hardwareDevice *config.HardwareDevice
	if isVideo {
		hardwareDevice = opts.VideoHardwareDevice
	}

	dec, err := codec.Open(ctx, codec.OpenParams{
		CodecParameters:    stream.CodecParameters,
		StreamTimeBase:     stream.TimeBase,
		PacketTimeBase:     packetTimeBase,
		ForcedCodecName:    opts.DecoderCodecFor(stream.Index),
		Options:            opts.GetStreamCodecOptions(stream.Index),
		EnableFastDecoding: opts.DecoderParams.EnableFastDecoding,
		EnableLowDelay:     opts.DecoderParams.EnableLowDelayDecoding,
		LowResolution:      opts.DecoderParams.LowResolutionIndex,
		RefCountedFrames:   opts.DecoderParams.RefCountedFrames,
		HardwareDevice:     hardwareDevice,
		HardwareAttacher:   attacher,
	})
	if err != nil {
		return nil, err
	}

	if dec.MediaType == types.MediaTypeUnknown {
		_ = dec.Close(ctx)
		return nil, errs.ContainerError{Reason: "unsupported media type"}
	}

	stream.SetDiscardDefault()

	c := &Component{
		objectID:                types.NewObjectID(),
		MediaType:               dec.MediaType,
		StreamIndex:             stream.Index,
		CodecID:                 dec.CodecID,
		CodecName:               dec.CodecName,
		Bitrate:                 dec.Bitrate,
		HardwareName:            dec.HardwareName,
		IsUsingHardwareDecoding: dec.IsUsingHardwareDecoding,
		timeBase:                packetTimeBase,
		StreamInfo:              stream,
		decoder:                 dec,
		queue:                   packet.NewQueue(),
	}

	switch dec.MediaType {
	case types.MediaTypeSubtitle:
		c.pump = subtitlePump{}
		c.materializer = block.DefaultMaterializer
	default:
		c.pump = avPump{}
		c.materializer = block.DefaultMaterializer
	}

	c.StartTimeOffset = startTimeOffset(stream, in.MediaStartTimeOffset())
	c.Duration = durationOf(stream, in.MediaDuration())

	c.queue.Push(ctx, packet.CreateFlushPacket(stream.Index))

	return c, nil
}

// WithCallbacks attaches the engine's decoded-frame hooks. Called by
// ComponentSet after Open so every component it owns shares the same
// callbacks.
func (c *Component) WithCallbacks(cb Callbacks) *Component {
	c.onFrameDecoded = cb.OnFrameDecoded
	c.onSubtitleDecoded = cb.OnSubtitleDecoded
	return c
}

func startTimeOffset(stream container.StreamInfo, containerOffset time.Duration) time.Duration {
	if avconv.IsNoPTS(stream.StartTime) {
		return containerOffset
	}
	return avconv.Duration(stream.StartTime, stream.TimeBase)
}

func durationOf(stream container.StreamInfo, containerDuration time.Duration) time.Duration {
	if stream.Duration <= 0 {
		return containerDuration
	}
	return avconv.Duration(stream.Duration, stream.TimeBase)
}
