package codec

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/xsync"

	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/errs"
	"github.com/playcore/mediacore/hwaccel"
	"github.com/playcore/mediacore/internal/refcount"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/types"
)

// Decoder owns exactly one codec-library decoding context for the
// lifetime of the MediaComponent that opened it. Send/Receive take a
// read lock so a concurrent Close (which takes the write lock) can
// never run while a ReceiveNextFrame attempt is mid-flight.
type Decoder struct {
	locker xsync.RWMutex
	ctx    *astiav.CodecContext
	codec  *astiav.Codec
	closer *astikit.Closer

	MediaType types.MediaType
	CodecID   astiav.CodecID
	CodecName string
	Bitrate   int64

	// HardwareName and IsUsingHardwareDecoding are only set for video
	// decoders opened with a hardware device configured, and only when
	// attaching the accelerator succeeded.
	HardwareName            string
	IsUsingHardwareDecoding bool
}

// OpenParams collects everything needed to pick and open a decoder
// candidate for one stream.
type OpenParams struct {
	CodecParameters    *astiav.CodecParameters
	StreamTimeBase     astiav.Rational
	PacketTimeBase     astiav.Rational // overrides StreamTimeBase when non-zero (forced FPS case)
	ForcedCodecName    string
	Options            *astiav.Dictionary // per-stream option dictionary; consumed keys are removed by Open
	EnableFastDecoding bool
	EnableLowDelay     bool
	LowResolution      types.LowResolutionIndex
	// RefCountedFrames is accepted for parity with MediaOptions'
	// recognized configuration surface, but Open forces
	// refcounted_frames on for every audio/video candidate regardless
	// of its value (spec.md §4.2 step 5c is unconditional, unlike the
	// fast/low-delay/low-res flags above).
	RefCountedFrames bool
	HardwareDevice   *config.HardwareDevice
	HardwareAttacher hwaccel.Attacher // nil uses the built-in device-context attach
}

// Stream is the send_packet/receive_frame/flush contract a live codec
// context exposes. Decoder.CodecContext returns this interface,
// rather than the concrete *astiav.CodecContext, so the pumps in
// package component can be driven against a test double instead of a
// real codec.
type Stream interface {
	SendPacket(pkt *astiav.Packet) error
	ReceiveFrame(f *astiav.Frame) error
	FlushBuffers()
}

var _ Stream = (*astiav.CodecContext)(nil)

// candidate is one decoder this component is willing to try, in try
// order.
type candidate struct {
	codec  *astiav.Codec
	forced bool
}

func buildCandidates(params OpenParams) []candidate {
	var candidates []candidate
	if params.ForcedCodecName != "" {
		if c := astiav.FindDecoderByName(params.ForcedCodecName); c != nil {
			candidates = append(candidates, candidate{codec: c, forced: true})
		}
	}
	if c := astiav.FindDecoder(params.CodecParameters.CodecID()); c != nil {
		candidates = append(candidates, candidate{codec: c})
	}
	return candidates
}

// Open tries each candidate decoder in order (forced first, then the
// default for the stream's codec id), applying the fast-decoding/
// low-delay/low-resolution/hardware flags to each, and opens the first
// one that succeeds under the
// global codec lock. Every context allocated for a failed attempt is
// freed before the next attempt; if every candidate fails, Open
// returns a ContainerError and no codec context remains allocated.
func Open(ctx context.Context, params OpenParams) (_ret *Decoder, _err error) {
	logger.Tracef(ctx, "codec.Open(%s)", params.CodecParameters.CodecID())
	defer func() { logger.Tracef(ctx, "/codec.Open(%s): %v, %v", params.CodecParameters.CodecID(), _ret, _err) }()

	candidates := buildCandidates(params)
	if len(candidates) == 0 {
		return nil, errs.NewContainerError(
			"no decoder available for codec id %v (forced name %q)",
			params.CodecParameters.CodecID(), params.ForcedCodecName,
		)
	}

	var lastErr error
	for _, c := range candidates {
		d, err := tryOpenCandidate(ctx, c, params)
		if err != nil {
			logger.Warnf(ctx, "decoder candidate %q failed to open: %v", c.codec.Name(), err)
			lastErr = err
			continue
		}
		assert(ctx, d.ctx != nil)
		return d, nil
	}
	logger.Tracef(ctx, "every decoder candidate failed for codec parameters:\n%s", spew.Sdump(params.CodecParameters))
	return nil, errs.NewContainerError("no candidate decoder could be opened: %v", lastErr)
}

func tryOpenCandidate(ctx context.Context, c candidate, params OpenParams) (_ret *Decoder, _err error) {
	codecCtx := astiav.AllocCodecContext(c.codec)
	if codecCtx == nil {
		return nil, fmt.Errorf("unable to allocate codec context for %q", c.codec.Name())
	}
	refcount.Inc("codec_context")
	closer := astikit.NewCloser()
	closer.Add(func() {
		refcount.Dec("codec_context")
		codecCtx.Free()
	})
	// Close already frees codecCtx deterministically; this finalizer is
	// only a backstop against a caller that never calls Close.
	setFinalizerFree(ctx, codecCtx)
	defer func() {
		if _err != nil {
			_ = closer.Close()
		}
	}()

	if err := params.CodecParameters.ToCodecContext(codecCtx); err != nil {
		logger.Warnf(ctx, "unable to copy codec parameters into context: %v", err)
	}
	codecCtx.SetCodecID(c.codec.ID())

	timeBase := params.PacketTimeBase
	if timeBase.Num() == 0 {
		timeBase = params.StreamTimeBase
	}
	codecCtx.SetTimeBase(timeBase)
	codecCtx.SetPktTimeBase(timeBase)

	if params.EnableFastDecoding {
		codecCtx.SetFlags2(codecCtx.Flags2() | astiav.CodecContextFlags2(astiav.CodecFlag2Fast))
	}
	if params.EnableLowDelay {
		codecCtx.SetFlags(codecCtx.Flags() | astiav.CodecContextFlags(astiav.CodecContextFlagLowDelay))
	}

	mediaType := codecCtx.MediaType()
	options := params.Options
	if options == nil {
		options = astiav.NewDictionary()
		refcount.Inc("dictionary")
		defer func() {
			refcount.Dec("dictionary")
			options.Free()
		}()
	}

	if params.LowResolution != types.LowResolutionFull && c.codec.MaxLowres() > 0 {
		requested := int(params.LowResolution)
		clamped := requested
		if maxLowres := c.codec.MaxLowres(); clamped > maxLowres {
			clamped = maxLowres
		}
		options.Set("lowres", fmt.Sprintf("%d", clamped), 0)
	}

	// spec.md §4.2 step 5c: refcounted frames are forced on for every
	// audio/video candidate, unlike the fast/low-delay/low-res flags
	// which each gate on their own config field.
	if mediaType == astiav.MediaTypeAudio || mediaType == astiav.MediaTypeVideo {
		options.Set("refcounted_frames", "1", 0)
	}

	var hwResult hwaccel.Result
	if mediaType == astiav.MediaTypeVideo && params.HardwareDevice != nil {
		var err error
		if params.HardwareAttacher != nil {
			hwResult, err = params.HardwareAttacher.Attach(ctx, codecCtx, c.codec, *params.HardwareDevice)
		} else {
			err = attachHardware(ctx, codecCtx, c.codec, closer, params.HardwareDevice.Type)
			if err == nil {
				hwResult = hwaccel.Result{Name: params.HardwareDevice.Type.String(), IsUsingHardwareDecoding: true}
			}
		}
		if err != nil {
			logger.Warnf(ctx, "unable to attach hardware accelerator %v: %v", params.HardwareDevice.Type, err)
			hwResult = hwaccel.Result{}
		}
	}

	var openErr error
	WithGlobalLock(ctx, func() {
		openErr = codecCtx.Open(c.codec, options)
	})
	if openErr != nil {
		return nil, fmt.Errorf("avcodec_open2(%q): %w", c.codec.Name(), openErr)
	}

	warnUnconsumedOptions(ctx, c.codec.Name(), options)

	d := &Decoder{
		ctx:                     codecCtx,
		codec:                   c.codec,
		closer:                  closer,
		MediaType:               mediaTypeFromAV(mediaType),
		CodecID:                 c.codec.ID(),
		CodecName:               c.codec.Name(),
		Bitrate:                 codecCtx.BitRate(),
		HardwareName:            hwResult.Name,
		IsUsingHardwareDecoding: hwResult.IsUsingHardwareDecoding,
	}
	return d, nil
}

func warnUnconsumedOptions(ctx context.Context, codecName string, options *astiav.Dictionary) {
	if options == nil {
		return
	}
	for _, entry := range options.Entries() {
		logger.Warnf(ctx, "codec %q: unconsumed option %q=%q", codecName, entry.Key(), entry.Value())
	}
}

func mediaTypeFromAV(t astiav.MediaType) types.MediaType {
	switch t {
	case astiav.MediaTypeAudio:
		return types.MediaTypeAudio
	case astiav.MediaTypeVideo:
		return types.MediaTypeVideo
	case astiav.MediaTypeSubtitle:
		return types.MediaTypeSubtitle
	default:
		return types.MediaTypeUnknown
	}
}

// CodecContext exposes the send_packet/receive_frame seam for callers
// (the component's AV pump) that must drive it directly. It returns a
// nil interface once Close has completed, never a non-nil interface
// wrapping a nil *astiav.CodecContext.
func (d *Decoder) CodecContext(ctx context.Context) Stream {
	d.locker.ManualRLock(ctx)
	defer d.locker.ManualRUnlock(ctx)
	if d.ctx == nil {
		return nil
	}
	return d.ctx
}

// FlushBuffers drains the codec's internal buffers, as used by the
// flush-packet handler and by EOF-draining in the pumps.
func (d *Decoder) FlushBuffers(ctx context.Context) {
	d.locker.ManualRLock(ctx)
	defer d.locker.ManualRUnlock(ctx)
	if d.ctx != nil {
		d.ctx.FlushBuffers()
	}
}

// DecodeSubtitle runs decode_subtitle2 for one packet, a synchronous
// contract used instead of send_packet/receive_frame:
// gotSubtitle is false when the packet didn't complete a subtitle
// (multi-packet ASS events, or a packet carrying no subtitle data).
func (d *Decoder) DecodeSubtitle(ctx context.Context, pkt *astiav.Packet) (sub *astiav.Subtitle, gotSubtitle bool, _err error) {
	d.locker.ManualRLock(ctx)
	defer d.locker.ManualRUnlock(ctx)
	if d.ctx == nil {
		return nil, false, fmt.Errorf("decoder %q is already closed", d.CodecName)
	}
	sub = astiav.AllocSubtitle()
	refcount.Inc("subtitle")
	got, err := d.ctx.DecodeSubtitle(sub, pkt)
	if err != nil {
		refcount.Dec("subtitle")
		sub.Free()
		return nil, false, fmt.Errorf("decode_subtitle2(%q): %w", d.CodecName, err)
	}
	if !got {
		refcount.Dec("subtitle")
		sub.Free()
		return nil, false, nil
	}
	return sub, true, nil
}

// Close releases the codec context exactly once. It is idempotent and
// safe to call concurrently with an in-flight Send/Receive: Close
// blocks until it can take the write lock, so any in-flight attempt
// either finishes first or observes a cleanly nil-ed context next
// time it tries to take the read lock.
func (d *Decoder) Close(ctx context.Context) (_err error) {
	d.locker.ManualLock(ctx)
	defer d.locker.ManualUnlock(ctx)

	if d.closer == nil {
		return nil
	}
	logger.Debugf(ctx, "closing decoder %q", d.CodecName)
	WithGlobalLock(ctx, func() {
		_err = d.closer.Close()
	})
	d.ctx = nil
	d.closer = nil
	return _err
}
