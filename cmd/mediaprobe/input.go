package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astiav"
	"go.uber.org/atomic"

	"github.com/playcore/mediacore/avconv"
	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/internal"
	"github.com/playcore/mediacore/logger"
)

// fileInput is the demo container.InputContext: a plain on-disk/URL
// input opened once at startup via OpenInput/FindStreamInfo, read with
// ReadFrame.
type fileInput struct {
	fmtCtx *astiav.FormatContext
	opts   *config.MediaOptions

	aborted atomic.Bool
	atEOF   atomic.Bool
}

var _ container.InputContext = (*fileInput)(nil)

func openFileInput(ctx context.Context, url string, opts *config.MediaOptions) (*fileInput, error) {
	fmtCtx := astiav.AllocFormatContext()
	if fmtCtx == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	if err := fmtCtx.OpenInput(url, nil, nil); err != nil {
		fmtCtx.Free()
		return nil, fmt.Errorf("unable to open input %q: %w", url, err)
	}
	internal.SetFinalizer(ctx, fmtCtx, func(fmtCtx *astiav.FormatContext) {
		fmtCtx.CloseInput()
		fmtCtx.Free()
	})
	if err := fmtCtx.FindStreamInfo(nil); err != nil {
		fmtCtx.CloseInput()
		fmtCtx.Free()
		return nil, fmt.Errorf("unable to read stream info of %q: %w", url, err)
	}
	return &fileInput{fmtCtx: fmtCtx, opts: opts}, nil
}

func (in *fileInput) MediaInfo() container.MediaInfo {
	streams := in.fmtCtx.Streams()
	out := container.MediaInfo{Streams: make([]container.StreamInfo, 0, len(streams))}
	for _, s := range streams {
		out.Streams = append(out.Streams, container.NewStreamInfo(s))
	}
	return out
}

func (in *fileInput) Options() *config.MediaOptions { return in.opts }

func (in *fileInput) ReadNextPacket(ctx context.Context) (raw *astiav.Packet, streamIndex int, atEOF bool, err error) {
	pkt := astiav.AllocPacket()
	readErr := in.fmtCtx.ReadFrame(pkt)
	switch {
	case readErr == nil:
		if stream := avconv.FindStreamByIndex(ctx, in.fmtCtx, pkt.StreamIndex()); stream != nil {
			logger.Tracef(ctx, "read packet: stream %d, pts %d, timebase %v", pkt.StreamIndex(), pkt.Pts(), stream.TimeBase())
		}
		return pkt, pkt.StreamIndex(), false, nil
	case errors.Is(readErr, astiav.ErrEof), errors.Is(readErr, io.EOF):
		pkt.Free()
		in.atEOF.Store(true)
		return nil, 0, true, nil
	default:
		pkt.Free()
		logger.Warnf(ctx, "ReadFrame: %v", readErr)
		return nil, 0, false, fmt.Errorf("unable to read a frame: %w", readErr)
	}
}

func (in *fileInput) IsReadAborted() bool   { return in.aborted.Load() }
func (in *fileInput) IsAtEndOfStream() bool { return in.atEOF.Load() }
func (in *fileInput) SignalAbortReads()     { in.aborted.Store(true) }

func (in *fileInput) MediaStartTimeOffset() time.Duration {
	return avconv.Duration(in.fmtCtx.StartTime(), astiav.NewRational(1, astiav.TimeBase))
}

func (in *fileInput) MediaDuration() time.Duration {
	return avconv.Duration(in.fmtCtx.Duration(), astiav.NewRational(1, astiav.TimeBase))
}
