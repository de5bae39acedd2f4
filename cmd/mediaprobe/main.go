// mediaprobe opens a container, builds a ComponentSet over it, and
// logs each component's codec/timebase/duration until the input is
// exhausted. It exercises this module's public surface end to end
// without an engine behind it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"

	"github.com/playcore/mediacore/avconv"
	"github.com/playcore/mediacore/component"
	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/types"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s <path-or-URL>\n", os.Args[0])
	}
	loggerLevel := logger.LevelInfo
	pflag.Var(&loggerLevel, "log-level", "log level")
	hwaccelName := pflag.String("hwaccel", "", "hardware device type to attempt for video (e.g. vaapi, cuda)")
	noSubs := pflag.Bool("no-subtitles", false, "skip the subtitle stream")
	pflag.Parse()
	if len(pflag.Args()) != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger.Default = func() logger.Logger { return l }
	defer belt.Flush(ctx)

	astiav.SetLogLevel(astiavLogLevel(loggerLevel))
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, _, msg string) {
		var cs string
		if c != nil {
			if cl := c.Class(); cl != nil {
				cs = " - class: " + cl.String()
			}
		}
		l.Logf(logLevelFromAstiav(level), "%s%s", strings.TrimSpace(msg), cs)
	})

	url := pflag.Arg(0)
	opts := &config.MediaOptions{
		IsSubtitleDisabled: *noSubs,
	}
	if *hwaccelName != "" {
		opts.VideoHardwareDevice = &config.HardwareDevice{
			Type: avconv.HardwareDeviceTypeFromString(ctx, *hwaccelName),
		}
	}

	l.Debugf("opening %q", url)
	in, err := openFileInput(ctx, url, opts)
	if err != nil {
		l.Fatal(err)
	}

	set, err := component.OpenAll(ctx, in, component.Callbacks{}, nil)
	if err != nil {
		l.Fatal(err)
	}
	defer func() {
		if err := set.Dispose(ctx); err != nil {
			l.Error(err)
		}
	}()

	set.ForEach(func(_ types.MediaType, c *component.Component) {
		fmt.Printf(
			"stream %d: %s codec=%s bitrate=%d timebase=%v duration=%v start=%v hw=%q(used=%v)\n",
			c.StreamIndex, c.MediaType, c.CodecName, c.Bitrate,
			c.StreamInfo.TimeBase, c.Duration, c.StartTimeOffset,
			c.HardwareName, c.IsUsingHardwareDecoding,
		)
	})

	observability.Go(ctx, func(ctx context.Context) {
		<-ctx.Done()
		in.SignalAbortReads()
	})

	for !in.IsReadAborted() && !in.IsAtEndOfStream() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		raw, streamIndex, atEOF, err := in.ReadNextPacket(ctx)
		if atEOF {
			break
		}
		if err != nil {
			l.Warnf("ReadNextPacket: %v", err)
			break
		}
		c := set.ByStreamIndex(streamIndex)
		if c == nil {
			raw.Free()
			continue
		}
		c.SendPacket(ctx, container.ReleaseReadPacket(raw, streamIndex))
	}

	set.ForEach(func(_ types.MediaType, c *component.Component) {
		for {
			f := c.ReceiveNextFrame(ctx)
			if f == nil {
				break
			}
			fmt.Printf("stream %d: frame start=%v end=%v\n", c.StreamIndex, f.StartTime, f.EndTime)
			f.Release()
		}
	})
}
