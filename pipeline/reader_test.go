package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"

	"github.com/playcore/mediacore/component"
	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
)

// fakeInput is a minimal container.InputContext for exercising the
// reader loop's admission rules without a real demuxer.
type fakeInput struct {
	opts      *config.MediaOptions
	aborted   bool
	atEOF     bool
	startTime time.Duration
	duration  time.Duration
}

var _ container.InputContext = (*fakeInput)(nil)

func (f *fakeInput) MediaInfo() container.MediaInfo      { return container.MediaInfo{} }
func (f *fakeInput) Options() *config.MediaOptions       { return f.opts }
func (f *fakeInput) IsReadAborted() bool                 { return f.aborted }
func (f *fakeInput) IsAtEndOfStream() bool               { return f.atEOF }
func (f *fakeInput) SignalAbortReads()                   { f.aborted = true }
func (f *fakeInput) MediaStartTimeOffset() time.Duration { return f.startTime }
func (f *fakeInput) MediaDuration() time.Duration        { return f.duration }
func (f *fakeInput) ReadNextPacket(ctx context.Context) (*astiav.Packet, int, bool, error) {
	return nil, 0, true, nil
}

func newTestPipeline(in *fakeInput) *Pipeline {
	return New(in, in.opts, component.NewSet(), nil, nil)
}

func TestCanReadMorePacketsReflectsInputState(t *testing.T) {
	in := &fakeInput{opts: &config.MediaOptions{}}
	p := newTestPipeline(in)
	require.True(t, p.CanReadMorePackets())

	in.atEOF = true
	require.False(t, p.CanReadMorePackets())

	in.atEOF = false
	in.aborted = true
	require.False(t, p.CanReadMorePackets())
}

func TestShouldReadMorePacketsHonorsShutdownAndLiveStream(t *testing.T) {
	ctx := context.Background()
	in := &fakeInput{opts: &config.MediaOptions{IsLiveStream: true}}
	p := newTestPipeline(in)
	require.True(t, p.ShouldReadMorePackets(ctx))

	p.isStopWorkersPending.Store(true)
	require.False(t, p.ShouldReadMorePackets(ctx))
}

func TestShouldReadMorePacketsAllowsReadingUnderDownloadCacheLength(t *testing.T) {
	ctx := context.Background()
	in := &fakeInput{opts: &config.MediaOptions{DownloadCacheLength: 100}}
	p := newTestPipeline(in)

	require.True(t, p.ShouldReadMorePackets(ctx))
}

func TestReadOneCycleStopsAtEOFWithoutPanicking(t *testing.T) {
	ctx := context.Background()
	in := &fakeInput{opts: &config.MediaOptions{IsLiveStream: true}}
	p := newTestPipeline(in)

	p.readOneCycle(ctx)
}
