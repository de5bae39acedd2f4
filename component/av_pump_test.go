package component

import (
	"context"
	"errors"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"

	"github.com/playcore/mediacore/codec"
	"github.com/playcore/mediacore/packet"
	"github.com/playcore/mediacore/types"
)

// fakeStream is a codec.Stream test double: send/receive results are
// scripted in call order, the last entry repeating once exhausted.
type fakeStream struct {
	sendResults    []error
	receiveResults []error
	sendCalls      int
	receiveCalls   int
	flushCalls     int
}

func (f *fakeStream) SendPacket(*astiav.Packet) error {
	err := scriptedError(f.sendResults, f.sendCalls)
	f.sendCalls++
	return err
}

func (f *fakeStream) ReceiveFrame(*astiav.Frame) error {
	err := scriptedError(f.receiveResults, f.receiveCalls)
	f.receiveCalls++
	return err
}

func (f *fakeStream) FlushBuffers() { f.flushCalls++ }

func scriptedError(script []error, call int) error {
	if len(script) == 0 {
		return astiav.ErrEagain
	}
	if call >= len(script) {
		call = len(script) - 1
	}
	return script[call]
}

var _ codec.Stream = (*fakeStream)(nil)

// fakeDecoder is a component.decoderHandle test double wrapping a
// fakeStream, letting av_pump.go's control flow be driven without a
// live codec context.
type fakeDecoder struct {
	stream     *fakeStream
	closed     bool
	flushCalls int
}

func (d *fakeDecoder) CodecContext(context.Context) codec.Stream {
	if d.closed {
		return nil
	}
	return d.stream
}

func (d *fakeDecoder) FlushBuffers(context.Context) {
	d.flushCalls++
	d.stream.FlushBuffers()
}

func (d *fakeDecoder) DecodeSubtitle(context.Context, *astiav.Packet) (*astiav.Subtitle, bool, error) {
	return nil, false, nil
}

func (d *fakeDecoder) Close(context.Context) error {
	d.closed = true
	return nil
}

var _ decoderHandle = (*fakeDecoder)(nil)

func newTestAVComponent(stream *fakeStream) (*Component, *fakeDecoder) {
	dec := &fakeDecoder{stream: stream}
	c := &Component{
		objectID:    types.NewObjectID(),
		MediaType:   types.MediaTypeAudio,
		StreamIndex: 1,
		decoder:     dec,
		queue:       packet.NewQueue(),
		pump:        avPump{},
	}
	return c, dec
}

func TestFeedPacketsToDecoderDrainsFlushSentinelWithoutSending(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{}
	c, dec := newTestAVComponent(stream)
	c.queue.Push(ctx, packet.CreateFlushPacket(c.StreamIndex))
	c.hasCodecPackets.Store(true)

	accepted := avPump{}.feedPacketsToDecoder(ctx, c, true)

	require.Equal(t, 0, accepted)
	require.Equal(t, 1, dec.flushCalls)
	require.Equal(t, 0, stream.sendCalls, "the flush sentinel must never reach send_packet")
	require.False(t, c.HasCodecPackets())
	require.Nil(t, c.queue.Peek(ctx))
}

func TestFeedPacketsToDecoderStopsOnEagainWithoutDequeuing(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{sendResults: []error{astiav.ErrEagain}}
	c, _ := newTestAVComponent(stream)
	p := packet.CreateEmptyPacket(c.StreamIndex)
	c.queue.Push(ctx, p)

	accepted := avPump{}.feedPacketsToDecoder(ctx, c, true)

	require.Equal(t, 0, accepted)
	require.Same(t, p, c.queue.Peek(ctx), "AGAIN must leave the packet queued for the next attempt")
	packet.ReleasePacket(c.queue.Dequeue(ctx))
}

func TestFeedPacketsToDecoderAcceptedPacketSetsHasCodecPackets(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{sendResults: []error{nil}}
	c, _ := newTestAVComponent(stream)
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))

	accepted := avPump{}.feedPacketsToDecoder(ctx, c, true)

	require.Equal(t, 1, accepted)
	require.True(t, c.HasCodecPackets())
	require.Nil(t, c.queue.Peek(ctx))
}

func TestFeedPacketsToDecoderHardErrorHonorsFillBufferFalse(t *testing.T) {
	ctx := context.Background()
	hardErr := errors.New("corrupt packet")
	stream := &fakeStream{sendResults: []error{hardErr, nil}}
	c, _ := newTestAVComponent(stream)
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))

	accepted := avPump{}.feedPacketsToDecoder(ctx, c, false)

	require.Equal(t, 1, accepted, "a rejected packet still counts as consumed")
	require.Equal(t, 1, c.PacketBufferCount(ctx), "fillBuffer=false must stop after the first consumed packet even on a hard error")
}

func TestFeedPacketsToDecoderHardErrorContinuesWhenFillingBuffer(t *testing.T) {
	ctx := context.Background()
	hardErr := errors.New("corrupt packet")
	stream := &fakeStream{sendResults: []error{hardErr, nil}}
	c, _ := newTestAVComponent(stream)
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))

	accepted := avPump{}.feedPacketsToDecoder(ctx, c, true)

	require.Equal(t, 2, accepted)
	require.Equal(t, 0, c.PacketBufferCount(ctx))
}

func TestReceiveFrameFromDecoderEofFlushesAndReturnsNil(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{receiveResults: []error{astiav.ErrEof}}
	c, dec := newTestAVComponent(stream)

	f := avPump{}.receiveFrameFromDecoder(ctx, c)

	require.Nil(t, f)
	require.Equal(t, 1, dec.flushCalls)
}

func TestReceiveFrameFromDecoderEagainClearsHasCodecPackets(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{receiveResults: []error{astiav.ErrEagain}}
	c, _ := newTestAVComponent(stream)
	c.hasCodecPackets.Store(true)

	f := avPump{}.receiveFrameFromDecoder(ctx, c)

	require.Nil(t, f)
	require.False(t, c.HasCodecPackets())
}

func TestReceiveFrameFromDecoderHardErrorLeavesHasCodecPacketsUntouched(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{receiveResults: []error{errors.New("bitstream error")}}
	c, _ := newTestAVComponent(stream)
	c.hasCodecPackets.Store(true)

	f := avPump{}.receiveFrameFromDecoder(ctx, c)

	require.Nil(t, f)
	require.True(t, c.HasCodecPackets(), "only AGAIN and a flush clear HasCodecPackets, not a hard error")
}

func TestReceiveNextFrameFeedsThenReceives(t *testing.T) {
	ctx := context.Background()
	stream := &fakeStream{
		receiveResults: []error{astiav.ErrEagain, nil},
		sendResults:    []error{nil},
	}
	c, _ := newTestAVComponent(stream)
	c.queue.Push(ctx, packet.CreateEmptyPacket(c.StreamIndex))

	f := c.ReceiveNextFrame(ctx)

	require.NotNil(t, f)
	require.Equal(t, types.MediaTypeAudio, f.MediaType)
	f.Release()
}
