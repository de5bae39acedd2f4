package packet

import (
	"github.com/asticode/go-astiav"
)

// Packet is an owned handle to one demuxed codec unit, tagged with the
// stream it belongs to. A Packet is either:
//   - a real packet, holding a payload pulled from the container;
//   - the flush sentinel, sharing the package-wide flushMarker pointer;
//   - an empty sentinel, a real zero-size packet used to ask the codec
//     to enter drain mode.
type Packet struct {
	raw         *astiav.Packet
	streamIndex int
	isFlush     bool
}

// Raw exposes the underlying astiav.Packet. It must never be handed to
// the codec's send_packet when IsFlush is true (see IsFlushPacket).
func (p *Packet) Raw() *astiav.Packet {
	if p == nil {
		return nil
	}
	return p.raw
}

func (p *Packet) StreamIndex() int {
	return p.streamIndex
}

// Size returns the payload size in bytes. The flush sentinel and the
// empty sentinel both report 0.
func (p *Packet) Size() int {
	if p == nil || p.isFlush || p.raw == nil {
		return 0
	}
	return p.raw.Size()
}

// IsFlushPacket reports whether p is the flush sentinel, tested by
// pointer identity against the package-wide flush marker, never by
// inspecting payload contents.
func IsFlushPacket(p *Packet) bool {
	return p != nil && p.raw == flushMarker
}

// IsEmptyPacket reports whether p is a real, zero-size packet — the
// drain/refresh request sentinel.
func IsEmptyPacket(p *Packet) bool {
	return p != nil && !p.isFlush && p.Size() == 0
}

// NewFromDemuxer wraps a packet read from the container. Ownership
// transfers to the returned Packet.
func NewFromDemuxer(raw *astiav.Packet, streamIndex int) *Packet {
	return &Packet{raw: raw, streamIndex: streamIndex}
}

// CreateFlushPacket returns the flush sentinel tagged for streamIndex.
// Every call shares the same underlying astiav.Packet pointer by
// design: the sentinel carries no payload to free, only an identity to
// recognize.
func CreateFlushPacket(streamIndex int) *Packet {
	return &Packet{raw: flushMarker, streamIndex: streamIndex, isFlush: true}
}

// CreateEmptyPacket returns a fresh, zero-size real packet requesting
// the codec to enter drain mode (or, for an attached-picture stream,
// to refresh its output).
func CreateEmptyPacket(streamIndex int) *Packet {
	p := Pool.Get()
	return &Packet{raw: p, streamIndex: streamIndex}
}

// ReleasePacket returns any owned storage back to the codec library.
// Releasing the flush sentinel is a no-op on the shared marker: it is
// never freed, only ever unreferenced by nothing, since nothing ever
// writes into it.
func ReleasePacket(p *Packet) {
	if p == nil || p.raw == nil {
		return
	}
	if p.isFlush {
		return
	}
	Pool.Put(p.raw)
	p.raw = nil
}
