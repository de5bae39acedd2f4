// pool.go pools astiav.Packet allocations, the same pattern the teacher
// uses in packet/pool.go: a finalizer frees anything the GC reclaims
// without going through Put.
package packet

import (
	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/internal/refcount"
	"github.com/playcore/mediacore/pool"
)

var Pool = pool.NewPool(
	func() *astiav.Packet {
		refcount.Inc("packet")
		return astiav.AllocPacket()
	},
	func(p *astiav.Packet) { p.Unref() },
	func(p *astiav.Packet) {
		refcount.Dec("packet")
		p.Free()
	},
)

// flushMarker is the single shared allocation every flush sentinel
// wraps. Its pointer identity, not its contents, is what IsFlushPacket
// tests for — mirroring how the codec library's own flush-packet idiom
// works in the source library this core sits on top of.
var flushMarker = astiav.AllocPacket()
