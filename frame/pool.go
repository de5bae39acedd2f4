// pool.go pools astiav.Frame allocations, mirroring the teacher's
// frame/pool.go.
package frame

import (
	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/internal/refcount"
	"github.com/playcore/mediacore/pool"
)

var Pool = pool.NewPool(
	func() *astiav.Frame {
		refcount.Inc("frame")
		return astiav.AllocFrame()
	},
	func(f *astiav.Frame) { f.Unref() },
	func(f *astiav.Frame) {
		refcount.Dec("frame")
		f.Free()
	},
)
