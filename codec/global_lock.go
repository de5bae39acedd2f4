// Package codec wraps the codec library's per-stream decoder context:
// candidate selection, avcodec_open2, and the send_packet/receive_frame
// primitives MediaComponent's pumps drive.
package codec

import (
	"context"

	"github.com/xaionaro-go/xsync"
)

// globalLock serializes every codec-library open call across all
// components, plus every Close against a concurrently still-running
// open. Nothing else belongs in this lock — it exists purely because
// the underlying codec library is not safe for concurrent
// avcodec_open2/avcodec_free_context calls.
var globalLock xsync.Mutex

// WithGlobalLock runs fn while holding the process-wide codec lock.
func WithGlobalLock(ctx context.Context, fn func()) {
	globalLock.Do(ctx, fn)
}
