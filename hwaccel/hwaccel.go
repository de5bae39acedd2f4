// Package hwaccel pins the hardware-shim collaborator MediaComponent
// initialization consults for video decoding: something that can
// attach a hardware accelerator to an already-allocated codec
// context and report back what it attached.
package hwaccel

import (
	"context"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/config"
)

// Attacher attaches a hardware accelerator to a video component's
// codec context. Name and IsUsingHardwareDecoding become the
// component's diagnostic fields for the engine's renderer-timer
// hardware-decoder-name update (spec.md §4.7).
type Attacher interface {
	Attach(ctx context.Context, codecCtx *astiav.CodecContext, codec *astiav.Codec, device config.HardwareDevice) (Result, error)
}

type Result struct {
	Name                    string
	IsUsingHardwareDecoding bool
}
