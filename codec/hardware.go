package codec

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/playcore/mediacore/logger"
)

// attachHardware wires a hardware device context into codecCtx: find
// the hardware config matching deviceType among the codec's
// advertised hardware configs, install a
// pixel-format callback that accepts it, create the device context,
// and register it with closer so it is freed alongside the rest of
// the candidate's resources.
func attachHardware(ctx context.Context, codecCtx *astiav.CodecContext, codec *astiav.Codec, closer *astikit.Closer, deviceType astiav.HardwareDeviceType) error {
	hwPixelFormat := astiav.PixelFormatNone
	for _, hwCfg := range codec.HardwareConfigs() {
		if hwCfg.HardwareDeviceType() != deviceType {
			continue
		}
		if !hwCfg.MethodFlags().Has(astiav.CodecHardwareConfigMethodFlagHwDeviceCtx) {
			continue
		}
		hwPixelFormat = hwCfg.PixelFormat()
		break
	}
	if hwPixelFormat == astiav.PixelFormatNone {
		return fmt.Errorf("codec %q advertises no hardware device config for %v", codec.Name(), deviceType)
	}

	codecCtx.SetPixelFormatCallback(func(pfs []astiav.PixelFormat) astiav.PixelFormat {
		for _, pf := range pfs {
			if pf == hwPixelFormat {
				return pf
			}
		}
		logger.Errorf(ctx, "hardware accelerator %v offered none of the expected pixel formats", deviceType)
		return astiav.PixelFormatNone
	})

	hwDeviceCtx, err := astiav.CreateHardwareDeviceContext(deviceType, "", nil, 0)
	if err != nil {
		return fmt.Errorf("unable to create hardware device context (%v): %w", deviceType, err)
	}
	closer.Add(hwDeviceCtx.Free)
	codecCtx.SetHardwareDeviceContext(hwDeviceCtx)
	return nil
}
