package component

import (
	"context"

	"github.com/asticode/go-astiav"

	"github.com/playcore/mediacore/config"
	"github.com/playcore/mediacore/container"
	"github.com/playcore/mediacore/hwaccel"
	"github.com/playcore/mediacore/logger"
	"github.com/playcore/mediacore/types"
)

// OpenAll opens one Component per stream in in.MediaInfo(), skipping
// streams whose media type this core doesn't drive and, when
// configured, skipping the subtitle stream entirely. A failure on any
// stream disposes every component opened so far and returns the
// error, releasing any already-acquired foreign resources.
func OpenAll(
	ctx context.Context,
	in container.InputContext,
	cb Callbacks,
	attacher hwaccel.Attacher,
) (_ret *Set, _err error) {
	opts := in.Options()
	set := NewSet()
	defer func() {
		if _err != nil {
			_ = set.Dispose(ctx)
		}
	}()

	for _, stream := range in.MediaInfo().Streams {
		if stream.CodecParameters == nil {
			continue
		}
		mt := stream.CodecParameters.MediaType()
		if mt != astiav.MediaTypeAudio && mt != astiav.MediaTypeVideo && mt != astiav.MediaTypeSubtitle {
			continue
		}
		if mt == astiav.MediaTypeSubtitle && opts.IsSubtitleDisabled {
			continue
		}
		if mt == astiav.MediaTypeVideo && set.ByMediaType(types.MediaTypeVideo) != nil {
			logger.Warnf(ctx, "stream %d: a video component is already open, skipping", stream.Index)
			continue
		}
		if mt == astiav.MediaTypeAudio && set.ByMediaType(types.MediaTypeAudio) != nil {
			continue
		}

		c, err := Open(ctx, in, stream, opts, attacher)
		if err != nil {
			return nil, err
		}
		set.Add(c.WithCallbacks(cb))
	}

	return set, nil
}
