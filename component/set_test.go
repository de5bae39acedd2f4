package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playcore/mediacore/types"
)

func TestSetMainPrefersVideoOverAudio(t *testing.T) {
	s := NewSet()
	audio := &Component{MediaType: types.MediaTypeAudio, StreamIndex: 1}
	video := &Component{MediaType: types.MediaTypeVideo, StreamIndex: 0}

	s.Add(audio)
	require.Same(t, audio, s.Main())

	s.Add(video)
	require.Same(t, video, s.Main())
}

func TestSetByStreamIndexAndByMediaType(t *testing.T) {
	s := NewSet()
	video := &Component{MediaType: types.MediaTypeVideo, StreamIndex: 2}
	s.Add(video)

	require.Same(t, video, s.ByStreamIndex(2))
	require.Same(t, video, s.ByMediaType(types.MediaTypeVideo))
	require.Nil(t, s.ByStreamIndex(99))
	require.Nil(t, s.ByMediaType(types.MediaTypeSubtitle))
}

func TestSetForEachVisitsInMediaTypeOrder(t *testing.T) {
	s := NewSet()
	s.Add(&Component{MediaType: types.MediaTypeSubtitle, StreamIndex: 2})
	s.Add(&Component{MediaType: types.MediaTypeVideo, StreamIndex: 0})
	s.Add(&Component{MediaType: types.MediaTypeAudio, StreamIndex: 1})

	var order []types.MediaType
	s.ForEach(func(t types.MediaType, c *Component) { order = append(order, t) })

	require.Equal(t, []types.MediaType{types.MediaTypeVideo, types.MediaTypeAudio, types.MediaTypeSubtitle}, order)
}

func TestSetDisposeDisposesEveryComponentIdempotently(t *testing.T) {
	ctx := context.Background()
	s := NewSet()
	s.Add(&Component{MediaType: types.MediaTypeVideo, StreamIndex: 0})
	s.Add(&Component{MediaType: types.MediaTypeAudio, StreamIndex: 1})

	require.NoError(t, s.Dispose(ctx))
	s.ForEach(func(_ types.MediaType, c *Component) {
		require.True(t, c.IsDisposed())
	})

	// Dispose is idempotent per component.
	require.NoError(t, s.Dispose(ctx))
}
