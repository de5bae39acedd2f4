package codec

import (
	"context"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"

	"github.com/playcore/mediacore/errs"
)

func codecParamsFor(t *testing.T, id astiav.CodecID) *astiav.CodecParameters {
	t.Helper()
	cp := astiav.AllocCodecParameters()
	require.NotNil(t, cp)
	cp.SetCodecID(id)
	return cp
}

func TestBuildCandidatesPrefersForcedNameOverDefault(t *testing.T) {
	params := OpenParams{
		CodecParameters: codecParamsFor(t, astiav.CodecIDPcmS16Le),
		ForcedCodecName: "pcm_s16le",
	}

	candidates := buildCandidates(params)

	require.Len(t, candidates, 2)
	require.True(t, candidates[0].forced, "the forced-name candidate must be tried first")
	require.False(t, candidates[1].forced)
	require.Equal(t, astiav.CodecIDPcmS16Le, candidates[1].codec.ID())
}

func TestBuildCandidatesFallsBackWhenForcedNameUnknown(t *testing.T) {
	params := OpenParams{
		CodecParameters: codecParamsFor(t, astiav.CodecIDPcmS16Le),
		ForcedCodecName: "does_not_exist",
	}

	candidates := buildCandidates(params)

	require.Len(t, candidates, 1, "an unresolvable forced name must not stop the default candidate from being tried")
	require.False(t, candidates[0].forced)
	require.Equal(t, astiav.CodecIDPcmS16Le, candidates[0].codec.ID())
}

func TestBuildCandidatesEmptyWhenNoDecoderExistsForCodecID(t *testing.T) {
	params := OpenParams{CodecParameters: codecParamsFor(t, astiav.CodecIDNone)}

	require.Empty(t, buildCandidates(params))
}

func TestOpenFailsWithContainerErrorWhenNoCandidateExists(t *testing.T) {
	ctx := context.Background()
	params := OpenParams{CodecParameters: codecParamsFor(t, astiav.CodecIDNone)}

	dec, err := Open(ctx, params)

	require.Nil(t, dec)
	require.Error(t, err)
	var containerErr errs.ContainerError
	require.ErrorAs(t, err, &containerErr)
}
