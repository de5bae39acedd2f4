package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlushPacketIdentity(t *testing.T) {
	a := CreateFlushPacket(3)
	b := CreateFlushPacket(7)

	require.True(t, IsFlushPacket(a))
	require.True(t, IsFlushPacket(b))
	require.Same(t, a.Raw(), b.Raw(), "every flush sentinel shares the same underlying packet pointer")
	require.Equal(t, 0, a.Size())
	require.Equal(t, 3, a.StreamIndex())
	require.Equal(t, 7, b.StreamIndex())
}

func TestEmptyPacketIsNotFlush(t *testing.T) {
	p := CreateEmptyPacket(0)
	defer ReleasePacket(p)

	require.False(t, IsFlushPacket(p))
	require.True(t, IsEmptyPacket(p))
	require.Equal(t, 0, p.Size())
}

func TestReleaseFlushPacketIsNoop(t *testing.T) {
	a := CreateFlushPacket(0)
	ReleasePacket(a)
	require.NotNil(t, a.Raw(), "releasing the flush sentinel must not clear the shared marker")
}
