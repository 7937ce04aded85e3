package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionRoundTrip(t *testing.T) {
	cases := []Position{
		{X: 0, Y: 0, Z: 0},
		{X: 18357644, Y: 831, Z: -20882616},
		{X: -33554432, Y: -2048, Z: 33554431},
		{X: 1, Y: -1, Z: -1},
	}
	for _, p := range cases {
		packed := p.Pack()
		require.Equal(t, p, Unpack(packed))

		var buf bytes.Buffer
		require.NoError(t, WritePosition(&buf, p))
		got, err := ReadPosition(&buf)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestPositionFieldWidths(t *testing.T) {
	// X and Z are 26-bit signed (-33554432..33554431), Y is 12-bit signed
	// (-2048..2047); values at the extremes of each range must still
	// round-trip exactly.
	p := Position{X: 33554431, Y: 2047, Z: -33554432}
	packed := p.Pack()
	unpacked := Unpack(packed)
	require.Equal(t, p.X, unpacked.X)
	require.Equal(t, p.Y, unpacked.Y)
	require.Equal(t, p.Z, unpacked.Z)
}
