package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embervale/ember/pkg/protocol"
)

func baseLoginPlay() LoginPlay {
	return LoginPlay{
		EntityID:            1,
		IsHardcore:          false,
		DimensionNames:      []string{"minecraft:overworld"},
		MaxPlayers:          20,
		ViewDistance:        10,
		SimulationDistance:  10,
		ReducedDebugInfo:    false,
		EnableRespawnScreen: true,
		DoLimitedCrafting:   false,
		DimensionType:       0,
		DimensionName:       "minecraft:overworld",
		HashedSeed:          0,
		GameMode:            0,
		PreviousGameMode:    -1,
		IsDebug:             false,
		IsFlat:              false,
		PortalCooldown:      0,
		SeaLevel:            63,
		EnforcesSecureChat:  false,
	}
}

func TestLoginPlayRoundTripWithoutDeathLocation(t *testing.T) {
	p := baseLoginPlay()
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadLoginPlay(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestLoginPlayRoundTripWithDeathLocation(t *testing.T) {
	p := baseLoginPlay()
	dim := "minecraft:the_nether"
	loc := protocol.Position{X: 100, Y: 64, Z: -200}
	p.DeathDimension = &dim
	p.DeathLocation = &loc

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadLoginPlay(&buf)
	require.NoError(t, err)
	require.Equal(t, *p.DeathDimension, *got.DeathDimension)
	require.Equal(t, *p.DeathLocation, *got.DeathLocation)
	p.DeathDimension, got.DeathDimension = nil, nil
	p.DeathLocation, got.DeathLocation = nil, nil
	require.Equal(t, p, got)
}

func TestKeepAliveRoundTrip(t *testing.T) {
	p := KeepAlive{ID: 9876543210}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadKeepAlive(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestDisconnectRoundTrip(t *testing.T) {
	p := Disconnect{Reason: `{"text":"Server closed"}`}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadDisconnect(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestDisconnectRejectsMalformedReason(t *testing.T) {
	p := Disconnect{Reason: `not json`}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	_, err := ReadDisconnect(&buf)
	require.Error(t, err)
}

func TestChatMessageRoundTripUnsigned(t *testing.T) {
	p := ChatMessage{
		Message:      "hello world",
		Timestamp:    1700000000,
		Salt:         42,
		HasSignature: false,
		MessageCount: 0,
		Acknowledged: []byte{},
	}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadChatMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestChatMessageRoundTripSigned(t *testing.T) {
	p := ChatMessage{
		Message:      "signed message",
		Timestamp:    1700000001,
		Salt:         7,
		HasSignature: true,
		Signature:    bytes.Repeat([]byte{0xAB}, 256),
		MessageCount: 1,
		Acknowledged: []byte{0xFF, 0xFF, 0xFF},
	}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadChatMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestChatMessageRejectsNegativeSignatureLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, protocol.WriteString(&buf, "hi"))
	require.NoError(t, protocol.WriteInt64(&buf, 1700000000))
	require.NoError(t, protocol.WriteInt64(&buf, 1))
	require.NoError(t, protocol.WriteBool(&buf, true))
	_, err := protocol.WriteVarInt(&buf, -1)
	require.NoError(t, err)

	_, err = ReadChatMessage(&buf)
	require.Error(t, err)
}

func TestPlayerPositionRoundTrip(t *testing.T) {
	p := PlayerPosition{X: 10.5, Y: 64.0, Z: -3.25, OnGround: true}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadPlayerPosition(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestBlockChangeRoundTrip(t *testing.T) {
	p := BlockChange{Location: protocol.Position{X: 1, Y: 2, Z: 3}, BlockID: 9}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadBlockChange(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}
