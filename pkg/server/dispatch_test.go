package server

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/embervale/ember/internal/config"
	"github.com/embervale/ember/pkg/directory"
	"github.com/embervale/ember/pkg/protocol/frame"
	"github.com/embervale/ember/pkg/protocol/packet"
	"github.com/embervale/ember/pkg/world"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	return New(cfg, zap.NewNop(), world.New(0))
}

// startConnection wires a net.Pipe, runs handleConnection on the server
// side in a goroutine, and gives the test the client half to drive the
// handshake/status/login/play sequences described in spec.md §8.
func startConnection(t *testing.T, s *Server) (client net.Conn, done chan struct{}) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	done = make(chan struct{})
	go func() {
		s.handleConnection(serverConn)
		close(done)
	}()
	return clientConn, done
}

func sendFrame(t *testing.T, conn net.Conn, id int32, body []byte) {
	t.Helper()
	require.NoError(t, frame.WriteUncompressed(conn, id, body))
}

func TestStatusPingFlow(t *testing.T) {
	s := newTestServer(t)
	client, done := startConnection(t, s)
	defer client.Close()

	var hsBuf bytes.Buffer
	require.NoError(t, packet.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       1,
	}.Write(&hsBuf))
	sendFrame(t, client, packet.HandshakeID, hsBuf.Bytes())

	var reqBuf bytes.Buffer
	require.NoError(t, packet.StatusRequest{}.Write(&reqBuf))
	sendFrame(t, client, packet.StatusRequestID, reqBuf.Bytes())

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.StatusResponseID), resp.ID)
	sr, err := packet.ReadStatusResponse(bytes.NewReader(resp.Body))
	require.NoError(t, err)
	require.Contains(t, sr.JSON, "\"protocol\":770")

	var pingBuf bytes.Buffer
	require.NoError(t, packet.PingRequest{Payload: 42}.Write(&pingBuf))
	sendFrame(t, client, packet.PingRequestID, pingBuf.Bytes())

	pong, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.PingResponseID), pong.ID)
	pr, err := packet.ReadPingResponse(bytes.NewReader(pong.Body))
	require.NoError(t, err)
	require.Equal(t, int64(42), pr.Payload)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not close after ping response")
	}
}

func TestLoginToPlayFlowWithoutCompression(t *testing.T) {
	cfg := config.Default()
	cfg.CompressionThreshold = -1
	s := New(cfg, zap.NewNop(), world.New(0))
	client, _ := startConnection(t, s)
	defer client.Close()

	var hsBuf bytes.Buffer
	require.NoError(t, packet.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       2,
	}.Write(&hsBuf))
	sendFrame(t, client, packet.HandshakeID, hsBuf.Bytes())

	var lsBuf bytes.Buffer
	playerID := uuid.New()
	require.NoError(t, packet.LoginStart{Name: "Steve", PlayerUUID: playerID}.Write(&lsBuf))
	sendFrame(t, client, packet.LoginStartID, lsBuf.Bytes())

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	successFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.LoginSuccessID), successFrame.ID)
	success, err := packet.ReadLoginSuccess(bytes.NewReader(successFrame.Body))
	require.NoError(t, err)
	require.Equal(t, playerID, success.PlayerUUID)

	var ackBuf bytes.Buffer
	require.NoError(t, packet.LoginAcknowledged{}.Write(&ackBuf))
	sendFrame(t, client, packet.LoginAcknowledgedID, ackBuf.Bytes())

	registryFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.RegistryDataID), registryFrame.ID)

	// The server inserts the player right after writing LoginSuccess, so
	// the count is checked once the next reply shows that step is done.
	require.Equal(t, 1, s.Directory().Count())

	finishFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.FinishConfigurationID), finishFrame.ID)

	var finishAckBuf bytes.Buffer
	require.NoError(t, packet.AcknowledgeFinishConfiguration{}.Write(&finishAckBuf))
	sendFrame(t, client, packet.AcknowledgeFinishConfigurationID, finishAckBuf.Bytes())

	joinFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.LoginPlayID), joinFrame.ID)
	join, err := packet.ReadLoginPlay(bytes.NewReader(joinFrame.Body))
	require.NoError(t, err)
	require.Equal(t, int32(1), join.EntityID)
	require.Equal(t, []string{"minecraft:overworld"}, join.DimensionNames)
}

func TestLoginEnablesCompressionWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.CompressionThreshold = 64
	s := New(cfg, zap.NewNop(), world.New(0))
	client, _ := startConnection(t, s)
	defer client.Close()

	var hsBuf bytes.Buffer
	require.NoError(t, packet.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       2,
	}.Write(&hsBuf))
	sendFrame(t, client, packet.HandshakeID, hsBuf.Bytes())

	var lsBuf bytes.Buffer
	require.NoError(t, packet.LoginStart{Name: "Alex", PlayerUUID: uuid.New()}.Write(&lsBuf))
	sendFrame(t, client, packet.LoginStartID, lsBuf.Bytes())

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	setCompFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.SetCompressionID), setCompFrame.ID)
	sc, err := packet.ReadSetCompression(bytes.NewReader(setCompFrame.Body))
	require.NoError(t, err)
	require.Equal(t, int32(64), sc.Threshold)
}

func TestTransferIntentTreatedAsLogin(t *testing.T) {
	cfg := config.Default()
	cfg.CompressionThreshold = -1
	s := New(cfg, zap.NewNop(), world.New(0))
	client, _ := startConnection(t, s)
	defer client.Close()

	var hsBuf bytes.Buffer
	require.NoError(t, packet.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       3,
	}.Write(&hsBuf))
	sendFrame(t, client, packet.HandshakeID, hsBuf.Bytes())

	var lsBuf bytes.Buffer
	require.NoError(t, packet.LoginStart{Name: "Transferred", PlayerUUID: uuid.New()}.Write(&lsBuf))
	sendFrame(t, client, packet.LoginStartID, lsBuf.Bytes())

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	successFrame, err := frame.ReadUncompressed(client)
	require.NoError(t, err)
	require.Equal(t, int32(packet.LoginSuccessID), successFrame.ID)
}

func TestInvalidHandshakeNextStateClosesConnection(t *testing.T) {
	s := newTestServer(t)
	client, done := startConnection(t, s)
	defer client.Close()

	var hsBuf bytes.Buffer
	require.NoError(t, packet.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       9,
	}.Write(&hsBuf))
	sendFrame(t, client, packet.HandshakeID, hsBuf.Bytes())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not close on invalid next_state")
	}
}

func TestUnexpectedPacketInWrongStateClosesConnection(t *testing.T) {
	s := newTestServer(t)
	client, done := startConnection(t, s)
	defer client.Close()

	// LoginStart sent before any Handshake: it shares id 0x00 with
	// Handshake, so the server decodes its body as a Handshake, the body
	// does not parse as one, and the connection is closed.
	var lsBuf bytes.Buffer
	require.NoError(t, packet.LoginStart{Name: "TooEarly", PlayerUUID: uuid.New()}.Write(&lsBuf))
	sendFrame(t, client, packet.LoginStartID, lsBuf.Bytes())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not close on LoginStart in Handshaking state")
	}
}

func TestBuildStatusReflectsDirectoryCount(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, 0, s.buildStatus().Players.Online)

	s.dir.Insert(directory.Player{UUID: uuid.New(), Username: "p1"}, fakeConnAddr("1"))
	s.onlineCount.Store(int32(s.dir.Count()))
	require.Equal(t, 1, s.buildStatus().Players.Online)
}

type fakeConnAddr string

func (a fakeConnAddr) Network() string { return "tcp" }
func (a fakeConnAddr) String() string  { return string(a) }
