package server

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/embervale/ember/internal/protoerr"
	"github.com/embervale/ember/pkg/protocol/compress"
	"github.com/embervale/ember/pkg/protocol/frame"
	"github.com/embervale/ember/pkg/protocol/state"
)

// Connection owns one TCP stream and the protocol state exclusively
// owned by its own task (spec.md §5: "the state machine is owned
// exclusively by its task; no synchronization is required on
// ProtocolState or the connection's compression codec").
type Connection struct {
	conn net.Conn
	addr net.Addr

	State                state.ConnectionState
	ProtocolVersion      int32
	CompressionEnabled   bool
	CompressionThreshold int

	codec *compress.Codec

	ConnectedAt  time.Time
	LastActivity time.Time

	PlayerUUID uuid.UUID
	Username   string
}

// newConnection wraps conn in Handshaking state.
func newConnection(conn net.Conn) *Connection {
	now := time.Now()
	return &Connection{
		conn:         conn,
		addr:         conn.RemoteAddr(),
		State:        state.Handshaking,
		codec:        compress.New(),
		ConnectedAt:  now,
		LastActivity: now,
	}
}

// Addr returns the connection's peer address.
func (c *Connection) Addr() net.Addr { return c.addr }

// EnableCompression turns compression on for both directions starting
// with the next packet, resetting the codec. Per spec.md §3, this is
// only legal while in Login or Play.
func (c *Connection) EnableCompression(threshold int) error {
	if !state.CanEnableCompression(c.State) {
		return protoerr.Protocolf("cannot enable compression in state %s", c.State)
	}
	c.codec.Reset()
	c.CompressionEnabled = true
	c.CompressionThreshold = threshold
	return nil
}

// ReadFrame reads one framed packet, choosing compressed or uncompressed
// framing based on the connection's current compression state.
func (c *Connection) ReadFrame() (frame.Frame, error) {
	if c.CompressionEnabled {
		return frame.ReadCompressed(c.conn, c.codec, c.CompressionThreshold)
	}
	return frame.ReadUncompressed(c.conn)
}

// WriteFrame writes one packet, choosing compressed or uncompressed
// framing based on the connection's current compression state.
func (c *Connection) WriteFrame(packetID int32, body []byte) error {
	if c.CompressionEnabled {
		return frame.WriteCompressed(c.conn, c.codec, c.CompressionThreshold, packetID, body)
	}
	return frame.WriteUncompressed(c.conn, packetID, body)
}

// Touch records read activity for idle-timeout bookkeeping.
func (c *Connection) Touch() {
	c.LastActivity = time.Now()
}

// Idle reports whether the connection has been silent longer than
// timeout.
func (c *Connection) Idle(timeout time.Duration) bool {
	return time.Since(c.LastActivity) > timeout
}

// Close closes the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// SetReadDeadline arms the next read's deadline, used to bound a single
// ReadFrame call by the configured connection timeout rather than
// blocking forever on a dead peer.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}
