package packet

import (
	"io"

	"github.com/embervale/ember/pkg/protocol"
)

// Packet ids within the Status state. StatusRequest/StatusResponse share
// id 0x00 with Handshake only because they live in a different state;
// dispatch keys on (state, direction, id), never on id alone.
const (
	StatusRequestID  = 0x00
	StatusResponseID = 0x00
	PingRequestID    = 0x01
	PingResponseID   = 0x01
)

// StatusRequest (serverbound 0x00) carries no fields.
type StatusRequest struct{}

// ReadStatusRequest decodes the (empty) StatusRequest body.
func ReadStatusRequest(r io.Reader) (StatusRequest, error) {
	return StatusRequest{}, nil
}

// Write encodes the (empty) StatusRequest body.
func (StatusRequest) Write(w io.Writer) error { return nil }

// StatusResponse (clientbound 0x00) carries the server status JSON blob.
type StatusResponse struct {
	JSON string
}

// ReadStatusResponse decodes a StatusResponse body.
func ReadStatusResponse(r io.Reader) (StatusResponse, error) {
	json, err := protocol.ReadString(r)
	return StatusResponse{JSON: json}, err
}

// Write encodes the StatusResponse body.
func (p StatusResponse) Write(w io.Writer) error {
	return protocol.WriteString(w, p.JSON)
}

// PingRequest (serverbound 0x01) carries an opaque 8-byte payload.
type PingRequest struct {
	Payload int64
}

// ReadPingRequest decodes a PingRequest body.
func ReadPingRequest(r io.Reader) (PingRequest, error) {
	v, err := protocol.ReadInt64(r)
	return PingRequest{Payload: v}, err
}

// Write encodes the PingRequest body.
func (p PingRequest) Write(w io.Writer) error {
	return protocol.WriteInt64(w, p.Payload)
}

// PingResponse (clientbound 0x01) echoes the PingRequest payload.
type PingResponse struct {
	Payload int64
}

// ReadPingResponse decodes a PingResponse body.
func ReadPingResponse(r io.Reader) (PingResponse, error) {
	v, err := protocol.ReadInt64(r)
	return PingResponse{Payload: v}, err
}

// Write encodes the PingResponse body.
func (p PingResponse) Write(w io.Writer) error {
	return protocol.WriteInt64(w, p.Payload)
}
