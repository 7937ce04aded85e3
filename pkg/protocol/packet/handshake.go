// Package packet holds typed encode/decode for every packet exchanged
// during Handshake/Status/Login/Configuration and the initial Play join
// packet (spec.md §6). Each packet's Write emits exactly the bytes its
// Read accepts; round-trip is the contract (spec.md §4.E, §8).
package packet

import (
	"io"

	"github.com/embervale/ember/pkg/protocol"
)

// Handshake (serverbound 0x00, Handshaking state) begins every connection.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

const HandshakeID = 0x00

// ReadHandshake decodes a Handshake packet body.
func ReadHandshake(r io.Reader) (Handshake, error) {
	var h Handshake
	var err error
	if h.ProtocolVersion, _, err = protocol.ReadVarInt(r); err != nil {
		return h, err
	}
	if h.ServerAddress, err = protocol.ReadStringMax(r, protocol.MaxServerAddressLength); err != nil {
		return h, err
	}
	if h.ServerPort, err = protocol.ReadUint16(r); err != nil {
		return h, err
	}
	if h.NextState, _, err = protocol.ReadVarInt(r); err != nil {
		return h, err
	}
	return h, nil
}

// Write encodes the Handshake packet body.
func (h Handshake) Write(w io.Writer) error {
	if _, err := protocol.WriteVarInt(w, h.ProtocolVersion); err != nil {
		return err
	}
	if err := protocol.WriteString(w, h.ServerAddress); err != nil {
		return err
	}
	if err := protocol.WriteUint16(w, h.ServerPort); err != nil {
		return err
	}
	_, err := protocol.WriteVarInt(w, h.NextState)
	return err
}
