package packet

import (
	"io"

	"github.com/google/uuid"

	"github.com/embervale/ember/pkg/protocol"
)

// Packet ids within the Login state.
const (
	LoginStartID        = 0x00
	LoginSuccessID      = 0x02
	SetCompressionID    = 0x03
	LoginAcknowledgedID = 0x03
)

// LoginStart (serverbound 0x00) begins the login handshake.
type LoginStart struct {
	Name       string
	PlayerUUID uuid.UUID
}

// ReadLoginStart decodes a LoginStart body.
func ReadLoginStart(r io.Reader) (LoginStart, error) {
	var p LoginStart
	var err error
	if p.Name, err = protocol.ReadStringMax(r, protocol.MaxUsernameLength); err != nil {
		return p, err
	}
	if p.PlayerUUID, err = protocol.ReadUUID(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write encodes the LoginStart body.
func (p LoginStart) Write(w io.Writer) error {
	if err := protocol.WriteString(w, p.Name); err != nil {
		return err
	}
	return protocol.WriteUUID(w, p.PlayerUUID)
}

// Property is a signed or unsigned profile property, as carried in
// LoginSuccess. This engine never populates properties (no Mojang
// session-server integration per spec.md's Non-goals), but the wire
// shape is part of the packet contract so it round-trips a client that
// sends one back through a proxy.
type Property struct {
	Name      string
	Value     string
	Signature *string
}

// LoginSuccess (clientbound 0x02) completes the login handshake. The
// strict_error_handling trailing bool some protocol revisions carry is
// intentionally omitted for 1.21.5 per spec.md §6.
type LoginSuccess struct {
	PlayerUUID uuid.UUID
	Username   string
	Properties []Property
}

// ReadLoginSuccess decodes a LoginSuccess body.
func ReadLoginSuccess(r io.Reader) (LoginSuccess, error) {
	var p LoginSuccess
	var err error
	if p.PlayerUUID, err = protocol.ReadUUID(r); err != nil {
		return p, err
	}
	if p.Username, err = protocol.ReadStringMax(r, protocol.MaxUsernameLength); err != nil {
		return p, err
	}
	count, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return p, err
	}
	p.Properties = make([]Property, 0, count)
	for i := int32(0); i < count; i++ {
		var prop Property
		if prop.Name, err = protocol.ReadString(r); err != nil {
			return p, err
		}
		if prop.Value, err = protocol.ReadString(r); err != nil {
			return p, err
		}
		hasSig, err := protocol.ReadBool(r)
		if err != nil {
			return p, err
		}
		if hasSig {
			sig, err := protocol.ReadString(r)
			if err != nil {
				return p, err
			}
			prop.Signature = &sig
		}
		p.Properties = append(p.Properties, prop)
	}
	return p, nil
}

// Write encodes the LoginSuccess body.
func (p LoginSuccess) Write(w io.Writer) error {
	if err := protocol.WriteUUID(w, p.PlayerUUID); err != nil {
		return err
	}
	if err := protocol.WriteString(w, p.Username); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, int32(len(p.Properties))); err != nil {
		return err
	}
	for _, prop := range p.Properties {
		if err := protocol.WriteString(w, prop.Name); err != nil {
			return err
		}
		if err := protocol.WriteString(w, prop.Value); err != nil {
			return err
		}
		if err := protocol.WriteBool(w, prop.Signature != nil); err != nil {
			return err
		}
		if prop.Signature != nil {
			if err := protocol.WriteString(w, *prop.Signature); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetCompression (clientbound 0x03) enables compression from the next
// packet onward in both directions. Must be sent before LoginSuccess
// when the server configures a compression threshold.
type SetCompression struct {
	Threshold int32
}

// ReadSetCompression decodes a SetCompression body.
func ReadSetCompression(r io.Reader) (SetCompression, error) {
	v, _, err := protocol.ReadVarInt(r)
	return SetCompression{Threshold: v}, err
}

// Write encodes the SetCompression body.
func (p SetCompression) Write(w io.Writer) error {
	_, err := protocol.WriteVarInt(w, p.Threshold)
	return err
}

// LoginAcknowledged (serverbound 0x03) carries no fields; it is the
// client's acknowledgement that login succeeded. The server has already
// moved the connection into Configuration after sending LoginSuccess, and
// answers this packet with the registry sync and FinishConfiguration.
type LoginAcknowledged struct{}

// ReadLoginAcknowledged decodes the (empty) LoginAcknowledged body.
func ReadLoginAcknowledged(r io.Reader) (LoginAcknowledged, error) {
	return LoginAcknowledged{}, nil
}

// Write encodes the (empty) LoginAcknowledged body.
func (LoginAcknowledged) Write(w io.Writer) error { return nil }
