package packet

import (
	"io"

	"github.com/embervale/ember/pkg/protocol"
)

// Packet ids within the Configuration state.
const (
	FinishConfigurationID              = 0x03
	AcknowledgeFinishConfigurationID    = 0x02
	RegistryDataID                      = 0x07
)

// FinishConfiguration (clientbound 0x03) tells the client configuration is
// complete; the client replies with AcknowledgeFinishConfiguration.
type FinishConfiguration struct{}

// ReadFinishConfiguration decodes the (empty) FinishConfiguration body.
func ReadFinishConfiguration(r io.Reader) (FinishConfiguration, error) {
	return FinishConfiguration{}, nil
}

// Write encodes the (empty) FinishConfiguration body.
func (FinishConfiguration) Write(w io.Writer) error { return nil }

// AcknowledgeFinishConfiguration (serverbound 0x02) carries no fields;
// receiving it transitions the connection to Play.
type AcknowledgeFinishConfiguration struct{}

// ReadAcknowledgeFinishConfiguration decodes the (empty) body.
func ReadAcknowledgeFinishConfiguration(r io.Reader) (AcknowledgeFinishConfiguration, error) {
	return AcknowledgeFinishConfiguration{}, nil
}

// Write encodes the (empty) AcknowledgeFinishConfiguration body.
func (AcknowledgeFinishConfiguration) Write(w io.Writer) error { return nil }

// RegistryEntry is one entry of a RegistryData sync; Data is present only
// when HasData is true.
type RegistryEntry struct {
	EntryID protocol.Identifier
	Data    []byte // nil when not present
}

// RegistryData (clientbound 0x07) synchronizes one registry's entries to
// the client during Configuration. This engine sends a single empty
// minecraft:dimension_type registry between LoginAcknowledged and
// FinishConfiguration (SPEC_FULL §12) so clients that expect at least one
// registry sync are not left waiting.
type RegistryData struct {
	RegistryID protocol.Identifier
	Entries    []RegistryEntry
}

// ReadRegistryData decodes a RegistryData body.
func ReadRegistryData(r io.Reader) (RegistryData, error) {
	var p RegistryData
	var err error
	if p.RegistryID, err = protocol.ReadIdentifier(r); err != nil {
		return p, err
	}
	count, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return p, err
	}
	p.Entries = make([]RegistryEntry, 0, count)
	for i := int32(0); i < count; i++ {
		var e RegistryEntry
		if e.EntryID, err = protocol.ReadIdentifier(r); err != nil {
			return p, err
		}
		hasData, err := protocol.ReadBool(r)
		if err != nil {
			return p, err
		}
		if hasData {
			if e.Data, err = protocol.ReadByteArray(r); err != nil {
				return p, err
			}
		}
		p.Entries = append(p.Entries, e)
	}
	return p, nil
}

// Write encodes the RegistryData body.
func (p RegistryData) Write(w io.Writer) error {
	if err := protocol.WriteIdentifier(w, p.RegistryID); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := protocol.WriteIdentifier(w, e.EntryID); err != nil {
			return err
		}
		if err := protocol.WriteBool(w, e.Data != nil); err != nil {
			return err
		}
		if e.Data != nil {
			if err := protocol.WriteByteArray(w, e.Data); err != nil {
				return err
			}
		}
	}
	return nil
}
