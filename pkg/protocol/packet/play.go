package packet

import (
	"io"

	"github.com/embervale/ember/pkg/chat"
	"github.com/embervale/ember/pkg/protocol"
)

// Packet ids within the Play state. The same numeric id space is reused
// across directions (e.g. 0x26 clientbound KeepAlive vs 0x18 serverbound
// KeepAlive); dispatch always keys on (state, direction, id).
const (
	LoginPlayID                  = 0x2B
	KeepAliveClientboundID       = 0x26
	KeepAliveServerboundID       = 0x18
	DisconnectID                 = 0x1D
	ChatMessageServerboundID     = 0x06
	PlayerPositionServerboundID  = 0x1A
	BlockChangeClientboundID     = 0x09
)

// LoginPlay (clientbound 0x2B) is the first Play packet, sent once the
// client acknowledges FinishConfiguration.
type LoginPlay struct {
	EntityID            int32
	IsHardcore           bool
	DimensionNames       []string
	MaxPlayers           int32
	ViewDistance         int32
	SimulationDistance   int32
	ReducedDebugInfo     bool
	EnableRespawnScreen  bool
	DoLimitedCrafting    bool
	DimensionType        int32
	DimensionName        string
	HashedSeed           int64
	GameMode             uint8
	PreviousGameMode     int8
	IsDebug              bool
	IsFlat               bool
	DeathDimension       *string
	DeathLocation        *protocol.Position
	PortalCooldown       int32
	SeaLevel             int32
	EnforcesSecureChat   bool
}

// ReadLoginPlay decodes a LoginPlay body.
func ReadLoginPlay(r io.Reader) (LoginPlay, error) {
	var p LoginPlay
	var err error
	if p.EntityID, err = protocol.ReadInt32(r); err != nil {
		return p, err
	}
	if p.IsHardcore, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	dimCount, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return p, err
	}
	p.DimensionNames = make([]string, 0, dimCount)
	for i := int32(0); i < dimCount; i++ {
		name, err := protocol.ReadString(r)
		if err != nil {
			return p, err
		}
		p.DimensionNames = append(p.DimensionNames, name)
	}
	if p.MaxPlayers, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.ViewDistance, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.SimulationDistance, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.ReducedDebugInfo, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	if p.EnableRespawnScreen, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	if p.DoLimitedCrafting, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	if p.DimensionType, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.DimensionName, err = protocol.ReadString(r); err != nil {
		return p, err
	}
	if p.HashedSeed, err = protocol.ReadInt64(r); err != nil {
		return p, err
	}
	if p.GameMode, err = protocol.ReadUint8(r); err != nil {
		return p, err
	}
	if p.PreviousGameMode, err = protocol.ReadInt8(r); err != nil {
		return p, err
	}
	if p.IsDebug, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	if p.IsFlat, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	hasDeathLocation, err := protocol.ReadBool(r)
	if err != nil {
		return p, err
	}
	if hasDeathLocation {
		dim, err := protocol.ReadString(r)
		if err != nil {
			return p, err
		}
		loc, err := protocol.ReadPosition(r)
		if err != nil {
			return p, err
		}
		p.DeathDimension = &dim
		p.DeathLocation = &loc
	}
	if p.PortalCooldown, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.SeaLevel, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.EnforcesSecureChat, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write encodes the LoginPlay body.
func (p LoginPlay) Write(w io.Writer) error {
	if err := protocol.WriteInt32(w, p.EntityID); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.IsHardcore); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, int32(len(p.DimensionNames))); err != nil {
		return err
	}
	for _, name := range p.DimensionNames {
		if err := protocol.WriteString(w, name); err != nil {
			return err
		}
	}
	if _, err := protocol.WriteVarInt(w, p.MaxPlayers); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, p.ViewDistance); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, p.SimulationDistance); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.EnableRespawnScreen); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.DoLimitedCrafting); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, p.DimensionType); err != nil {
		return err
	}
	if err := protocol.WriteString(w, p.DimensionName); err != nil {
		return err
	}
	if err := protocol.WriteInt64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := protocol.WriteUint8(w, p.GameMode); err != nil {
		return err
	}
	if err := protocol.WriteInt8(w, p.PreviousGameMode); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.IsDebug); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.IsFlat); err != nil {
		return err
	}
	hasDeathLocation := p.DeathDimension != nil && p.DeathLocation != nil
	if err := protocol.WriteBool(w, hasDeathLocation); err != nil {
		return err
	}
	if hasDeathLocation {
		if err := protocol.WriteString(w, *p.DeathDimension); err != nil {
			return err
		}
		if err := protocol.WritePosition(w, *p.DeathLocation); err != nil {
			return err
		}
	}
	if _, err := protocol.WriteVarInt(w, p.PortalCooldown); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(w, p.SeaLevel); err != nil {
		return err
	}
	return protocol.WriteBool(w, p.EnforcesSecureChat)
}

// KeepAlive carries an opaque id, used in both directions with different
// packet ids (spec.md §6).
type KeepAlive struct {
	ID int64
}

// ReadKeepAlive decodes a KeepAlive body.
func ReadKeepAlive(r io.Reader) (KeepAlive, error) {
	v, err := protocol.ReadInt64(r)
	return KeepAlive{ID: v}, err
}

// Write encodes the KeepAlive body.
func (p KeepAlive) Write(w io.Writer) error {
	return protocol.WriteInt64(w, p.ID)
}

// Disconnect (clientbound 0x1D) carries a JSON text component reason.
type Disconnect struct {
	Reason string
}

// ReadDisconnect decodes a Disconnect body, validating that Reason is a
// well-formed JSON text component before returning.
func ReadDisconnect(r io.Reader) (Disconnect, error) {
	reason, err := protocol.ReadString(r)
	if err != nil {
		return Disconnect{}, err
	}
	if _, err := chat.Parse(reason); err != nil {
		return Disconnect{}, err
	}
	return Disconnect{Reason: reason}, nil
}

// Write encodes the Disconnect body.
func (p Disconnect) Write(w io.Writer) error {
	return protocol.WriteString(w, p.Reason)
}

// ChatMessage (serverbound 0x06) is an unsigned chat message. Signature
// verification is out of scope (no Mojang session-server integration);
// HasSignature/Signature are decoded for wire compatibility but never
// checked.
type ChatMessage struct {
	Message             string
	Timestamp           int64
	Salt                int64
	HasSignature        bool
	Signature           []byte
	MessageCount        int32
	Acknowledged        []byte
}

// ReadChatMessage decodes a ChatMessage body.
func ReadChatMessage(r io.Reader) (ChatMessage, error) {
	var p ChatMessage
	var err error
	if p.Message, err = protocol.ReadStringMax(r, 256); err != nil {
		return p, err
	}
	if p.Timestamp, err = protocol.ReadInt64(r); err != nil {
		return p, err
	}
	if p.Salt, err = protocol.ReadInt64(r); err != nil {
		return p, err
	}
	if p.HasSignature, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	if p.HasSignature {
		if p.Signature, err = protocol.ReadByteArray(r); err != nil {
			return p, err
		}
	}
	if p.MessageCount, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	if p.Acknowledged, err = protocol.ReadByteArray(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write encodes the ChatMessage body.
func (p ChatMessage) Write(w io.Writer) error {
	if err := protocol.WriteString(w, p.Message); err != nil {
		return err
	}
	if err := protocol.WriteInt64(w, p.Timestamp); err != nil {
		return err
	}
	if err := protocol.WriteInt64(w, p.Salt); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.HasSignature); err != nil {
		return err
	}
	if p.HasSignature {
		if _, err := protocol.WriteVarInt(w, int32(len(p.Signature))); err != nil {
			return err
		}
		if _, err := w.Write(p.Signature); err != nil {
			return err
		}
	}
	if _, err := protocol.WriteVarInt(w, p.MessageCount); err != nil {
		return err
	}
	return protocol.WriteByteArray(w, p.Acknowledged)
}

// PlayerPosition (serverbound 0x1A) reports the client's position.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

// ReadPlayerPosition decodes a PlayerPosition body.
func ReadPlayerPosition(r io.Reader) (PlayerPosition, error) {
	var p PlayerPosition
	var err error
	if p.X, err = protocol.ReadFloat64(r); err != nil {
		return p, err
	}
	if p.Y, err = protocol.ReadFloat64(r); err != nil {
		return p, err
	}
	if p.Z, err = protocol.ReadFloat64(r); err != nil {
		return p, err
	}
	if p.OnGround, err = protocol.ReadBool(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write encodes the PlayerPosition body.
func (p PlayerPosition) Write(w io.Writer) error {
	if err := protocol.WriteFloat64(w, p.X); err != nil {
		return err
	}
	if err := protocol.WriteFloat64(w, p.Y); err != nil {
		return err
	}
	if err := protocol.WriteFloat64(w, p.Z); err != nil {
		return err
	}
	return protocol.WriteBool(w, p.OnGround)
}

// BlockChange (clientbound 0x09) updates a single block.
type BlockChange struct {
	Location protocol.Position
	BlockID  int32
}

// ReadBlockChange decodes a BlockChange body.
func ReadBlockChange(r io.Reader) (BlockChange, error) {
	var p BlockChange
	var err error
	if p.Location, err = protocol.ReadPosition(r); err != nil {
		return p, err
	}
	if p.BlockID, _, err = protocol.ReadVarInt(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write encodes the BlockChange body.
func (p BlockChange) Write(w io.Writer) error {
	if err := protocol.WritePosition(w, p.Location); err != nil {
		return err
	}
	_, err := protocol.WriteVarInt(w, p.BlockID)
	return err
}
