package protocol

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/embervale/ember/internal/protoerr"
)

// String length ceilings (in UTF-8 bytes), per the bounded McString
// subtypes spec.md names: generic text, server address, server/legacy
// id, and username.
const (
	MaxStringLength       = 32767
	MaxServerAddressLength = 255
	MaxServerIDLength     = 20
	MaxUsernameLength     = 16
)

// MaxByteArrayLength bounds any VarInt-length-prefixed raw byte array
// decoded by this package (ReadByteArray and callers reading a nested
// length-prefixed blob, e.g. ChatMessage's signature). It mirrors
// frame.MaxPacketSize — duplicated here rather than imported, since
// pkg/protocol/frame imports this package — because no single field
// inside one packet can legitimately exceed the packet itself.
const MaxByteArrayLength = 2097151

// ReadBool reads a single-byte boolean: 0 is false, any non-zero is true.
func ReadBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, protoerr.IO(err)
	}
	return b[0] != 0, nil
}

// WriteBool writes a boolean, always emitting 1 for true.
func WriteBool(w io.Writer, v bool) error {
	var b [1]byte
	if v {
		b[0] = 1
	}
	_, err := w.Write(b[:])
	return protoerr.IO(err)
}

// ReadUint8 reads a single unsigned byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, protoerr.IO(err)
	}
	return b[0], nil
}

// WriteUint8 writes a single unsigned byte.
func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return protoerr.IO(err)
}

// ReadInt8 reads a single signed byte.
func ReadInt8(r io.Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}

// WriteInt8 writes a single signed byte.
func WriteInt8(w io.Writer, v int8) error {
	return WriteUint8(w, uint8(v))
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, protoerr.IO(err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// WriteUint16 writes a big-endian unsigned 16-bit integer.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return protoerr.IO(err)
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func ReadInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, protoerr.IO(err)
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// WriteInt32 writes a big-endian signed 32-bit integer.
func WriteInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return protoerr.IO(err)
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func ReadInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, protoerr.IO(err)
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

// WriteInt64 writes a big-endian signed 64-bit integer.
func WriteInt64(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return protoerr.IO(err)
}

// ReadFloat64 reads a big-endian IEEE-754 double.
func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadInt64(r)
	return math.Float64frombits(uint64(v)), err
}

// WriteFloat64 writes a big-endian IEEE-754 double.
func WriteFloat64(w io.Writer, v float64) error {
	return WriteInt64(w, int64(math.Float64bits(v)))
}

// ReadFloat32 reads a big-endian IEEE-754 single.
func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadInt32(r)
	return math.Float32frombits(uint32(v)), err
}

// WriteFloat32 writes a big-endian IEEE-754 single.
func WriteFloat32(w io.Writer, v float32) error {
	return WriteInt32(w, int32(math.Float32bits(v)))
}

// ReadString reads a VarInt-length-prefixed UTF-8 string bounded by
// MaxStringLength. Use ReadStringMax for a tighter subtype bound.
func ReadString(r io.Reader) (string, error) {
	return ReadStringMax(r, MaxStringLength)
}

// ReadStringMax reads a VarInt-length-prefixed UTF-8 string, rejecting the
// length before allocating if it exceeds max, and rejecting invalid UTF-8
// after the payload is read.
func ReadStringMax(r io.Reader, max int) (string, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 || int(length) > max {
		return "", protoerr.Protocolf("string length %d exceeds max %d", length, max)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", protoerr.IO(err)
	}
	if !utf8.Valid(buf) {
		return "", protoerr.Protocol("string payload is not valid UTF-8")
	}
	return string(buf), nil
}

// WriteString writes s as a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	if _, err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return protoerr.IO(err)
}

// ReadByteArray reads a VarInt-length-prefixed raw byte array, rejecting
// the length before allocating if it is negative or exceeds
// MaxByteArrayLength.
func ReadByteArray(r io.Reader) ([]byte, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length < 0 || int(length) > MaxByteArrayLength {
		return nil, protoerr.Protocolf("byte array length %d exceeds max %d", length, MaxByteArrayLength)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, protoerr.IO(err)
	}
	return buf, nil
}

// WriteByteArray writes b as a VarInt-length-prefixed raw byte array.
func WriteByteArray(w io.Writer, b []byte) error {
	if _, err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return protoerr.IO(err)
}

// ReadUUID reads a 128-bit UUID as 16 big-endian bytes.
func ReadUUID(r io.Reader) (uuid.UUID, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return uuid.UUID{}, protoerr.IO(err)
	}
	return uuid.UUID(b), nil
}

// WriteUUID writes a UUID as 16 big-endian bytes.
func WriteUUID(w io.Writer, id uuid.UUID) error {
	_, err := w.Write(id[:])
	return protoerr.IO(err)
}

// Identifier is a namespaced resource location ("namespace:path"). A
// missing namespace defaults to "minecraft" on read; Identifier itself
// always carries the resolved namespace.
type Identifier struct {
	Namespace string
	Path      string
}

// String renders the identifier back to "namespace:path" form.
func (id Identifier) String() string {
	return id.Namespace + ":" + id.Path
}

// NewIdentifier parses "namespace:path", defaulting the namespace to
// "minecraft" when no colon is present.
func NewIdentifier(s string) Identifier {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Identifier{Namespace: s[:i], Path: s[i+1:]}
		}
	}
	return Identifier{Namespace: "minecraft", Path: s}
}

// ReadIdentifier reads a string field and parses it as an Identifier.
func ReadIdentifier(r io.Reader) (Identifier, error) {
	s, err := ReadString(r)
	if err != nil {
		return Identifier{}, err
	}
	return NewIdentifier(s), nil
}

// WriteIdentifier writes an Identifier's "namespace:path" form as a string.
func WriteIdentifier(w io.Writer, id Identifier) error {
	return WriteString(w, id.String())
}
