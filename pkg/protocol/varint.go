// Package protocol implements the primitive wire codec shared by every
// packet in the catalog: VarInt, VarLong, length-prefixed strings,
// packed block positions, UUIDs, booleans, fixed-width integers, byte
// arrays and identifiers. Every Read* is paired with a Write* that emits
// exactly the bytes the reader accepts. There is no generic optional
// codec; packets encode each optional field themselves as a presence
// bool followed by the value.
package protocol

import (
	"io"

	"github.com/embervale/ember/internal/protoerr"
)

// MaxVarIntBytes and MaxVarLongBytes bound the continuation chain a
// conforming encoder ever produces; a parser that sees more bytes than
// this without a terminator is reading a corrupt stream.
const (
	MaxVarIntBytes  = 5
	MaxVarLongBytes = 10
)

// ReadVarInt reads a variable-length 32-bit integer: 7 data bits per byte,
// little-endian group order, MSB a continuation flag. Aborts once a 6th
// continuation byte would be required.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result uint32
	var n int
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, n, protoerr.IO(err)
		}
		result |= uint32(b[0]&0x7F) << (7 * n)
		n++
		if b[0]&0x80 == 0 {
			return int32(result), n, nil
		}
		if n >= MaxVarIntBytes {
			return 0, n, protoerr.Protocol("VarInt longer than 5 bytes")
		}
	}
}

// PutVarInt encodes value into buf (which must be at least VarIntSize(value)
// bytes) and returns the number of bytes written.
func PutVarInt(buf []byte, value int32) int {
	uval := uint32(value)
	n := 0
	for {
		if uval&^uint32(0x7F) == 0 {
			buf[n] = byte(uval)
			return n + 1
		}
		buf[n] = byte(uval&0x7F) | 0x80
		uval >>= 7
		n++
	}
}

// WriteVarInt writes value to w and returns the byte count written.
func WriteVarInt(w io.Writer, value int32) (int, error) {
	var buf [MaxVarIntBytes]byte
	n := PutVarInt(buf[:], value)
	wn, err := w.Write(buf[:n])
	if err != nil {
		return wn, protoerr.IO(err)
	}
	return wn, nil
}

// VarIntSize returns the number of bytes PutVarInt/WriteVarInt would emit
// for value, without allocating.
func VarIntSize(value int32) int {
	uval := uint32(value)
	n := 1
	for uval&^uint32(0x7F) != 0 {
		uval >>= 7
		n++
	}
	return n
}

// ReadVarLong reads a variable-length 64-bit integer, aborting after a 10th
// continuation byte.
func ReadVarLong(r io.Reader) (int64, int, error) {
	var result uint64
	var n int
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, n, protoerr.IO(err)
		}
		result |= uint64(b[0]&0x7F) << (7 * n)
		n++
		if b[0]&0x80 == 0 {
			return int64(result), n, nil
		}
		if n >= MaxVarLongBytes {
			return 0, n, protoerr.Protocol("VarLong longer than 10 bytes")
		}
	}
}

// PutVarLong encodes value into buf and returns the byte count written.
func PutVarLong(buf []byte, value int64) int {
	uval := uint64(value)
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			return n + 1
		}
		buf[n] = byte(uval&0x7F) | 0x80
		uval >>= 7
		n++
	}
}

// WriteVarLong writes value to w and returns the byte count written.
func WriteVarLong(w io.Writer, value int64) (int, error) {
	var buf [MaxVarLongBytes]byte
	n := PutVarLong(buf[:], value)
	wn, err := w.Write(buf[:n])
	if err != nil {
		return wn, protoerr.IO(err)
	}
	return wn, nil
}

// VarLongSize returns the number of bytes PutVarLong/WriteVarLong would
// emit for value.
func VarLongSize(value int64) int {
	uval := uint64(value)
	n := 1
	for uval&^uint64(0x7F) != 0 {
		uval >>= 7
		n++
	}
	return n
}
