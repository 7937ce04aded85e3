// Package frame implements length-prefixed packet framing, both the plain
// form (VarInt length, then packet id + body) and the post-SetCompression
// form (VarInt length, then VarInt uncompressed length, then either a
// literal or zlib-deflated payload).
package frame

import (
	"bytes"
	"io"

	"github.com/embervale/ember/internal/protoerr"
	"github.com/embervale/ember/pkg/protocol"
	"github.com/embervale/ember/pkg/protocol/compress"
)

// MaxPacketSize is the largest legal framed payload: 2^21 - 1 bytes, the
// largest value a 3-byte VarInt can carry, matching vanilla's limit.
const MaxPacketSize = 2097151

// MaxUncompressedPacketSize bounds the payload after inflation.
const MaxUncompressedPacketSize = 8388608

// Frame is a decoded inbound packet: its numeric id and the remaining
// field bytes (with the id VarInt already stripped).
type Frame struct {
	ID   int32
	Body []byte
}

// WriteUncompressed frames (packetID, body) with a single VarInt length
// prefix and writes it to w.
func WriteUncompressed(w io.Writer, packetID int32, body []byte) error {
	idLen := protocol.VarIntSize(packetID)
	payloadLen := idLen + len(body)

	buf := bytes.NewBuffer(make([]byte, 0, protocol.VarIntSize(int32(payloadLen))+payloadLen))
	if _, err := protocol.WriteVarInt(buf, int32(payloadLen)); err != nil {
		return err
	}
	if _, err := protocol.WriteVarInt(buf, packetID); err != nil {
		return err
	}
	buf.Write(body)

	_, err := w.Write(buf.Bytes())
	return protoerr.IO(err)
}

// ReadUncompressed reads one uncompressed frame from r.
func ReadUncompressed(r io.Reader) (Frame, error) {
	payload, err := readLengthPrefixed(r)
	if err != nil {
		return Frame{}, err
	}
	pr := bytes.NewReader(payload)
	id, idLen, err := protocol.ReadVarInt(pr)
	if err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Body: payload[idLen:]}, nil
}

// WriteCompressed frames (packetID, body) using codec and the compression
// threshold: payloads smaller than threshold are sent with an explicit
// "uncompressed_length = 0" marker and a literal body; larger payloads are
// deflated with codec and their true length recorded.
func WriteCompressed(w io.Writer, codec *compress.Codec, threshold int, packetID int32, body []byte) error {
	idLen := protocol.VarIntSize(packetID)
	var inner bytes.Buffer
	inner.Grow(idLen + len(body))
	if _, err := protocol.WriteVarInt(&inner, packetID); err != nil {
		return err
	}
	inner.Write(body)
	uncompressedLen := inner.Len()

	var out bytes.Buffer
	if uncompressedLen < threshold {
		if _, err := protocol.WriteVarInt(&out, 0); err != nil {
			return err
		}
		out.Write(inner.Bytes())
	} else {
		deflated, err := codec.Deflate(inner.Bytes())
		if err != nil {
			return err
		}
		if _, err := protocol.WriteVarInt(&out, int32(uncompressedLen)); err != nil {
			return err
		}
		out.Write(deflated)
	}

	var framed bytes.Buffer
	if _, err := protocol.WriteVarInt(&framed, int32(out.Len())); err != nil {
		return err
	}
	framed.Write(out.Bytes())

	_, err := w.Write(framed.Bytes())
	return protoerr.IO(err)
}

// ReadCompressed reads one frame from r under an active compression codec,
// inverting WriteCompressed and enforcing the threshold invariants from
// spec §4.B: a zero uncompressed-length marker must carry a literal body
// shorter than threshold, and a non-zero one must be at least threshold
// and match the inflated size.
func ReadCompressed(r io.Reader, codec *compress.Codec, threshold int) (Frame, error) {
	payload, err := readLengthPrefixed(r)
	if err != nil {
		return Frame{}, err
	}
	pr := bytes.NewReader(payload)
	uncompressedLen, prefixLen, err := protocol.ReadVarInt(pr)
	if err != nil {
		return Frame{}, err
	}
	rest := payload[prefixLen:]

	var body []byte
	if uncompressedLen == 0 {
		if len(rest) >= threshold {
			return Frame{}, protoerr.Protocolf("literal body of %d bytes meets compression threshold %d", len(rest), threshold)
		}
		body = rest
	} else {
		if int(uncompressedLen) < threshold {
			return Frame{}, protoerr.Protocolf("declared uncompressed length %d below threshold %d", uncompressedLen, threshold)
		}
		if uncompressedLen < 0 || int(uncompressedLen) > MaxUncompressedPacketSize {
			return Frame{}, protoerr.Protocolf("uncompressed length %d exceeds max %d", uncompressedLen, MaxUncompressedPacketSize)
		}
		inflated, err := codec.Inflate(rest, int(uncompressedLen))
		if err != nil {
			return Frame{}, err
		}
		if len(inflated) != int(uncompressedLen) {
			return Frame{}, protoerr.Protocolf("inflated %d bytes, expected %d", len(inflated), uncompressedLen)
		}
		body = inflated
	}

	br := bytes.NewReader(body)
	id, idLen, err := protocol.ReadVarInt(br)
	if err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Body: body[idLen:]}, nil
}

// readLengthPrefixed reads the outer VarInt(length) || bytes[length] shell
// common to both framings, enforcing the packet size invariant from
// spec §3: 1 <= length <= MaxPacketSize.
func readLengthPrefixed(r io.Reader) ([]byte, error) {
	length, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, protoerr.Protocolf("packet length %d is not positive", length)
	}
	if length > MaxPacketSize {
		return nil, protoerr.Protocolf("packet length %d exceeds max %d", length, MaxPacketSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, protoerr.IO(err)
	}
	return buf, nil
}
