// Package compress holds the per-connection zlib state used once
// compression is enabled via SetCompression: one zlib writer (no gzip
// wrapper, default compression level) that is reset and reused for every
// outbound packet. Inbound packets are inflated with a new zlib reader on
// each call; no reader is kept between packets. The standard library compress/zlib is the grounded
// choice here: it implements the exact zlib framing (header + checksum)
// the protocol calls for, and no repo in the retrieval pack reaches for a
// third-party DEFLATE implementation.
package compress

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/embervale/ember/internal/protoerr"
)

// Codec holds the writer/reader pair for one connection. Rather than
// allocate a fresh (de)compressor per packet, the writer is reset and
// reused; the reader is constructed fresh per inflate call since
// compress/zlib's Reader does not expose a Reset that accepts a new
// source cheaply across the standard library versions this targets.
type Codec struct {
	deflateBuf bytes.Buffer
	deflater   *zlib.Writer
}

// New constructs a Codec ready for use.
func New() *Codec {
	var c Codec
	c.deflater = zlib.NewWriter(&c.deflateBuf)
	return &c
}

// Reset clears any buffered state, used when compression is (re-)enabled.
func (c *Codec) Reset() {
	c.deflateBuf.Reset()
	c.deflater.Reset(&c.deflateBuf)
}

// Deflate compresses data and returns the zlib-wrapped bytes.
func (c *Codec) Deflate(data []byte) ([]byte, error) {
	c.deflateBuf.Reset()
	c.deflater.Reset(&c.deflateBuf)
	if _, err := c.deflater.Write(data); err != nil {
		return nil, protoerr.Compression(err)
	}
	if err := c.deflater.Close(); err != nil {
		return nil, protoerr.Compression(err)
	}
	out := make([]byte, c.deflateBuf.Len())
	copy(out, c.deflateBuf.Bytes())
	return out, nil
}

// Inflate decompresses data into at most expectedLen bytes. It fails when
// the stream holds more than expectedLen bytes; a shorter stream is
// returned as is, so callers compare the returned length.
func (c *Codec) Inflate(data []byte, expectedLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, protoerr.Compression(err)
	}
	defer zr.Close()

	out := make([]byte, expectedLen)
	n, err := io.ReadFull(zr, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, protoerr.Compression(err)
	}
	if n == expectedLen {
		var extra [1]byte
		if m, _ := zr.Read(extra[:]); m > 0 {
			return nil, protoerr.Protocolf("inflated data exceeds declared length %d", expectedLen)
		}
	}
	return out[:n], nil
}
