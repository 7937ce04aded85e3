// Package status builds the Status-phase JSON response (spec.md §3, §6)
// and loads the optional favicon data URL the original Rust
// implementation reads from server-icon.png (SPEC_FULL §12).
package status

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/embervale/ember/internal/protoerr"
	"github.com/embervale/ember/pkg/chat"
	"github.com/embervale/ember/pkg/protocol"
)

// Version is the version{name,protocol} sub-object.
type Version struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// SamplePlayer is one entry of players.sample.
type SamplePlayer struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Players is the players{max,online,sample} sub-object.
type Players struct {
	Max     int            `json:"max"`
	Online  int            `json:"online"`
	Sample  []SamplePlayer `json:"sample,omitempty"`
}

// Status is the full Status-phase response, built fresh per request
// rather than cached as a string. The server fills Players.Online from
// the count stored at the most recent tick.
type Status struct {
	Version            Version      `json:"version"`
	Players            Players      `json:"players"`
	Description        chat.Message `json:"description"`
	Favicon            string       `json:"favicon,omitempty"`
	EnforcesSecureChat bool         `json:"enforcesSecureChat"`
}

// JSON serializes the status to its wire string form.
func (s Status) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", protoerr.Protocolf("marshal status: %v", err)
	}
	return string(b), nil
}

// PlainDescription wraps a plain-text MOTD as a JSON text component,
// matching the plain-text|component union spec.md allows.
func PlainDescription(text string) chat.Message {
	return chat.Text(text)
}

// LoadFavicon reads a PNG file from disk, validates the PNG magic bytes,
// best-effort checks it is 64x64 via the IHDR chunk, and returns a
// base64 data URL bounded by McString's length limit. This mirrors the
// original implementation's src/favicon.rs (SPEC_FULL §12); the engine
// core itself never touches the filesystem, so this helper is called
// once by the CLI layer, which stores the result in the loaded Config
// before validating it and starting the server.
func LoadFavicon(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read favicon: %w", err)
	}
	if len(data) < 8 || !isPNG(data) {
		return "", fmt.Errorf("favicon %s is not a PNG file", path)
	}
	if w, h, ok := pngDimensions(data); ok && (w != 64 || h != 64) {
		return "", fmt.Errorf("favicon %s is %dx%d, expected 64x64", path, w, h)
	}
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	if len(url) > protocol.MaxStringLength {
		return "", fmt.Errorf("favicon data URL exceeds %d bytes", protocol.MaxStringLength)
	}
	return url, nil
}

var pngMagic = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(data []byte) bool {
	for i, b := range pngMagic {
		if data[i] != b {
			return false
		}
	}
	return true
}

// pngDimensions reads the IHDR chunk's width/height (bytes 16..24 of a
// conforming PNG file) if present.
func pngDimensions(data []byte) (width, height int, ok bool) {
	if len(data) < 24 {
		return 0, 0, false
	}
	width = int(data[16])<<24 | int(data[17])<<16 | int(data[18])<<8 | int(data[19])
	height = int(data[20])<<24 | int(data[21])<<16 | int(data[22])<<8 | int(data[23])
	return width, height, true
}
