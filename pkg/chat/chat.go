// Package chat builds and validates the JSON text components used in the
// Status description, Disconnect reason, and chat broadcasts.
package chat

import (
	"encoding/json"

	"github.com/embervale/ember/internal/protoerr"
)

// Message is a Minecraft JSON chat component. Only the subset of fields
// this engine's packet catalog needs is modeled; richer client-facing
// fields (click/hover events, fonts) are intentionally omitted, matching
// spec.md's scope of "JSON component" being limited to what
// Status/Disconnect/ChatMessage require.
type Message struct {
	Text          string    `json:"text"`
	Bold          bool      `json:"bold,omitempty"`
	Italic        bool      `json:"italic,omitempty"`
	Underlined    bool      `json:"underlined,omitempty"`
	Strikethrough bool      `json:"strikethrough,omitempty"`
	Obfuscated    bool      `json:"obfuscated,omitempty"`
	Color         string    `json:"color,omitempty"`
	Extra         []Message `json:"extra,omitempty"`
}

// Text creates a simple text message.
func Text(text string) Message {
	return Message{Text: text}
}

// Colored creates a colored text message.
func Colored(text, color string) Message {
	return Message{Text: text, Color: color}
}

// Translatef creates a simple formatted message with component arguments
// appended as extras.
func Translatef(format string, args ...Message) Message {
	msg := Message{Text: format}
	if len(args) > 0 {
		msg.Extra = args
	}
	return msg
}

// String serializes the message to JSON. Marshal failures can't happen
// for this closed field set, so the error is swallowed.
func (m Message) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// Parse validates that raw is well-formed JSON and unmarshals it into a
// Message. Used whenever a component field is decoded off the wire,
// where spec.md requires the JSON to be validated on decode.
func Parse(raw string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Message{}, protoerr.Protocolf("invalid JSON text component: %v", err)
	}
	return m, nil
}
