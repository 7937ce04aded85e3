// Package state models the per-connection protocol state machine: the
// five ConnectionState variants and the monotonic transitions between
// them (spec.md §3, §4.D).
package state

import "github.com/embervale/ember/internal/protoerr"

// ConnectionState is one of the five phases a connection passes through.
// Transitions are monotonic along Handshaking -> {Status | Login ->
// Configuration -> Play}; there is no path back to an earlier state.
type ConnectionState int

const (
	Handshaking ConnectionState = iota
	Status
	Login
	Configuration
	Play
)

func (s ConnectionState) String() string {
	switch s {
	case Handshaking:
		return "Handshaking"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Configuration:
		return "Configuration"
	case Play:
		return "Play"
	default:
		return "Unknown"
	}
}

// NextStateFromHandshake maps the handshake packet's next_state field
// (1, 2 or 3) to the resulting ConnectionState. next_state=3 is the
// "transfer intent" variant, treated identically to a normal login per
// spec.md §9's treat-as-login heuristic. Any other value is a protocol
// fault.
func NextStateFromHandshake(nextState int32) (ConnectionState, error) {
	switch nextState {
	case 1:
		return Status, nil
	case 2, 3:
		return Login, nil
	default:
		return Handshaking, protoerr.Protocolf("invalid handshake next_state %d", nextState)
	}
}

// CanEnableCompression reports whether compression may be turned on while
// in the given state. Per spec.md §3, compression may only be enabled
// during Login or Play.
func CanEnableCompression(s ConnectionState) bool {
	return s == Login || s == Play
}
