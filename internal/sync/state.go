package sync

// State is the sign-in/sync lifecycle of one session's core.
//
// Anonymous ─ sign-in ─→ Authenticating ─ session confirmed ─→ Syncing.
// Syncing settles into Idle on a successful reload or Error on a failed
// one. Error behaves like Idle with an advisory error attached: every
// reload trigger moves both back to Syncing, and sign-out from any
// authenticated state returns to Anonymous.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateSyncing
	StateIdle
	StateError
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateSyncing:
		return "syncing"
	case StateIdle:
		return "idle"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Authenticated reports whether the state carries a confirmed identity.
func (s State) Authenticated() bool {
	switch s {
	case StateSyncing, StateIdle, StateError:
		return true
	default:
		return false
	}
}
