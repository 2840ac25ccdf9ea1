// Package sync keeps the local store and the cloud convergent: it debounces
// change notifications, pushes snapshots with a hash trailer, pulls and
// resolves conflicts, and exposes pause/resume for destructive operations
// like restore.
package sync

// State is the coordinator's position in its lifecycle.
//
// Idle -> Pending -> Syncing -> Idle or Error; Error -> Pending on the next
// data change.
type State int

const (
	// StateIdle means no sync is scheduled or running.
	StateIdle State = iota

	// StatePending means a change was observed and the quiet-period timer
	// is armed.
	StatePending

	// StateSyncing means a push or pull is in flight.
	StateSyncing

	// StateError means the last attempt failed; the next change or a manual
	// sync retries.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSyncing:
		return "syncing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
