// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

// State is a step in the lifecycle of one backend invocation:
//
//	Idle -> Preparing -> Spawned -> (Completed | TimedOut | Failed) -> CleanedUp
//
// Failed is also reachable from Preparing when the artifact cannot be
// written or the process cannot be started.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateSpawned
	StateCompleted
	StateTimedOut
	StateFailed
	StateCleanedUp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateSpawned:
		return "spawned"
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed_out"
	case StateFailed:
		return "failed"
	case StateCleanedUp:
		return "cleaned_up"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the invocation before cleanup.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateTimedOut || s == StateFailed
}

// invocation tracks a single call. It is owned by one goroutine.
type invocation struct {
	artifact string
	state    State
	observer func(artifact string, from, to State)
}

func (inv *invocation) transition(to State) {
	from := inv.state
	inv.state = to
	if inv.observer != nil {
		inv.observer(inv.artifact, from, to)
	}
}
