// Package combat implements the farming controller: a state machine that
// reads one perception snapshot per tick and answers with movement and slot
// activations.
//
// All timers and counters live in Session, owned by the Controller. Nothing
// here is safe for concurrent use except Telemetry.
package combat

import (
	"errors"
	"fmt"

	"flyff-farm-bot/internal/perception"
)

// ErrSearchTimeout ends the session when no mob was found for longer than
// the configured timeout.
var ErrSearchTimeout = errors.New("combat: no enemy found within timeout")

// StateKind enumerates controller states.
type StateKind int

const (
	Buffing StateKind = iota
	NoEnemyFound
	SearchingForEnemy
	EnemyFound
	Attacking
	AfterEnemyKill
)

var stateNames = [...]string{
	"Buffing", "NoEnemyFound", "SearchingForEnemy", "EnemyFound", "Attacking", "AfterEnemyKill",
}

func (k StateKind) String() string {
	if k < 0 || int(k) >= len(stateNames) {
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
	return stateNames[k]
}

// State is a controller state with its payload. Target is meaningful for
// EnemyFound, Attacking and AfterEnemyKill only.
type State struct {
	Kind   StateKind
	Target perception.Target
}

func (s State) String() string {
	switch s.Kind {
	case EnemyFound, Attacking, AfterEnemyKill:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Target)
	default:
		return s.Kind.String()
	}
}

func stateOf(kind StateKind) State {
	return State{Kind: kind}
}

func withTarget(kind StateKind, t perception.Target) State {
	return State{Kind: kind, Target: t}
}
