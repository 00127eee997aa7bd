package gen

import (
	"errors"
	"fmt"
)

// State is the processing state of one entity during a run.
type State uint8

// Entity states, in pipeline order. Failed is reachable from every
// non-terminal state.
const (
	Pending State = iota
	Resolving
	Building
	Rendering
	Done
	Failed
)

var stateNames = [...]string{
	Pending:   "pending",
	Resolving: "resolving",
	Building:  "building",
	Rendering: "rendering",
	Done:      "done",
	Failed:    "failed",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Terminal reports if no transition leaves the state.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// CanTransition reports if an entity in state s may move to next.
func (s State) CanTransition(next State) bool {
	switch {
	case s.Terminal():
		return false
	case next == Failed:
		return true
	default:
		return next == s+1 && next <= Done
	}
}

// EntityState is the final state of one entity of a run.
type EntityState struct {
	Entity string
	State  State
}

// entityRun tracks one entity through the pipeline. It is owned by a
// single worker.
type entityRun struct {
	entity string
	state  State
}

// advance moves the run to the next state. An illegal transition is a bug
// in the orchestrator.
func (r *entityRun) advance(next State) {
	if !r.state.CanTransition(next) {
		panic(fmt.Sprintf("gen: illegal transition of %s from %s to %s", r.entity, r.state, next))
	}
	r.state = next
}

// fail moves the run to Failed and returns the recorded failure.
func (r *entityRun) fail(err error) *EntityError {
	stage := r.state
	r.advance(Failed)
	ee := &EntityError{Entity: r.entity, Stage: stage, Err: err}
	var (
		fe *fieldError
		pe *parentError
	)
	// Fields of an ancestor are not fields of this entity.
	if errors.As(err, &fe) && !errors.As(err, &pe) {
		ee.Field = fe.field
	}
	return ee
}
