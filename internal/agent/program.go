// Package agent implements agent programs: functions from the percept stream
// an environment produces to the actions an agent takes.
//
// Two strategies are provided. TableDriven keeps the full percept history and
// looks it up in a precomputed Table. Reflex keeps no history and maps the
// current percept through an interpretation step and a rule-matching step.
// Both satisfy Program, and a driver owns the loop that calls Run.
package agent

import "errors"

var (
	// ErrNotFound reports that a TableDriven agent's percept history has no
	// entry in its table.
	ErrNotFound = errors.New("percept history not found in table")
	// ErrNilTable is returned when a TableDriven agent is built without a table.
	ErrNilTable = errors.New("lookup table is required")
	// ErrNilFunc is returned when a Reflex agent is built with a nil function.
	ErrNilFunc = errors.New("agent function is required")
)

// Program converts one percept into one action.
//
// Run is synchronous and never blocks. A driver must call it with percepts in
// the exact order the agent experiences them.
type Program[P, A any] interface {
	Run(percept P) (A, error)
}

// ProgramFunc adapts an ordinary function to Program.
type ProgramFunc[P, A any] func(P) (A, error)

func (f ProgramFunc[P, A]) Run(percept P) (A, error) {
	return f(percept)
}
