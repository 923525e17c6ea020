package agent

import "fmt"

// LookupError reports a percept history missing from a TableDriven agent's
// table. It matches ErrNotFound with errors.Is.
type LookupError struct {
	// HistoryLength is the length of the history that was looked up,
	// including the percept that triggered the miss.
	HistoryLength int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: history length=%d", ErrNotFound, e.HistoryLength)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// TableDriven is the table-driven agent program. Every percept is appended to
// the agent's history and the complete history selects the action.
//
// A table able to serve an agent for a lifetime of T percepts over an alphabet
// P needs Σ_{t=1..T} |P|^t entries (see TableSize). That sum diverges as T
// grows, so the strategy only suits short-lived agents with few distinct
// percepts; Reflex is the bounded alternative. The table is never extended
// while the agent runs.
//
// A TableDriven agent has one owner. Concurrent calls to Run are not allowed;
// wrap it with Serialized if it must be shared.
type TableDriven[P comparable, A any] struct {
	table    *Table[P, A]
	percepts []P
}

// NewTableDriven takes ownership of a populated table. The caller must not
// insert into the table afterwards.
func NewTableDriven[P comparable, A any](table *Table[P, A]) (*TableDriven[P, A], error) {
	if table == nil {
		return nil, ErrNilTable
	}
	return &TableDriven[P, A]{table: table}, nil
}

// Run appends percept to the history and returns the action for the whole
// history. A history absent from the table yields a *LookupError; the
// percept stays in the history either way.
func (a *TableDriven[P, A]) Run(percept P) (A, error) {
	a.percepts = append(a.percepts, percept)
	action, ok := a.table.Lookup(a.percepts)
	if !ok {
		var zero A
		return zero, &LookupError{HistoryLength: len(a.percepts)}
	}
	return action, nil
}

// History returns a copy of the percepts received so far.
func (a *TableDriven[P, A]) History() []P {
	return append([]P(nil), a.percepts...)
}

// Len returns the number of percepts received so far.
func (a *TableDriven[P, A]) Len() int {
	return len(a.percepts)
}

// Reset discards the history, returning the agent to its constructed state.
func (a *TableDriven[P, A]) Reset() {
	a.percepts = nil
}
