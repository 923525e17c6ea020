// Package agentprog is the public API for agent programs: history-table and
// reflex strategies that turn percepts into actions, plus a Client that stores
// program definitions and replays percept sequences through them.
package agentprog

import (
	"context"
	"math/big"

	"agentprog/internal/agent"
)

type (
	Program[P, A any]                = agent.Program[P, A]
	ProgramFunc[P, A any]            = agent.ProgramFunc[P, A]
	Table[P comparable, A any]       = agent.Table[P, A]
	TableDriven[P comparable, A any] = agent.TableDriven[P, A]
	Reflex[P, S, A any]              = agent.Reflex[P, S, A]
	InterpretFn[P, S any]            = agent.InterpretFn[P, S]
	MatchFn[S, A any]                = agent.MatchFn[S, A]
	Rule[S, A any]                   = agent.Rule[S, A]
	LookupError                      = agent.LookupError
	Sensor[P any]                    = agent.Sensor[P]
	Actuator[A any]                  = agent.Actuator[A]
	SensorFunc[P any]                = agent.SensorFunc[P]
	ActuatorFunc[A any]              = agent.ActuatorFunc[A]
)

var (
	ErrNotFound      = agent.ErrNotFound
	ErrTableTooLarge = agent.ErrTableTooLarge
)

func NewTable[P comparable, A any]() *Table[P, A] {
	return agent.NewTable[P, A]()
}

func NewTableDriven[P comparable, A any](table *Table[P, A]) (*TableDriven[P, A], error) {
	return agent.NewTableDriven(table)
}

func NewReflex[P, S, A any](interpret InterpretFn[P, S], match MatchFn[S, A]) (*Reflex[P, S, A], error) {
	return agent.NewReflex(interpret, match)
}

func MatchRules[S, A any](rules []Rule[S, A], fallback A) MatchFn[S, A] {
	return agent.MatchRules(rules, fallback)
}

func BuildTable[P comparable, A any](alphabet []P, lifetime int, policy func([]P) A, maxEntries uint64) (*Table[P, A], error) {
	return agent.BuildTable(alphabet, lifetime, policy, maxEntries)
}

// TableSize returns Σ_{t=1..lifetime} perceptCount^t.
func TableSize(perceptCount, lifetime int) *big.Int {
	return agent.TableSize(perceptCount, lifetime)
}

// Tick reads one percept, runs program on it and writes the action. A nil
// actuator only runs the program.
func Tick[P, A any](ctx context.Context, sensor Sensor[P], program Program[P, A], actuator Actuator[A]) (A, error) {
	return agent.Tick(ctx, sensor, program, actuator)
}

// Serialized lets several goroutines share one program, such as a
// TableDriven agent, by applying Run calls one at a time.
func Serialized[P, A any](program Program[P, A]) Program[P, A] {
	return agent.Serialized(program)
}
