package agent

import "fmt"

// InterpretFn turns a percept into the agent's description of the current
// state.
type InterpretFn[P, S any] func(P) S

// MatchFn selects the action for a state.
type MatchFn[S, A any] func(S) A

// Reflex is the simple reflex agent program: the action depends only on the
// current percept. Run costs the same however many percepts came before.
//
// Reflex holds no mutable state, so it is safe for concurrent use as long as
// its two functions are.
type Reflex[P, S, A any] struct {
	interpret InterpretFn[P, S]
	match     MatchFn[S, A]
}

func NewReflex[P, S, A any](interpret InterpretFn[P, S], match MatchFn[S, A]) (*Reflex[P, S, A], error) {
	if interpret == nil {
		return nil, fmt.Errorf("%w: interpret", ErrNilFunc)
	}
	if match == nil {
		return nil, fmt.Errorf("%w: match", ErrNilFunc)
	}
	return &Reflex[P, S, A]{interpret: interpret, match: match}, nil
}

// Run returns match(interpret(percept)). The error is always nil; partial
// functions must encode their gaps in the action they return.
func (r *Reflex[P, S, A]) Run(percept P) (A, error) {
	return r.match(r.interpret(percept)), nil
}

// Identity is an InterpretFn for agents whose state is the percept itself.
func Identity[T any](v T) T {
	return v
}

// Rule is a condition-action rule.
type Rule[S, A any] struct {
	Condition func(S) bool
	Action    A
}

// MatchRules returns a MatchFn choosing the action of the first rule whose
// condition holds. States no rule covers get fallback.
func MatchRules[S, A any](rules []Rule[S, A], fallback A) MatchFn[S, A] {
	rules = append([]Rule[S, A](nil), rules...)
	return func(state S) A {
		for _, rule := range rules {
			if rule.Condition != nil && rule.Condition(state) {
				return rule.Action
			}
		}
		return fallback
	}
}

// Equals returns a rule condition matching states equal to want.
func Equals[S comparable](want S) func(S) bool {
	return func(state S) bool {
		return state == want
	}
}
