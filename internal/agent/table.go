package agent

import (
	"errors"
	"iter"
)

// ErrEmptySequence is returned when a table entry is keyed by no percepts.
var ErrEmptySequence = errors.New("percept sequence must not be empty")

// Table maps complete percept sequences to actions.
//
// Sequences are stored as a trie keyed by percept, so P only needs to be
// comparable. Lookups cost O(len(sequence)). A Table is safe for concurrent
// Lookup once no more entries are inserted.
type Table[P comparable, A any] struct {
	root tableNode[P, A]
	size int
}

type tableNode[P comparable, A any] struct {
	children map[P]*tableNode[P, A]
	action   A
	terminal bool
}

func NewTable[P comparable, A any]() *Table[P, A] {
	return &Table[P, A]{}
}

// Insert sets the action for sequence, replacing any previous action for the
// same sequence.
func (t *Table[P, A]) Insert(sequence []P, action A) error {
	if len(sequence) == 0 {
		return ErrEmptySequence
	}
	n := &t.root
	for _, percept := range sequence {
		if n.children == nil {
			n.children = make(map[P]*tableNode[P, A])
		}
		child, ok := n.children[percept]
		if !ok {
			child = &tableNode[P, A]{}
			n.children[percept] = child
		}
		n = child
	}
	if !n.terminal {
		t.size++
	}
	n.action = action
	n.terminal = true
	return nil
}

// Lookup returns the action stored for exactly sequence. A prefix or an
// extension of a stored sequence does not match.
func (t *Table[P, A]) Lookup(sequence []P) (A, bool) {
	var zero A
	if len(sequence) == 0 {
		return zero, false
	}
	n := &t.root
	for _, percept := range sequence {
		child, ok := n.children[percept]
		if !ok {
			return zero, false
		}
		n = child
	}
	if !n.terminal {
		return zero, false
	}
	return n.action, true
}

// Len reports the number of distinct sequences in the table.
func (t *Table[P, A]) Len() int {
	return t.size
}

// All yields every entry. Each yielded sequence is a fresh slice; the order is
// unspecified.
func (t *Table[P, A]) All() iter.Seq2[[]P, A] {
	return func(yield func([]P, A) bool) {
		walkTable(&t.root, nil, yield)
	}
}

func walkTable[P comparable, A any](n *tableNode[P, A], prefix []P, yield func([]P, A) bool) bool {
	if n.terminal {
		if !yield(append([]P(nil), prefix...), n.action) {
			return false
		}
	}
	for percept, child := range n.children {
		if !walkTable(child, append(prefix, percept), yield) {
			return false
		}
	}
	return true
}
