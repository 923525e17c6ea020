package agent

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrInvalidLifetime   = errors.New("lifetime must be > 0")
	ErrEmptyAlphabet     = errors.New("percept alphabet must not be empty")
	ErrDuplicatePercept  = errors.New("duplicate percept in alphabet")
	ErrTableTooLarge     = errors.New("table exceeds entry limit")
	ErrTableSizeOverflow = errors.New("table size overflows uint64")
)

// TableSize returns Σ_{t=1..lifetime} perceptCount^t, the number of entries a
// table needs to cover every history an agent can see in its lifetime.
// It returns 0 when either argument is not positive.
func TableSize(perceptCount, lifetime int) *big.Int {
	total := new(big.Int)
	if perceptCount <= 0 || lifetime <= 0 {
		return total
	}
	base := big.NewInt(int64(perceptCount))
	term := big.NewInt(1)
	for t := 1; t <= lifetime; t++ {
		term.Mul(term, base)
		total.Add(total, term)
	}
	return total
}

// TableSizeUint64 is TableSize for callers that need a machine integer.
func TableSizeUint64(perceptCount, lifetime int) (uint64, error) {
	size := TableSize(perceptCount, lifetime)
	if !size.IsUint64() {
		return 0, fmt.Errorf("%w: percepts=%d lifetime=%d", ErrTableSizeOverflow, perceptCount, lifetime)
	}
	return size.Uint64(), nil
}

// BuildTable enumerates every percept sequence of length 1..lifetime over
// alphabet and asks policy for its action. The horizon must be finite and the
// resulting table must fit in maxEntries; the size is checked before any
// entry is built. policy receives a sequence it may retain.
func BuildTable[P comparable, A any](alphabet []P, lifetime int, policy func([]P) A, maxEntries uint64) (*Table[P, A], error) {
	if lifetime <= 0 {
		return nil, fmt.Errorf("%w: got=%d", ErrInvalidLifetime, lifetime)
	}
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: policy", ErrNilFunc)
	}
	seen := make(map[P]struct{}, len(alphabet))
	for _, percept := range alphabet {
		if _, dup := seen[percept]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicatePercept, percept)
		}
		seen[percept] = struct{}{}
	}
	size := TableSize(len(alphabet), lifetime)
	if !size.IsUint64() || size.Uint64() > maxEntries {
		return nil, fmt.Errorf("%w: entries=%s limit=%d", ErrTableTooLarge, size.String(), maxEntries)
	}

	table := NewTable[P, A]()
	frontier := [][]P{nil}
	for t := 1; t <= lifetime; t++ {
		next := make([][]P, 0, len(frontier)*len(alphabet))
		for _, prefix := range frontier {
			for _, percept := range alphabet {
				sequence := make([]P, len(prefix)+1)
				copy(sequence, prefix)
				sequence[len(prefix)] = percept
				if err := table.Insert(sequence, policy(sequence)); err != nil {
					return nil, err
				}
				next = append(next, sequence)
			}
		}
		frontier = next
	}
	return table, nil
}
