//go:build !sqlite

package storage

import "fmt"

func newSQLiteStore(_ string) (Store, error) {
	return nil, fmt.Errorf("%w: %s (rebuild with -tags sqlite)", ErrBackendUnavailable, KindSQLite)
}

// DefaultStoreKind is the backend used when none is configured.
func DefaultStoreKind() string {
	return KindMemory
}
