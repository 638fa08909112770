package cache

import (
	"github.com/dgraph-io/ristretto"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// S is the process-local cache store, backed by ristretto. It holds
// short-lived memoized upstream responses; wrap it with a gocache
// marshaler at call sites.
var S *ristretto_store.RistrettoStore

func NewStore() error {
	backend, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}

	S = ristretto_store.NewRistretto(backend)
	return nil
}
