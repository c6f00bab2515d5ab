package svm

import (
	"os"
	"sync"

	"github.com/blocto/solana-go-sdk/types"
	"golang.org/x/sync/singleflight"

	"github.com/baserelay/bridge-sdk/bridgeerr"
)

// signerCache is the process-local, populate-lazily-never-evict cache of
// keypairs loaded from a filesystem path (spec.md §4.3.1 step 2, §5
// "shared resources", §9 "shared mutable state"). Concurrent first-loads
// of the same path single-flight to one file read.
type signerCache struct {
	mu     sync.RWMutex
	byPath map[string]types.Account
	group  singleflight.Group
}

var globalSignerCache = &signerCache{byPath: make(map[string]types.Account)}

// LoadKeypair resolves a keypair from a filesystem path, caching by
// path. The file is expected to hold the JSON byte-array format written
// by standard SVM keypair tooling (a 64-byte secret key, ed25519
// seed+pubkey, as a JSON array of ints).
func LoadKeypair(path string) (types.Account, error) {
	c := globalSignerCache

	c.mu.RLock()
	if acc, ok := c.byPath[path]; ok {
		c.mu.RUnlock()
		return acc, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.group.Do(path, func() (interface{}, error) {
		c.mu.RLock()
		if acc, ok := c.byPath[path]; ok {
			c.mu.RUnlock()
			return acc, nil
		}
		c.mu.RUnlock()

		acc, err := readKeypairFile(path)
		if err != nil {
			return types.Account{}, err
		}

		c.mu.Lock()
		c.byPath[path] = acc
		c.mu.Unlock()
		return acc, nil
	})
	if err != nil {
		return types.Account{}, err
	}
	return result.(types.Account), nil
}

func readKeypairFile(path string) (types.Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, bridgeerr.Wrap(bridgeerr.ConfigError, "", "failed to read keypair file", err)
	}

	secretKey, err := decodeJSONByteArray(raw)
	if err != nil {
		return types.Account{}, bridgeerr.Wrap(bridgeerr.ConfigError, "", "failed to parse keypair file", err)
	}

	acc, err := types.AccountFromBytes(secretKey)
	if err != nil {
		return types.Account{}, bridgeerr.Wrap(bridgeerr.ConfigError, "", "invalid keypair bytes", err)
	}
	return acc, nil
}
