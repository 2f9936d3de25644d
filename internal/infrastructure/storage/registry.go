package storage

import (
	"fmt"
	"sync"
)

// DefaultStoreName is the logical name entity accessors resolve their store
// under, so the handle does not have to be threaded through every call.
const DefaultStoreName = "default"

var (
	storesMu sync.RWMutex
	stores   = map[string]*FileStore{}
)

// Register binds a store handle to a process-wide logical name, replacing
// any previous binding.
func Register(name string, store *FileStore) {
	storesMu.Lock()
	defer storesMu.Unlock()
	stores[name] = store
}

// Lookup resolves a store handle by logical name.
func Lookup(name string) (*FileStore, error) {
	storesMu.RLock()
	defer storesMu.RUnlock()

	store, ok := stores[name]
	if !ok {
		return nil, fmt.Errorf("no blob store registered under %q", name)
	}
	return store, nil
}

// Default resolves the store registered under DefaultStoreName.
func Default() (*FileStore, error) {
	return Lookup(DefaultStoreName)
}
