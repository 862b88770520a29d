// Package keylock serializes operations per key while letting distinct keys
// proceed concurrently. Services use it to guard state transitions for a
// single principal or payment without a global lock.
package keylock

import "sync"

// KeyLock hands out one mutex per key. Mutexes are never reclaimed; key
// cardinality here is principals and payments, which is bounded for the
// process lifetime this system guarantees.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyLock) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
