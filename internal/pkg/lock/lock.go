// Package lock provides keyed locking to serialize same-process operations
// on a single entity, such as resolving one action. The persistence layer's
// conditional updates remain the cross-process guarantee; these locks only
// cut down on doomed concurrent attempts inside one process.
package lock

import (
	"sync"
)

// keyedMutex wraps a mutex so instances can be pooled.
type keyedMutex struct {
	mu sync.Mutex
}

// KeyedLock provides per-key locking.
type KeyedLock struct {
	locks sync.Map // map[string]*keyedMutex
	pool  sync.Pool
}

// New creates a new KeyedLock instance.
func New() *KeyedLock {
	return &KeyedLock{
		pool: sync.Pool{
			New: func() any {
				return &keyedMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for a key.
func (kl *KeyedLock) getLock(key string) *keyedMutex {
	if v, ok := kl.locks.Load(key); ok {
		return v.(*keyedMutex)
	}

	newLock := kl.pool.Get().(*keyedMutex)
	actual, loaded := kl.locks.LoadOrStore(key, newLock)
	if loaded {
		// Another goroutine stored first; return ours to the pool.
		kl.pool.Put(newLock)
	}
	return actual.(*keyedMutex)
}

// Lock acquires the lock for a key.
func (kl *KeyedLock) Lock(key string) {
	kl.getLock(key).mu.Lock()
}

// Unlock releases the lock for a key.
func (kl *KeyedLock) Unlock(key string) {
	if v, ok := kl.locks.Load(key); ok {
		v.(*keyedMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (kl *KeyedLock) TryLock(key string) bool {
	return kl.getLock(key).mu.TryLock()
}

// WithLock executes fn while holding the key's lock.
func (kl *KeyedLock) WithLock(key string, fn func() error) error {
	kl.Lock(key)
	defer kl.Unlock(key)
	return fn()
}
