package service

import "sync"

// keyedMutex serializes work per key. Register/unregister for the same
// event must not interleave or two callers could both pass the capacity
// check; different events proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()

	l, ok := k.locks[key]

	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}

	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()

	l, ok := k.locks[key]

	if !ok {
		k.mu.Unlock()
		return
	}

	l.refs--

	if l.refs == 0 {
		delete(k.locks, key)
	}

	k.mu.Unlock()

	l.mu.Unlock()
}
