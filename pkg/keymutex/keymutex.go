// Package keymutex provides per-key mutual exclusion with bounded waiting.
// The scheduling core uses it to serialize reserve/reschedule operations on a
// single doctor's timeline while leaving other doctors uncontended.
package keymutex

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrLockTimeout возвращается, когда ключ не удалось захватить за отведённое время
	ErrLockTimeout = errors.New("keymutex: lock acquisition timed out")
)

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyMutex is a set of lazily created single-slot semaphores keyed by string.
// Entries are removed once the last waiter releases, so the map does not grow
// with the number of distinct keys ever seen.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New creates an empty KeyMutex
func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for key, waiting at most wait. On success it returns
// a release function that must be called exactly once. It fails with
// ErrLockTimeout when the bound elapses and with the context error when ctx is
// cancelled first.
func (k *KeyMutex) Lock(ctx context.Context, key string, wait time.Duration) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.unref(key, e)
		}, nil
	case <-timer.C:
		k.unref(key, e)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		k.unref(key, e)
		return nil, ctx.Err()
	}
}

func (k *KeyMutex) unref(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
