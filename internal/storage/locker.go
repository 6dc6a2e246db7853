package storage

import (
	"context"
	"sync"
)

// Locker serializes work on a key. The returned unlock function must be called once the work is done.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// MemoryLocker is a Locker for a single process
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch      chan struct{} // holds one token while the key is free
	waiters int
}

// NewMemoryLocker creates a MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free or ctx is done
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		kl.ch <- struct{}{}
		l.locks[key] = kl
	}
	kl.waiters++
	l.mu.Unlock()

	select {
	case <-kl.ch:
	case <-ctx.Done():
		l.release(key, kl, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, kl, true) })
	}, nil
}

func (l *MemoryLocker) release(key string, kl *keyLock, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if held {
		kl.ch <- struct{}{}
	}
	kl.waiters--
	if kl.waiters == 0 {
		delete(l.locks, key)
	}
}
