package warns

import (
	"sync"

	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// keyLock hands out one mutex per WarnKey. Entries are reference counted and
// dropped when nobody holds or waits for them, so the map does not grow with
// every user ever warned.
type keyLock struct {
	mu    sync.Mutex
	locks map[models.WarnKey]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[models.WarnKey]*refMutex)}
}

// Lock blocks until the key is free and returns the matching unlock func
func (kl *keyLock) Lock(key models.WarnKey) func() {
	kl.mu.Lock()
	m, ok := kl.locks[key]
	if !ok {
		m = &refMutex{}
		kl.locks[key] = m
	}
	m.refs++
	kl.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		kl.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}
}

func (kl *keyLock) size() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}
