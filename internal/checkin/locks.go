package checkin

import "sync"

// habitLocks hands out one mutex per habit. Entries are dropped when their
// last holder unlocks so the map only holds habits being checked in.
type habitLocks struct {
	mu    sync.Mutex
	locks map[string]*habitLock
}

type habitLock struct {
	sync.Mutex
	refs int
}

func newHabitLocks() *habitLocks {
	return &habitLocks{locks: make(map[string]*habitLock)}
}

// lock blocks until habitID is free and returns its unlock function.
func (l *habitLocks) lock(habitID string) func() {
	l.mu.Lock()
	hl, ok := l.locks[habitID]
	if !ok {
		hl = &habitLock{}
		l.locks[habitID] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.Lock()
	return func() {
		hl.Unlock()

		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.locks, habitID)
		}
		l.mu.Unlock()
	}
}

func (l *habitLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
