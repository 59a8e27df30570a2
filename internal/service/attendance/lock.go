package attendance

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// recordLocks serialises writes to one employee's record for one date within
// this process. The version column covers writers in other processes.
type recordLocks struct {
	mu    sync.Mutex
	locks map[string]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

func newRecordLocks() *recordLocks {
	return &recordLocks{locks: make(map[string]*recordLock)}
}

// Lock blocks until the key is free and returns the matching unlock.
func (l *recordLocks) Lock(employeeID string, date time.Time) func() {
	key := employeeID + "/" + timemath.DateKey(date)

	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &recordLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *recordLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
