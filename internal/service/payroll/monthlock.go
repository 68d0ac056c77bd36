package payroll

import "sync"

// monthLocks serializes generation and finalization per payroll month.
// Concurrent runs for different months proceed in parallel; runs for
// the same month are strictly single-writer, guarding the
// delete-then-recreate of draft records.
type monthLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMonthLocks() *monthLocks {
	return &monthLocks{locks: make(map[string]*sync.Mutex)}
}

func (m *monthLocks) lock(month string) func() {
	m.mu.Lock()
	l, ok := m.locks[month]
	if !ok {
		l = &sync.Mutex{}
		m.locks[month] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
