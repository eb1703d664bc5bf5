package inmemdb

import (
	"github.com/trezcool/darasa/core/attendance"
)

type ledger struct {
	db *ledgerTable
}

var _ attendance.Ledger = (*ledger)(nil) // interface compliance check

func NewLedger(db *DB) attendance.Ledger {
	return &ledger{db: db.ledger}
}

// Append stores a private copy of evt under the write lock.
func (l *ledger) Append(evt attendance.Event) (attendance.Event, error) {
	evt = copyEvent(evt)

	l.db.Lock()
	l.db.rows = append(l.db.rows, evt)
	l.db.Unlock()

	return copyEvent(evt), nil
}

// Events returns a deep copy of the ledger, taken under the read lock.
func (l *ledger) Events() ([]attendance.Event, error) {
	l.db.RLock()
	defer l.db.RUnlock()

	events := make([]attendance.Event, len(l.db.rows))
	for i, evt := range l.db.rows {
		events[i] = copyEvent(evt)
	}
	return events, nil
}

func copyEvent(evt attendance.Event) attendance.Event {
	evt.PresentStudents = copyStrings(evt.PresentStudents)
	if evt.PresentStudents == nil {
		evt.PresentStudents = []string{}
	}
	return evt
}
