package inmemdb

import (
	"github.com/trezcool/darasa/core/timetable"
)

type timetableRepository struct {
	db *timetableTable
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) GetTimetable() (timetable.Timetable, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return copyTimetable(repo.db.current), nil
}

func (repo *timetableRepository) SaveTimetable(tt timetable.Timetable) (timetable.Timetable, error) {
	tt = copyTimetable(tt)

	repo.db.Lock()
	repo.db.current = tt
	repo.db.Unlock()

	return copyTimetable(tt), nil
}

func copyTimetable(tt timetable.Timetable) timetable.Timetable {
	days := make([]timetable.Day, len(tt.Days))
	for i, d := range tt.Days {
		slots := make([]timetable.Slot, len(d.Slots))
		copy(slots, d.Slots)
		days[i] = timetable.Day{Day: d.Day, Slots: slots}
	}
	tt.Days = days
	return tt
}
