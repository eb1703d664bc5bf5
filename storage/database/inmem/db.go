package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/coursework"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/timetable"
	"github.com/trezcool/darasa/core/user"
)

type (
	// DB holds every table in memory. Each table has its own lock.
	DB struct {
		user         *userTable
		ledger       *ledgerTable
		roster       *rosterTables
		announcement *announcementTable
		coursework   *courseworkTables
		timetable    *timetableTable
	}

	userTable struct {
		sync.RWMutex
		rows []*user.User
	}

	ledgerTable struct {
		sync.RWMutex
		rows []attendance.Event
	}

	rosterTables struct {
		sync.RWMutex
		students   []roster.Student
		teachers   []roster.Teacher
		classrooms []roster.Classroom
	}

	announcementTable struct {
		sync.RWMutex
		rows []announcement.Announcement // newest first
	}

	courseworkTables struct {
		sync.RWMutex
		notes       []coursework.Note       // newest first
		assignments []coursework.Assignment // newest first
	}

	timetableTable struct {
		sync.RWMutex
		current timetable.Timetable
	}
)

func Open() *DB {
	return &DB{
		user:         new(userTable),
		ledger:       new(ledgerTable),
		roster:       new(rosterTables),
		announcement: new(announcementTable),
		coursework:   new(courseworkTables),
		timetable:    new(timetableTable),
	}
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
