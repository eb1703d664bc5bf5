package attendance

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Event is one recorded session: who was present for a course on a date.
// Events are never mutated once appended to the Ledger.
type Event struct {
	ID              string    `json:"id"`
	Course          string    `json:"course"`
	Date            core.Date `json:"date"`
	PresentStudents []string  `json:"presentStudents"`
	RecordedBy      string    `json:"recordedBy,omitempty"`
	RecordedAt      time.Time `json:"recordedAt"` // UTC
}

// Attended reports whether studentID is listed as present.
func (evt Event) Attended(studentID string) bool {
	for _, id := range evt.PresentStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

// NewEvent contains information needed to record attendance.
type NewEvent struct {
	Course          string   `json:"course" validate:"required,notblank"`
	Date            string   `json:"date" validate:"required,isodate"`
	PresentStudents []string `json:"presentStudents" validate:"required"`
	RecordedBy      string   `json:"-"`
}

func (ne *NewEvent) Clean() {
	ne.Course = core.CleanString(ne.Course)
	ne.Date = core.CleanString(ne.Date)
	ne.PresentStudents = core.DedupeStrings(ne.PresentStudents)
}

type EventFilter struct {
	Course string `query:"course"`
}

func (f EventFilter) match(evt Event) bool {
	return f.Course == "" || f.Course == evt.Course
}

// CourseSummary is a row of the course-wide report.
type CourseSummary struct {
	Course  string `json:"course"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Percent int    `json:"percent"`
}

// StudentCourseSummary is a row of a single student's report.
type StudentCourseSummary struct {
	Course  string `json:"course"`
	Present int    `json:"present"`
	Total   int    `json:"total"`
	Percent string `json:"percent"`
}
