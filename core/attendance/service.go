package attendance

import (
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

var (
	errRecordRequired = core.ValidationMessage("course, date, presentStudents required")
	errStudentIDReq   = core.ValidationMessage("studentId required")
	errUnknownCourse  = errors.New("unknown course")
	errUnknownStudent = errors.New("unknown students")
)

type (
	// Ledger is the append-only store of attendance events.
	Ledger interface {
		// Append stores evt after all previously appended events.
		Append(evt Event) (Event, error)
		// Events returns a snapshot of the ledger in insertion order.
		// Reports read it separately from the roster, so an enrolment change racing a
		// report may be paired with the ledger as it was just before or after it.
		Events() ([]Event, error)
	}

	// Roster is the read-only view of the roster needed for reports.
	Roster interface {
		Students() ([]roster.Student, error)
		Classrooms() ([]roster.Classroom, error)
		// Snapshot returns classrooms and students consistent with each other.
		Snapshot() ([]roster.Classroom, []roster.Student, error)
	}

	// Observer is notified after every successfully recorded event.
	Observer interface {
		EventRecorded(evt Event)
	}

	ServiceDeps struct {
		Ledger     Ledger
		Roster     Roster
		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger
		Observers  []Observer

		// StrictReferences rejects events for unknown courses or students.
		StrictReferences bool
	}

	Service struct {
		ServiceDeps
	}
)

var nowFunc = time.Now // mockable

func NewService(deps ServiceDeps) *Service {
	return &Service{ServiceDeps: deps}
}

// Record validates ne and appends it to the ledger. Invalid input never reaches the ledger.
// Recording the same course and date twice creates two sessions.
func (svc *Service) Record(ne NewEvent) (Event, error) {
	ne.Clean()
	if err := svc.Validate.Struct(ne); err != nil {
		return Event{}, core.TranslateValidationErrors(err, svc.Translator, string(errRecordRequired))
	}
	date, err := core.ParseDate(ne.Date)
	if err != nil {
		return Event{}, core.NewValidationError(errRecordRequired, core.FieldError{Field: "date", Error: err.Error()})
	}
	if svc.StrictReferences {
		if err := svc.checkReferences(ne); err != nil {
			return Event{}, err
		}
	}

	present := make([]string, len(ne.PresentStudents))
	copy(present, ne.PresentStudents)
	evt, err := svc.Ledger.Append(Event{
		ID:              uuid.New().String(),
		Course:          ne.Course,
		Date:            date,
		PresentStudents: present,
		RecordedBy:      ne.RecordedBy,
		RecordedAt:      nowFunc().UTC(),
	})
	if err != nil {
		return Event{}, errors.Wrap(err, "appending event")
	}

	if svc.Logger != nil {
		svc.Logger.Info(fmt.Sprintf("attendance recorded: course=%q date=%s present=%d", evt.Course, evt.Date, len(evt.PresentStudents)))
	}
	for _, o := range svc.Observers {
		o.EventRecorded(evt)
	}
	return evt, nil
}

func (svc *Service) checkReferences(ne NewEvent) error {
	classrooms, err := svc.Roster.Classrooms()
	if err != nil {
		return errors.Wrap(err, "querying classrooms")
	}
	var known bool
	for _, c := range classrooms {
		if c.Name == ne.Course {
			known = true
			break
		}
	}
	if !known {
		return core.NewValidationError(errUnknownCourse, core.FieldError{Field: "course", Error: errUnknownCourse.Error()})
	}

	students, err := svc.Roster.Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	ids := make(map[string]bool, len(students))
	for _, s := range students {
		ids[s.ID] = true
	}
	var unknown []string
	for _, id := range ne.PresentStudents {
		if !ids[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		msg := fmt.Sprintf("%s: %v", errUnknownStudent, unknown)
		return core.NewValidationError(errUnknownStudent, core.FieldError{Field: "presentStudents", Error: msg})
	}
	return nil
}

// Events lists recorded events in insertion order.
func (svc *Service) Events(filter EventFilter) ([]Event, error) {
	filter.Course = core.CleanString(filter.Course)
	events, err := svc.Ledger.Events()
	if err != nil {
		return nil, errors.Wrap(err, "reading ledger")
	}
	res := make([]Event, 0, len(events))
	for _, evt := range events {
		if filter.match(evt) {
			res = append(res, evt)
		}
	}
	return res, nil
}

// CourseSummary reports attendance for every known course across all students.
// It is recomputed from the whole ledger on every call.
func (svc *Service) CourseSummary() ([]CourseSummary, error) {
	classrooms, students, events, err := svc.snapshot()
	if err != nil {
		return nil, err
	}
	return SummarizeCourses(classrooms, students, events), nil
}

// StudentSummary reports one student's attendance per course.
// It is recomputed from the whole ledger on every call.
func (svc *Service) StudentSummary(studentID string) ([]StudentCourseSummary, error) {
	studentID = core.CleanString(studentID)
	if studentID == "" {
		return nil, core.NewValidationError(errStudentIDReq, core.FieldError{Field: "studentId", Error: "this field is required"})
	}
	classrooms, students, events, err := svc.snapshot()
	if err != nil {
		return nil, err
	}
	return SummarizeStudent(studentID, classrooms, students, events), nil
}

func (svc *Service) snapshot() ([]roster.Classroom, []roster.Student, []Event, error) {
	classrooms, students, err := svc.Roster.Snapshot()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "querying roster")
	}
	events, err := svc.Ledger.Events()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "reading ledger")
	}
	return classrooms, students, events, nil
}
