package timetable

import (
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

var (
	DefaultDays    = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	DefaultPeriods = 6

	errNoCourses = errors.New("no courses to schedule")
)

type (
	Slot struct {
		Period  int    `json:"period" validate:"min=1"`
		Course  string `json:"course" validate:"required,notblank"`
		Teacher string `json:"teacher,omitempty"`
	}

	Day struct {
		Day   string `json:"day" validate:"required,notblank"`
		Slots []Slot `json:"slots" validate:"dive"`
	}

	Timetable struct {
		Days      []Day     `json:"days" validate:"required,min=1,dive"`
		UpdatedAt time.Time `json:"updatedAt"` // UTC
	}

	// GenerateParams tunes the round-robin generator. Zero values fall back to defaults.
	GenerateParams struct {
		Days    []string `json:"days"`
		Periods int      `json:"periods" validate:"min=0,max=12"`
		Courses []string `json:"courses"`
	}
)

func (tt Timetable) IsEmpty() bool { return len(tt.Days) == 0 }

type (
	// Repository stores the single current timetable.
	Repository interface {
		GetTimetable() (Timetable, error)
		SaveTimetable(tt Timetable) (Timetable, error)
	}

	Courses interface {
		Classrooms() ([]roster.Classroom, error)
	}

	Service struct {
		repo       Repository
		courses    Courses
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, courses Courses, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, courses: courses, validate: validate, translator: translator}
}

func (svc *Service) Get() (Timetable, error) {
	return svc.repo.GetTimetable()
}

// Set replaces the whole timetable.
func (svc *Service) Set(tt Timetable) (Timetable, error) {
	for i := range tt.Days {
		tt.Days[i].Day = core.CleanString(tt.Days[i].Day)
		for j := range tt.Days[i].Slots {
			tt.Days[i].Slots[j].Course = core.CleanString(tt.Days[i].Slots[j].Course)
		}
	}
	if err := svc.validate.Struct(tt); err != nil {
		return Timetable{}, core.TranslateValidationErrors(err, svc.translator, "timetableData is required")
	}
	tt.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveTimetable(tt)
}

// Generate builds and stores a timetable by cycling through the courses, day after day.
// The result only depends on params and the roster.
func (svc *Service) Generate(params GenerateParams) (Timetable, error) {
	if err := svc.validate.Struct(params); err != nil {
		return Timetable{}, core.TranslateValidationErrors(err, svc.translator, "invalid generation parameters")
	}

	teachers := make(map[string]string)
	courses := core.DedupeStrings(params.Courses)
	classrooms, err := svc.courses.Classrooms()
	if err != nil {
		return Timetable{}, errors.Wrap(err, "querying classrooms")
	}
	for _, c := range classrooms {
		teachers[c.Name] = c.Teacher
		if len(params.Courses) == 0 {
			courses = append(courses, c.Name)
		}
	}
	if len(courses) == 0 {
		return Timetable{}, core.NewValidationError(errNoCourses, core.FieldError{Field: "courses", Error: errNoCourses.Error()})
	}

	tt := RoundRobin(params.days(), params.periods(), courses, teachers)
	tt.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveTimetable(tt)
}

// RoundRobin assigns courses[(day*periods + period) % len(courses)] to every slot.
func RoundRobin(days []string, periods int, courses []string, teachers map[string]string) Timetable {
	tt := Timetable{Days: make([]Day, 0, len(days))}
	n := 0
	for _, name := range days {
		day := Day{Day: name, Slots: make([]Slot, 0, periods)}
		for p := 1; p <= periods; p++ {
			course := courses[n%len(courses)]
			day.Slots = append(day.Slots, Slot{Period: p, Course: course, Teacher: teachers[course]})
			n++
		}
		tt.Days = append(tt.Days, day)
	}
	return tt
}

func (p GenerateParams) days() []string {
	if days := core.DedupeStrings(p.Days); len(days) > 0 {
		return days
	}
	return DefaultDays
}

func (p GenerateParams) periods() int {
	if p.Periods > 0 {
		return p.Periods
	}
	return DefaultPeriods
}

func (s Slot) String() string {
	return fmt.Sprintf("%d. %s", s.Period, s.Course)
}
