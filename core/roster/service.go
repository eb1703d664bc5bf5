package roster

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("not found")
	ErrIDExists        = errors.New("this id is already taken")
	ErrUsernameExists  = errors.New("this username is already taken")
	ErrNameExists      = errors.New("a classroom with this name already exists")
	errUnknownClass    = errors.New("unknown classroom")
	errUnknownTeacher  = errors.New("unknown teacher")
	errUnknownStudents = errors.New("unknown students")
)

type (
	// Repository stores the roster. Query methods return records in insertion order.
	// Create methods enforce uniqueness of IDs, usernames and classroom names.
	Repository interface {
		CreateStudent(s Student) (Student, error)
		QueryStudents() ([]Student, error)
		GetStudent(id string) (Student, error)
		CreateTeacher(t Teacher) (Teacher, error)
		QueryTeachers() ([]Teacher, error)
		GetTeacher(id string) (Teacher, error)
		CreateClassroom(c Classroom) (Classroom, error)
		QueryClassrooms() ([]Classroom, error)
		GetClassroomByName(name string) (Classroom, error)
		// QueryRoster returns classrooms and students read together.
		QueryRoster() ([]Classroom, []Student, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) Students() ([]Student, error)     { return svc.repo.QueryStudents() }
func (svc *Service) Teachers() ([]Teacher, error)     { return svc.repo.QueryTeachers() }
func (svc *Service) Classrooms() ([]Classroom, error) { return svc.repo.QueryClassrooms() }

// Snapshot returns the classrooms and students as of a single point in time.
func (svc *Service) Snapshot() ([]Classroom, []Student, error) { return svc.repo.QueryRoster() }

func (svc *Service) GetStudent(id string) (Student, error) {
	return svc.repo.GetStudent(core.CleanString(id))
}

func (svc *Service) GetClassroomByName(name string) (Classroom, error) {
	return svc.repo.GetClassroomByName(core.CleanString(name))
}

// Enrolled returns the IDs of the students enrolled in the named classroom.
func (svc *Service) Enrolled(course string) ([]string, error) {
	c, err := svc.GetClassroomByName(course)
	if err != nil {
		return nil, err
	}
	students, err := svc.repo.QueryStudents()
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return c.Enrolled(students), nil
}

func (svc *Service) CreateStudent(ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, core.TranslateValidationErrors(err, svc.translator, "invalid student")
	}
	if ns.Classroom != "" {
		if _, err := svc.repo.GetClassroomByName(ns.Classroom); err != nil {
			return Student{}, svc.referenceError(err, "classroom", errUnknownClass)
		}
	}

	s, err := svc.repo.CreateStudent(Student{
		ID:        idOrNew(ns.ID),
		Name:      ns.Name,
		Username:  ns.Username,
		Email:     ns.Email,
		Classroom: ns.Classroom,
		CreatedAt: time.Now().UTC(),
	})
	return s, svc.uniquenessError(err)
}

func (svc *Service) CreateTeacher(nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, core.TranslateValidationErrors(err, svc.translator, "invalid teacher")
	}
	if nt.Subjects == nil {
		nt.Subjects = []string{}
	}

	t, err := svc.repo.CreateTeacher(Teacher{
		ID:        idOrNew(nt.ID),
		Name:      nt.Name,
		Username:  nt.Username,
		Email:     nt.Email,
		Subjects:  nt.Subjects,
		CreatedAt: time.Now().UTC(),
	})
	return t, svc.uniquenessError(err)
}

func (svc *Service) CreateClassroom(nc NewClassroom) (Classroom, error) {
	nc.Clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Classroom{}, core.TranslateValidationErrors(err, svc.translator, "invalid classroom")
	}
	if nc.Teacher != "" {
		if _, err := svc.repo.GetTeacher(nc.Teacher); err != nil {
			return Classroom{}, svc.referenceError(err, "teacher", errUnknownTeacher)
		}
	}
	for _, id := range nc.Students {
		if _, err := svc.repo.GetStudent(id); err != nil {
			return Classroom{}, svc.referenceError(err, "students", errUnknownStudents)
		}
	}
	if nc.Students == nil {
		nc.Students = []string{}
	}

	c, err := svc.repo.CreateClassroom(Classroom{
		ID:        idOrNew(nc.ID),
		Name:      nc.Name,
		Teacher:   nc.Teacher,
		Students:  nc.Students,
		CreatedAt: time.Now().UTC(),
	})
	return c, svc.uniquenessError(err)
}

func (svc *Service) referenceError(err error, field string, refErr error) error {
	if errors.Cause(err) != ErrNotFound {
		return err
	}
	return core.NewValidationError(refErr, core.FieldError{Field: field, Error: refErr.Error()})
}

func (svc *Service) uniquenessError(err error) error {
	var field string
	switch errors.Cause(err) {
	case nil:
		return nil
	case ErrIDExists:
		field = "id"
	case ErrUsernameExists:
		field = "username"
	case ErrNameExists:
		field = "name"
	default:
		return err
	}
	cause := errors.Cause(err)
	return core.NewValidationError(cause, core.FieldError{Field: field, Error: cause.Error()})
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
