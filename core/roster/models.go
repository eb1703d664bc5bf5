package roster

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	Classroom string    `json:"classroom,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Teacher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	Subjects  []string  `json:"subjects"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Classroom is a course taught to a group of students.
// An empty Students list means every student on the roster is enrolled.
type Classroom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Teacher   string    `json:"teacher,omitempty"`
	Students  []string  `json:"students"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Enrolled returns the IDs of the students enrolled in the classroom.
func (c Classroom) Enrolled(all []Student) []string {
	if len(c.Students) > 0 {
		return c.Students
	}
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	return ids
}

// NewStudent contains information needed to add a Student to the roster.
type NewStudent struct {
	ID        string `json:"id" validate:"omitempty,alphanum_"`
	Name      string `json:"name" validate:"required,notblank"`
	Username  string `json:"username" validate:"omitempty,alphanum_"`
	Email     string `json:"email" validate:"omitempty,email"`
	Classroom string `json:"classroom"`
}

func (ns *NewStudent) Clean() {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Classroom = core.CleanString(ns.Classroom)
}

// NewTeacher contains information needed to add a Teacher to the roster.
type NewTeacher struct {
	ID       string   `json:"id" validate:"omitempty,alphanum_"`
	Name     string   `json:"name" validate:"required,notblank"`
	Username string   `json:"username" validate:"omitempty,alphanum_"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Subjects []string `json:"subjects"`
}

func (nt *NewTeacher) Clean() {
	nt.ID = core.CleanString(nt.ID)
	nt.Name = core.CleanString(nt.Name)
	nt.Username = core.CleanString(nt.Username, true /* lower */)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Subjects = core.DedupeStrings(nt.Subjects)
}

// NewClassroom contains information needed to add a Classroom to the roster.
type NewClassroom struct {
	ID       string   `json:"id" validate:"omitempty,alphanum_"`
	Name     string   `json:"name" validate:"required,notblank"`
	Teacher  string   `json:"teacher"`
	Students []string `json:"students"`
}

func (nc *NewClassroom) Clean() {
	nc.ID = core.CleanString(nc.ID)
	nc.Name = core.CleanString(nc.Name)
	nc.Teacher = core.CleanString(nc.Teacher)
	nc.Students = core.DedupeStrings(nc.Students)
}
