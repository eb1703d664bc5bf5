package inmemdb

import (
	"github.com/trezcool/darasa/core/roster"
)

type rosterRepository struct {
	db *rosterTables
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db.roster}
}

// usernameTaken checks students and teachers: both log in with the same usernames.
func (repo *rosterRepository) usernameTaken(username string) bool {
	if username == "" {
		return false
	}
	for _, s := range repo.db.students {
		if s.Username == username {
			return true
		}
	}
	for _, t := range repo.db.teachers {
		if t.Username == username {
			return true
		}
	}
	return false
}

func (repo *rosterRepository) CreateStudent(s roster.Student) (roster.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.students {
		if other.ID == s.ID {
			return roster.Student{}, roster.ErrIDExists
		}
	}
	if repo.usernameTaken(s.Username) {
		return roster.Student{}, roster.ErrUsernameExists
	}
	repo.db.students = append(repo.db.students, s)
	return s, nil
}

func (repo *rosterRepository) QueryStudents() ([]roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]roster.Student, len(repo.db.students))
	copy(students, repo.db.students)
	return students, nil
}

func (repo *rosterRepository) GetStudent(id string) (roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.students {
		if s.ID == id {
			return s, nil
		}
	}
	return roster.Student{}, roster.ErrNotFound
}

func (repo *rosterRepository) CreateTeacher(t roster.Teacher) (roster.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.teachers {
		if other.ID == t.ID {
			return roster.Teacher{}, roster.ErrIDExists
		}
	}
	if repo.usernameTaken(t.Username) {
		return roster.Teacher{}, roster.ErrUsernameExists
	}
	t.Subjects = copyStrings(t.Subjects)
	repo.db.teachers = append(repo.db.teachers, t)
	return copyTeacher(t), nil
}

func (repo *rosterRepository) QueryTeachers() ([]roster.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]roster.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, copyTeacher(t))
	}
	return teachers, nil
}

func (repo *rosterRepository) GetTeacher(id string) (roster.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.teachers {
		if t.ID == id {
			return copyTeacher(t), nil
		}
	}
	return roster.Teacher{}, roster.ErrNotFound
}

func (repo *rosterRepository) CreateClassroom(c roster.Classroom) (roster.Classroom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.classrooms {
		if other.ID == c.ID {
			return roster.Classroom{}, roster.ErrIDExists
		}
		if other.Name == c.Name {
			return roster.Classroom{}, roster.ErrNameExists
		}
	}
	c.Students = copyStrings(c.Students)
	repo.db.classrooms = append(repo.db.classrooms, c)
	return copyClassroom(c), nil
}

func (repo *rosterRepository) QueryClassrooms() ([]roster.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classrooms := make([]roster.Classroom, 0, len(repo.db.classrooms))
	for _, c := range repo.db.classrooms {
		classrooms = append(classrooms, copyClassroom(c))
	}
	return classrooms, nil
}

func (repo *rosterRepository) GetClassroomByName(name string) (roster.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.classrooms {
		if c.Name == name {
			return copyClassroom(c), nil
		}
	}
	return roster.Classroom{}, roster.ErrNotFound
}

// QueryRoster copies classrooms and students under one read lock.
func (repo *rosterRepository) QueryRoster() ([]roster.Classroom, []roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classrooms := make([]roster.Classroom, 0, len(repo.db.classrooms))
	for _, c := range repo.db.classrooms {
		classrooms = append(classrooms, copyClassroom(c))
	}
	students := make([]roster.Student, len(repo.db.students))
	copy(students, repo.db.students)
	return classrooms, students, nil
}

func copyTeacher(t roster.Teacher) roster.Teacher {
	t.Subjects = copyStrings(t.Subjects)
	return t
}

func copyClassroom(c roster.Classroom) roster.Classroom {
	c.Students = copyStrings(c.Students)
	return c
}
