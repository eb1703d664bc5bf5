package roster

import "github.com/pkg/errors"

// SeedDemo fills an empty roster with a few students, a teacher and three courses.
// It is a no-op if any student already exists.
func (svc *Service) SeedDemo() error {
	students, err := svc.repo.QueryStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if len(students) > 0 {
		return nil
	}

	for _, ns := range []NewStudent{
		{ID: "s1", Name: "Student 1", Username: "student1"},
		{ID: "s2", Name: "Student 2", Username: "student2"},
		{ID: "s3", Name: "Student 3", Username: "student3"},
	} {
		if _, err := svc.CreateStudent(ns); err != nil {
			return errors.Wrapf(err, "creating student %s", ns.ID)
		}
	}

	if _, err := svc.CreateTeacher(NewTeacher{
		ID: "t1", Name: "Teacher 1", Username: "teacher1", Subjects: []string{"Mathematics", "Physics", "Chemistry"},
	}); err != nil {
		return errors.Wrap(err, "creating teacher t1")
	}

	for _, nc := range []NewClassroom{
		{ID: "c1", Name: "Mathematics", Teacher: "t1"},
		{ID: "c2", Name: "Physics", Teacher: "t1"},
		{ID: "c3", Name: "Chemistry", Teacher: "t1"},
	} {
		if _, err := svc.CreateClassroom(nc); err != nil {
			return errors.Wrapf(err, "creating classroom %s", nc.ID)
		}
	}
	return nil
}
