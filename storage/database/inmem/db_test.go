package inmemdb

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/coursework"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/timetable"
	"github.com/trezcool/darasa/core/user"
)

func TestLedger(t *testing.T) {
	l := NewLedger(Open())

	present := []string{"s1", "s2"}
	saved, err := l.Append(attendance.Event{ID: "e1", Course: "Physics", PresentStudents: present})
	require.NoError(t, err)

	// neither the input nor the returned value alias the stored event
	present[0] = "lol"
	saved.PresentStudents[1] = "lol"

	_, err = l.Append(attendance.Event{ID: "e2", Course: "Chemistry"})
	require.NoError(t, err)

	events, err := l.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{"s1", "s2"}, events[0].PresentStudents)
	assert.Equal(t, []string{}, events[1].PresentStudents)

	events[0].PresentStudents[0] = "lol"
	events, _ = l.Events()
	assert.Equal(t, "s1", events[0].PresentStudents[0])
}

func TestLedger_concurrent(t *testing.T) {
	l := NewLedger(Open())

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := l.Append(attendance.Event{ID: fmt.Sprintf("%d-%d", w, i), Course: "Physics", PresentStudents: []string{"s1"}})
				assert.NoError(t, err)
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				events, err := l.Events()
				assert.NoError(t, err)
				for _, evt := range events {
					assert.Equal(t, []string{"s1"}, evt.PresentStudents)
				}
			}
		}()
	}
	wg.Wait()

	events, err := l.Events()
	require.NoError(t, err)
	assert.Len(t, events, writers*perWriter)
}

func TestRosterRepository(t *testing.T) {
	repo := NewRosterRepository(Open())

	_, err := repo.CreateStudent(roster.Student{ID: "s1", Username: "ada"})
	require.NoError(t, err)
	_, err = repo.CreateStudent(roster.Student{ID: "s1"})
	assert.Equal(t, roster.ErrIDExists, err)
	_, err = repo.CreateTeacher(roster.Teacher{ID: "t1", Username: "ada"})
	assert.Equal(t, roster.ErrUsernameExists, err)
	_, err = repo.CreateStudent(roster.Student{ID: "s2"})
	require.NoError(t, err, "empty usernames never collide")
	_, err = repo.CreateStudent(roster.Student{ID: "s3"})
	require.NoError(t, err)

	students := []string{"s1", "s2"}
	_, err = repo.CreateClassroom(roster.Classroom{ID: "c1", Name: "Physics", Students: students})
	require.NoError(t, err)
	students[0] = "lol"
	_, err = repo.CreateClassroom(roster.Classroom{ID: "c2", Name: "Physics"})
	assert.Equal(t, roster.ErrNameExists, err)

	c, err := repo.GetClassroomByName("Physics")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, c.Students)
	c.Students[0] = "lol"

	classrooms, err := repo.QueryClassrooms()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, classrooms[0].Students)

	_, err = repo.GetClassroomByName("Art")
	assert.Equal(t, roster.ErrNotFound, err)
	_, err = repo.GetTeacher("t1")
	assert.Equal(t, roster.ErrNotFound, err)
}

func TestAnnouncementRepository_newestFirst(t *testing.T) {
	repo := NewAnnouncementRepository(Open())
	for _, id := range []string{"a1", "a2", "a3"} {
		_, err := repo.CreateAnnouncement(announcement.Announcement{ID: id})
		require.NoError(t, err)
	}

	rows, err := repo.QueryAnnouncements()
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a3", "a2", "a1"}, ids)
}

func TestCourseworkRepository_newestFirst(t *testing.T) {
	repo := NewCourseworkRepository(Open())
	for _, id := range []string{"n1", "n2"} {
		_, err := repo.CreateNote(coursework.Note{ID: id})
		require.NoError(t, err)
		_, err = repo.CreateAssignment(coursework.Assignment{ID: "a" + id})
		require.NoError(t, err)
	}

	notes, err := repo.QueryNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n2", notes[0].ID)

	assignments, err := repo.QueryAssignments()
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "an2", assignments[0].ID)
}

func TestTimetableRepository(t *testing.T) {
	repo := NewTimetableRepository(Open())

	tt, err := repo.GetTimetable()
	require.NoError(t, err)
	assert.True(t, tt.IsEmpty())

	input := timetable.Timetable{Days: []timetable.Day{{Day: "Monday", Slots: []timetable.Slot{{Period: 1, Course: "Art"}}}}}
	_, err = repo.SaveTimetable(input)
	require.NoError(t, err)
	input.Days[0].Slots[0].Course = "lol"

	tt, err = repo.GetTimetable()
	require.NoError(t, err)
	assert.Equal(t, "Art", tt.Days[0].Slots[0].Course)
}

func TestUserRepository_UpdateUser(t *testing.T) {
	repo := NewUserRepository(Open())

	usr, err := repo.CreateUser(user.User{ID: "u1", Username: "ada", Email: "ada@test.cd", Roles: []string{"teacher:"}, PasswordHash: []byte("hash"), IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, user.ErrUsernameExists, repo.CheckUsernameUniqueness("ada", ""))
	assert.Equal(t, user.ErrEmailExists, repo.CheckUsernameUniqueness("", "ada@test.cd"))
	assert.NoError(t, repo.CheckUsernameUniqueness("ada", "ada@test.cd", usr))

	// unset roles and password are kept
	updated, err := repo.UpdateUser(user.User{ID: "u1", Name: "Ada", Username: "ada", Email: "ada@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, []string{"teacher:"}, updated.Roles)
	assert.Equal(t, []byte("hash"), updated.PasswordHash)
	assert.False(t, updated.IsActive)

	got, err := repo.GetUserByUsernameOrEmail("ada@test.cd")
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = repo.UpdateUser(user.User{ID: "ghost"})
	assert.Equal(t, user.ErrNotFound, err)
	_, err = repo.GetUserByUsernameOrEmail("")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestRosterRepository_QueryRoster(t *testing.T) {
	repo := NewRosterRepository(Open())

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("s%d", i)
			_, err := repo.CreateStudent(roster.Student{ID: id})
			assert.NoError(t, err)
			_, err = repo.CreateClassroom(roster.Classroom{ID: "c" + id, Name: "course " + id, Students: []string{id}})
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			classrooms, students, err := repo.QueryRoster()
			assert.NoError(t, err)
			known := make(map[string]bool, len(students))
			for _, s := range students {
				known[s.ID] = true
			}
			// a classroom is only ever created after its students
			for _, c := range classrooms {
				for _, id := range c.Students {
					assert.True(t, known[id], "classroom %s lists %s before it exists", c.Name, id)
				}
			}
		}
	}()
	wg.Wait()

	classrooms, students, err := repo.QueryRoster()
	require.NoError(t, err)
	assert.Len(t, classrooms, n)
	assert.Len(t, students, n)

	classrooms[0].Students[0] = "lol"
	again, _, _ := repo.QueryRoster()
	assert.Equal(t, []string{"s0"}, again[0].Students)
}
