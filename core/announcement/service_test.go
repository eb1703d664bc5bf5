package announcement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*announcement.Service, *emailsvc.Outbox) {
	validate, translator := testutil.Validator()
	db := inmemdb.Open()

	rosterSvc := roster.NewService(inmemdb.NewRosterRepository(db), validate, translator)
	_, err := rosterSvc.CreateStudent(roster.NewStudent{ID: "s1", Name: "Student", Email: "student@test.cd"})
	require.NoError(t, err)
	_, err = rosterSvc.CreateStudent(roster.NewStudent{ID: "s2", Name: "No Mail"})
	require.NoError(t, err)
	_, err = rosterSvc.CreateTeacher(roster.NewTeacher{ID: "t1", Name: "Teacher", Email: "teacher@test.cd"})
	require.NoError(t, err)

	outbox := new(emailsvc.Outbox)
	mailSvc := emailsvc.NewConsoleServiceMock(testutil.Config(), outbox)
	return announcement.NewService(inmemdb.NewAnnouncementRepository(db), rosterSvc, mailSvc, validate, translator), outbox
}

func bcc(msg core.EmailMessage) []string {
	addrs := make([]string, 0, len(msg.Bcc))
	for _, a := range msg.Bcc {
		addrs = append(addrs, a.Address)
	}
	return addrs
}

func TestService_Post(t *testing.T) {
	svc, outbox := setup(t)

	_, err := svc.Post(announcement.NewAnnouncement{Title: "Exam"})
	require.True(t, core.IsValidationError(err), "got %v", err)
	assert.Equal(t, "title, message, postedBy required", err.Error())
	assert.Empty(t, outbox.Messages())

	tests := []struct {
		audience string
		wantBcc  []string
	}{
		{audience: "", wantBcc: []string{"student@test.cd", "teacher@test.cd"}},
		{audience: "students", wantBcc: []string{"student@test.cd"}},
		{audience: "FACULTY", wantBcc: []string{"teacher@test.cd"}},
	}
	for _, tt := range tests {
		t.Run("audience="+tt.audience, func(t *testing.T) {
			outbox.Reset()
			a, err := svc.Post(announcement.NewAnnouncement{Title: " Exam ", Message: "Friday\n\nRoom 4", PostedBy: "teacher", Audience: tt.audience})
			require.NoError(t, err)
			assert.Equal(t, "Exam", a.Title)
			assert.NotEmpty(t, a.ID)
			assert.False(t, a.Date.IsZero())

			msgs := outbox.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, "Exam", msgs[0].Subject)
			assert.Equal(t, tt.wantBcc, bcc(msgs[0]))
			assert.Empty(t, msgs[0].To)
			assert.Contains(t, msgs[0].HTMLContent, "<p>Room 4</p>")
		})
	}
}

func TestService_Query(t *testing.T) {
	svc, _ := setup(t)

	var posted []announcement.Announcement
	for _, aud := range []string{"all", "students", "faculty"} {
		a, err := svc.Post(announcement.NewAnnouncement{Title: aud, Message: "msg", PostedBy: "admin", Audience: aud})
		require.NoError(t, err)
		posted = append(posted, a)
	}
	all, students, faculty := posted[0], posted[1], posted[2]

	tests := []struct {
		audience string
		want     []announcement.Announcement
	}{
		{audience: "", want: []announcement.Announcement{faculty, students, all}},
		{audience: "all", want: []announcement.Announcement{faculty, students, all}},
		{audience: " Students", want: []announcement.Announcement{students, all}},
		{audience: "faculty", want: []announcement.Announcement{faculty, all}},
	}
	for _, tt := range tests {
		t.Run(tt.audience, func(t *testing.T) {
			got, err := svc.Query(tt.audience)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.Query("parents")
	assert.True(t, core.IsValidationError(err))
}
