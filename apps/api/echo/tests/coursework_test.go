package tests

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/coursework"
)

func Test_courseworkApi_notes(t *testing.T) {
	app := setup(t)
	_, teacher, student := app.users(t)
	teacherToken := getToken(t, app, teacher)

	runHTTPTests(t, app, []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/notes", body: marchallObj(t, coursework.NewNote{Title: "Optics"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Faculty required", method: http.MethodPost, path: "/notes", token: getToken(t, app, student),
			body: marchallObj(t, coursework.NewNote{Title: "Optics"}), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "title required", method: http.MethodPost, path: "/notes", token: teacherToken,
			body: marchallObj(t, coursework.NewNote{Description: "no title"}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "title and postedBy are required", Fields: map[string]string{"title": "this field is required"}}),
		},
		{name: "none yet", path: "/notes", wantData: marchallList(t)},
	})

	var withoutFile, withFile coursework.Note

	t.Run("json, no file", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/notes", token: teacherToken,
			body: marchallObj(t, coursework.NewNote{Title: "Optics", Description: "Chapter 1"}),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"fileUrl":null`)

		var resp echoapi.NoteResponse
		unmarshal(t, rec, &resp)
		assert.Equal(t, "Note shared successfully", resp.Message)
		assert.Equal(t, "teacher", resp.Note.PostedBy)
		assert.Empty(t, resp.Note.FileURL)
		withoutFile = resp.Note
	})

	t.Run("multipart with file", func(t *testing.T) {
		content := []byte("light travels in straight lines")
		req, rec := newMultipartRequest(t, "/notes", teacherToken,
			map[string]string{"title": "Optics 2", "description": "Chapter 2"}, "../chapter 2.txt", content)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp echoapi.NoteResponse
		unmarshal(t, rec, &resp)
		assert.Equal(t, "Optics 2", resp.Note.Title)
		assert.Equal(t, "Chapter 2", resp.Note.Description)

		url := string(resp.Note.FileURL)
		require.True(t, strings.HasPrefix(url, "http://test.cd/uploads/"), url)
		require.True(t, strings.HasSuffix(url, "-chapter_2.txt"), url)
		name := strings.TrimPrefix(url, "http://test.cd/uploads/")

		saved, err := ioutil.ReadFile(filepath.Join(app.uploadsDir, name))
		require.NoError(t, err)
		assert.Equal(t, content, saved)

		// served back
		req, rec = newAuthRequest(http.MethodGet, "/uploads/"+name, "")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, content, rec.Body.Bytes())
		withFile = resp.Note
	})

	t.Run("file too large", func(t *testing.T) {
		req, rec := newMultipartRequest(t, "/notes", teacherToken,
			map[string]string{"title": "Big"}, "big.bin", bytes.Repeat([]byte("x"), 2<<10))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "file is too large", Fields: map[string]string{"file": "file is too large"}}),
		}, rec)
	})

	runHTTPTests(t, app, []httpTest{
		{name: "newest first", path: "/notes", wantData: marchallObj(t, []coursework.Note{withFile, withoutFile})},
		{name: "student portal", path: "/student/notes", wantData: marchallObj(t, []coursework.Note{withFile, withoutFile})},
	})
}

func Test_courseworkApi_assignments(t *testing.T) {
	app := setup(t)
	admin, _, _ := app.users(t)
	adminToken := getToken(t, app, admin)

	runHTTPTests(t, app, []httpTest{
		{
			name: "required fields", method: http.MethodPost, path: "/assignments", token: adminToken,
			body: []byte(`{"title": "Homework"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "title, course, dueDate and postedBy are required", Fields: map[string]string{
				"course":  "this field is required",
				"dueDate": "this field is required",
			}}),
		},
		{
			name: "invalid due date", method: http.MethodPost, path: "/assignments", token: adminToken,
			body: marchallObj(t, coursework.NewAssignment{Title: "Homework", Course: "Physics", DueDate: "next week"}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "title, course, dueDate and postedBy are required",
				Fields: map[string]string{"dueDate": "invalid date; expected YYYY-MM-DD"},
			}),
		},
	})

	req, rec := newMultipartRequest(t, "/assignments", adminToken, map[string]string{
		"title":   "Homework 1",
		"course":  "Physics",
		"dueDate": "2024-03-15",
	}, "", nil)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp echoapi.AssignmentResponse
	unmarshal(t, rec, &resp)
	assert.Equal(t, "Assignment posted", resp.Message)
	assert.Equal(t, "Physics", resp.Assignment.Course)
	assert.Equal(t, "2024-03-15", resp.Assignment.DueDate.String())
	assert.Equal(t, "admin", resp.Assignment.PostedBy)
	assert.Empty(t, resp.Assignment.FileURL)

	runHTTPTests(t, app, []httpTest{
		{name: "list", path: "/assignments", wantData: marchallObj(t, []coursework.Assignment{resp.Assignment})},
		{name: "student portal", path: "/student/assignments", wantData: marchallObj(t, []coursework.Assignment{resp.Assignment})},
	})
}
