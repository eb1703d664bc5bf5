package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/coursework"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/timetable"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/metrics"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/storage/files"
	"github.com/trezcool/darasa/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// testApp is a fully wired server backed by a fresh in-memory database.
type testApp struct {
	*echoapi.Server
	conf       *core.Config
	usrRepo    user.Repository
	rosterSvc  *roster.Service
	outbox     *emailsvc.Outbox
	metrics    *metrics.Metrics
	uploadsDir string
}

func setup(t *testing.T) *testApp {
	conf := testutil.Config()
	conf.Uploads = core.UploadsConfig{Dir: t.TempDir(), BaseURL: "http://test.cd/uploads", MaxSize: 1 << 10}

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	validate, translator := testutil.Validator()

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)

	fileStore, err := files.NewLocalStoreFromConfig(conf)
	if err != nil {
		t.Fatalf("NewLocalStoreFromConfig() failed: %v", err)
	}
	outbox := new(emailsvc.Outbox)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, outbox)
	metricsSvc := metrics.New("darasa")

	// set up services
	rosterSvc := roster.NewService(inmemdb.NewRosterRepository(db), validate, translator)
	deps := echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Metrics:    metricsSvc,
		Validate:   validate,
		Translator: translator,
		UserSvc:    user.NewService(usrRepo, validate, translator),
		RosterSvc:  rosterSvc,
		AttendanceSvc: attendance.NewService(attendance.ServiceDeps{
			Ledger:     inmemdb.NewLedger(db),
			Roster:     rosterSvc,
			Validate:   validate,
			Translator: translator,
			Logger:     logger,
			Observers:  []attendance.Observer{metricsSvc},
		}),
		AnnouncementSvc: announcement.NewService(inmemdb.NewAnnouncementRepository(db), rosterSvc, mailSvc, validate, translator),
		CourseworkSvc:   coursework.NewService(inmemdb.NewCourseworkRepository(db), fileStore, validate, translator),
		TimetableSvc:    timetable.NewService(inmemdb.NewTimetableRepository(db), rosterSvc, validate, translator),
		UploadsDir:      fileStore.Dir(),
	}

	// set up server
	app := &testApp{
		Server:     echoapi.NewServer(deps),
		conf:       conf,
		usrRepo:    usrRepo,
		rosterSvc:  rosterSvc,
		outbox:     outbox,
		metrics:    metricsSvc,
		uploadsDir: fileStore.Dir(),
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// users creates an admin, a teacher and a student.
func (app *testApp) users(t *testing.T) (admin, teacher, student user.User) {
	admin = testutil.CreateUser(t, app.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher = testutil.CreateUser(t, app.usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student = testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	return
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

// newMultipartRequest posts fields and an optional file under "file".
func newMultipartRequest(t *testing.T, path, token string, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() failed: %v", err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err = fw.Write(content); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func getToken(t *testing.T, app *testApp, usr user.User) string {
	token, err := app.GenerateToken(app.UserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// nolint
func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)
		})
	}
}
