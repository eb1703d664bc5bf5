package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newAuthRequest(http.MethodGet, "/", "")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Darasa API!", rec.Body.String())
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	const pwd = "Kx9#mTq2vL"
	usr := testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", pwd, []string{user.RoleTeacher}, true)
	testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "ndog@test.cd", pwd, []string{user.RoleStudent}, false) // 😂

	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid input", Fields: map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}}),
		},
		{
			name: "malformed body", body: []byte(`{"username": 1}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "username and password are required", Fields: map[string]string{"username": "expected a string"}}),
		},
		{
			name: "unknown user", body: marchallObj(t, user.LoginRequest{Username: "lol", Password: pwd}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "wrong password", body: marchallObj(t, user.LoginRequest{Username: "hero", Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "inactive user", body: marchallObj(t, user.LoginRequest{Username: "ndog", Password: pwd}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "with username", body: marchallObj(t, user.LoginRequest{Username: " HERO ", Password: pwd}), wantCode: http.StatusOK},
		{name: "with email", body: marchallObj(t, user.LoginRequest{Username: usr.Email, Password: pwd}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/users/login"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)

			// cannot guess the token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData echoapi.LoginResponse
				unmarshal(t, rec, &respData)
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	refreshed, err := app.usrRepo.GetUserByID(usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	assert.False(t, refreshed.LastLogin.IsZero(), "last login not set")
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)
	admin, teacher, student := app.users(t)
	principal := testutil.CreateUser(t, app.usrRepo, "Principal", "princip", "princip@test.cd", "", []string{user.RoleAdminPrincipal}, true)

	adminToken := getToken(t, app, admin)
	runHTTPTests(t, app, []httpTest{
		{name: "Auth required", path: "/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Invalid token", path: "/users", token: "lol", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "Admin required", path: "/users", token: getToken(t, app, teacher), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Get all", path: "/users", token: adminToken, wantData: marchallList(t, admin, teacher, student, principal)},
		{name: "Get roles", path: "/users/roles", token: adminToken, wantData: marchallObj(t, user.Roles)},
	})
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)
	admin, teacher, _ := app.users(t)
	adminToken := getToken(t, app, admin)

	const pwd = "Kx9#mTq2vL"
	newTeacher := user.NewUser{
		Name:            "New Teacher",
		Username:        "new_teacher",
		Email:           "newteacher@test.cd",
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           []string{user.RoleTeacher},
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, app, teacher), body: marchallObj(t, newTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "weak password", token: adminToken,
			body: marchallObj(t, user.NewUser{Name: "Weak", Username: "weakling", Password: "password", PasswordConfirm: "password"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid user", Fields: map[string]string{
				"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character",
			}}),
		},
		{
			name: "username taken", token: adminToken,
			body: marchallObj(t, user.NewUser{Name: "Admin 2", Username: "admin", Password: pwd, PasswordConfirm: pwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "a user with this username already exists", Fields: map[string]string{
				"username": "a user with this username already exists",
			}}),
		},
		{
			name: "role above own", token: adminToken,
			body: marchallObj(t, user.NewUser{Name: "Boss", Username: "the_boss", Password: pwd, PasswordConfirm: pwd, Roles: []string{user.RoleAdminOwner}}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "roles: not enough rights to set these roles", Fields: map[string]string{
				"roles": "not enough rights to set these roles",
			}}),
		},
		{name: "registered", token: adminToken, body: marchallObj(t, newTeacher), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/users/register"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var created map[string]interface{}
			unmarshal(t, rec, &created)
			assert.NotEmpty(t, created["id"])
			assert.Equal(t, "new_teacher", created["username"])
			assert.Equal(t, true, created["is_active"])
			assert.NotContains(t, created, "password")

			usr, err := app.usrRepo.GetUserByUsernameOrEmail("new_teacher")
			if err != nil {
				t.Fatalf("GetUserByUsernameOrEmail() failed: %v", err)
			}
			assert.NoError(t, usr.CheckPassword(pwd))
			assert.True(t, usr.IsTeacher())
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)
	_, _, student := app.users(t)
	naughty := testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, false)

	unrefreshableClaims := app.UserClaims(student)
	unrefreshableClaims.OrigIssuedAt = time.Now().Add(-2 * app.conf.JWTRefreshExpirationDelta).Unix() // older than threshold
	unrefreshableToken, err := app.GenerateToken(unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	ghost := user.User{ID: "ghost", Username: "ghost", Roles: []string{user.RoleAdmin}}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Unknown user", token: getToken(t, app, ghost), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name: "Inactive user not allowed", token: getToken(t, app, naughty), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, app, student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
