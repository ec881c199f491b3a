package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/user"
	testutil "github.com/trezcool/classportal/tests"
)

const strongPwd = "Dr0w$$@P"

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", strongPwd, user.RoleStudent, true)
	testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "ndog@test.cd", strongPwd, user.RoleStudent, false)

	body := func(uname, pwd string) []byte {
		return marshalObj(t, LoginRequest{Username: uname, Password: pwd})
	}
	authFailed := marshalObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name: "Empty credentials", body: body("", ""), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{name: "Unknown user", body: body("nobody", strongPwd), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "Wrong password", body: body("hero", "wrong"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{
			name: "Inactive user", body: body("ndog", strongPwd), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "Login with username", body: body(" HERO ", strongPwd)},
		{name: "Login with email", body: body("hero@test.cd", strongPwd)},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/login"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)

				usr, err := app.usrRepo.GetUser(req.Context(), user.GetFilter{UsernameOrEmail: "hero"})
				require.NoError(t, err)
				assert.False(t, usr.LastLogin.IsZero(), "last login is set")
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)
	_, stdnt := app.teacherAndStudent(t)

	app.run(t, []httpTest{
		{name: "Auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Invalid token", path: "/v1/users/me", token: "not.a.token", wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{name: "Me", path: "/v1/users/me", token: app.token(t, stdnt), wantData: marshalObj(t, stdnt)},
		{name: "Roles", path: "/v1/users/roles", token: app.token(t, stdnt), wantData: marshalObj(t, user.Roles)},
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)
	_, stdnt := app.teacherAndStudent(t)
	naughty := testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "ndog@test.cd", "", user.RoleStudent, false)

	oldIat := core.NowFunc().Add(-2 * app.conf.Server.JWTRefreshExpirationDelta).Unix() // older than threshold
	unrefreshableToken, err := app.auth.GenerateToken(app.auth.UserClaims(stdnt, oldIat))
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Inactive user not allowed", token: app.token(t, naughty), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: app.token(t, stdnt)},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/token-refresh"
	}
	app.run(t, tests)
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	now := core.NowFunc()
	teacher := testutil.CreateUser(t, app.usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher, true, now)
	hero := testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent, true, now.Add(time.Hour))
	naughty := testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "", "", user.RoleStudent, false, now.Add(2*time.Hour))

	path := func(params ...string) string {
		v := make(url.Values)
		for i := 0; i+1 < len(params); i += 2 {
			v.Add(params[i], params[i+1])
		}
		return "/v1/users?" + v.Encode()
	}
	token := app.token(t, teacher)

	app.run(t, []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Teacher required", path: "/v1/users", token: app.token(t, hero), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Get all (newest first)", path: "/v1/users", token: token, wantData: marshalList(t, naughty, hero, teacher)},
		{name: "search (unknown)", path: path("search", "lol"), token: token, wantData: marshalList(t)},
		{name: "search=HER", path: path("search", "HER"), token: token, wantData: marshalList(t, hero, teacher)},
		{name: "role=student", path: path("role", user.RoleStudent), token: token, wantData: marshalList(t, naughty, hero)},
		{name: "is_active=false", path: path("is_active", "false"), token: token, wantData: marshalList(t, naughty)},
		{name: "order by name", path: path("ordering", "name"), token: token, wantData: marshalList(t, hero, naughty, teacher)},
		{name: "order by -role,name", path: path("ordering", "-role,name"), token: token, wantData: marshalList(t, teacher, hero, naughty)},
		{
			name: "unknown ordering field is ignored", path: path("ordering", "password_hash"), token: token,
			wantData: marshalList(t, naughty, hero, teacher),
		},
	})
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)
	teacher, stdnt := app.teacherAndStudent(t)

	body := func(name, uname, email, role, pwd string) []byte {
		return marshalObj(t, user.NewUser{
			Name: name, Username: uname, Email: email, Role: role, Password: pwd, PasswordConfirm: pwd,
		})
	}

	tests := []httpTest{
		{
			name: "Teacher required", body: body("Ann", "ann", "", user.RoleStudent, strongPwd), token: app.token(t, stdnt),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Username or email required", body: body("Ann", "", "", user.RoleStudent, strongPwd), token: app.token(t, teacher),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"username": "one of username or email is required",
				"email":    "one of username or email is required",
			}),
		},
		{
			name: "Unknown role", body: body("Ann", "ann", "", "principal", strongPwd), token: app.token(t, teacher),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, map[string]string{"role": "must be one of: teacher, student"}),
		},
		{
			name: "Common password", body: body("Ann", "ann", "", user.RoleStudent, "Password1!"), token: app.token(t, teacher),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, map[string]string{"password": "password is too common"}),
		},
		{
			name: "Username taken", body: body("Ann", "HERO", "", user.RoleStudent, strongPwd), token: app.token(t, teacher),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
		{
			name: "Created", body: body("Ann", "ann", "Ann@Test.cd", user.RoleStudent, strongPwd), token: app.token(t, teacher),
			wantCode: http.StatusCreated,
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users"
	}
	app.run(t, tests)

	usr, err := app.usrRepo.GetUser(context.Background(), user.GetFilter{UsernameOrEmail: "ann@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, "ann", usr.Username)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword(strongPwd))
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)
	hero := testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", strongPwd, user.RoleStudent, true)
	testutil.CreateUser(t, app.usrRepo, "N Dog", "ndog", "ndog@test.cd", strongPwd, user.RoleStudent, false)

	reset := func(t *testing.T, email string) *http.Response {
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", marshalObj(t, PasswordResetRequest{Email: email}))
		app.ServeHTTP(rec, req)
		return rec.Result()
	}

	// unknown & inactive users get the same answer, but no email
	assert.Equal(t, http.StatusOK, reset(t, "nobody@test.cd").StatusCode)
	assert.Equal(t, http.StatusOK, reset(t, "ndog@test.cd").StatusCode)
	require.Empty(t, app.mailSvc.SentMessages())

	assert.Equal(t, http.StatusOK, reset(t, "HERO@test.cd").StatusCode)
	sent := app.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "hero@test.cd", sent[0].To[0].Address)
	data := sent[0].TemplateData.(map[string]string)
	assert.Contains(t, sent[0].TextContent, data["Token"])

	newPwd := "N3w&Secr3t"
	body := func(uid, token, pwd string) []byte {
		return marshalObj(t, user.ResetUserPassword{Token: token, UID: uid, Password: pwd, PasswordConfirm: pwd})
	}
	invalid := marshalObj(t, httpErr{Error: "invalid password reset data"})

	tests := []httpTest{
		{
			name: "Missing fields", body: body("", "", newPwd), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"uid": "this field is required", "token": "this field is required"}),
		},
		{name: "Bad uid", body: body("bad", data["Token"], newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
		{name: "Bad token", body: body(data["UID"], "bad-token", newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
		{
			name: "Weak password", body: body(data["UID"], data["Token"], "12345678"), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{name: "Password reset", body: body(data["UID"], data["Token"], newPwd)},
		{name: "Token used", body: body(data["UID"], data["Token"], newPwd+"!"), wantCode: http.StatusBadRequest, wantData: invalid},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/password-reset-confirm"
	}
	app.run(t, tests)

	usr, err := app.usrRepo.GetUser(context.Background(), user.GetFilter{ID: hero.ID})
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword(newPwd))
}
