package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/announcement"
	"github.com/trezcool/classportal/core/attendance"
	"github.com/trezcool/classportal/core/student"
	"github.com/trezcool/classportal/core/theme"
	"github.com/trezcool/classportal/core/timetable"
	"github.com/trezcool/classportal/core/user"
	emailsvc "github.com/trezcool/classportal/services/email"
	logsvc "github.com/trezcool/classportal/services/logger"
	inmemdb "github.com/trezcool/classportal/storage/database/inmem"
	"github.com/trezcool/classportal/storage/jsonfile"
	testutil "github.com/trezcool/classportal/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	Server
	conf    *core.Config
	auth    *authenticator
	mailSvc *emailsvc.ConsoleServiceMock

	usrRepo user.Repository
	stRepo  student.Repository
	attRepo attendance.Repository
}

func setup(t *testing.T) *testApp {
	conf := core.NewTestConfig()
	dir := t.TempDir()
	conf.Portal.ThemeFile = filepath.Join(dir, "color_scheme.json")
	conf.Portal.TimetableFile = filepath.Join(dir, "timetable.json")

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	stRepo := inmemdb.NewStudentRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	themeSvc := theme.NewService(jsonfile.NewThemeRepository(conf.Portal.ThemeFile), logger)

	// set up server
	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		UserSvc:         usrSvc,
		StudentSvc:      student.NewService(stRepo),
		AttendanceSvc:   attendance.NewService(attRepo, stRepo, conf),
		TimetableSvc:    timetable.NewService(jsonfile.NewTimetableRepository(conf.Portal.TimetableFile)),
		AnnouncementSvc: announcement.NewService(inmemdb.NewAnnouncementRepository(db), usrSvc, mailSvc, logger, conf),
		ThemeSvc:        themeSvc,
		Scheme:          theme.DefaultScheme,

		DisableReqLogs: true,
	})

	return &testApp{
		Server:  srv,
		conf:    conf,
		auth:    srv.(*server).auth,
		mailSvc: mailSvc,
		usrRepo: usrRepo,
		stRepo:  stRepo,
		attRepo: attRepo,
	}
}

// teacherAndStudent creates an active teacher and an active student user.
func (app *testApp) teacherAndStudent(t *testing.T) (teacher, stdnt user.User) {
	teacher = testutil.CreateUser(t, app.usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher, true)
	stdnt = testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent, true)
	return teacher, stdnt
}

func (app *testApp) deps() ServerDeps {
	return app.Server.(*server).deps
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	token, err := app.auth.GenerateToken(app.auth.UserClaims(usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
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

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

// checkCodeAndData checks the response code, and the response body unless tt.wantData is nil.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
