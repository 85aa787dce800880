package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	. "github.com/Skc-VitInProjects/S.A.F.A.L/apps/api/echo"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
	emailsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/email"
	logsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/logger"
	inmemdb "github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/inmem"
)

var (
	conf        *core.Config
	app         Server
	studentRepo student.Repository
	historySvc  *importing.HistoryService

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		Env:       "TEST",
		AppName:   "Safal",
		Debug:     false,
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
		},
		Import: core.ImportConfig{
			Workers:       4,
			MaxUploadSize: 1 << 20,
			ScopeTimeout:  2 * time.Second,
			RateLimit:     1000,
			RateBurst:     100,
		},
	}

	db, err := inmemdb.Open()
	if err != nil {
		os.Exit(1)
	}
	studentRepo = inmemdb.NewStudentRepository(db)
	historySvc = importing.NewHistoryService(inmemdb.NewHistoryRepository(db))

	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags)),
		StudentSvc:     student.NewService(studentRepo),
		AttendanceSvc:  attendance.NewService(inmemdb.NewAttendanceRepository(db)),
		GradeSvc:       grade.NewService(inmemdb.NewGradeRepository(db)),
		HistorySvc:     historySvc,
		EmailSvc:       emailsvc.NewConsoleServiceMock(conf),
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
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

// newUploadRequest builds a multipart form request carrying one file field.
func newUploadRequest(t *testing.T, path, token, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}
	if _, err = fw.Write(content); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, username, email string, isTeacher, isAdmin bool) string {
	token, err := GenerateToken(conf, &Claims{
		Username:  username,
		Email:     email,
		IsTeacher: isTeacher,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
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

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), tt.wantData)
	}
}
