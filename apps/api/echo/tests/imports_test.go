package tests

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"

	. "github.com/Skc-VitInProjects/S.A.F.A.L/apps/api/echo"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
	emailsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/email"
	logsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/logger"
	inmemdb "github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/inmem"
)

const studentCSV = "firstName,lastName,email,rollNumber\n" +
	"Amit,Sharma,amit@school.edu,CS001\n" +
	"Priya,Patel,priya@school.edu,CS002\n"

type importResp struct {
	Message  string `json:"message"`
	Error    string `json:"error"`
	ID       string `json:"id"`
	Imported int    `json:"imported"`
	Failed   int    `json:"failed"`
	Total    int    `json:"total"`
	Errors   []struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	} `json:"errors"`
}

func Test_importApi_auth(t *testing.T) {
	studentToken := getToken(t, "hero", "hero@school.edu", false, false)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/imports/students/file",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Staff required", method: http.MethodPost, path: "/v1/imports/students/file", token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Admin required for history", method: http.MethodGet, path: "/v1/imports/history",
			token:    getToken(t, "teacher", "teacher@school.edu", true, false),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_importApi_importFile(t *testing.T) {
	adminToken := getToken(t, "admin", "admin@school.edu", false, true)

	req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.csv", []byte(studentCSV))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp importResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Imported != 2 || resp.Failed != 0 || resp.Total != 2 {
		t.Errorf("failed! imported = %d, failed = %d, total = %d", resp.Imported, resp.Failed, resp.Total)
	}
	if resp.Message != "Import completed. 2 imported, 0 failed." {
		t.Errorf("failed! message = %q", resp.Message)
	}
	if resp.ID == "" {
		t.Error("failed! empty report id")
	}

	s, err := studentRepo.GetStudentByEmail(context.Background(), "amit@school.edu")
	if err != nil {
		t.Fatalf("imported student not found: %v", err)
	}
	if s.RollNumber != "CS001" {
		t.Errorf("failed! rollNumber = %q", s.RollNumber)
	}
}

func Test_importApi_importFile_rowErrors(t *testing.T) {
	adminToken := getToken(t, "admin", "admin@school.edu", false, true)
	data := "firstName,lastName,email,rollNumber\n" +
		"Rahul,Verma,not-an-email,CS003\n"

	req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.csv", []byte(data))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp importResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Imported != 0 || resp.Failed != 1 {
		t.Errorf("failed! imported = %d, failed = %d", resp.Imported, resp.Failed)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Row != 1 || resp.Errors[0].Error != "Invalid email format" {
		t.Errorf("failed! errors = %+v", resp.Errors)
	}
}

// downStudentRepo fails every call the way a store outage would.
type downStudentRepo struct{}

func (downStudentRepo) GetStudentByEmail(context.Context, string) (student.Student, error) {
	return student.Student{}, errors.New("connection refused")
}
func (downStudentRepo) GetStudentByRollNumber(context.Context, string) (student.Student, error) {
	return student.Student{}, errors.New("connection refused")
}
func (downStudentRepo) CreateStudent(context.Context, student.Student) (student.Student, error) {
	return student.Student{}, errors.New("connection refused")
}
func (downStudentRepo) UpdateStudent(context.Context, student.Student) (student.Student, error) {
	return student.Student{}, errors.New("connection refused")
}

func Test_importApi_importFile_storeFailure(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	broken := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags)),
		StudentSvc:     student.NewService(downStudentRepo{}),
		AttendanceSvc:  attendance.NewService(inmemdb.NewAttendanceRepository(db)),
		GradeSvc:       grade.NewService(inmemdb.NewGradeRepository(db)),
		HistorySvc:     importing.NewHistoryService(inmemdb.NewHistoryRepository(db)),
		EmailSvc:       emailsvc.NewConsoleServiceMock(conf),
		DisableReqLogs: true,
	})

	adminToken := getToken(t, "admin", "admin@school.edu", false, true)
	req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.csv", []byte(studentCSV))
	broken.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp importResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// the failure body still carries the partial report
	if !strings.HasPrefix(resp.Message, "Import aborted.") {
		t.Errorf("failed! message = %q", resp.Message)
	}
	if resp.Error != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("failed! error = %q", resp.Error)
	}
	if resp.Total != 2 {
		t.Errorf("failed! total = %d", resp.Total)
	}
}

func Test_importApi_importFile_badRequests(t *testing.T) {
	adminToken := getToken(t, "admin", "admin@school.edu", false, true)

	t.Run("unknown kind", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports/teachers/file", adminToken, "teachers.csv", []byte("a,b\n"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "unknown entity kind"}),
		}, rec)
	})

	t.Run("no file", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/imports/students/file", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "no file uploaded"}),
		}, rec)
	})

	t.Run("unsupported format", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.xls", []byte("nope"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.csv", []byte("a,b\n\"broken,1\n"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_importApi_template(t *testing.T) {
	teacherToken := getToken(t, "teacher", "teacher@school.edu", true, false)

	req, rec := newAuthRequest(http.MethodGet, "/v1/imports/templates/attendance", teacherToken)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attendance_import_template.csv") {
		t.Errorf("failed! Content-Disposition = %q", got)
	}
	if body := rec.Body.String(); body != "studentId,date,subject,status,period,remarks\n" {
		t.Errorf("failed! body = %q", body)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/imports/templates/teachers", teacherToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("failed! code = %v", rec.Code)
	}
}

func Test_importApi_history(t *testing.T) {
	adminToken := getToken(t, "admin", "admin@school.edu", false, true)

	// seed at least one report through a real import
	req, rec := newUploadRequest(t, "/v1/imports/students/file", adminToken, "students.csv", []byte(studentCSV))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed import failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/imports/history", adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	var reports []struct {
		ID     string `json:"id"`
		Kind   string `json:"kind"`
		Source string `json:"source"`
		Actor  string `json:"actor"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reports); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(reports) == 0 {
		t.Fatal("failed! no reports returned")
	}
	latest := reports[0]
	if latest.Kind != "students" || latest.Source != "file" || latest.Actor != "admin@school.edu" || latest.Status != "Completed" {
		t.Errorf("failed! latest = %+v", latest)
	}
}
