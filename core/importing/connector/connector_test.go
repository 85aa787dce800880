package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

func newTestClient() *Client {
	return NewClient(ClientConfig{Timeout: 2 * time.Second, RateLimit: 1000, RateBurst: 100})
}

func TestSISFetch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/ws/v1/district/dist-42/students", r.URL.Path)
		_, _ = w.Write([]byte(`{"students": [
			{"first_name": "Amit", "last_name": "Sharma", "email": "amit@school.edu", "student_number": "CS001"},
			{"first_name": "Priya", "last_name": "Patel", "email": "priya@school.edu", "student_number": "CS002"}
		]}`))
	}))
	defer srv.Close()

	sis := NewSIS(newTestClient())
	recs, fails, err := sis.Fetch(context.Background(), Config{
		BaseURL:       srv.URL,
		APIKey:        "key-123",
		SISType:       "powerschool",
		InstitutionID: "dist-42",
	})
	require.NoError(t, err)
	assert.Empty(t, fails)
	require.Len(t, recs, 2)
	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, 1, recs[0].Index)
	assert.Equal(t, 2, recs[1].Index)
	assert.Equal(t, "Amit", recs[0].Fields["first_name"].AsString())
	assert.Equal(t, "CS002", recs[1].Fields["student_number"].AsString())
}

func TestSISFetchUnsupportedType(t *testing.T) {
	sis := NewSIS(newTestClient())
	_, _, err := sis.Fetch(context.Background(), Config{SISType: "banner"})
	require.Error(t, err)

	var cErr *importing.ConnectorError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, importing.ConnectorProtocol, cErr.Kind)
	assert.ErrorIs(t, err, ErrUnsupportedSIS)
}

func TestSISFetchAuthErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sis := NewSIS(newTestClient())
	recs, fails, err := sis.Fetch(context.Background(), Config{
		BaseURL: srv.URL, APIKey: "bad", SISType: "custom",
	})
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.Nil(t, fails)

	var cErr *importing.ConnectorError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, importing.ConnectorAuth, cErr.Kind)
}

func TestSISFetchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	sis := NewSIS(newTestClient())
	_, _, err := sis.Fetch(context.Background(), Config{BaseURL: srv.URL, SISType: "custom"})
	require.Error(t, err)

	var cErr *importing.ConnectorError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, importing.ConnectorProtocol, cErr.Kind)
}

func TestBiometricFetchMergesDevices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/attendance/dev-1/today":
			_, _ = w.Write([]byte(`[{"student_id": "stu-1", "status": "Present"}, {"student_id": "stu-2", "status": "Absent"}]`))
		case "/api/attendance/dev-2/today":
			_, _ = w.Write([]byte(`[{"student_id": "stu-3", "status": "Late"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	bio := NewBiometric(newTestClient())
	recs, fails, err := bio.Fetch(context.Background(), Config{
		BaseURL:   srv.URL,
		DeviceIDs: []string{"dev-1", "dev-2"},
	})
	require.NoError(t, err)
	assert.Empty(t, fails)
	require.Len(t, recs, 3)

	// merged in device order, with indexes assigned across the whole fetch
	for i, r := range recs {
		assert.Equal(t, i+1, r.Index)
	}
	assert.Equal(t, "dev-1", recs[0].Fields["deviceId"].AsString())
	assert.Equal(t, "dev-2", recs[2].Fields["deviceId"].AsString())
	assert.Equal(t, "stu-3", recs[2].Fields["student_id"].AsString())
}

func TestBiometricFetchScopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/attendance/dev-down/today" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"student_id": "stu-1", "status": "Present"}]`))
	}))
	defer srv.Close()

	bio := NewBiometric(newTestClient())
	recs, fails, err := bio.Fetch(context.Background(), Config{
		BaseURL:   srv.URL,
		DeviceIDs: []string{"dev-1", "dev-down"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Len(t, fails, 1)
	assert.Equal(t, "dev-down", fails[0].Scope)
	assert.Contains(t, fails[0].Error, "503")
}

func TestLMSFetchSendsAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/courses/CS101/grades", r.URL.Path)
		_, _ = w.Write([]byte(`{"grades": [{"student_id": "stu-1", "score": 46, "max_score": 50}]}`))
	}))
	defer srv.Close()

	lms := NewLMS(newTestClient())
	recs, _, err := lms.Fetch(context.Background(), Config{
		BaseURL:     srv.URL,
		AccessToken: "tok-1",
		CourseIDs:   []string{"CS101"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CS101", recs[0].Fields["courseId"].AsString())
	assert.Equal(t, "46", recs[0].Fields["score"].AsString())
}

func TestRFIDFetchPostsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/rfid/attendance-report", r.URL.Path)
		_, _ = w.Write([]byte(`{"attendance": [{"student_id": "stu-1", "status": "Present"}]}`))
	}))
	defer srv.Close()

	rfid := NewRFID(newTestClient())
	recs, _, err := rfid.Fetch(context.Background(), Config{
		BaseURL:     srv.URL,
		Username:    "gate",
		Password:    "secret",
		LocationIDs: []string{"main-gate"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "main-gate", recs[0].Fields["location"].AsString())
}

func TestFetchScopesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	bio := NewBiometric(newTestClient())
	recs, fails, err := bio.Fetch(context.Background(), Config{
		BaseURL:      srv.URL,
		DeviceIDs:    []string{"dev-slow"},
		ScopeTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
	require.Len(t, fails, 1)
	assert.Equal(t, "dev-slow", fails[0].Scope)
}
