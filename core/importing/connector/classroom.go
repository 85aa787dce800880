package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

const defaultClassroomBaseURL = "https://classroom.googleapis.com"

// Classroom pulls course rosters or coursework grades from the Google
// Classroom API, one scope per course id.
type Classroom struct {
	client *Client
	kind   importing.EntityKind
}

func NewClassroom(client *Client, kind importing.EntityKind) *Classroom {
	return &Classroom{client: client, kind: kind}
}

func (c *Classroom) Kind() importing.SourceKind { return importing.SourceClassroom }

func (c *Classroom) Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultClassroomBaseURL
	}
	base = strings.TrimRight(base, "/")

	fetch := c.fetchStudents
	if c.kind == importing.EntityGrades {
		fetch = c.fetchGrades
	}
	return fetchScopes(ctx, cfg.CourseIDs, cfg.ScopeTimeout,
		func(ctx context.Context, courseID string) ([]importing.RawRecord, error) {
			return fetch(ctx, base, cfg.AccessToken, courseID)
		})
}

func (c *Classroom) fetchStudents(ctx context.Context, base, token, courseID string) ([]importing.RawRecord, error) {
	var resp struct {
		Students []struct {
			UserID  string `json:"userId"`
			Profile struct {
				Name struct {
					GivenName  string `json:"givenName"`
					FamilyName string `json:"familyName"`
				} `json:"name"`
				EmailAddress string `json:"emailAddress"`
			} `json:"profile"`
		} `json:"students"`
	}
	url := fmt.Sprintf("%s/v1/courses/%s/students", base, courseID)
	if err := c.client.GetJSON(ctx, url, bearer(token), &resp); err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(resp.Students))
	for _, s := range resp.Students {
		items = append(items, map[string]interface{}{
			"userId":     s.UserID,
			"givenName":  s.Profile.Name.GivenName,
			"familyName": s.Profile.Name.FamilyName,
			"email":      s.Profile.EmailAddress,
		})
	}
	return records(items, map[string]string{"courseId": courseID}), nil
}

func (c *Classroom) fetchGrades(ctx context.Context, base, token, courseID string) ([]importing.RawRecord, error) {
	var resp struct {
		StudentSubmissions []struct {
			UserID        string  `json:"userId"`
			CourseWorkID  string  `json:"courseWorkId"`
			AssignedGrade float64 `json:"assignedGrade"`
			State         string  `json:"state"`
		} `json:"studentSubmissions"`
	}
	url := fmt.Sprintf("%s/v1/courses/%s/courseWork/-/studentSubmissions", base, courseID)
	if err := c.client.GetJSON(ctx, url, bearer(token), &resp); err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(resp.StudentSubmissions))
	for _, sub := range resp.StudentSubmissions {
		if sub.State != "RETURNED" {
			continue
		}
		items = append(items, map[string]interface{}{
			"userId":       sub.UserID,
			"courseWorkId": sub.CourseWorkID,
			"score":        sub.AssignedGrade,
		})
	}
	return records(items, map[string]string{"courseId": courseID}), nil
}
