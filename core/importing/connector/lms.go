package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

// LMS pulls gradebook entries from a learning management system, one scope
// per course id.
type LMS struct {
	client *Client
}

func NewLMS(client *Client) *LMS { return &LMS{client: client} }

func (l *LMS) Kind() importing.SourceKind { return importing.SourceLMS }

func (l *LMS) Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return fetchScopes(ctx, cfg.CourseIDs, cfg.ScopeTimeout,
		func(ctx context.Context, courseID string) ([]importing.RawRecord, error) {
			var resp struct {
				Grades []map[string]interface{} `json:"grades"`
			}
			url := fmt.Sprintf("%s/api/courses/%s/grades", base, courseID)
			if err := l.client.GetJSON(ctx, url, bearer(cfg.AccessToken), &resp); err != nil {
				return nil, err
			}
			return records(resp.Grades, map[string]string{"courseId": courseID}), nil
		})
}
