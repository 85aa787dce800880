package connector

import (
	"context"
	"strings"
	"time"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

// RFID pulls card-swipe attendance reports, one scope per reader location.
type RFID struct {
	client *Client
	now    func() time.Time
}

func NewRFID(client *Client) *RFID { return &RFID{client: client, now: time.Now} }

func (r *RFID) Kind() importing.SourceKind { return importing.SourceRFID }

func (r *RFID) Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	date := r.now().Format("2006-01-02")
	return fetchScopes(ctx, cfg.LocationIDs, cfg.ScopeTimeout,
		func(ctx context.Context, locationID string) ([]importing.RawRecord, error) {
			req := map[string]string{
				"location": locationID,
				"date":     date,
				"username": cfg.Username,
				"password": cfg.Password,
			}
			var resp struct {
				Attendance []map[string]interface{} `json:"attendance"`
			}
			url := base + "/api/rfid/attendance-report"
			if err := r.client.PostJSON(ctx, url, nil, req, &resp); err != nil {
				return nil, err
			}
			recs := records(resp.Attendance, map[string]string{"location": locationID})
			markPresent(recs)
			return recs, nil
		})
}

// markPresent stamps a Present status on swipe records that carry none: a
// card seen at a reader is a presence fact even when the provider reports
// only the scan itself.
func markPresent(recs []importing.RawRecord) {
	for _, rec := range recs {
		if hasField(rec, "status") {
			continue
		}
		rec.Fields["status"] = importing.StringValue(attendance.StatusPresent)
	}
}

func hasField(rec importing.RawRecord, name string) bool {
	for k, v := range rec.Fields {
		if strings.EqualFold(k, name) && !v.IsAbsent() {
			return true
		}
	}
	return false
}
