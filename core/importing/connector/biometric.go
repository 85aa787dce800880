package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

// Biometric pulls today's punches from fingerprint attendance devices, one
// scope per device id. Devices answer with a bare JSON array.
type Biometric struct {
	client *Client
}

func NewBiometric(client *Client) *Biometric { return &Biometric{client: client} }

func (b *Biometric) Kind() importing.SourceKind { return importing.SourceBiometric }

func (b *Biometric) Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return fetchScopes(ctx, cfg.DeviceIDs, cfg.ScopeTimeout,
		func(ctx context.Context, deviceID string) ([]importing.RawRecord, error) {
			var punches []map[string]interface{}
			url := fmt.Sprintf("%s/api/attendance/%s/today", base, deviceID)
			if err := b.client.GetJSON(ctx, url, bearer(cfg.APIKey), &punches); err != nil {
				return nil, err
			}
			return records(punches, map[string]string{"deviceId": deviceID}), nil
		})
}
