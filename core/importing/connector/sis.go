package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

var ErrUnsupportedSIS = errors.New("unsupported SIS type")

// SIS pulls student rosters from a school information system's REST API.
type SIS struct {
	client *Client
}

func NewSIS(client *Client) *SIS { return &SIS{client: client} }

func (s *SIS) Kind() importing.SourceKind { return importing.SourceSIS }

func (s *SIS) Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	path, err := sisStudentsPath(cfg.SISType, cfg.InstitutionID)
	if err != nil {
		return nil, nil, &importing.ConnectorError{Kind: importing.ConnectorProtocol, Err: err}
	}

	scope := cfg.InstitutionID
	if scope == "" {
		scope = "default"
	}
	return fetchScopes(ctx, []string{scope}, cfg.ScopeTimeout,
		func(ctx context.Context, scope string) ([]importing.RawRecord, error) {
			var resp struct {
				Students []map[string]interface{} `json:"students"`
			}
			url := strings.TrimRight(cfg.BaseURL, "/") + path
			if err := s.client.GetJSON(ctx, url, bearer(cfg.APIKey), &resp); err != nil {
				return nil, err
			}
			return records(resp.Students, nil), nil
		})
}

func sisStudentsPath(sisType, institutionID string) (string, error) {
	switch strings.ToLower(sisType) {
	case "powerschool":
		return fmt.Sprintf("/ws/v1/district/%s/students", institutionID), nil
	case "skyward":
		return fmt.Sprintf("/api/v1/districts/%s/students", institutionID), nil
	case "infinitecampus":
		return fmt.Sprintf("/campus/api/v1/%s/students", institutionID), nil
	case "custom":
		return "/api/students", nil
	default:
		return "", errors.Wrap(ErrUnsupportedSIS, sisType)
	}
}
