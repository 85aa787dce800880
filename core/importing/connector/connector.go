package connector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

// Config carries per-invocation connection parameters. Supplied by the caller
// each time; never persisted here (credential storage belongs to the caller).
type Config struct {
	BaseURL     string `json:"url"`
	APIKey      string `json:"apiKey"`
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Password    string `json:"password"`

	SISType       string `json:"sisType"`
	InstitutionID string `json:"institutionId"`

	DeviceIDs   []string `json:"deviceIds"`
	CourseIDs   []string `json:"courseIds"`
	LocationIDs []string `json:"locationIds"`

	// ScopeTimeout bounds each remote scope call; zero means the client default.
	ScopeTimeout time.Duration `json:"-"`
}

// Connector fetches a provider's native records, reshaped only as far as flat
// field maps; the adapter layer owns canonical naming.
type Connector interface {
	Kind() importing.SourceKind
	Fetch(ctx context.Context, cfg Config) ([]importing.RawRecord, []importing.ScopeFailure, error)
}

// Source adapts a Connector fetch to the batch orchestrator's record source.
type Source struct {
	Connector Connector
	Config    Config
}

func (s Source) Kind() importing.SourceKind { return s.Connector.Kind() }

func (s Source) Records(ctx context.Context) (importing.RecordIter, []importing.ScopeFailure, error) {
	recs, fails, err := s.Connector.Fetch(ctx, s.Config)
	if err != nil {
		return nil, nil, err
	}
	return importing.IterSlice(recs), fails, nil
}

// fetchScopes runs one provider call per scope concurrently, each under its
// own timeout. An unavailable scope (network, timeout, overload) becomes a
// ScopeFailure and the rest carry on; auth and protocol errors abort the whole
// fetch since retrying other scopes with the same bad credential or the same
// broken response contract cannot succeed.
func fetchScopes(
	ctx context.Context,
	scopes []string,
	timeout time.Duration,
	fetch func(ctx context.Context, scope string) ([]importing.RawRecord, error),
) ([]importing.RawRecord, []importing.ScopeFailure, error) {
	if timeout == 0 {
		timeout = DefaultClientConfig().Timeout
	}

	var (
		mu       sync.Mutex
		byScope  = make([][]importing.RawRecord, len(scopes))
		failures []importing.ScopeFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range scopes {
		i, scope := i, scope
		g.Go(func() error {
			scopeCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			recs, err := fetch(scopeCtx, scope)
			if err != nil {
				cErr := asConnector(err, scope)
				if cErr.Kind == importing.ConnectorUnavailable {
					mu.Lock()
					failures = append(failures, importing.ScopeFailure{Scope: scope, Error: cErr.Error()})
					mu.Unlock()
					return nil
				}
				return cErr
			}
			mu.Lock()
			byScope[i] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var merged []importing.RawRecord
	for _, recs := range byScope {
		merged = append(merged, recs...)
	}
	// origin indexes are assigned across the merged fetch, in scope order
	for i := range merged {
		merged[i].Index = i + 1
	}
	return merged, failures, nil
}

// asConnector attaches the failing scope to a connector error, wrapping
// anything unclassified as unavailable.
func asConnector(err error, scope string) *importing.ConnectorError {
	if cErr, ok := err.(*importing.ConnectorError); ok {
		if cErr.Scope == "" {
			cErr.Scope = scope
		}
		return cErr
	}
	return &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Scope: scope, Err: err}
}

// records converts flat provider items into raw records, dropping non-scalar
// values and stamping extra fields (e.g. the scope id).
func records(items []map[string]interface{}, extra map[string]string) []importing.RawRecord {
	recs := make([]importing.RawRecord, 0, len(items))
	for i, item := range items {
		fields := make(map[string]importing.Value, len(item)+len(extra))
		for k, v := range item {
			if val := importing.ValueOf(v); !val.IsAbsent() {
				fields[k] = val
			}
		}
		for k, v := range extra {
			fields[k] = importing.StringValue(v)
		}
		recs = append(recs, importing.RawRecord{Index: i + 1, Fields: fields})
	}
	return recs
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
