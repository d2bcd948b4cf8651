package profiles

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/platform"
)

// RESTStore talks to the table through the platform's PostgREST endpoint.
type RESTStore struct {
	anon    *platform.Client
	service *platform.Client
	table   string
}

func NewRESTStore(anon, service *platform.Client, table string) *RESTStore {
	return &RESTStore{anon: anon, service: service, table: table}
}

func (s *RESTStore) path() string {
	return "/rest/v1/" + url.PathEscape(s.table)
}

func (s *RESTStore) AdminFlag(ctx context.Context, callerToken, userID string) (any, bool, error) {
	var rows []map[string]any
	err := s.anon.WithBearer(callerToken).Do(ctx, platform.Request{
		Method: http.MethodGet,
		Path:   s.path(),
		Query: url.Values{
			"select": {models.ProfileIsAdmin},
			"id":     {"eq." + userID},
			"limit":  {"1"},
		},
	}, &rows)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	value, ok := rows[0][models.ProfileIsAdmin]
	if !ok {
		return nil, true, nil
	}
	return value, true, nil
}

// Insert uses the service key so the write bypasses row-level security.
func (s *RESTStore) Insert(ctx context.Context, record models.ProfileRecord) error {
	return s.service.Do(ctx, platform.Request{
		Method: http.MethodPost,
		Path:   s.path(),
		Header: http.Header{"Prefer": {"return=minimal"}},
		Body:   record,
	}, nil)
}
