package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"testing"

	"github.com/dimitrije/gabay-admin-api/internal/identity"
	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/platform"
	"github.com/dimitrije/gabay-admin-api/internal/testutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// schemaStore accepts inserts only when every column exists in its table,
// and otherwise rejects the first unknown column the way PostgREST does.
type schemaStore struct {
	columns map[string]bool
	inserts []models.ProfileRecord
	fail    error
}

func newSchemaStore(columns ...string) *schemaStore {
	s := &schemaStore{columns: map[string]bool{}}
	for _, c := range columns {
		s.columns[c] = true
	}
	return s
}

func (s *schemaStore) Insert(_ context.Context, record models.ProfileRecord) error {
	s.inserts = append(s.inserts, record)
	if s.fail != nil {
		return s.fail
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !s.columns[k] {
			return unknownColumnError(k)
		}
	}
	return nil
}

func unknownColumnError(column string) *platform.Error {
	msg := fmt.Sprintf("Could not find the '%s' column of 'profiles' in the schema cache", column)
	return &platform.Error{
		Status:  http.StatusBadRequest,
		Code:    "PGRST204",
		Message: msg,
		Body:    []byte(fmt.Sprintf(`{"code":"PGRST204","details":null,"hint":null,"message":%q}`, msg)),
	}
}

var fullProfileSchema = []string{"id", "name", "email", "course", "department", "is_admin", "created_by", "active", "created_at"}

func provisioningRequest() models.ProvisioningRequest {
	return models.ProvisioningRequest{
		Email:      "student@example.com",
		Password:   "s3cret-pass",
		Name:       "Student One",
		Course:     "CS",
		Department: "Engineering",
	}
}

func setupProvisioner(store ProfileWriter) (*Provisioner, *testutil.MockIdentityPlatform) {
	identities := new(testutil.MockIdentityPlatform)
	return NewProvisioner(identities, store, zap.NewNop()), identities
}

func TestProvisioner_Provision_FullSchema(t *testing.T) {
	store := newSchemaStore(fullProfileSchema...)
	p, identities := setupProvisioner(store)
	req := provisioningRequest()

	identities.On("CreateUser", mock.Anything, identity.CreateUserParams{
		Email:        req.Email,
		Password:     req.Password,
		EmailConfirm: true,
		UserMetadata: req.Metadata(),
	}).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, store.inserts, 1)
	row := store.inserts[0]
	assert.Equal(t, "new-user", row[models.ProfileID])
	assert.Equal(t, "Student One", row[models.ProfileName])
	assert.Equal(t, "CS", row[models.ProfileCourse])
	assert.Equal(t, models.DefaultCreatedBy, row[models.ProfileCreatedBy])
	assert.Equal(t, true, row[models.ProfileActive])
	assert.Equal(t, false, row[models.ProfileIsAdmin])
	identities.AssertExpectations(t)
}

func TestProvisioner_Provision_ElidesUnknownColumn(t *testing.T) {
	store := newSchemaStore("id", "name", "email", "department", "is_admin", "created_by", "active", "created_at")
	p, identities := setupProvisioner(store)

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), provisioningRequest())

	require.NoError(t, err)
	require.Len(t, store.inserts, 2)
	assert.True(t, store.inserts[0].Has(models.ProfileCourse))
	assert.False(t, store.inserts[1].Has(models.ProfileCourse))
	assert.True(t, store.inserts[1].Has(models.ProfileDepartment))
	identities.AssertNumberOfCalls(t, "CreateUser", 1)
}

func TestProvisioner_Provision_ElidesSeveralColumns(t *testing.T) {
	store := newSchemaStore("id", "name", "email", "is_admin")
	p, identities := setupProvisioner(store)

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), provisioningRequest())

	require.NoError(t, err)
	// active, course, created_at, created_by and department are elided one at a time.
	require.Len(t, store.inserts, 6)
	last := store.inserts[len(store.inserts)-1]
	assert.Len(t, last, 4)
	for _, c := range []string{"id", "name", "email", "is_admin"} {
		assert.True(t, last.Has(c), c)
	}
}

func TestProvisioner_Provision_AttemptsExhausted(t *testing.T) {
	// Eight of the nine candidate columns are unknown, so every permitted
	// attempt elides a column and none succeeds.
	store := newSchemaStore("id")
	core, logs := observer.New(zap.InfoLevel)
	identities := new(testutil.MockIdentityPlatform)
	p := NewProvisioner(identities, store, zap.New(core))

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), provisioningRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsertAttemptsExhausted)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "insert profile", upErr.Op)
	assert.Len(t, store.inserts, MaxProfileInsertAttempts)
	identities.AssertNumberOfCalls(t, "CreateUser", 1)

	// Columns are rejected in sorted order; "name" is the last one the
	// store refused.
	assert.JSONEq(t, string(unknownColumnError("name").Body), string(upErr.Payload()))

	// Only attempts that are followed by another insert are logged as retries.
	retries := logs.FilterMessage("profile column unknown to store, retrying without it").Len()
	assert.Equal(t, MaxProfileInsertAttempts-1, retries)
}

func TestProvisioner_Provision_TerminalInsertError(t *testing.T) {
	store := newSchemaStore(fullProfileSchema...)
	store.fail = &platform.Error{
		Status:  http.StatusConflict,
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "profiles_email_key"`,
		Body:    []byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"profiles_email_key\""}`),
	}
	p, identities := setupProvisioner(store)

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), provisioningRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "insert profile", upErr.Op)
	assert.JSONEq(t, string(store.fail.(*platform.Error).Body), string(upErr.Payload()))
	assert.Len(t, store.inserts, 1)
	identities.AssertNumberOfCalls(t, "CreateUser", 1)
	identities.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestProvisioner_Provision_UnknownColumnNotInCandidate(t *testing.T) {
	store := newSchemaStore(fullProfileSchema...)
	store.fail = unknownColumnError("nickname")
	p, identities := setupProvisioner(store)

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(&models.Identity{ID: "new-user"}, nil)

	err := p.Provision(context.Background(), provisioningRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.NotErrorIs(t, err, ErrInsertAttemptsExhausted)
	assert.Len(t, store.inserts, 1)
}

func TestProvisioner_Provision_IdentityFailureSkipsInsert(t *testing.T) {
	store := newSchemaStore(fullProfileSchema...)
	p, identities := setupProvisioner(store)

	identities.On("CreateUser", mock.Anything, mock.Anything).Return(nil, &platform.Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "email_exists",
		Message: "A user with this email address has already been registered",
		Body:    []byte(`{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`),
	})

	err := p.Provision(context.Background(), provisioningRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "create identity", upErr.Op)
	assert.Contains(t, string(upErr.Payload()), "email_exists")
	assert.Empty(t, store.inserts)
}

func TestElideColumn(t *testing.T) {
	candidate := models.ProfileRecord{"id": "u1", "course": "CS", "name": "N"}

	next, column, ok := ElideColumn(candidate, unknownColumnError("course"))
	assert.True(t, ok)
	assert.Equal(t, "course", column)
	assert.Equal(t, models.ProfileRecord{"id": "u1", "name": "N"}, next)
	assert.True(t, candidate.Has("course"), "input must not be mutated")

	_, _, ok = ElideColumn(candidate, unknownColumnError("department"))
	assert.False(t, ok)

	_, _, ok = ElideColumn(candidate, errors.New("connection refused"))
	assert.False(t, ok)
}

func TestUnknownColumn(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		column string
		ok     bool
	}{
		{
			name:   "postgrest schema cache",
			err:    unknownColumnError("department"),
			column: "department",
			ok:     true,
		},
		{
			name: "postgres undefined column",
			err: &pgconn.PgError{
				Code:    "42703",
				Message: `column "course" of relation "profiles" does not exist`,
			},
			column: "course",
			ok:     true,
		},
		{
			name:   "wrapped postgres undefined column",
			err:    fmt.Errorf("insert: %w", &pgconn.PgError{Code: "42703", Message: `column "active" of relation "profiles" does not exist`}),
			column: "active",
			ok:     true,
		},
		{
			name: "postgrest code with unexpected message",
			err:  &platform.Error{Status: 400, Code: "PGRST204", Message: "something else"},
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
		},
		{
			name: "matching text under another code",
			err:  &platform.Error{Status: 400, Code: "PGRST100", Message: "Could not find the 'course' column"},
		},
		{
			name: "plain error",
			err:  errors.New(`column "course" of relation "profiles" does not exist`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, ok := UnknownColumn(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.column, column)
		})
	}
}
