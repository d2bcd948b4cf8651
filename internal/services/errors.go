package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dimitrije/gabay-admin-api/internal/platform"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConfiguration   = errors.New("configuration error")

	// ErrInsertAttemptsExhausted marks a profile insert that still failed
	// after every permitted column elision.
	ErrInsertAttemptsExhausted = errors.New("profile insert attempts exhausted")
)

// UpstreamError is a terminal failure reported by the identity platform or
// the profile store after the request itself was valid.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Payload is the upstream error body, verbatim when the upstream sent one.
func (e *UpstreamError) Payload() json.RawMessage {
	var perr *platform.Error
	if errors.As(e.Err, &perr) {
		return perr.Payload()
	}

	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		b, _ := json.Marshal(map[string]any{
			"code":    pgErr.Code,
			"message": pgErr.Message,
			"details": nullable(pgErr.Detail),
			"hint":    nullable(pgErr.Hint),
		})
		return b
	}

	b, _ := json.Marshal(map[string]string{"message": e.Err.Error()})
	return b
}

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
