package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dimitrije/gabay-admin-api/internal/identity"
	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/platform"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// MaxProfileInsertAttempts bounds the insert loop. Each failed attempt can
// elide at most one column.
const MaxProfileInsertAttempts = 8

const (
	postgrestUnknownColumn  = "PGRST204"
	postgresUndefinedColumn = "42703"
)

var (
	postgrestColumnPattern = regexp.MustCompile(`Could not find the '([^']+)' column`)
	postgresColumnPattern  = regexp.MustCompile(`column "([^"]+)" of relation "[^"]+" does not exist`)
)

// IdentityCreator creates identities on the platform.
type IdentityCreator interface {
	CreateUser(ctx context.Context, params identity.CreateUserParams) (*models.Identity, error)
}

// ProfileWriter inserts profile rows.
type ProfileWriter interface {
	Insert(ctx context.Context, record models.ProfileRecord) error
}

// Provisioner creates an identity and then its profile row. The identity is
// never rolled back: a failed profile insert leaves it for an operator.
type Provisioner struct {
	identities IdentityCreator
	profiles   ProfileWriter
	now        func() time.Time
	logger     *zap.Logger
}

func NewProvisioner(identities IdentityCreator, profiles ProfileWriter, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		identities: identities,
		profiles:   profiles,
		now:        time.Now,
		logger:     logger,
	}
}

func (p *Provisioner) Provision(ctx context.Context, req models.ProvisioningRequest) error {
	user, err := p.identities.CreateUser(ctx, identity.CreateUserParams{
		Email:        req.Email,
		Password:     req.Password,
		EmailConfirm: true,
		UserMetadata: req.Metadata(),
	})
	if err != nil {
		return upstream("create identity", err)
	}

	log := p.logger.With(zap.String("user_id", user.ID))
	log.Info("identity created")

	if err := p.insertProfile(ctx, models.NewProfileRecord(user.ID, req, p.now()), log); err != nil {
		log.Error("profile insert failed, identity left in place", zap.Error(err))
		return err
	}
	return nil
}

func (p *Provisioner) insertProfile(ctx context.Context, candidate models.ProfileRecord, log *zap.Logger) error {
	for attempt := 1; ; attempt++ {
		err := p.profiles.Insert(ctx, candidate)
		if err == nil {
			return nil
		}

		next, column, ok := ElideColumn(candidate, err)
		if !ok {
			return upstream("insert profile", err)
		}
		if attempt == MaxProfileInsertAttempts {
			return upstream("insert profile", fmt.Errorf("%w: %w", ErrInsertAttemptsExhausted, err))
		}

		log.Info("profile column unknown to store, retrying without it",
			zap.String("column", column),
			zap.Int("attempt", attempt),
		)
		candidate = next
	}
}

// ElideColumn returns the candidate without the column err names as
// unknown. ok is false when err is not an unknown-column error or names a
// column the candidate does not carry.
func ElideColumn(candidate models.ProfileRecord, err error) (next models.ProfileRecord, column string, ok bool) {
	column, ok = UnknownColumn(err)
	if !ok || !candidate.Has(column) {
		return candidate, column, false
	}
	return candidate.Without(column), column, true
}

// UnknownColumn reports the column named by a store error that rejects a
// column missing from the table's schema. It recognizes PostgREST's
// PGRST204 and Postgres' undefined_column.
func UnknownColumn(err error) (string, bool) {
	var perr *platform.Error
	if errors.As(err, &perr) && perr.Code == postgrestUnknownColumn {
		if m := postgrestColumnPattern.FindStringSubmatch(perr.Message); m != nil {
			return m[1], true
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUndefinedColumn {
		if m := postgresColumnPattern.FindStringSubmatch(pgErr.Message); m != nil {
			return m[1], true
		}
	}

	return "", false
}
