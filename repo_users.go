package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential store. Lookups and inserts only; records are
// never mutated by this package.
type Users interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	Count(ctx context.Context) (int, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a Users store backed by the given bun DB
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user record not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	_, err := tx.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)

	if err != nil {
		// We do not pre check usernames; the UNIQUE constraint is the
		// only dedup and surfaces here on collision.
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "username already registered").
				WithMetadata(map[string]any{
					"username": record.Username,
				})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user insert failed")
	}

	return record, nil
}

func (a *users) Count(ctx context.Context) (int, error) {
	return a.db.NewSelect().Model((*User)(nil)).Count(ctx)
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}
	record.EnsureStatus()
}

// isUniqueViolation matches the driver agnostic constraint error text
// for sqlite and postgres
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
