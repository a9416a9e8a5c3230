package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, username, password string) (*User, error)
}

// UserStore is the read surface the provider needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// UserProvider resolves usernames and credentials against the store
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. Lookup misses and hash mismatches both collapse into
// ErrMismatchedHashAndPassword.
func (u *UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a compare so unknown users cost the same as bad passwords
			ComparePasswordAndHash(password, RandomPasswordHash())
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier loads the identity for a username, used to
// resolve a token subject to a principal
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, username string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

type authIdentity struct {
	username    string
	authorities []string
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Authorities() []string {
	return a.authorities
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		username: user.Username,
		// no role modeling here, the set stays empty
		authorities: []string{},
	}
}

func ensureAuthenticatableUser(user *User) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		return err
	}

	return nil
}

var _ IdentityProvider = (*UserProvider)(nil)
