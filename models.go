package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle status of an account
type UserStatus = string

const (
	// UserStatusActive accounts can authenticate
	UserStatusActive UserStatus = "active"
	// UserStatusDisabled accounts are rejected at authentication
	UserStatusDisabled UserStatus = "disabled"
)

// User is the user model. The store assigns the integer id on insert;
// username carries a UNIQUE constraint in the migration.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Status        UserStatus `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureStatus normalizes a missing status to active
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// PublicUser is the representation safe to return to API clients, it
// never carries the password hash
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status,omitempty"`
}

// Public returns the non sensitive projection of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Status:   u.Status,
	}
}

func statusAuthError(status UserStatus) error {
	if status == UserStatusDisabled {
		return ErrUserDisabled
	}
	return nil
}
