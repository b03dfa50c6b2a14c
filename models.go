package zenith

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. The password digest is never serialized
// outward.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NormalizeEmail applies the canonical form used both at write and at
// lookup time: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize canonicalizes the mutable identity fields in place.
func (u *User) Normalize() *User {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	return u
}

// Identity adapts the record to the Identity interface.
func (u *User) Identity() Identity {
	return userIdentity{
		id:     u.ID.String(),
		name:   u.Name,
		email:  u.Email,
		active: u.IsActive,
	}
}

// PublicUser is the client-facing projection of an account.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the serializable projection of the account.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}

type userIdentity struct {
	id     string
	name   string
	email  string
	active bool
}

func (i userIdentity) ID() string    { return i.id }
func (i userIdentity) Name() string  { return i.name }
func (i userIdentity) Email() string { return i.email }
func (i userIdentity) Active() bool  { return i.active }

var _ Identity = userIdentity{}
