package zenith

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
)

// Logger is the minimal structured logger the core depends on. glog.Logger
// satisfies it; library code falls back to defLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an authenticated identity.
type Identity interface {
	ID() string
	Name() string
	Email() string
	Active() bool
}

// Config holds auth options.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int // hours
	GetIssuer() string
	GetAudience() []string
	GetCookieName() string
	GetCookieSecure() bool
	GetCookieSameSite() string
}

// Authenticator holds methods to deal with authentication.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	FederatedLogin(ctx context.Context, profile FederatedProfile) (*User, string, error)
	SessionFromToken(token string) (*SessionClaims, error)
	UserFromClaims(ctx context.Context, claims *SessionClaims) (*User, error)
}

// FederatedProfile is the identity attested by an external provider.
type FederatedProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// TokenService handles session token issuance and verification.
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *SessionClaims) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// UserResolver is the slice of the Users store the authorization gate needs.
type UserResolver interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserStore is the slice of the Users repository the authenticator needs.
type UserStore interface {
	UserResolver
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, record *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// PasswordAuthenticator authenticates passwords.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(append([]any{"[ERR] AUTH", msg}, args...)...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(append([]any{"[WRN] AUTH", msg}, args...)...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(append([]any{"[INF] AUTH", msg}, args...)...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(append([]any{"[DBG] AUTH", msg}, args...)...)
}
