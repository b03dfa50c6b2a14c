package zenith

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Auther implements Authenticator over the credential store and the token
// service.
type Auther struct {
	users  UserStore
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserStore, opts Config) *Auther {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		users:  users,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	s.tokens = tokens
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Register creates a new active account and mints its first session token.
// Duplicate emails are strictly rejected.
func (s *Auther) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, "", richErr
		}
		return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.users.Register(ctx, user)
	if err != nil {
		s.logger.Warn("Register rejected", "email", NormalizeEmail(email), "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.Identity())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the credentials, touches the last-login timestamp, and
// mints a session token. Unknown accounts, wrong passwords, and inactive
// accounts all collapse to the same invalid-credentials answer.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, "", ErrMismatchedHashAndPassword
		}
		return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if !user.IsActive {
		s.logger.Warn("Login blocked for inactive account", "user_id", user.ID.String())
		return nil, "", ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, "", ErrMismatchedHashAndPassword
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track successful login", "error", err)
	}

	token, err := s.tokens.Generate(user.Identity())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// FederatedLogin signs in an identity attested by an external provider,
// provisioning an account on first sight. The provisioned account gets a
// deterministic id derived from the email and a random password digest so
// it can never be entered through the password flow.
func (s *Auther) FederatedLogin(ctx context.Context, profile FederatedProfile) (*User, string, error) {
	if profile.Email == "" || !profile.EmailVerified {
		return nil, "", ErrIdentityNotFound
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during federated sign-in")
		}

		user = &User{
			Name:         profile.Name,
			Email:        profile.Email,
			PasswordHash: RandomPasswordHash(),
		}

		if id, err := hashid.NewUUID(NormalizeEmail(profile.Email)); err == nil {
			user.ID = id
		}

		if user, err = s.users.Register(ctx, user); err != nil {
			return nil, "", err
		}
	}

	if !user.IsActive {
		return nil, "", ErrIdentityInactive
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track federated login", "error", err)
	}

	token, err := s.tokens.Generate(user.Identity())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SessionFromToken verifies a raw token and returns its claims.
func (s *Auther) SessionFromToken(raw string) (*SessionClaims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}

// UserFromClaims re-resolves token claims against the live account record,
// catching accounts that were deleted or deactivated after issuance.
func (s *Auther) UserFromClaims(ctx context.Context, claims *SessionClaims) (*User, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve session identity")
	}

	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	return user, nil
}

var _ Authenticator = (*Auther)(nil)
