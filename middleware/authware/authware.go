// Package authware is the authorization gate every protected route sits
// behind. It resolves the session cookie to a live user record and either
// attaches the identity to the request or rejects with 401.
package authware

import (
	"github.com/gofiber/fiber/v2"

	zenith "github.com/zenith-app/zenith-api"
)

// Config configures the gate.
type Config struct {
	// Optional makes the gate never reject: on any failure the request
	// proceeds without an attached identity, for endpoints that
	// personalize but don't require login.
	Optional bool

	// Cookie is the session transport the gate reads and, on dead
	// tokens, clears.
	Cookie zenith.SessionCookie

	// Auth verifies tokens and re-resolves claims against the store.
	Auth zenith.Authenticator

	// ContextKey is the fiber locals key for the resolved user.
	// Defaults to "user".
	ContextKey string

	Logger zenith.Logger

	// ErrorHandler renders rejections. Defaults to the shared JSON
	// error boundary.
	ErrorHandler func(c *fiber.Ctx, err error) error
}

// New builds the gate middleware. Terminal states per request: the
// identity is attached and the chain continues, or the request is
// rejected with 401 (and the cookie cleared when it can never succeed
// again).
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		token := cfg.Cookie.Extract(c)
		if token == "" {
			if cfg.Optional {
				return c.Next()
			}
			return cfg.ErrorHandler(c, zenith.ErrUnableToFindSession)
		}

		claims, err := cfg.Auth.SessionFromToken(token)
		if err != nil {
			// The token can never verify again; drop it so the client
			// stops presenting it.
			cfg.Cookie.Clear(c)
			if cfg.Optional {
				return c.Next()
			}
			return cfg.ErrorHandler(c, zenith.ErrInvalidToken)
		}

		user, err := cfg.Auth.UserFromClaims(c.UserContext(), claims)
		if err != nil {
			cfg.Cookie.Clear(c)
			if cfg.Optional {
				return c.Next()
			}
			cfg.Logger.Info("session rejected after re-resolution",
				"user_id", claims.UserID(),
				"error", err,
			)
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, user)

		ctx := zenith.WithContext(c.UserContext(), user)
		ctx = zenith.WithClaimsContext(ctx, claims)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Auth == nil {
		panic("AUTH: gate middleware configuration: Authenticator is required.")
	}

	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = zenith.DefaultCookieName
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLoggerValue
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return zenith.WriteError(c, logger, err)
		}
	}

	return cfg
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

var noopLoggerValue zenith.Logger = noopLogger{}
