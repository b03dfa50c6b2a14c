package zenith

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultCookieName is the session cookie name when none is configured.
const DefaultCookieName = "zenith_token"

// SessionCookie owns the session cookie attribute set. Clear re-sends the
// exact same attributes with an immediate expiry: browsers only drop a
// cookie when every attribute matches the one that set it.
type SessionCookie struct {
	Name     string
	Secure   bool
	SameSite string
	MaxAge   time.Duration
}

// NewSessionCookie builds the transport from config. Cross-site production
// deployments need SameSite=None, which cookie rules only allow together
// with the Secure flag.
func NewSessionCookie(cfg Config) SessionCookie {
	name := cfg.GetCookieName()
	if name == "" {
		name = DefaultCookieName
	}

	maxAge := time.Duration(cfg.GetTokenExpiration()) * time.Hour
	if maxAge <= 0 {
		maxAge = DefaultTokenExpiration * time.Hour
	}

	sameSite := cfg.GetCookieSameSite()
	if sameSite == "" {
		sameSite = "Lax"
	}
	if sameSite == "None" && !cfg.GetCookieSecure() {
		sameSite = "Lax"
	}

	return SessionCookie{
		Name:     name,
		Secure:   cfg.GetCookieSecure(),
		SameSite: sameSite,
		MaxAge:   maxAge,
	}
}

// Attach sets the session cookie on the response.
func (s SessionCookie) Attach(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.MaxAge),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
}

// Clear overwrites the session cookie with an immediately expired copy.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
}

// Extract reads the raw token from the request, or "" when absent.
func (s SessionCookie) Extract(c *fiber.Ctx) string {
	return c.Cookies(s.Name)
}

// WriteError is the outermost error boundary: categorized errors map to
// their HTTP status, everything else becomes a generic 500 with no
// internal detail in the body.
func WriteError(c *fiber.Ctx, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		logger.Error("unhandled error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	status := richErr.Code
	if status < http.StatusBadRequest || status > 599 {
		status = statusFromCategory(richErr.Category)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"error", richErr.Message,
		)
		return c.Status(status).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	body := fiber.Map{"error": richErr.Message}
	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	return c.Status(status).JSON(body)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
