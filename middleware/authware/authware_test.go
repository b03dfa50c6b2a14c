package authware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zenith "github.com/zenith-app/zenith-api"
	"github.com/zenith-app/zenith-api/middleware/authware"
)

// stubAuth drives the gate through each of its states.
type stubAuth struct {
	claims    *zenith.SessionClaims
	claimsErr error
	user      *zenith.User
	userErr   error
}

func (s stubAuth) Register(ctx context.Context, name, email, password string) (*zenith.User, string, error) {
	return nil, "", nil
}

func (s stubAuth) Login(ctx context.Context, email, password string) (*zenith.User, string, error) {
	return nil, "", nil
}

func (s stubAuth) FederatedLogin(ctx context.Context, profile zenith.FederatedProfile) (*zenith.User, string, error) {
	return nil, "", nil
}

func (s stubAuth) SessionFromToken(token string) (*zenith.SessionClaims, error) {
	return s.claims, s.claimsErr
}

func (s stubAuth) UserFromClaims(ctx context.Context, claims *zenith.SessionClaims) (*zenith.User, error) {
	return s.user, s.userErr
}

func gateApp(auth zenith.Authenticator, optional bool) *fiber.App {
	cookie := zenith.SessionCookie{Name: "session", SameSite: "Lax"}

	app := fiber.New()
	app.Get("/protected", authware.New(authware.Config{
		Optional: optional,
		Cookie:   cookie,
		Auth:     auth,
	}), func(c *fiber.Ctx) error {
		user, ok := zenith.FromContext(c.UserContext())
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"id": user.ID.String()})
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func clearedSessionCookie(res *http.Response) bool {
	for _, cookie := range res.Cookies() {
		if cookie.Name == "session" && cookie.Value == "" && cookie.Expires.Year() < 2020 {
			return true
		}
	}
	return false
}

func TestGate(t *testing.T) {
	user := &zenith.User{ID: uuid.New(), Name: "Ana", Email: "ana@x.com", IsActive: true}
	claims := &zenith.SessionClaims{UID: user.ID.String()}

	t.Run("no cookie rejects with 401", func(t *testing.T) {
		app := gateApp(stubAuth{}, false)

		res := request(t, app, "")
		defer res.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.False(t, clearedSessionCookie(res), "nothing to clear without a cookie")
	})

	t.Run("invalid token rejects and clears the cookie", func(t *testing.T) {
		app := gateApp(stubAuth{claimsErr: zenith.ErrInvalidToken}, false)

		res := request(t, app, "garbage")
		defer res.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.True(t, clearedSessionCookie(res))
	})

	t.Run("deleted account rejects and clears the cookie", func(t *testing.T) {
		app := gateApp(stubAuth{claims: claims, userErr: zenith.ErrIdentityNotFound}, false)

		res := request(t, app, "valid-token")
		defer res.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.True(t, clearedSessionCookie(res))
	})

	t.Run("deactivated account rejects even with a live token", func(t *testing.T) {
		app := gateApp(stubAuth{claims: claims, userErr: zenith.ErrIdentityInactive}, false)

		res := request(t, app, "valid-token")
		defer res.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.True(t, clearedSessionCookie(res))
	})

	t.Run("live session attaches the identity", func(t *testing.T) {
		app := gateApp(stubAuth{claims: claims, user: user}, false)

		res := request(t, app, "valid-token")
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, clearedSessionCookie(res))

		body := readBody(t, res)
		assert.Contains(t, body, user.ID.String())
	})
}

func TestGate_Optional(t *testing.T) {
	t.Run("no cookie proceeds anonymously", func(t *testing.T) {
		app := gateApp(stubAuth{}, true)

		res := request(t, app, "")
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, readBody(t, res), "anonymous")
	})

	t.Run("invalid token proceeds anonymously but still clears", func(t *testing.T) {
		app := gateApp(stubAuth{claimsErr: zenith.ErrInvalidToken}, true)

		res := request(t, app, "garbage")
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, readBody(t, res), "anonymous")
		assert.True(t, clearedSessionCookie(res))
	})
}

func TestGate_RequiresAuthenticator(t *testing.T) {
	assert.Panics(t, func() {
		authware.New(authware.Config{})
	})
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	buf := make([]byte, 1024)
	n, _ := res.Body.Read(buf)
	return string(buf[:n])
}
