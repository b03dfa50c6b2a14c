package zenith

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// FederatedVerifier validates a provider-issued identity token and returns
// the attested profile.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (FederatedProfile, error)
}

// AuthController serves the /api/auth surface.
type AuthController struct {
	Auth     Authenticator
	Cookie   SessionCookie
	Verifier FederatedVerifier
	Logger   Logger
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthenticator(auth Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithSessionCookie(cookie SessionCookie) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Cookie = cookie
		return c
	}
}

func WithFederatedVerifier(verifier FederatedVerifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Verifier = verifier
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// RegisterAuthRoutes mounts the auth surface under the given router. The
// gate protects only /me; login, registration, and logout are public.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, gate fiber.Handler) {
	app.Post("/register", controller.Register)
	app.Post("/login", controller.Login)
	app.Post("/google", controller.Google)
	app.Get("/me", gate, controller.Me)
	app.Post("/logout", controller.Logout)
}

// RegisterRequest payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(2, 50),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 0),
		),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// GoogleRequest payload
type GoogleRequest struct {
	IDToken string `json:"idToken"`
}

// Validate will run validation rules
func (r GoogleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	user, token, err := a.Auth.Register(c.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	a.Cookie.Attach(c, token)
	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	user, token, err := a.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	a.Cookie.Attach(c, token)
	return c.JSON(user.Public())
}

func (a *AuthController) Google(c *fiber.Ctx) error {
	if a.Verifier == nil {
		return WriteError(c, a.Logger, errors.New(
			"federated sign-in is not configured",
			errors.CategoryInternal,
		))
	}

	payload := new(GoogleRequest)

	if err := c.BodyParser(payload); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(c, a.Logger, invalidPayload(err))
	}

	profile, err := a.Verifier.Verify(c.UserContext(), payload.IDToken)
	if err != nil {
		a.Logger.Warn("federated token rejected", "error", err)
		return WriteError(c, a.Logger, ErrInvalidToken)
	}

	user, token, err := a.Auth.FederatedLogin(c.UserContext(), profile)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	a.Cookie.Attach(c, token)
	return c.JSON(user.Public())
}

func (a *AuthController) Me(c *fiber.Ctx) error {
	user, ok := FromContext(c.UserContext())
	if !ok {
		return WriteError(c, a.Logger, ErrUnableToFindSession)
	}

	return c.JSON(fiber.Map{"user": user.Public()})
}

// Logout clears the session cookie unconditionally; the token itself stays
// cryptographically valid until its natural expiry.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	a.Cookie.Clear(c)
	return c.JSON(fiber.Map{"ok": true})
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
		WithCode(errors.CodeBadRequest).
		WithTextCode("INVALID_PAYLOAD")
}
