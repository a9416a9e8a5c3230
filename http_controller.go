package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// HTTPAuthenticator is what the controller needs from the route
// authenticator
type HTTPAuthenticator interface {
	Login(ctx router.Context, payload LoginPayload) (string, error)
}

func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(
			controller.Routes.Authenticate,
			controller.AuthenticatePost,
		).
		SetName("authenticate.post")

	app.
		Post(
			controller.Routes.Register,
			controller.RegistrationCreate,
		).
		SetName("register.post")
}

type AuthControllerRoutes struct {
	Authenticate string
	Register     string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Registry     AccountRegistrerer
	Routes       *AuthControllerRoutes
	Auther       HTTPAuthenticator
	ErrorHandler func(c router.Context, err error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithControllerAuther(a HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

func WithControllerRegistry(r AccountRegistrerer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Registry = r
		return c
	}
}

func WithControllerErrorHandler(h func(c router.Context, err error) error) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if h != nil {
			c.ErrorHandler = h
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Authenticate: "/authenticate",
			Register:     "/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.Registry == nil {
		panic("Missing AccountRegistrerer in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = defaultControllerErrHandler
	}

	return c
}

// AuthenticateRequest payload
type AuthenticateRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r AuthenticateRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r AuthenticateRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r AuthenticateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// AuthenticateResponse carries the signed token back to the caller
type AuthenticateResponse struct {
	JWTToken string `json:"jwtToken"`
}

func (a *AuthController) AuthenticatePost(ctx router.Context) error {
	payload := new(AuthenticateRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("authenticate parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTHENTICATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	token, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, AuthenticateResponse{
		JWTToken: token,
	})
}

// RegistrationCreatePayload is the registration body
type RegistrationCreatePayload struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	user, err := a.Registry.RegisterUser(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("register user: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user.Public())
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultControllerErrHandler(c router.Context, err error) error {
	return c.JSON(router.StatusInternalServerError, map[string]string{
		"error": err.Error(),
	})
}
