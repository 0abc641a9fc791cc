// Package signup registers new accounts with the recipebook API.
package signup

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the path to the signup page.
	Path = guard.SignupPath

	// TemplateName is the name of the signup template.
	TemplateName = "signup"
)

var (
	// ErrAccountExists is returned when the email or username is taken.
	ErrAccountExists = errors.New("an account with this email or username already exists")

	// ErrRejected is returned when the recipebook API refuses the registration.
	ErrRejected = errors.New("the registration was rejected, please check your input")
)

// Form is the submitted signup form.
type Form struct {
	Email           string `form:"email" validate:"required,email"`
	Username        string `form:"username" validate:"required,alphanum,min=3,max=32"`
	Password        string `form:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// Service is the signup handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the signup handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the signup handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get renders the signup form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, &Form{}, nil)
}

// Post registers the account and signs the visitor in.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := handler.ParseForm(c, form); err != nil {
		return s.render(c, form, err)
	}

	v, err := s.registry.Ensure(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to start visitor session")

		return s.render(c, form, handler.ErrInternalServerError)
	}

	res, err := v.API.Signup(c.UserContext(), api.Registration{
		Email:    form.Email,
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		return s.render(c, form, signupError(err))
	}

	user, err := api.DecodeUser(res.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("signup returned an unreadable access token")

		return s.render(c, form, handler.ErrInternalServerError)
	}

	v.Store.SetAuth(res.AccessToken, user)

	if err = s.registry.Save(v); err != nil {
		log.Error().Err(err).Msg("failed to save visitor session")
	}

	log.Info().Str("user", user.ID).Msg("user signed up")

	return c.Redirect(guard.Authenticated(Path, user).Location)
}

func (s *Service) render(c *fiber.Ctx, form *Form, err error) error {
	nav := navigation.NewContext("Sign up", "signup").
		AddBreadcrumb("Home", guard.HomePath, false).
		AddBreadcrumb("Sign up", Path, true)

	// never echo passwords back
	data := fiber.Map{"Email": form.Email, "Username": form.Username}

	if err != nil {
		data["error"] = err.Error()
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}

func signupError(err error) error {
	switch handler.UpstreamStatus(err) {
	case http.StatusConflict:
		return ErrAccountExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrRejected
	}

	log.Warn().Err(err).Msg("signup request failed")

	return handler.ErrUpstream
}
