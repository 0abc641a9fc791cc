// Package login signs visitors in against the recipebook API.
package login

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
	// Path is the path to the login page.
	Path = guard.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := handler.ParseForm(c, form); err != nil {
		return s.render(c, form.Email, err)
	}

	v, err := s.registry.Ensure(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to start visitor session")

		return s.render(c, form.Email, handler.ErrInternalServerError)
	}

	res, err := v.API.Login(c.UserContext(), api.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return s.render(c, form.Email, loginError(err))
	}

	user, err := api.DecodeUser(res.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("login returned an unreadable access token")

		return s.render(c, form.Email, handler.ErrInternalServerError)
	}

	v.Store.SetAuth(res.AccessToken, user)

	if err = s.registry.Save(v); err != nil {
		log.Error().Err(err).Msg("failed to save visitor session")
	}

	log.Info().Str("user", user.ID).Msg("user signed in")

	return c.Redirect(guard.Authenticated(Path, user).Location)
}

func (s *Service) render(c *fiber.Ctx, email string, err error) error {
	nav := navigation.NewContext("Login", "login").
		AddBreadcrumb("Home", guard.HomePath, false).
		AddBreadcrumb("Login", Path, true)

	data := fiber.Map{"Email": email}

	if err != nil {
		data["error"] = err.Error()
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}

func loginError(err error) error {
	switch handler.UpstreamStatus(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrTooManyAttempts
	}

	if !errors.Is(err, api.ErrEmptyAccessToken) {
		log.Warn().Err(err).Msg("login request failed")
	}

	return handler.ErrUpstream
}
