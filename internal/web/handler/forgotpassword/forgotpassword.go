// Package forgotpassword lets visitors request a password reset mail.
package forgotpassword

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the path to the forgot password page.
	Path = guard.ForgotPassword

	// TemplateName is the name of the forgot password template.
	TemplateName = "forgot-password"

	// MessageSent is shown whether or not the address is known.
	MessageSent = "if an account exists for this address, a reset link has been sent"
)

// Form is the submitted forgot password form.
type Form struct {
	Email string `form:"email" validate:"required,email"`
}

// Service is the forgot password handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the forgot password handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the forgot password handler.
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

// Get renders the form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", nil, "")
}

// Post asks the recipebook API for a reset mail.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := handler.ParseForm(c, form); err != nil {
		return s.render(c, form.Email, err, "")
	}

	// a reset request never carries a session
	err := s.registry.Anonymous().ForgotPassword(c.UserContext(), form.Email)
	if err != nil && handler.UpstreamStatus(err) != http.StatusNotFound {
		log.Warn().Err(err).Msg("forgot password request failed")

		return s.render(c, form.Email, handler.ErrUpstream, "")
	}

	return s.render(c, "", nil, MessageSent)
}

func (s *Service) render(c *fiber.Ctx, email string, err error, message string) error {
	nav := navigation.NewContext("Forgot password", "forgot-password").
		AddBreadcrumb("Login", guard.LoginPath, false).
		AddBreadcrumb("Forgot password", Path, true)

	data := fiber.Map{"Email": email}

	if err != nil {
		data["error"] = err.Error()
	}

	if message != "" {
		data["message"] = message
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}
