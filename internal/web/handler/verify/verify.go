// Package verify confirms an email address from the link in the confirmation mail.
package verify

import (
	"errors"
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
	// Path is the path of the verification link.
	Path = handler.RootPath + "auth/verify"

	// TemplateName is the name of the verification template.
	TemplateName = "verify"

	// MessageVerified is shown after a successful verification.
	MessageVerified = "your email address is confirmed, please sign in again"
)

var (
	// ErrMissingToken is returned when the link carries no token.
	ErrMissingToken = errors.New("the verification link is incomplete")

	// ErrInvalidToken is returned when the API rejects the token.
	ErrInvalidToken = errors.New("the verification link is invalid or has expired")
)

// Service is the verification handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the verification handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the verification handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)

	return nil
}

// Get verifies the token of the link. A visitor holding a session has it
// cleared so the next sign in picks up the verified claim.
func (s *Service) Get(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		c.Status(fiber.StatusBadRequest)

		return s.render(c, ErrMissingToken, "")
	}

	v := session.FromContext(c)

	if v == nil {
		var err error

		if v, err = s.registry.Resume(c); err != nil {
			log.Error().Err(err).Msg("failed to resume visitor on verification")
		}
	}

	client := s.registry.Anonymous()
	if v != nil {
		client = v.API
	}

	if err := client.VerifyEmail(c.UserContext(), token); err != nil {
		if status := handler.UpstreamStatus(err); status != 0 && status < http.StatusInternalServerError {
			c.Status(fiber.StatusBadRequest)

			return s.render(c, ErrInvalidToken, "")
		}

		log.Warn().Err(err).Msg("email verification failed")

		c.Status(fiber.StatusBadGateway)

		return s.render(c, handler.ErrUpstream, "")
	}

	if v != nil && v.Store.IsAuthenticated() {
		v.Store.Clear()

		if err := s.registry.Save(v); err != nil {
			log.Error().Err(err).Msg("failed to save visitor session")
		}
	}

	return s.render(c, nil, MessageVerified)
}

func (s *Service) render(c *fiber.Ctx, err error, message string) error {
	nav := navigation.NewContext("Verify email", "verify").
		AddBreadcrumb("Login", guard.LoginPath, false)

	data := fiber.Map{}

	if err != nil {
		data["error"] = err.Error()
	}

	if message != "" {
		data["message"] = message
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}
