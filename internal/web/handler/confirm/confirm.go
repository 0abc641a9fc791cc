// Package confirm asks signed in users to confirm their email address.
package confirm

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
	// Path is the path to the confirmation page.
	Path = guard.ConfirmEmailPath

	// TemplateName is the name of the confirmation template.
	TemplateName = "confirm"

	// MessageSent is shown after a new mail was requested.
	MessageSent = "a new confirmation mail is on its way"
)

var (
	// ErrNotSignedIn is returned when an anonymous visitor asks for a new mail.
	ErrNotSignedIn = errors.New("please sign in to request a new confirmation mail")

	// ErrAlreadyVerified is returned when the address is confirmed already.
	ErrAlreadyVerified = errors.New("your email address is already confirmed")
)

// Service is the confirmation handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the confirmation handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the confirmation handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)
	app.Post(Path, s.Resend)

	return nil
}

// Get renders the confirmation notice.
func (s *Service) Get(c *fiber.Ctx) error {
	s.registry.Current(c)

	return s.render(c, nil, "")
}

// Resend requests a new confirmation mail for the signed in user.
func (s *Service) Resend(c *fiber.Ctx) error {
	v, err := s.registry.Ensure(c)
	if err != nil {
		return err
	}

	sess := v.Store.Snapshot()

	switch {
	case !sess.IsAuthenticated:
		return s.render(c, ErrNotSignedIn, "")
	case sess.User != nil && sess.User.IsEmailVerified != nil && *sess.User.IsEmailVerified:
		return s.render(c, ErrAlreadyVerified, "")
	}

	if err = v.API.ResendVerification(c.UserContext()); err != nil {
		// the token's claims are outdated, the dashboard refreshes them
		if handler.UpstreamStatus(err) == http.StatusConflict || handler.Rejected(c, err) {
			return handler.Reauthenticate(c, s.registry, v, guard.DashboardPath)
		}

		log.Warn().Err(err).Msg("resend verification failed")

		return s.render(c, handler.ErrUpstream, "")
	}

	return s.render(c, nil, MessageSent)
}

func (s *Service) render(c *fiber.Ctx, err error, message string) error {
	nav := navigation.NewContext("Confirm your email", "confirm")

	data := fiber.Map{}

	if err != nil {
		data["error"] = err.Error()
	}

	if message != "" {
		data["message"] = message
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}
