// Package settings shows the signed in user's account.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the path to the settings page.
	Path = handler.RootPath + "settings"

	// TemplateName is the name of the settings template.
	TemplateName = "settings"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)

	return nil
}

// Get renders the account of the signed in user with its profile.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Settings", "settings").
		AddBreadcrumb("Dashboard", guard.DashboardPath, false).
		AddBreadcrumb("Settings", Path, true)

	v, err := s.registry.Ensure(c)
	if err != nil {
		return err
	}

	data := fiber.Map{"User": v.Store.Snapshot().User}

	profile, err := v.API.MyProfile(c.UserContext())
	if handler.Rejected(c, err) {
		return handler.Reauthenticate(c, s.registry, v, c.OriginalURL())
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to fetch own profile")

		data["error"] = handler.ErrUpstream.Error()
	} else {
		data["Profile"] = profile
	}

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}
