// Package home renders the landing page.
package home

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the path to the landing page.
	Path = guard.HomePath

	// TemplateName is the name of the landing template.
	TemplateName = "home"
)

// Service is the landing page handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the landing page handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the landing page handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get renders the landing page.
func (s *Service) Get(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, TemplateName, navigation.NewContext("Home", "home"), nil)
}
