// Package profile renders public user profiles.
package profile

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the public profile route.
	Path = handler.RootPath + "u/:username"

	// TemplateName is the name of the profile template.
	TemplateName = "profile"
)

// ErrProfileNotFound is returned for unknown or private profiles.
var ErrProfileNotFound = errors.New("this profile does not exist or is private")

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the profile handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)

	return nil
}

// Get renders the profile named in the path. Signed in visitors call the API
// with their token so they can see their own private profile.
func (s *Service) Get(c *fiber.Ctx) error {
	username, err := url.PathUnescape(c.Params("username"))
	if err != nil || username == "" {
		return s.notFound(c, username)
	}

	client := s.registry.Anonymous()
	if v := s.registry.Current(c); v != nil {
		client = v.API
	}

	p, err := client.Profile(c.UserContext(), username)
	if err != nil {
		if status := handler.UpstreamStatus(err); status == http.StatusNotFound || status == http.StatusForbidden {
			return s.notFound(c, username)
		}

		log.Warn().Err(err).Str("username", username).Msg("failed to fetch profile")

		c.Status(fiber.StatusBadGateway)

		return s.render(c, username, fiber.Map{"error": handler.ErrUpstream.Error()})
	}

	return s.render(c, p.DisplayName(username), fiber.Map{"Profile": p})
}

func (s *Service) notFound(c *fiber.Ctx, username string) error {
	c.Status(fiber.StatusNotFound)

	return s.render(c, username, fiber.Map{"error": ErrProfileNotFound.Error()})
}

func (s *Service) render(c *fiber.Ctx, title string, data fiber.Map) error {
	if title == "" {
		title = "Profile"
	}

	nav := navigation.NewContext(title, "profile")
	data["Username"] = title

	return handler.Render(c, s.cfg, TemplateName, nav, data)
}
