package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the logout handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout revokes the upstream session and clears the visitor's store.
// The store's own navigation request decides where the visitor ends up.
func (s *Service) Logout(c *fiber.Ctx) error {
	v := session.FromContext(c)

	if v == nil {
		var err error

		if v, err = s.registry.Resume(c); err != nil {
			log.Error().Err(err).Msg("failed to resume visitor on logout")
		}
	}

	if v == nil {
		return c.Redirect(guard.LoginPath)
	}

	// revoking upstream is best effort, the local session goes either way
	if err := v.API.Logout(c.UserContext()); err != nil {
		log.Debug().Err(err).Msg("upstream logout failed")
	}

	v.Store.Logout()

	if err := s.registry.Save(v); err != nil {
		log.Error().Err(err).Msg("failed to save visitor session")
	}

	target := v.TakeNavigation()
	if target == "" {
		target = guard.LoginPath
	}

	return c.Redirect(target)
}
