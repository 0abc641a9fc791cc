package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// ShellTemplate is rendered for deferred server-context navigations.
const ShellTemplate = "shell"

// DefaultSkipPrefixes are never guarded.
var DefaultSkipPrefixes = []string{"/static", "/favicon.ico"} //nolint:gochecknoglobals

// Config defines the config for the middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// Registry hands out the visitors. Required.
	Registry *session.Registry

	// SkipPrefixes are path prefixes passed through unguarded.
	// Defaults to DefaultSkipPrefixes.
	SkipPrefixes []string
}

// New creates the guard middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Registry == nil {
		panic("auth: registry is nil")
	}

	if cfg.SkipPrefixes == nil {
		cfg.SkipPrefixes = DefaultSkipPrefixes
	}

	refreshCookie := cfg.Registry.Config().RefreshCookie

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		path := strings.ToLower(c.Path())
		for _, prefix := range cfg.SkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		if guard.IsExempt(c.Path()) {
			return c.Next()
		}

		hydrated := c.Query(session.HydratedParam) != ""

		if c.Cookies(session.CookieName) == "" && !hydrated {
			return serverContext(c, cfg.Registry)
		}

		v := session.FromContext(c)

		if v == nil {
			var err error

			if v, err = cfg.Registry.Resume(c); err != nil {
				return err
			}
		}

		// the marker without a cookie means the client refused it
		if v == nil {
			v = cfg.Registry.Ephemeral(c)
		}

		d := v.Guard.Navigate(c.UserContext(), guard.Input{
			Path:             c.Path(),
			Context:          guard.ContextBrowser,
			HasSessionCookie: v.HasCookie(refreshCookie),
		})

		if err := cfg.Registry.Save(v); err != nil {
			log.Error().Err(err).Msg("failed to save visitor session")
		}

		log.Debug().
			Str("path", c.Path()).
			Stringer("action", d.Action).
			Str("reason", d.Reason).
			Msg("navigation guarded")

		switch d.Action {
		case guard.ActionRedirect:
			return c.Redirect(d.Location)
		case guard.ActionSuperseded:
			// a newer navigation of the visitor took over, retry with its outcome
			return c.Redirect(c.OriginalURL())
		default:
			return c.Next()
		}
	}
}

func serverContext(c *fiber.Ctx, registry *session.Registry) error {
	d := guard.Decide(guard.Input{Path: c.Path(), Context: guard.ContextServer})
	guard.Observe(guard.ContextServer, d)

	if !d.Deferred {
		return c.Next()
	}

	if _, err := registry.Create(c); err != nil {
		return err
	}

	target := hydratedURL(c.OriginalURL())

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set("Refresh", "0; url="+target)

	return c.Render(ShellTemplate, fiber.Map{"Target": target})
}

// hydratedURL adds the hydration marker to the request URI.
func hydratedURL(requestURI string) string {
	u, err := url.ParseRequestURI(requestURI)
	if err != nil {
		return "/?" + session.HydratedParam + "=1"
	}

	q := u.Query()
	q.Set(session.HydratedParam, "1")
	u.RawQuery = q.Encode()

	return u.RequestURI()
}
