// Package handler holds what the page handlers share.
package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// ReauthParam marks a reload issued after the API rejected the access token.
const ReauthParam = "reauth"

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// Render renders name inside the base layout. data may be nil.
func Render(c *fiber.Ctx, cfg *config.Config, name string, nav *navigation.Context, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	if v := session.FromContext(c); v != nil {
		nav.WithSession(v.Store.Snapshot())
	}

	nav.WithSiteTitle(cfg.Title)
	data["Navigation"] = nav

	return c.Render(name, data, BaseLayout)
}

// ParseForm decodes the request body into form and validates it.
func ParseForm(c *fiber.Ctx, form any) error {
	if err := c.BodyParser(form); err != nil {
		return ErrInvalidFormData
	}

	if err := validate.Struct(form); err != nil {
		return ErrInvalidFormData
	}

	return nil
}

// UpstreamStatus returns the status of an API error, 0 for transport errors.
func UpstreamStatus(err error) int {
	var se *api.StatusError

	if errors.As(err, &se) {
		return se.StatusCode
	}

	return 0
}

// Rejected reports whether err is the API rejecting the visitor's access token
// on a request that was not reloaded for that reason already.
func Rejected(c *fiber.Ctx, err error) bool {
	return UpstreamStatus(err) == http.StatusUnauthorized && c.Query(ReauthParam) == ""
}

// Reauthenticate drops the visitor's access token and redirects to location,
// where the guard refreshes the token or sends the visitor to the login page.
func Reauthenticate(c *fiber.Ctx, registry *session.Registry, v *session.Visitor, location string) error {
	v.Store.Clear()

	if err := registry.Save(v); err != nil {
		log.Error().Err(err).Msg("failed to save visitor session")
	}

	return c.Redirect(reauthURL(location))
}

func reauthURL(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}

	q := u.Query()
	q.Set(ReauthParam, "1")
	u.RawQuery = q.Encode()

	return u.String()
}
