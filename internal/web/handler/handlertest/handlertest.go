// Package handlertest provides fakes for testing page handlers: a view engine
// that writes what would be rendered, a fake recipebook API and a registry
// backed by in-memory storage.
package handlertest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/config"
	authsession "github.com/recipebook/recipebook-web/internal/session"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// RefreshCookie is the upstream refresh cookie name used by the fake API.
const RefreshCookie = "refresh_token"

// NoOpViews writes the template name followed by the "error" and "message"
// values of a fiber.Map, so tests can assert on what a handler rendered.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		for _, key := range []string{"error", "message"} {
			if v, exists := m[key]; exists && v != nil {
				_, _ = fmt.Fprintf(w, "\n%s: %v", key, v)
			}
		}
	}

	return nil
}

// NewApp returns a fiber app rendering with NoOpViews.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{Views: NoOpViews{}})
}

// NewConfig returns a config pointing at apiBase.
func NewConfig(apiBase string) *config.Config {
	return &config.Config{
		Title: "Recipebook",
		Webserver: config.Webserver{
			Port:          3000,
			URL:           "http://localhost:3000",
			CheckAliveURI: "/checkalive",
			Session:       config.Session{ExpiryTime: time.Hour, SameSite: "Lax"},
		},
		API: config.API{
			Base:          apiBase,
			RefreshCookie: RefreshCookie,
		},
		Storage: config.Storage{Driver: "memory"},
	}
}

// NewRegistry returns a registry over in-memory storage talking to apiBase.
func NewRegistry(t *testing.T, apiBase string) *session.Registry {
	t.Helper()

	client, err := api.New(apiBase)
	require.NoError(t, err)

	storage := memory.New()
	t.Cleanup(func() {
		_ = storage.Close()
	})

	registry, err := session.NewRegistry(storage, client, session.Config{
		Expiry:        time.Hour,
		RefreshCookie: RefreshCookie,
	})
	require.NoError(t, err)

	return registry
}

// Upstream is a fake recipebook API.
type Upstream struct {
	*httptest.Server
	Mux *http.ServeMux
}

// NewUpstream starts a fake API that is closed with the test.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &Upstream{Server: srv, Mux: mux}
}

// Token signs claims into an access token.
func Token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)

	return token
}

// WriteToken answers like the auth endpoints do and sets the refresh cookie.
func WriteToken(w http.ResponseWriter, token, userID string) {
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "r-" + userID, Path: "/auth", HttpOnly: true})
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"access_token":%q,"userId":%q}`, token, userID)
}

// Do runs req against app and returns the response and its body.
func Do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	_ = resp.Body.Close()

	return resp, string(body)
}

// Get builds a GET request carrying cookies.
func Get(target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// PostForm builds a form POST request carrying cookies.
func PostForm(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// VisitorCookie returns the visitor cookie set by resp, if any.
func VisitorCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}

	return nil
}

// SignIn stores a visitor holding token and user and returns its cookie.
func SignIn(t *testing.T, registry *session.Registry, token string, user *authsession.User) (*session.Visitor, *http.Cookie) {
	t.Helper()

	v, err := registry.New()
	require.NoError(t, err)

	v.Store.SetAuth(token, user)
	require.NoError(t, registry.Save(v))

	return v, &http.Cookie{Name: session.CookieName, Value: v.ID}
}
