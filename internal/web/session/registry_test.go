package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-web/internal/api"
	authsession "github.com/recipebook/recipebook-web/internal/session"
)

// testStorage is a minimal in-memory implementation of fiber.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestRegistry(t *testing.T, storage fiber.Storage) *Registry {
	t.Helper()

	client, err := api.New("https://api.example.com")
	require.NoError(t, err)

	r, err := NewRegistry(storage, client, Config{Expiry: time.Hour, RefreshCookie: "refresh_token"})
	require.NoError(t, err)

	return r
}

func TestNewRegistryValidates(t *testing.T) {
	client, err := api.New("https://api.example.com")
	require.NoError(t, err)

	_, err = NewRegistry(nil, client, Config{})
	assert.ErrorIs(t, err, ErrStorageIsNil)

	_, err = NewRegistry(&testStorage{data: map[string][]byte{}}, nil, Config{})
	assert.ErrorIs(t, err, ErrClientIsNil)
}

func TestCreateSetsCookieAndPersists(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}
	r := newTestRegistry(t, storage)

	var created *Visitor

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		v, err := r.Create(c)
		if err != nil {
			return err
		}

		created = v

		if FromContext(c) != v {
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotNil(t, created)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, CookieName+"="+created.ID)
	assert.Contains(t, strings.ToLower(setCookie), "httponly")

	stored, _ := storage.Get(created.ID)
	assert.NotEmpty(t, stored)
}

func TestLookupRestoresFromStorage(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}

	data := Data{
		Session: authsession.Session{
			AccessToken:     "tok",
			User:            &authsession.User{ID: "u1", IsEmailVerified: authsession.Bool(true)},
			IsAuthenticated: true,
		},
		Cookies: []Cookie{{Name: "refresh_token", Value: "r1"}},
	}
	require.NoError(t, data.Write(storage, "visitor-1", time.Hour))

	r := newTestRegistry(t, storage)

	v, err := r.Lookup("visitor-1")
	require.NoError(t, err)

	assert.Equal(t, "tok", v.Store.AccessToken())
	assert.Equal(t, "u1", v.Store.Snapshot().User.ID)
	require.NotNil(t, v.HasCookie("refresh_token"))
	assert.True(t, *v.HasCookie("refresh_token"))
	assert.False(t, *v.HasCookie("other"))
	assert.Nil(t, v.HasCookie(""))

	again, err := r.Lookup("visitor-1")
	require.NoError(t, err)
	assert.Same(t, v, again)
}

func TestLookupUnknown(t *testing.T) {
	r := newTestRegistry(t, &testStorage{data: map[string][]byte{}})

	_, err := r.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownVisitor)
}

func TestSaveRoundTrip(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}
	r := newTestRegistry(t, storage)

	v := r.newVisitor("visitor-2", Data{})
	v.Store.SetAuth("tok-2", &authsession.User{ID: "u2"})
	require.NoError(t, r.Save(v))

	var data Data
	require.NoError(t, data.Read(storage, "visitor-2"))
	assert.Equal(t, "tok-2", data.Session.AccessToken)
	assert.True(t, data.Session.IsAuthenticated)

	v.Store.Logout()
	require.NoError(t, r.Save(v))
	require.NoError(t, data.Read(storage, "visitor-2"))
	assert.False(t, data.Session.IsAuthenticated)
	assert.Equal(t, authsession.LoginPath, v.TakeNavigation())
	assert.Empty(t, v.TakeNavigation())
}

func TestEphemeralIsNotSaved(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}
	r := newTestRegistry(t, storage)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		v := r.Ephemeral(c)
		v.Store.SetAuth("tok", nil)

		return r.Save(v)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	assert.Empty(t, storage.data)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestResumeReplacesUnknownCookie(t *testing.T) {
	r := newTestRegistry(t, &testStorage{data: map[string][]byte{}})

	var resumed *Visitor

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		v, err := r.Resume(c)
		resumed = v

		return err
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	require.NotNil(t, resumed)
	assert.NotEqual(t, "forged", resumed.ID)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), resumed.ID)
}

func TestSweep(t *testing.T) {
	r := newTestRegistry(t, &testStorage{data: map[string][]byte{}})

	now := time.Now()
	r.now = func() time.Time { return now }

	v := r.newVisitor("old", Data{})
	r.visitors["old"] = v

	r.now = func() time.Time { return now.Add(2 * time.Hour) }

	assert.Equal(t, 1, r.Sweep())
	assert.Empty(t, r.visitors)
}

// newUpstream fakes the auth endpoints on a base URL without path. Login sets
// the refresh cookie scoped to /auth; refresh reports the cookie it received.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+api.LoginPath, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/auth", HttpOnly: true})
		_, _ = fmt.Fprint(w, `{"access_token":"tok","userId":"u1"}`)
	})
	mux.HandleFunc("POST "+api.RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("refresh_token")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		_, _ = fmt.Fprintf(w, `{"access_token":"tok-%s","userId":"u1"}`, c.Value)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newRegistryFor(t *testing.T, base string, storage fiber.Storage) *Registry {
	t.Helper()

	client, err := api.New(base)
	require.NoError(t, err)

	r, err := NewRegistry(storage, client, Config{Expiry: time.Hour, RefreshCookie: "refresh_token"})
	require.NoError(t, err)

	return r
}

func TestCookieURLs(t *testing.T) {
	tests := []struct {
		base string
		want []string
	}{
		{base: "http://localhost:8000", want: []string{"http://localhost:8000/", "http://localhost:8000/auth/refresh"}},
		{base: "http://localhost:8000/", want: []string{"http://localhost:8000/", "http://localhost:8000/auth/refresh"}},
		{base: "https://example.com/api/", want: []string{"https://example.com/api", "https://example.com/api/auth/refresh"}},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			base, err := url.Parse(tt.base)
			require.NoError(t, err)

			urls := cookieURLs(base)
			require.Len(t, urls, 2)

			for i, u := range urls {
				assert.Equal(t, tt.want[i], u.String())
			}
		})
	}
}

func TestRefreshCookieIsKeptOnBareBaseURL(t *testing.T) {
	srv := newUpstream(t)
	storage := &testStorage{data: map[string][]byte{}}
	r := newRegistryFor(t, srv.URL, storage)

	v, err := r.New()
	require.NoError(t, err)
	assert.False(t, *v.HasCookie("refresh_token"))

	_, err = v.API.Login(context.Background(), api.Credentials{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	assert.True(t, *v.HasCookie("refresh_token"))
	require.NoError(t, r.Save(v))

	var data Data
	require.NoError(t, data.Read(storage, v.ID))
	assert.Equal(t, []Cookie{{Name: "refresh_token", Value: "r1"}}, data.Cookies)

	// a restarted instance sends the restored cookie to the refresh endpoint
	restarted := newRegistryFor(t, srv.URL, storage)

	restored, err := restarted.Lookup(v.ID)
	require.NoError(t, err)
	assert.True(t, *restored.HasCookie("refresh_token"))

	res, err := restored.API.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-r1", res.AccessToken)
}

func TestLookupPicksUpStateSavedElsewhere(t *testing.T) {
	srv := newUpstream(t)
	storage := &testStorage{data: map[string][]byte{}}

	// two instances sharing one storage backend
	first := newRegistryFor(t, srv.URL, storage)
	second := newRegistryFor(t, srv.URL, storage)

	v, err := first.New()
	require.NoError(t, err)

	_, err = v.API.Login(context.Background(), api.Credentials{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	v.Store.SetAuth("tok", &authsession.User{ID: "u1"})
	require.NoError(t, first.Save(v))

	cached, err := second.Lookup(v.ID)
	require.NoError(t, err)
	require.True(t, cached.Store.IsAuthenticated())
	require.True(t, *cached.HasCookie("refresh_token"))

	// signing out on the first instance drops the cookie and the session
	v.jar.reset(nil)
	v.Store.Logout()
	require.NoError(t, first.Save(v))

	again, err := second.Lookup(v.ID)
	require.NoError(t, err)
	assert.Same(t, cached, again)
	assert.False(t, again.Store.IsAuthenticated())
	assert.False(t, *again.HasCookie("refresh_token"))
	assert.Empty(t, again.TakeNavigation(), "reloading does not navigate")
}

func TestLookupKeepsOwnNewerState(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}
	r := newTestRegistry(t, storage)

	v, err := r.New()
	require.NoError(t, err)

	// a change not yet saved survives a concurrent lookup
	v.Store.SetAuth("tok", &authsession.User{ID: "u1"})

	again, err := r.Lookup(v.ID)
	require.NoError(t, err)
	assert.True(t, again.Store.IsAuthenticated())

	require.NoError(t, r.Save(v))

	var data Data
	require.NoError(t, data.Read(storage, v.ID))
	assert.EqualValues(t, 2, data.Version)
}
