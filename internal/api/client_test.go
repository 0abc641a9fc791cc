package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-web/internal/api"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newClient(t *testing.T, base string) *api.Client {
	t.Helper()

	c, err := api.New(base)
	require.NoError(t, err)

	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := api.New("  ")
	assert.ErrorIs(t, err, api.ErrEmptyBaseURL)
}

func TestNewRequestHeaders(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		header     http.Header
		skipAuth   bool
		wantAuth   string
		wantCustom string
	}{
		{
			name:     "token present",
			token:    "abc",
			wantAuth: "Bearer abc",
		},
		{
			name:     "no token stays anonymous",
			token:    "",
			wantAuth: "",
		},
		{
			name:     "caller header wins",
			token:    "abc",
			header:   http.Header{"Authorization": {"Basic xyz"}},
			wantAuth: "Basic xyz",
		},
		{
			name:     "lower case caller header wins",
			token:    "abc",
			header:   http.Header{"authorization": {"Custom 1"}},
			wantAuth: "Custom 1",
		},
		{
			name:       "caller headers merged",
			token:      "abc",
			header:     http.Header{"X-Trace": {"t1"}},
			wantAuth:   "Bearer abc",
			wantCustom: "t1",
		},
		{
			name:     "skip auth",
			token:    "abc",
			skipAuth: true,
			wantAuth: "",
		},
	}

	base := newClient(t, "https://api.example.com/v1")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base.With(staticToken(tt.token), nil)

			req, err := c.NewRequest(context.Background(), "/recipes", &api.Options{
				Header:   tt.header,
				SkipAuth: tt.skipAuth,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAuth, req.Header.Get("Authorization"))
			assert.Equal(t, tt.wantCustom, req.Header.Get("X-Trace"))
			assert.Equal(t, "https://api.example.com/v1/recipes", req.URL.String())
			assert.Equal(t, http.MethodGet, req.Method)
		})
	}
}

func TestNewRequestWithoutTokenSource(t *testing.T) {
	c := newClient(t, "https://api.example.com")

	req, err := c.NewRequest(context.Background(), "profiles/bob", nil)
	require.NoError(t, err)

	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "https://api.example.com/profiles/bob", req.URL.String())
}

func TestNewRequestQueryAndBody(t *testing.T) {
	c := newClient(t, "https://api.example.com/")

	req, err := c.NewRequest(context.Background(), "/search", &api.Options{
		Method: http.MethodPost,
		Query:  url.Values{"q": {"pasta"}},
		Body:   map[string]int{"page": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/search?q=pasta", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	assert.Equal(t, 2, body["page"])
}

func TestFetchDecodesAndSendsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/", HttpOnly: true})
			w.WriteHeader(http.StatusNoContent)
		case "/echo":
			cookie, err := r.Cookie("refresh_token")
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			_ = json.NewEncoder(w).Encode(map[string]string{
				"cookie": cookie.Value,
				"auth":   r.Header.Get("Authorization"),
			})
		}
	}))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	c := newClient(t, srv.URL).With(staticToken("tok"), jar)

	require.NoError(t, c.Fetch(context.Background(), "/set", nil, nil))

	var out map[string]string
	require.NoError(t, c.Fetch(context.Background(), "/echo", nil, &out))

	assert.Equal(t, "r1", out["cookie"])
	assert.Equal(t, "Bearer tok", out["auth"])
}

func TestFetchPropagatesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)

	err := c.Fetch(context.Background(), "/recipes", nil, nil)
	require.Error(t, err)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, string(se.Body), "expired")
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestDoReturnsTransportResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)

	req, err := c.NewRequest(context.Background(), "/", nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
