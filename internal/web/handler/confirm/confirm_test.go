package confirm

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/session"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/handler/handlertest"
)

func TestResend(t *testing.T) {
	tests := []struct {
		name      string
		user      *session.User
		status    int
		want      string
		wantCalls int32
	}{
		{name: "anonymous", want: ErrNotSignedIn.Error()},
		{name: "verified", user: &session.User{ID: "u1", IsEmailVerified: session.Bool(true)}, want: ErrAlreadyVerified.Error()},
		{name: "sent", user: &session.User{ID: "u1", IsEmailVerified: session.Bool(false)}, status: http.StatusNoContent, want: MessageSent, wantCalls: 1},
		{name: "unknown verification state", user: &session.User{ID: "u1"}, status: http.StatusOK, want: MessageSent, wantCalls: 1},
		{name: "upstream error", user: &session.User{ID: "u1"}, status: http.StatusInternalServerError, want: handler.ErrUpstream.Error(), wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			upstream := handlertest.NewUpstream(t)
			upstream.Mux.HandleFunc("POST "+api.ResendVerificationPath, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
			})

			registry := handlertest.NewRegistry(t, upstream.URL)
			app := handlertest.NewApp()

			var s Service
			require.NoError(t, s.Init(app, handlertest.NewConfig(upstream.URL), registry))

			var cookies []*http.Cookie

			if tt.user != nil {
				_, cookie := handlertest.SignIn(t, registry, "tok", tt.user)
				cookies = append(cookies, cookie)
			}

			resp, body := handlertest.Do(t, app, handlertest.PostForm(Path, nil, cookies...))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.want)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestGet(t *testing.T) {
	upstream := handlertest.NewUpstream(t)
	app := handlertest.NewApp()

	var s Service
	require.NoError(t, s.Init(app, handlertest.NewConfig(upstream.URL), handlertest.NewRegistry(t, upstream.URL)))

	resp, body := handlertest.Do(t, app, handlertest.Get(Path))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)
}

func TestResendWithOutdatedClaims(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnauthorized} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			upstream := handlertest.NewUpstream(t)
			upstream.Mux.HandleFunc("POST "+api.ResendVerificationPath, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			})

			registry := handlertest.NewRegistry(t, upstream.URL)
			app := handlertest.NewApp()

			var s Service
			require.NoError(t, s.Init(app, handlertest.NewConfig(upstream.URL), registry))

			v, cookie := handlertest.SignIn(t, registry, "tok", &session.User{ID: "u1", IsEmailVerified: session.Bool(false)})

			resp, _ := handlertest.Do(t, app, handlertest.PostForm(Path, nil, cookie))

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, guard.DashboardPath+"?"+handler.ReauthParam+"=1", resp.Header.Get("Location"))
			assert.False(t, v.Store.IsAuthenticated(), "the guard refreshes the claims on the next page")

			stored, err := registry.Lookup(v.ID)
			require.NoError(t, err)
			assert.False(t, stored.Store.IsAuthenticated())
		})
	}
}
