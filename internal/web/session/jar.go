package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"sync"

	"github.com/recipebook/recipebook-web/internal/api"
)

// jar is a visitor's upstream cookie jar. Its content can be replaced as a
// whole when another instance stored newer cookies for the visitor.
type jar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	urls  []*url.URL
}

var _ http.CookieJar = (*jar)(nil)

// newJar returns a jar for the API at base, seeded with cookies.
func newJar(base *url.URL, cookies []Cookie) *jar {
	j := &jar{urls: cookieURLs(base)}
	j.reset(cookies)

	return j
}

// cookieURLs are the absolute API URLs whose cookies are persisted: the base
// and the refresh endpoint, which typically scopes the refresh cookie.
func cookieURLs(base *url.URL) []*url.URL {
	root := url.URL{Scheme: base.Scheme, User: base.User, Host: base.Host, Path: path.Join("/", base.Path)}

	refresh := root
	refresh.Path = path.Join("/", base.Path, api.RefreshPath)

	return []*url.URL{&root, &refresh}
}

// SetCookies implements http.CookieJar.
func (j *jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	j.inner.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.inner.Cookies(u)
}

// reset drops every cookie and restores cookies under path "/" of the API host.
func (j *jar) reset(cookies []Cookie) {
	inner, _ := cookiejar.New(nil) // never fails without options

	if len(cookies) > 0 {
		restored := make([]*http.Cookie, 0, len(cookies))

		for _, c := range cookies {
			restored = append(restored, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
		}

		inner.SetCookies(j.urls[0], restored)
	}

	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()
}

// persisted collects the cookies sent to the base and refresh URLs.
func (j *jar) persisted() []Cookie {
	var (
		seen = map[string]bool{}
		out  []Cookie
	)

	for _, u := range j.urls {
		for _, c := range j.Cookies(u) {
			if seen[c.Name] {
				continue
			}

			seen[c.Name] = true
			out = append(out, Cookie{Name: c.Name, Value: c.Value})
		}
	}

	return out
}
