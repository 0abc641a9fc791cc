// Package session keeps the client state of every visitor of the frontend.
//
// A visitor is identified by the "session" cookie. Its state is a session
// store, a cookie jar holding the upstream refresh cookie, an API client view
// and a route guard. The state is persisted to a fiber.Storage backend so a
// restart does not sign everybody out.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/guard"
	authsession "github.com/recipebook/recipebook-web/internal/session"
)

const (
	// CookieName is the frontend's visitor cookie.
	CookieName = "session"

	// HydratedParam marks a reload issued by the server-rendered shell.
	HydratedParam = "hydrated"

	localsKey = "visitor"
)

// Cookie is an upstream cookie kept for a visitor.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Data is the persisted part of a visitor.
type Data struct {
	Session authsession.Session `json:"session"`
	Cookies []Cookie            `json:"cookies,omitempty"`

	// Version grows with every save, so instances sharing a storage backend
	// notice state written by another instance.
	Version uint64 `json:"version,omitempty"`
}

// Write stores the data under sessionID.
func (d *Data) Write(storage fiber.Storage, sessionID string, exp time.Duration) error {
	out, err := json.Marshal(d)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return storage.Set(sessionID, out, exp) //nolint:wrapcheck
}

// Read loads the data stored under sessionID.
func (d *Data) Read(storage fiber.Storage, sessionID string) error {
	byteData, err := storage.Get(sessionID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(byteData) == 0 {
		return ErrUnknownVisitor
	}

	return json.Unmarshal(byteData, d) //nolint:wrapcheck
}

// Visitor is the client state of one browser.
type Visitor struct {
	ID    string
	Store *authsession.Store
	API   *api.Client
	Guard *guard.Guard

	jar       *jar
	ephemeral bool
	lastSeen  atomic.Int64

	mu         sync.Mutex
	navigation string
	version    uint64
}

// Navigate records a navigation requested by the session store.
func (v *Visitor) Navigate(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.navigation = path
}

// TakeNavigation returns and forgets the last requested navigation.
func (v *Visitor) TakeNavigation() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	path := v.navigation
	v.navigation = ""

	return path
}

// Ephemeral reports whether the visitor lives only for the current request.
func (v *Visitor) Ephemeral() bool {
	return v.ephemeral
}

// HasCookie reports whether the upstream cookie name is held.
// It returns nil when name is empty, meaning "unknown".
func (v *Visitor) HasCookie(name string) *bool {
	if name == "" {
		return nil
	}

	for _, c := range v.cookies() {
		if c.Name == name {
			return authsession.Bool(true)
		}
	}

	return authsession.Bool(false)
}

func (v *Visitor) touch(now time.Time) {
	v.lastSeen.Store(now.UnixNano())
}

func (v *Visitor) data() Data {
	return Data{
		Session: v.Store.Snapshot(),
		Cookies: v.cookies(),
	}
}

func (v *Visitor) cookies() []Cookie {
	return v.jar.persisted()
}

// nextVersion returns the version the next save writes.
func (v *Visitor) nextVersion() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.version++

	return v.version
}

// reseed replaces the visitor's state with data when data is newer than what
// the visitor last loaded or saved. It reports whether anything changed.
func (v *Visitor) reseed(data Data) bool {
	v.mu.Lock()
	if data.Version <= v.version {
		v.mu.Unlock()

		return false
	}

	v.version = data.Version
	v.mu.Unlock()

	if data.Session.IsAuthenticated {
		v.Store.SetAuth(data.Session.AccessToken, data.Session.User)
	} else {
		v.Store.Clear()
	}

	v.jar.reset(data.Cookies)

	return true
}

// FromContext returns the visitor attached to the request, if any.
func FromContext(c *fiber.Ctx) *Visitor {
	v, _ := c.Locals(localsKey).(*Visitor)

	return v
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}
