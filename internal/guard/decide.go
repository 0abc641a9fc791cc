package guard

import "github.com/recipebook/recipebook-web/internal/session"

// Context is the environment a navigation is evaluated in.
type Context int

const (
	// ContextBrowser can reach the refresh endpoint with the session cookie.
	ContextBrowser Context = iota
	// ContextServer renders the first response and can not see the session cookie.
	ContextServer
)

// String implements fmt.Stringer.
func (c Context) String() string {
	if c == ContextServer {
		return "server"
	}

	return "browser"
}

// Action is what the caller has to do with a navigation.
type Action int

const (
	// ActionAllow lets the navigation proceed.
	ActionAllow Action = iota
	// ActionRedirect sends the visitor to Decision.Location.
	ActionRedirect
	// ActionRefresh asks for a silent refresh before deciding.
	ActionRefresh
	// ActionSuperseded means a newer navigation owns the outcome.
	ActionSuperseded
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionRefresh:
		return "refresh"
	case ActionSuperseded:
		return "superseded"
	default:
		return "allow"
	}
}

// Input is everything a decision depends on.
type Input struct {
	Path    string
	Context Context
	Session session.Session

	// HasSessionCookie is nil when the caller can not tell.
	HasSessionCookie *bool
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Action   Action
	Location string

	// External redirects replace the whole page.
	External bool

	// Deferred marks a server-context allow that still needs a browser check.
	Deferred bool

	// ClearSession asks the caller to drop stale session state.
	ClearSession bool

	Reason string
}

// Decide evaluates a navigation without side effects.
func Decide(in Input) Decision {
	if IsExempt(in.Path) {
		return allow("exempt")
	}

	path := Normalize(in.Path)

	if in.Session.IsAuthenticated {
		return Authenticated(path, in.Session.User)
	}

	if in.Context == ContextServer {
		d := allow("server context")
		d.Deferred = !IsPublic(path)

		return d
	}

	if in.HasSessionCookie != nil && !*in.HasSessionCookie {
		d := RefreshFailed(path)
		d.Reason = "no session cookie"

		return d
	}

	return Decision{Action: ActionRefresh, Reason: "not authenticated"}
}

// Authenticated decides for a visitor holding a session, also right after a
// successful refresh.
func Authenticated(path string, user *session.User) Decision {
	path = Normalize(path)

	if user.EmailUnverified() {
		return redirect(ConfirmEmailPath, "email not verified")
	}

	if isAuthPage(path) {
		return redirect(DashboardPath, "already authenticated")
	}

	return allow("authenticated")
}

// RefreshFailed decides after a failed refresh. The session is always cleared.
func RefreshFailed(path string) Decision {
	var d Decision

	if IsPublic(path) {
		d = allow("public page")
	} else {
		d = redirect(LoginPath, "refresh failed")
	}

	d.ClearSession = true

	return d
}

func allow(reason string) Decision {
	return Decision{Action: ActionAllow, Reason: reason}
}

func redirect(location, reason string) Decision {
	return Decision{Action: ActionRedirect, Location: location, External: true, Reason: reason}
}
