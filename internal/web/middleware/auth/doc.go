// Package auth runs the route guard in front of every page.
//
// A request without the visitor cookie and without the hydration marker is
// treated as the server rendering the first response: it can not see the
// upstream session cookie, so protected pages are answered with a small shell
// that sets the visitor cookie and reloads itself with the marker. Every
// other request is evaluated in the browser context, where the visitor's
// guard may silently refresh the session before deciding.
//
// Usage:
//
//	app.Use(auth.New(auth.Config{Registry: registry}))
//
// The visitor is attached to the request for handlers and templates, see
// session.FromContext.
package auth
