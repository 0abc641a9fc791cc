// Package navigation builds the page context handed to templates.
package navigation

import "github.com/recipebook/recipebook-web/internal/session"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActivePage  string
	Breadcrumbs []BreadcrumbItem
	PageTitle   string
	SiteTitle   string

	// User is nil for anonymous visitors.
	User          *session.User
	Authenticated bool
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activePage string) *Context {
	return &Context{
		PageTitle:   pageTitle,
		ActivePage:  activePage,
		Breadcrumbs: make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithSession exposes the visitor's session to the templates.
func (c *Context) WithSession(sess session.Session) *Context {
	c.Authenticated = sess.IsAuthenticated
	c.User = sess.User

	return c
}

// WithSiteTitle sets the title shown in the header.
func (c *Context) WithSiteTitle(title string) *Context {
	c.SiteTitle = title

	return c
}

// IsActive reports whether page is the current one.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}

// DisplayName is the name shown for the signed in user.
func (c *Context) DisplayName() string {
	if c.User == nil {
		return ""
	}

	if c.User.Username != "" {
		return c.User.Username
	}

	return c.User.Email
}

// Title is the document title.
func (c *Context) Title() string {
	switch {
	case c.SiteTitle == "":
		return c.PageTitle
	case c.PageTitle == "":
		return c.SiteTitle
	default:
		return c.PageTitle + " · " + c.SiteTitle
	}
}
