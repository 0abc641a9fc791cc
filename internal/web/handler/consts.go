package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group.
	RouterRootPath = "/"

	// ErrNilACRFatalLogMsg is used if app or cfg or registry var pointer is nil.
	ErrNilACRFatalLogMsg = "app, cfg or registry is nil"
)
