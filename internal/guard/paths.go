package guard

import "strings"

// Paths the guard redirects to.
const (
	LoginPath        = "/login"
	SignupPath       = "/signup"
	DashboardPath    = "/dashboard"
	ConfirmEmailPath = "/confirm-your-email"
	HomePath         = "/"
	ForgotPassword   = "/forgot-password"
)

// ExemptPrefixes are never checked.
var ExemptPrefixes = []string{"/u/", "/auth/verify", ConfirmEmailPath} //nolint:gochecknoglobals

// PublicPages are reachable without a session.
var PublicPages = []string{LoginPath, SignupPath, HomePath, ForgotPassword} //nolint:gochecknoglobals

// IsExempt reports whether path starts with an exempt prefix.
// The raw path is used, so "/u" alone is not exempt.
func IsExempt(path string) bool {
	for _, prefix := range ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// IsPublic reports whether the normalised path is a public page.
func IsPublic(path string) bool {
	path = Normalize(path)

	for _, p := range PublicPages {
		if p == path {
			return true
		}
	}

	return false
}

// Normalize strips one trailing slash; the empty result becomes "/".
func Normalize(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return HomePath
	}

	return path
}

func isAuthPage(path string) bool {
	return path == LoginPath || path == SignupPath
}
