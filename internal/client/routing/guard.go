// Package routing decides where a navigation lands given the session state.
package routing

import "slices"

const (
	PathHome    = "/"
	PathLogin   = "/login"
	PathSignup  = "/signup"
	PathProfile = "/profile"
	PathEdit    = "/profile/edit"
)

// PublicPaths are reachable without a session.
var PublicPaths = []string{PathHome, PathLogin, PathSignup}

// Guard returns the path to show for a navigation to path: signed-in users
// landing on home go to their profile, anonymous users outside the public
// paths go home. Any other navigation stays put.
func Guard(authenticated bool, path string) string {
	switch {
	case authenticated && path == PathHome:
		return PathProfile
	case !authenticated && !slices.Contains(PublicPaths, path):
		return PathHome
	}
	return path
}
