//go:build !devauth

package auth

// DevBypassCompiled reports whether this binary carries the development
// authentication fallback. Release builds never do.
const DevBypassCompiled = false

// UnverifiedUserID is the development fallback hook. Without the devauth
// build tag it never accepts anything.
func UnverifiedUserID(string) (string, bool) {
	return "", false
}
