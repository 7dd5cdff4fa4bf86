// Package access provides access level types and resolution for
// per-user language permissions.
package access

import "strings"

// Level represents what a user is allowed to do.
type Level int

const (
	// None means the user cannot generate anything.
	None Level = iota
	// Generate allows running generation against granted languages and
	// browsing one's own run history.
	Generate
	// Admin allows all operations including wordlist imports, session
	// listing, and full history access.
	Admin
)

// String returns the string representation of the access level.
func (l Level) String() string {
	switch l {
	case None:
		return "none"
	case Generate:
		return "generate"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into an access Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no-access":
		return None
	case "generate", "gen":
		return Generate
	case "admin":
		return Admin
	default:
		return None
	}
}

// CanGenerate returns true if the level allows running generation.
func (l Level) CanGenerate() bool {
	return l >= Generate
}

// CanAdmin returns true if the level allows admin operations.
func (l Level) CanAdmin() bool {
	return l >= Admin
}
