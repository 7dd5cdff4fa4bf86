package access

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Grant gives a level for one language pattern. Patterns are doublestar
// globs matched against language tags ("*", "n??", "eng").
type Grant struct {
	Pattern string
	Level   Level
}

// Resolver resolves the access level a user has for a language.
type Resolver struct {
	// Default level for anonymous users (applies to every language).
	AnonymousAccess Level

	// Public grants apply to every user, authenticated or not.
	PublicGrants []Grant

	// User-specific grants (keyed by username).
	UserGrants map[string][]Grant

	// Admin usernames (have full access to every language).
	Admins map[string]bool
}

// NewResolver creates a new access resolver.
func NewResolver() *Resolver {
	return &Resolver{
		AnonymousAccess: None,
		PublicGrants:    make([]Grant, 0),
		UserGrants:      make(map[string][]Grant),
		Admins:          make(map[string]bool),
	}
}

// SetAnonymousAccess sets the default level for anonymous users.
func (r *Resolver) SetAnonymousAccess(level Level) {
	r.AnonymousAccess = level
}

// AddAdmin marks a user as admin.
func (r *Resolver) AddAdmin(username string) {
	r.Admins[username] = true
}

// AddPublicGrant adds a grant that applies to everyone.
func (r *Resolver) AddPublicGrant(pattern string, level Level) {
	r.PublicGrants = append(r.PublicGrants, Grant{Pattern: pattern, Level: level})
}

// AddUserGrant adds a language grant for a specific user.
func (r *Resolver) AddUserGrant(username, pattern string, level Level) {
	r.UserGrants[username] = append(r.UserGrants[username], Grant{Pattern: pattern, Level: level})
}

// Resolve determines the access level for a user to a language tag.
func (r *Resolver) Resolve(user *UserInfo, lang string) Level {
	// 1. Admins (via flag or admin list) have full access.
	if user != nil && user.IsAdmin {
		return Admin
	}
	if user != nil && !user.IsAnonymous && r.Admins[user.Name] {
		return Admin
	}

	// 2. User-specific grants.
	if user != nil && !user.IsAnonymous {
		if grants, ok := r.UserGrants[user.Name]; ok {
			if level := matchGrants(grants, lang); level != None {
				return level
			}
		}
	}

	// 3. Public grants.
	if level := matchGrants(r.PublicGrants, lang); level != None {
		return level
	}

	// 4. Anonymous level applies only to anonymous identities; an
	// authenticated user with no matching grant gets nothing.
	if user == nil || user.IsAnonymous {
		return r.AnonymousAccess
	}
	return None
}

// matchGrants finds the first matching grant and returns its level.
// Returns None if no grant matches.
func matchGrants(grants []Grant, lang string) Level {
	for _, g := range grants {
		if matchPattern(g.Pattern, lang) {
			return g.Level
		}
	}
	return None
}

// matchPattern checks if a grant pattern matches a language tag.
func matchPattern(pattern, lang string) bool {
	pattern = strings.TrimSpace(pattern)
	lang = strings.TrimSpace(lang)

	if pattern == lang {
		return true
	}

	matched, _ := doublestar.Match(pattern, lang)
	return matched
}

// CanGenerate returns true if the user may generate from the language.
func (r *Resolver) CanGenerate(user *UserInfo, lang string) bool {
	return r.Resolve(user, lang).CanGenerate()
}

// FilterLanguages returns the subset of langs the user may generate from.
func (r *Resolver) FilterLanguages(user *UserInfo, langs []string) []string {
	allowed := make([]string, 0, len(langs))
	for _, lang := range langs {
		if r.CanGenerate(user, lang) {
			allowed = append(allowed, lang)
		}
	}
	return allowed
}
