package access

// UserInfo identifies a connected user. Anonymous users carry a
// generated name instead of a configured one.
type UserInfo struct {
	Name          string
	IsAdmin       bool
	PublicKeyFP   string
	IsAnonymous   bool
	AnonymousName string
	RemoteAddr    string
}

// DisplayName returns the name shown in the UI and in listings.
func (u *UserInfo) DisplayName() string {
	if u == nil {
		return "unknown"
	}
	if u.IsAnonymous {
		return u.AnonymousName
	}
	return u.Name
}
