package server

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/config"
	"github.com/johan-st/wordname-tui/internal/history"
	gossh "golang.org/x/crypto/ssh"
)

// Authenticator decides who an incoming SSH connection is. Known keys
// map to configured users; unknown keys get an anonymous identity when
// the config allows it.
type Authenticator struct {
	historyStore *history.Store

	mu        sync.RWMutex
	allowAnon bool
	byKey     map[string]access.UserInfo // marshaled public key -> user
	byFP      map[string]access.UserInfo // SHA256 fingerprint -> user
}

// NewAuthenticator builds an authenticator from the config's user list.
func NewAuthenticator(cfg *config.Config, historyStore *history.Store) *Authenticator {
	a := &Authenticator{historyStore: historyStore}
	a.RebuildIndex(cfg)
	return a
}

// RebuildIndex re-reads user keys from config. Called at startup and
// again on config reload.
func (a *Authenticator) RebuildIndex(cfg *config.Config) {
	byKey := make(map[string]access.UserInfo)
	byFP := make(map[string]access.UserInfo)

	for _, user := range cfg.Users {
		info := access.UserInfo{Name: user.Name, IsAdmin: user.Admin}
		for _, entry := range user.PublicKeys {
			entry = strings.TrimSpace(entry)
			if strings.HasPrefix(entry, "SHA256:") {
				byFP[entry] = info
				continue
			}
			parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(entry))
			if err != nil {
				log.Warn("skipping unparseable public key", "user", user.Name, "err", err)
				continue
			}
			byKey[string(parsed.Marshal())] = info
		}
	}

	a.mu.Lock()
	a.allowAnon = cfg.AllowKeyless || cfg.AnonymousAccess != "none"
	a.byKey = byKey
	a.byFP = byFP
	a.mu.Unlock()
}

// PublicKeyHandler returns a handler for public key authentication.
func (a *Authenticator) PublicKeyHandler() ssh.PublicKeyHandler {
	return func(ctx ssh.Context, key ssh.PublicKey) bool {
		fingerprint := FingerprintKey(key)

		if user, ok := a.lookup(key, fingerprint); ok {
			user.PublicKeyFP = fingerprint
			user.RemoteAddr = ctx.RemoteAddr().String()
			ctx.SetValue(ctxKeyUser, &user)
			log.Info("authenticated", "user", user.Name, "addr", ctx.RemoteAddr())
			return true
		}

		a.mu.RLock()
		allowAnon := a.allowAnon
		a.mu.RUnlock()

		if allowAnon {
			anon := a.anonymous(ctx)
			anon.PublicKeyFP = fingerprint
			ctx.SetValue(ctxKeyUser, anon)
			log.Info("anonymous access", "addr", ctx.RemoteAddr(), "as", anon.AnonymousName)
			return true
		}

		log.Warn("authentication failed", "key", fingerprint, "addr", ctx.RemoteAddr())
		return false
	}
}

// KeyboardInteractiveHandler returns a handler for keyboard-interactive
// auth, used for keyless anonymous connections.
func (a *Authenticator) KeyboardInteractiveHandler() ssh.KeyboardInteractiveHandler {
	return func(ctx ssh.Context, challenger gossh.KeyboardInteractiveChallenge) bool {
		anon := a.anonymous(ctx)
		ctx.SetValue(ctxKeyUser, anon)
		log.Info("anonymous keyboard-interactive access", "addr", ctx.RemoteAddr(), "as", anon.AnonymousName)
		return true
	}
}

// lookup returns a copy of the configured user matching the key, so
// per-connection fields never leak between sessions.
func (a *Authenticator) lookup(key ssh.PublicKey, fingerprint string) (access.UserInfo, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if user, ok := a.byKey[string(key.Marshal())]; ok {
		return user, true
	}
	if user, ok := a.byFP[fingerprint]; ok {
		return user, true
	}
	return access.UserInfo{}, false
}

func (a *Authenticator) anonymous(ctx ssh.Context) *access.UserInfo {
	return &access.UserInfo{
		IsAnonymous:   true,
		AnonymousName: a.historyStore.GenerateAnonymousName(),
		RemoteAddr:    ctx.RemoteAddr().String(),
	}
}

// GetUserFromContext retrieves user info from the SSH context.
func GetUserFromContext(ctx ssh.Context) *access.UserInfo {
	if user, ok := ctx.Value(ctxKeyUser).(*access.UserInfo); ok {
		return user
	}
	return nil
}

// FingerprintKey returns the SHA256 fingerprint of a public key.
func FingerprintKey(key ssh.PublicKey) string {
	hash := sha256.Sum256(key.Marshal())
	return fmt.Sprintf("SHA256:%s", base64.StdEncoding.EncodeToString(hash[:]))
}
