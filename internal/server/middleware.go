package server

import (
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Context keys for middleware values
type ctxKey string

const (
	ctxKeySession    ctxKey = "session"
	ctxKeyUser       ctxKey = "user"
	ctxKeyLexicon    ctxKey = "lexicon"
	ctxKeyGenerator  ctxKey = "generator"
	ctxKeyHistory    ctxKey = "history"
	ctxKeyResolver   ctxKey = "resolver"
	ctxKeySessionMgr ctxKey = "session_mgr"
)

// SessionMiddleware creates sessions for each connection.
func SessionMiddleware(sessionMgr *SessionManager) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			user := GetUserFromContext(s.Context())
			if user == nil {
				// Create anonymous user if not authenticated
				user = &access.UserInfo{
					IsAnonymous:   true,
					AnonymousName: "unknown",
					RemoteAddr:    s.RemoteAddr().String(),
				}
			}

			session := sessionMgr.Open(user, s.RemoteAddr().String())

			s.Context().SetValue(ctxKeySession, session)
			s.Context().SetValue(ctxKeySessionMgr, sessionMgr)

			defer sessionMgr.Close(session.ID)

			sessionMgr.Touch(session.ID)
			next(s)
		}
	}
}

// depsMiddleware injects the lexicon store, generator, history store
// and access resolver into the session context.
func (srv *Server) depsMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			s.Context().SetValue(ctxKeyLexicon, srv.lexStore)
			s.Context().SetValue(ctxKeyGenerator, srv.generator)
			s.Context().SetValue(ctxKeyHistory, srv.historyStore)
			s.Context().SetValue(ctxKeyResolver, srv.Resolver())
			next(s)
		}
	}
}

// LoggingMiddleware logs connections.
func LoggingMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			user := GetUserFromContext(s.Context())
			userName := "anonymous"
			if user != nil {
				userName = user.DisplayName()
			}

			log.Info("connected", "addr", s.RemoteAddr(), "user", userName, "command", s.Command())

			next(s)

			log.Info("disconnected", "addr", s.RemoteAddr(), "user", userName)
		}
	}
}

// GetSessionFromSSH retrieves the session from the SSH session context.
func GetSessionFromSSH(s ssh.Session) *Session {
	if session, ok := s.Context().Value(ctxKeySession).(*Session); ok {
		return session
	}
	return nil
}

// GetLexiconFromSSH retrieves the lexicon store from the SSH session context.
func GetLexiconFromSSH(s ssh.Session) *lexicon.Store {
	if store, ok := s.Context().Value(ctxKeyLexicon).(*lexicon.Store); ok {
		return store
	}
	return nil
}

// GetGeneratorFromSSH retrieves the generator from the SSH session context.
func GetGeneratorFromSSH(s ssh.Session) *generate.Generator {
	if gen, ok := s.Context().Value(ctxKeyGenerator).(*generate.Generator); ok {
		return gen
	}
	return nil
}

// GetHistoryFromSSH retrieves the history store from the SSH session context.
func GetHistoryFromSSH(s ssh.Session) *history.Store {
	if store, ok := s.Context().Value(ctxKeyHistory).(*history.Store); ok {
		return store
	}
	return nil
}

// GetResolverFromSSH retrieves the access resolver from the SSH session context.
func GetResolverFromSSH(s ssh.Session) *access.Resolver {
	if resolver, ok := s.Context().Value(ctxKeyResolver).(*access.Resolver); ok {
		return resolver
	}
	return nil
}

// GetSessionMgrFromSSH retrieves the session manager from the SSH session context.
func GetSessionMgrFromSSH(s ssh.Session) *SessionManager {
	if mgr, ok := s.Context().Value(ctxKeySessionMgr).(*SessionManager); ok {
		return mgr
	}
	return nil
}
