// Package server serves the username generator over SSH.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/config"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Server is the SSH server for wordname-tui.
type Server struct {
	config        *config.Config
	lexStore      *lexicon.Store
	generator     *generate.Generator
	historyStore  *history.Store
	sessionMgr    *SessionManager
	authenticator *Authenticator
	sshServer     *ssh.Server
	tuiHandler    bubbletea.Handler
	cliHandler    func(ssh.Session)

	resolver   *access.Resolver
	resolverMu sync.RWMutex
}

// NewServer creates a new SSH server.
func NewServer(cfg *config.Config, lexStore *lexicon.Store, generator *generate.Generator, historyStore *history.Store) *Server {
	sessionMgr := NewSessionManager(historyStore)
	authenticator := NewAuthenticator(cfg, historyStore)

	return &Server{
		config:        cfg,
		lexStore:      lexStore,
		generator:     generator,
		historyStore:  historyStore,
		sessionMgr:    sessionMgr,
		authenticator: authenticator,
		resolver:      cfg.BuildResolver(),
	}
}

// SetTUIHandler sets the Bubble Tea handler for interactive sessions.
func (s *Server) SetTUIHandler(handler bubbletea.Handler) {
	s.tuiHandler = handler
}

// SetCLIHandler sets the handler for CLI commands.
func (s *Server) SetCLIHandler(handler func(ssh.Session)) {
	s.cliHandler = handler
}

// Resolver returns the current access resolver.
func (s *Server) Resolver() *access.Resolver {
	s.resolverMu.RLock()
	defer s.resolverMu.RUnlock()
	return s.resolver
}

// ReloadAccess rebuilds the resolver and the key index from config.
// Called on config reload.
func (s *Server) ReloadAccess(cfg *config.Config) {
	resolver := cfg.BuildResolver()
	s.resolverMu.Lock()
	s.resolver = resolver
	s.resolverMu.Unlock()

	s.authenticator.RebuildIndex(cfg)
	log.Info("access rules reloaded")
}

// buildServer constructs the wish server with the middleware chain.
func (s *Server) buildServer() (*ssh.Server, error) {
	// Ensure host key directory exists
	keyDir := filepath.Dir(s.config.Server.SSH.HostKeyPath)
	if err := os.MkdirAll(keyDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create host key directory: %w", err)
	}

	// Build middleware chain
	middleware := []wish.Middleware{
		// Order matters: last middleware wraps first
		s.routingMiddleware(),           // Route to TUI or CLI
		SessionMiddleware(s.sessionMgr), // Create session
		s.depsMiddleware(),              // Inject lexicon, generator, history, resolver
		LoggingMiddleware(),             // Log connections
	}

	opts := []ssh.Option{
		wish.WithAddress(s.config.Server.SSH.Listen),
		wish.WithHostKeyPath(s.config.Server.SSH.HostKeyPath),
		wish.WithPublicKeyAuth(s.authenticator.PublicKeyHandler()),
		wish.WithMiddleware(middleware...),
	}

	// Add keyboard-interactive auth if keyless is allowed
	if s.config.AllowKeyless {
		opts = append(opts, wish.WithKeyboardInteractiveAuth(s.authenticator.KeyboardInteractiveHandler()))
	}

	// Add timeouts
	if s.config.GetIdleTimeout() > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.config.GetIdleTimeout()))
	}
	if s.config.GetMaxTimeout() > 0 {
		opts = append(opts, wish.WithMaxTimeout(s.config.GetMaxTimeout()))
	}

	return wish.NewServer(opts...)
}

// Start starts the SSH server and blocks until interrupted.
func (s *Server) Start() error {
	server, err := s.buildServer()
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.sshServer = server

	log.Info("starting SSH server", "addr", s.config.Server.SSH.Listen)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
			log.Error("SSH server error", "err", err)
		}
	}()

	<-done
	log.Info("shutting down SSH server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// ListenAndServe starts the server without signal handling (for embedding).
func (s *Server) ListenAndServe() error {
	server, err := s.buildServer()
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.sshServer = server

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sshServer != nil {
		return s.sshServer.Shutdown(ctx)
	}
	return nil
}

// GetAddr returns the server's listen address string.
func (s *Server) GetAddr() string {
	if s.sshServer != nil {
		return s.sshServer.Addr
	}
	return ""
}

// routingMiddleware routes requests to either TUI or CLI handler.
func (s *Server) routingMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			cmd := sess.Command()

			// If command is provided, use CLI handler
			if len(cmd) > 0 {
				if s.cliHandler != nil {
					s.cliHandler(sess)
				} else {
					wish.Fatalln(sess, "CLI commands not available")
				}
				return
			}

			// No command, use TUI handler
			_, _, hasPty := sess.Pty()
			if !hasPty {
				wish.Fatalln(sess, "PTY required for interactive mode. Use -t flag or provide a command.")
				return
			}

			if s.tuiHandler != nil {
				btMiddleware := bubbletea.Middleware(s.tuiHandler)
				btMiddleware(next)(sess)
			} else {
				wish.Fatalln(sess, "TUI not available")
			}
		}
	}
}
