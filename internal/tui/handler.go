package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/server"
)

// Handler returns a bubbletea middleware handler for SSH sessions.
func Handler(defaults generate.Request) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		user := server.GetUserFromContext(s.Context())
		pty, _, ok := s.Pty()
		if !ok {
			// This shouldn't happen as routing middleware checks for PTY
			return nil, nil
		}

		lexStore := server.GetLexiconFromSSH(s)
		generator := server.GetGeneratorFromSSH(s)
		historyStore := server.GetHistoryFromSSH(s)
		resolver := server.GetResolverFromSSH(s)

		sessionID := ""
		if sess := server.GetSessionFromSSH(s); sess != nil {
			sessionID = sess.ID
		}

		app := NewApp(lexStore, generator, historyStore, resolver, user, sessionID,
			defaults, pty.Window.Width, pty.Window.Height)

		return app, []tea.ProgramOption{
			tea.WithAltScreen(),
		}
	}
}
