// Package cli implements the command-line interface for both SSH and local modes.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/ssh"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
	"github.com/johan-st/wordname-tui/internal/server"
)

// Handler handles CLI commands over SSH or locally.
type Handler struct {
	lexStore     *lexicon.Store
	generator    *generate.Generator
	importer     *lexicon.Importer
	historyStore *history.Store
	resolver     *access.Resolver
	checkFilter  generate.Cleaner
	version      string
}

// NewHandler creates a new CLI handler.
func NewHandler(lexStore *lexicon.Store, generator *generate.Generator, importer *lexicon.Importer, historyStore *history.Store, resolver *access.Resolver, checkFilter generate.Cleaner, version string) *Handler {
	return &Handler{
		lexStore:     lexStore,
		generator:    generator,
		importer:     importer,
		historyStore: historyStore,
		resolver:     resolver,
		checkFilter:  checkFilter,
		version:      version,
	}
}

// LocalContext wraps command execution for local (non-SSH) mode.
type LocalContext struct {
	User *access.UserInfo
	Args []string
	Out  io.Writer
	Err  io.Writer
}

// NewLocalContext creates a context for local CLI execution.
func NewLocalContext(user *access.UserInfo, args []string, out, errOut io.Writer) *LocalContext {
	return &LocalContext{
		User: user,
		Args: args,
		Out:  out,
		Err:  errOut,
	}
}

// HandleLocal processes a CLI command in local mode (no SSH session).
func (h *Handler) HandleLocal(lctx *LocalContext) error {
	if len(lctx.Args) == 0 {
		fmt.Fprintln(lctx.Out, "No command specified. Run 'help' for usage.")
		return nil
	}

	ctx := &CommandContext{
		Session:      nil, // No SSH session in local mode
		User:         lctx.User,
		SessionInfo:  nil,
		Lexicon:      h.lexStore,
		Generator:    h.generator,
		HistoryStore: h.historyStore,
		Resolver:     h.resolver,
		Args:         lctx.Args[1:],
		Out:          lctx.Out,
		Err:          lctx.Err,
		exitCode:     0,
	}

	h.routeCommand(lctx.Args[0], ctx)

	if ctx.exitCode != 0 {
		return fmt.Errorf("command failed with exit code %d", ctx.exitCode)
	}
	return nil
}

// Handle processes an SSH session with a CLI command.
func (h *Handler) Handle(s ssh.Session) {
	cmd := s.Command()
	if len(cmd) == 0 {
		fmt.Fprintln(s, "No command specified. Run 'help' for usage.")
		return
	}

	// Get user and session info
	user := server.GetUserFromContext(s.Context())
	session := server.GetSessionFromSSH(s)

	resolver := server.GetResolverFromSSH(s)
	if resolver == nil {
		resolver = h.resolver
	}

	ctx := &CommandContext{
		Session:      s,
		User:         user,
		SessionInfo:  session,
		Lexicon:      h.lexStore,
		Generator:    h.generator,
		HistoryStore: h.historyStore,
		Resolver:     resolver,
		Args:         cmd[1:],
		Out:          s,
		Err:          s.Stderr(),
		exitCode:     0,
	}

	h.routeCommand(cmd[0], ctx)

	if ctx.exitCode != 0 {
		s.Exit(ctx.exitCode)
	}
}

// routeCommand routes a command to its handler.
func (h *Handler) routeCommand(cmd string, ctx *CommandContext) {
	switch cmd {
	// Generation commands
	case "generate", "gen":
		h.cmdGenerate(ctx)
	case "check":
		h.cmdCheck(ctx)

	// Lexicon commands
	case "langs", "languages":
		h.cmdLangs(ctx)
	case "import":
		h.cmdImport(ctx)

	// History commands
	case "history":
		h.cmdHistory(ctx)
	case "run":
		h.cmdRun(ctx)

	// Admin commands
	case "sessions":
		h.cmdSessions(ctx)

	// Utility commands
	case "whoami":
		h.cmdWhoami(ctx)
	case "help":
		h.cmdHelp(ctx)
	case "version":
		h.cmdVersion(ctx)

	default:
		fmt.Fprintf(ctx.Err, "Unknown command: %s\n", cmd)
		fmt.Fprintln(ctx.Err, "Run 'help' for usage.")
		ctx.Exit(1)
	}
}

// CommandContext provides context for command execution.
type CommandContext struct {
	Session      ssh.Session // nil in local mode
	User         *access.UserInfo
	SessionInfo  *server.Session
	Lexicon      *lexicon.Store
	Generator    *generate.Generator
	HistoryStore *history.Store
	Resolver     *access.Resolver
	Args         []string
	Out          io.Writer
	Err          io.Writer
	exitCode     int
}

// Exit sets the exit code (used instead of calling Session.Exit directly).
func (c *CommandContext) Exit(code int) {
	c.exitCode = code
}

// Context returns the cancellation context for the command.
func (c *CommandContext) Context() context.Context {
	if c.Session != nil {
		return c.Session.Context()
	}
	return context.Background()
}

// GetSessionID returns the session ID or empty string.
func (c *CommandContext) GetSessionID() string {
	if c.SessionInfo != nil {
		return c.SessionInfo.ID
	}
	return ""
}

// RequireArg ensures an argument is provided.
func (c *CommandContext) RequireArg(index int, name string) (string, bool) {
	if index >= len(c.Args) {
		fmt.Fprintf(c.Err, "Missing required argument: %s\n", name)
		c.Exit(1)
		return "", false
	}
	return c.Args[index], true
}

// GetFlag returns a flag value from args (e.g., --format=json).
func (c *CommandContext) GetFlag(name string) string {
	prefix := "--" + name + "="
	shortPrefix := "-" + name + "="
	for _, arg := range c.Args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix)
		}
		if strings.HasPrefix(arg, shortPrefix) {
			return strings.TrimPrefix(arg, shortPrefix)
		}
	}
	return ""
}

// HasFlag checks if a boolean flag is present.
func (c *CommandContext) HasFlag(name string) bool {
	flag := "--" + name
	shortFlag := "-" + name
	for _, arg := range c.Args {
		if arg == flag || arg == shortFlag {
			return true
		}
	}
	return false
}

// GetPositionalArgs returns args that are not flags.
func (c *CommandContext) GetPositionalArgs() []string {
	var result []string
	for _, arg := range c.Args {
		if !strings.HasPrefix(arg, "-") {
			result = append(result, arg)
		}
	}
	return result
}

// RequireGenerate checks if user may generate from a language.
func (c *CommandContext) RequireGenerate(lang lexicon.Tag) bool {
	if c.Resolver == nil {
		return true
	}
	if !c.Resolver.CanGenerate(c.User, string(lang)) {
		fmt.Fprintf(c.Err, "Access denied: no access to language %s\n", lang)
		c.Exit(1)
		return false
	}
	return true
}

// RequireAdmin checks if user has admin access.
func (c *CommandContext) RequireAdmin() bool {
	if c.User == nil || !c.User.IsAdmin {
		fmt.Fprintln(c.Err, "Access denied: admin access required")
		c.Exit(1)
		return false
	}
	return true
}

// accessibleLanguages returns the loaded languages the user may
// generate from.
func (c *CommandContext) accessibleLanguages() []lexicon.Tag {
	loaded := c.Lexicon.Languages()
	if c.Resolver == nil || (c.User != nil && c.User.IsAdmin) {
		return loaded
	}

	names := make([]string, len(loaded))
	for i, l := range loaded {
		names[i] = string(l)
	}
	allowed := c.Resolver.FilterLanguages(c.User, names)

	tags := make([]lexicon.Tag, len(allowed))
	for i, n := range allowed {
		tags[i] = lexicon.Tag(n)
	}
	return tags
}
