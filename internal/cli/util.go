package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// cmdWhoami shows current user information.
func (h *Handler) cmdWhoami(ctx *CommandContext) {
	if ctx.User == nil {
		fmt.Fprintln(ctx.Out, "Not authenticated")
		return
	}

	if ctx.GetFlag("format") == "json" {
		info := map[string]any{
			"name":       ctx.User.DisplayName(),
			"admin":      ctx.User.IsAdmin,
			"anonymous":  ctx.User.IsAnonymous,
			"session_id": ctx.GetSessionID(),
		}
		if ctx.User.PublicKeyFP != "" {
			info["public_key_fp"] = ctx.User.PublicKeyFP
		}
		printJSON(ctx.Out, info)
		return
	}

	fmt.Fprintf(ctx.Out, "User:\t%s\n", ctx.User.DisplayName())
	fmt.Fprintf(ctx.Out, "Admin:\t%v\n", ctx.User.IsAdmin)
	fmt.Fprintf(ctx.Out, "Anonymous:\t%v\n", ctx.User.IsAnonymous)
	if ctx.User.PublicKeyFP != "" {
		fmt.Fprintf(ctx.Out, "Key:\t%s\n", ctx.User.PublicKeyFP)
	}
	fmt.Fprintf(ctx.Out, "Session:\t%s\n", ctx.GetSessionID())
}

// cmdHelp shows help information.
func (h *Handler) cmdHelp(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()

	if len(args) > 0 {
		h.showCommandHelp(ctx, args[0])
		return
	}

	fmt.Fprintln(ctx.Out, `wordname-tui - Username generator backed by a multilingual lexicon

USAGE:
  ssh host command [arguments] [options]

GENERATION COMMANDS:
  generate, gen                    Generate usernames
  check <word>                     Check a word against formatter and filter

LEXICON COMMANDS:
  langs, languages                 List languages and word counts
  import <file>                    Import a wordlist (admin)

HISTORY COMMANDS:
  history                          List past generation runs
  run <run-id>                     Show usernames from one run

ADMIN COMMANDS (requires admin access):
  sessions                         List active sessions

UTILITY COMMANDS:
  whoami                           Show current user info
  help [command]                   Show help
  version                          Show version

COMMON OPTIONS:
  --format=json                    Output in JSON format
  --format=plain                   Output usernames only, one per line
  --limit=N                        Limit number of rows

Run 'help <command>' for detailed help on a specific command.`)
}

// showCommandHelp shows help for a specific command.
func (h *Handler) showCommandHelp(ctx *CommandContext, command string) {
	help := map[string]string{
		"generate": `generate - Generate usernames

USAGE:
  generate [options]

OPTIONS:
  --count=N              Number of usernames (default: 40)
  --case=MODE            lower, upper or capitalized (default: lower)
  --suffix=MODE          none, 1, 2 or 3 digit suffix (default: none)
  --langs=eng,swe        Comma-separated language tags (default: all accessible)
  --policy=MODE          uniform or round-robin language picking
  --retry-cap=N          Attempts per username before giving up
  --skip-unavailable     Proceed when a requested language has no words
  --format=json|plain    Output format

EXAMPLES:
  generate --count=10 --case=capitalized --suffix=2
  generate --langs=fin,swe --format=plain`,

		"check": `check - Check a word

USAGE:
  check <word>

Runs the word through the formatter and content filter and reports
whether it would be usable as a username.`,

		"langs": `langs, languages - List languages

USAGE:
  langs [--loaded] [--format=json]

OPTIONS:
  --loaded         Only show languages with imported words
  --format=json    Output in JSON format`,

		"import": `import - Import a wordlist (admin)

USAGE:
  import <file> [options]

OPTIONS:
  --lang=TAG    Language tag (default: derived from filename)
  --force       Re-import even if the file is unchanged

The wordlist should contain one word per line. Tab-separated files
use the first column.`,

		"history": `history - List past generation runs

USAGE:
  history [--limit=N] [--format=json]

Admins see all runs; other users see their own.`,

		"run": `run - Show usernames from one run

USAGE:
  run <run-id> [--format=json]

The run id is shown by the history command.`,
	}

	if text, ok := help[command]; ok {
		fmt.Fprintln(ctx.Out, text)
	} else {
		fmt.Fprintf(ctx.Out, "No detailed help available for '%s'\n", command)
	}
}

// cmdVersion shows version information.
func (h *Handler) cmdVersion(ctx *CommandContext) {
	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, map[string]string{"version": h.version})
		return
	}
	fmt.Fprintf(ctx.Out, "wordname-tui %s\n", h.version)
}

// printJSON writes JSON to a writer.
func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
