package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/server"
)

// cmdSessions lists active SSH sessions.
func (h *Handler) cmdSessions(ctx *CommandContext) {
	if !ctx.RequireAdmin() {
		return
	}

	// Get session manager from SSH context (only available in SSH mode)
	if ctx.Session == nil {
		fmt.Fprintln(ctx.Err, "sessions command is only available in SSH server mode")
		ctx.Exit(1)
		return
	}

	sessionMgr := server.GetSessionMgrFromSSH(ctx.Session)
	if sessionMgr == nil {
		fmt.Fprintln(ctx.Err, "Session manager not available")
		ctx.Exit(1)
		return
	}

	sessions := sessionMgr.Active()

	runStats := func(id string) (int, int) {
		if h.historyStore == nil {
			return 0, 0
		}
		runs, produced, err := h.historyStore.SessionRunStats(id)
		if err != nil {
			return 0, 0
		}
		return runs, produced
	}

	if ctx.GetFlag("format") == "json" {
		result := make([]map[string]any, 0, len(sessions))
		for _, s := range sessions {
			runs, produced := runStats(s.ID)
			result = append(result, map[string]any{
				"id":          s.ID,
				"user":        s.User.DisplayName(),
				"remote_addr": s.RemoteAddr,
				"duration":    s.Duration().String(),
				"idle":        s.IdleTime().String(),
				"runs":        runs,
				"names":       produced,
			})
		}
		printJSON(ctx.Out, result)
		return
	}

	if len(sessions) == 0 {
		fmt.Fprintln(ctx.Out, "No active sessions")
		return
	}

	fmt.Fprintln(ctx.Out, "ID\tUSER\tREMOTE\tDURATION\tIDLE\tRUNS\tNAMES")
	for _, s := range sessions {
		runs, produced := runStats(s.ID)
		fmt.Fprintf(ctx.Out, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			s.ID[:8],
			s.User.DisplayName(),
			s.RemoteAddr,
			formatDuration(s.Duration()),
			formatDuration(s.IdleTime()),
			runs,
			produced)
	}
}

// cmdHistory lists past generation runs.
func (h *Handler) cmdHistory(ctx *CommandContext) {
	if h.historyStore == nil {
		fmt.Fprintln(ctx.Err, "History not available")
		ctx.Exit(1)
		return
	}

	limit := 50
	if l := ctx.GetFlag("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}

	var runs []*history.RunRecord
	var err error
	if ctx.User != nil && !ctx.User.IsAdmin && !ctx.User.IsAnonymous {
		// Non-admin users only see their own runs.
		runs, err = h.historyStore.ListRunsForUser(ctx.User.Name, limit)
	} else {
		runs, err = h.historyStore.ListRuns("", time.Time{}, limit)
	}
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error fetching history: %v\n", err)
		ctx.Exit(1)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, runs)
		return
	}

	if len(runs) == 0 {
		fmt.Fprintln(ctx.Out, "No generation history")
		return
	}

	fmt.Fprintln(ctx.Out, "TIME\tRUN\tLANGUAGES\tREQUESTED\tPRODUCED\tOUTCOME")
	for _, r := range runs {
		fmt.Fprintf(ctx.Out, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.CreatedAt.Format("15:04:05"),
			r.RunID[:8],
			r.Languages,
			r.Requested,
			r.Produced,
			r.Outcome)
	}
}

// cmdRun shows the usernames of one past run.
func (h *Handler) cmdRun(ctx *CommandContext) {
	if h.historyStore == nil {
		fmt.Fprintln(ctx.Err, "History not available")
		ctx.Exit(1)
		return
	}

	runID, ok := ctx.RequireArg(0, "run id")
	if !ok {
		return
	}

	usernames, err := h.historyStore.GetRunUsernames(runID)
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error fetching run: %v\n", err)
		ctx.Exit(1)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, usernames)
		return
	}

	if len(usernames) == 0 {
		fmt.Fprintln(ctx.Out, "No usernames recorded for that run")
		return
	}

	fmt.Fprintln(ctx.Out, "POSITION\tUSERNAME\tLANGUAGE")
	for _, u := range usernames {
		fmt.Fprintf(ctx.Out, "%d\t%s\t%s\n", u.Position, u.Value, u.Lang)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
