package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// cmdGenerate produces usernames.
func (h *Handler) cmdGenerate(ctx *CommandContext) {
	req, ok := h.buildRequest(ctx)
	if !ok {
		return
	}

	runID := uuid.New().String()
	start := time.Now()

	result, runErr := ctx.Generator.Run(ctx.Context(), req, nil)

	if h.historyStore != nil {
		record := history.NewRunRecord(runID, ctx.GetSessionID(), req, result, runErr, time.Since(start))
		if err := h.historyStore.RecordRun(record, result.Usernames); err != nil {
			fmt.Fprintf(ctx.Err, "Warning: failed to record run: %v\n", err)
		}
	}

	if runErr != nil {
		var exhausted *generate.ExhaustedError
		var unavail *lexicon.UnavailableError
		switch {
		case errors.As(runErr, &exhausted):
			fmt.Fprintf(ctx.Err, "Generation exhausted: produced %d of %d usernames\n",
				exhausted.Produced, exhausted.Requested)
		case errors.As(runErr, &unavail):
			fmt.Fprintf(ctx.Err, "Language %s (%s) has no words loaded\n",
				unavail.Lang, unavail.Lang.DisplayName())
			ctx.Exit(1)
			return
		default:
			fmt.Fprintf(ctx.Err, "Generation failed: %v\n", runErr)
			ctx.Exit(1)
			return
		}
	}

	h.printUsernames(ctx, result.Usernames)

	if runErr != nil {
		ctx.Exit(1)
	}
}

// buildRequest parses generation flags into a request.
func (h *Handler) buildRequest(ctx *CommandContext) (generate.Request, bool) {
	req := generate.Request{
		Count:           40,
		SkipUnavailable: false,
	}

	if c := ctx.GetFlag("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			fmt.Fprintf(ctx.Err, "Invalid count: %s\n", c)
			ctx.Exit(1)
			return req, false
		}
		req.Count = n
	}

	caseMode, err := generate.ParseCase(ctx.GetFlag("case"))
	if err != nil {
		fmt.Fprintln(ctx.Err, err)
		ctx.Exit(1)
		return req, false
	}
	req.Case = caseMode

	suffixMode, err := generate.ParseSuffix(ctx.GetFlag("suffix"))
	if err != nil {
		fmt.Fprintln(ctx.Err, err)
		ctx.Exit(1)
		return req, false
	}
	req.Suffix = suffixMode

	policy, err := generate.ParsePickPolicy(ctx.GetFlag("policy"))
	if err != nil {
		fmt.Fprintln(ctx.Err, err)
		ctx.Exit(1)
		return req, false
	}
	req.Policy = policy

	if rc := ctx.GetFlag("retry-cap"); rc != "" {
		n, err := strconv.Atoi(rc)
		if err != nil || n <= 0 {
			fmt.Fprintf(ctx.Err, "Invalid retry cap: %s\n", rc)
			ctx.Exit(1)
			return req, false
		}
		req.RetryCap = n
	}

	req.SkipUnavailable = ctx.HasFlag("skip-unavailable")

	if langsFlag := ctx.GetFlag("langs"); langsFlag != "" {
		for _, raw := range strings.Split(langsFlag, ",") {
			lang, err := lexicon.ParseTag(strings.TrimSpace(raw))
			if err != nil {
				fmt.Fprintln(ctx.Err, err)
				ctx.Exit(1)
				return req, false
			}
			if !ctx.RequireGenerate(lang) {
				return req, false
			}
			req.Languages = append(req.Languages, lang)
		}
	} else {
		req.Languages = ctx.accessibleLanguages()
		if len(req.Languages) == 0 {
			fmt.Fprintln(ctx.Err, "No languages available. Import a wordlist first.")
			ctx.Exit(1)
			return req, false
		}
	}

	return req, true
}

// printUsernames writes usernames in the requested format.
func (h *Handler) printUsernames(ctx *CommandContext, usernames []generate.Username) {
	switch ctx.GetFlag("format") {
	case "json":
		result := make([]map[string]string, 0, len(usernames))
		for _, u := range usernames {
			entry := map[string]string{
				"username": u.Value,
				"language": string(u.Lang),
			}
			if u.Suffix != "" {
				entry["suffix"] = u.Suffix
			}
			result = append(result, entry)
		}
		printJSON(ctx.Out, result)

	case "plain":
		for _, u := range usernames {
			fmt.Fprintln(ctx.Out, u.Value)
		}

	default:
		if len(usernames) == 0 {
			fmt.Fprintln(ctx.Out, "No usernames generated")
			return
		}
		fmt.Fprintln(ctx.Out, "USERNAME\tLANGUAGE")
		for _, u := range usernames {
			fmt.Fprintf(ctx.Out, "%s\t%s\n", u.Value, u.Lang.DisplayName())
		}
	}
}

// cmdCheck runs a single word through the formatter and filter.
func (h *Handler) cmdCheck(ctx *CommandContext) {
	word, ok := ctx.RequireArg(0, "word")
	if !ok {
		return
	}

	normalized, err := generate.Normalize(word)
	if err != nil {
		fmt.Fprintf(ctx.Out, "%s: not usable (%v)\n", word, err)
		ctx.Exit(1)
		return
	}

	if !h.generatorFilterClean(normalized) {
		fmt.Fprintf(ctx.Out, "%s: rejected by content filter\n", word)
		ctx.Exit(1)
		return
	}

	fmt.Fprintf(ctx.Out, "%s: ok (normalizes to %q)\n", word, normalized)
}

// generatorFilterClean checks a word against the handler's filter.
func (h *Handler) generatorFilterClean(word string) bool {
	if h.checkFilter == nil {
		return true
	}
	return h.checkFilter.IsClean(word)
}
