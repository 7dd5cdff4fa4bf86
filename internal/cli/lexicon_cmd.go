package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// cmdLangs lists supported languages and their loaded word counts.
func (h *Handler) cmdLangs(ctx *CommandContext) {
	loadedOnly := ctx.HasFlag("loaded")

	type langInfo struct {
		Tag    string `json:"tag"`
		Name   string `json:"name"`
		Words  int    `json:"words"`
		Loaded bool   `json:"loaded"`
	}

	var infos []langInfo
	for _, tag := range lexicon.Supported() {
		count := ctx.Lexicon.Count(tag)
		if loadedOnly && count == 0 {
			continue
		}
		infos = append(infos, langInfo{
			Tag:    string(tag),
			Name:   tag.DisplayName(),
			Words:  count,
			Loaded: count > 0,
		})
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, infos)
		return
	}

	fmt.Fprintln(ctx.Out, "TAG\tLANGUAGE\tWORDS")
	for _, info := range infos {
		words := "-"
		if info.Loaded {
			words = humanize.Comma(int64(info.Words))
		}
		fmt.Fprintf(ctx.Out, "%s\t%s\t%s\n", info.Tag, info.Name, words)
	}
	fmt.Fprintf(ctx.Out, "\nTotal: %s words across %d languages\n",
		humanize.Comma(int64(ctx.Lexicon.TotalWords())), len(ctx.Lexicon.Languages()))
}

// cmdImport loads a wordlist file into the lexicon.
func (h *Handler) cmdImport(ctx *CommandContext) {
	if !ctx.RequireAdmin() {
		return
	}

	if h.importer == nil {
		fmt.Fprintln(ctx.Err, "Importer not available")
		ctx.Exit(1)
		return
	}

	path, ok := ctx.RequireArg(0, "wordlist path")
	if !ok {
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(ctx.Err, "Invalid path: %v\n", err)
		ctx.Exit(1)
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		fmt.Fprintf(ctx.Err, "Cannot read wordlist: %v\n", err)
		ctx.Exit(1)
		return
	}

	// Language from flag or filename stem.
	rawLang := ctx.GetFlag("lang")
	if rawLang == "" {
		rawLang = strings.ToLower(strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath)))
	}
	lang, err := lexicon.ParseTag(rawLang)
	if err != nil {
		fmt.Fprintln(ctx.Err, err)
		ctx.Exit(1)
		return
	}

	wl := &lexicon.DiscoveredWordlist{
		Path:    absPath,
		Lang:    lang,
		Size:    info.Size(),
		ModTime: info.ModTime().Unix(),
	}

	imported, err := h.importer.Import(ctx.Context(), wl, ctx.HasFlag("force"))
	if err != nil {
		fmt.Fprintf(ctx.Err, "Import failed: %v\n", err)
		ctx.Exit(1)
		return
	}

	if imported == 0 {
		fmt.Fprintf(ctx.Out, "%s already up to date (use --force to re-import)\n", lang)
		return
	}
	fmt.Fprintf(ctx.Out, "Imported %s words for %s (%s)\n",
		humanize.Comma(int64(imported)), lang, lang.DisplayName())
}
