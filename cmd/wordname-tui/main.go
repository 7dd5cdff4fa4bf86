// wordname-tui is a TUI and CLI username generator backed by
// multilingual wordlists. It can run locally or as an SSH server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/cli"
	"github.com/johan-st/wordname-tui/internal/config"
	"github.com/johan-st/wordname-tui/internal/filter"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
	"github.com/johan-st/wordname-tui/internal/server"
	"github.com/johan-st/wordname-tui/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Parse flags
	sshMode := flag.Bool("ssh", false, "run SSH server mode (requires -config)")
	configPath := flag.String("config", "", "path to config file (optional in local mode)")
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wordname-tui %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", buildDate)
		os.Exit(0)
	}

	// SSH server mode
	if *sshMode {
		if *configPath == "" {
			log.Fatal("SSH mode requires -config flag")
		}
		if err := runSSHServer(*configPath); err != nil {
			log.Fatal("SSH server error", "err", err)
		}
		return
	}

	// Local mode - require wordlist path argument
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	pathArg := args[0]
	cmdArgs := args[1:] // Remaining args are command + args

	if len(cmdArgs) > 0 {
		// CLI mode: run command and exit
		if err := runLocalCLI(*configPath, pathArg, cmdArgs); err != nil {
			log.Fatal("command failed", "err", err)
		}
	} else {
		// TUI mode: interactive
		if err := runLocalTUI(*configPath, pathArg); err != nil {
			log.Fatal("TUI error", "err", err)
		}
	}
}

func printUsage() {
	fmt.Println("wordname-tui - Username Generator from multilingual wordlists")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wordname-tui <path>                    Interactive TUI mode")
	fmt.Println("  wordname-tui <path> <command> [args]   CLI mode (run and exit)")
	fmt.Println("  wordname-tui -ssh -config <file>       SSH server mode")
	fmt.Println()
	fmt.Println("Local mode examples:")
	fmt.Println("  wordname-tui ./wordlists/              Open all wordlists in directory")
	fmt.Println("  wordname-tui eng.txt                   Open a single wordlist")
	fmt.Println("  wordname-tui ./wordlists/ langs        List loaded languages")
	fmt.Println("  wordname-tui ./wordlists/ generate --count=10 --suffix=2 --langs=eng,swe")
	fmt.Println("  wordname-tui ./wordlists/ check otter")
	fmt.Println()
	fmt.Println("SSH server example:")
	fmt.Println("  wordname-tui -ssh -config config.yaml")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// localDeps bundles everything local mode needs.
type localDeps struct {
	cfg       *config.Config
	lexStore  *lexicon.Store
	generator *generate.Generator
	importer  *lexicon.Importer
	filter    *filter.Filter
	resolver  *access.Resolver
	user      *access.UserInfo
}

// initLocal loads config, imports the given wordlist path and wires the
// generation pipeline for local mode.
func initLocal(configPath, pathArg string, logTo io.Writer) (*localDeps, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}
	cfg.Wordlists = append(cfg.Wordlists, config.WordlistSource{
		Path:        pathArg,
		Description: "Local wordlists",
		Recursive:   true,
	})

	logger := log.NewWithOptions(logTo, log.Options{ReportTimestamp: true})
	log.SetDefault(logger)

	lexStore, err := lexicon.Open(cfg.GetDataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon: %w", err)
	}

	importer := lexicon.NewImporter(lexStore, nil)
	if err := importer.Bootstrap(context.Background(), cfg.Wordlists); err != nil {
		log.Warn("wordlist import incomplete", "err", err)
	}

	contentFilter := filter.FromConfig(cfg.Denylist)
	generator := generate.New(lexStore, contentFilter, logger)

	// Local user is always admin
	user := &access.UserInfo{
		Name:    "local",
		IsAdmin: true,
	}

	return &localDeps{
		cfg:       cfg,
		lexStore:  lexStore,
		generator: generator,
		importer:  importer,
		filter:    contentFilter,
		resolver:  cfg.BuildResolver(),
		user:      user,
	}, nil
}

// runLocalCLI runs a CLI command in local mode
func runLocalCLI(configPath, pathArg string, cmdArgs []string) error {
	deps, err := initLocal(configPath, pathArg, os.Stderr)
	if err != nil {
		return err
	}
	defer deps.lexStore.Close()

	// No history store in local mode
	handler := cli.NewHandler(deps.lexStore, deps.generator, deps.importer, nil,
		deps.resolver, deps.filter, version)

	ctx := cli.NewLocalContext(deps.user, cmdArgs, os.Stdout, os.Stderr)
	return handler.HandleLocal(ctx)
}

// runLocalTUI runs the interactive TUI in local mode
func runLocalTUI(configPath, pathArg string) error {
	// Logs go to a file so they do not corrupt the TUI
	cfg := config.DefaultConfig()
	if configPath != "" {
		if loaded, err := config.Load(configPath); err == nil {
			cfg = loaded
		}
	}
	logFile, err := openLogFile(cfg.LogFilePath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	deps, err := initLocal(configPath, pathArg, logFile)
	if err != nil {
		return err
	}
	defer deps.lexStore.Close()

	// Get terminal size
	width, height := 80, 24
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			width, height = w, h
		}
	}

	app := tui.NewApp(deps.lexStore, deps.generator, nil, deps.resolver, deps.user,
		"local", requestDefaults(deps.cfg), width, height)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// runSSHServer runs the SSH server mode
func runSSHServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := openLogFile(cfg.LogFilePath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.NewWithOptions(io.MultiWriter(os.Stderr, logFile),
		log.Options{ReportTimestamp: true})
	log.SetDefault(logger)

	// Initialize history store
	historyStore, err := history.NewStore(cfg.GetDataDir())
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	defer historyStore.Close()

	// Initialize lexicon and import wordlists
	lexStore, err := lexicon.Open(cfg.GetDataDir())
	if err != nil {
		return fmt.Errorf("failed to open lexicon: %w", err)
	}
	defer lexStore.Close()

	importer := lexicon.NewImporter(lexStore, nil)
	if err := importer.Bootstrap(context.Background(), cfg.Wordlists); err != nil {
		log.Warn("wordlist import incomplete", "err", err)
	}

	contentFilter := filter.FromConfig(cfg.Denylist)
	generator := generate.New(lexStore, contentFilter, logger)

	// Create and configure SSH server
	sshServer := server.NewServer(cfg, lexStore, generator, historyStore)

	// Watch wordlist sources for new or changed files
	discovery, err := lexicon.NewDiscovery(cfg.Wordlists)
	if err != nil {
		log.Warn("failed to create wordlist discovery", "err", err)
	} else {
		discovery.OnChange(func(added, removed []*lexicon.DiscoveredWordlist) {
			for _, wl := range added {
				if _, err := importer.Import(context.Background(), wl, false); err != nil {
					log.Error("wordlist import failed", "path", wl.Path, "err", err)
				}
			}
		})
		if err := discovery.Start(); err != nil {
			log.Warn("failed to start wordlist discovery", "err", err)
		} else {
			defer discovery.Stop()
		}
	}

	// Start config watcher for hot-reloading
	configWatcher, err := config.NewWatcher(cfg)
	if err != nil {
		log.Warn("failed to create config watcher", "err", err)
	} else {
		configWatcher.OnReload(func(newCfg *config.Config) {
			log.Info("config reloaded, updating access grants")
			sshServer.ReloadAccess(newCfg)
			if discovery != nil {
				if err := discovery.UpdateSources(newCfg.Wordlists); err != nil {
					log.Error("failed to update wordlist sources", "err", err)
				}
			}
		})
		if err := configWatcher.Start(); err != nil {
			log.Warn("failed to start config watcher", "err", err)
		} else {
			defer configWatcher.Stop()
		}
	}

	// Create CLI handler
	cliHandler := cli.NewHandler(lexStore, generator, importer, historyStore,
		sshServer.Resolver(), contentFilter, version)

	sshServer.SetCLIHandler(cliHandler.Handle)
	sshServer.SetTUIHandler(tui.Handler(requestDefaults(cfg)))

	log.Info("starting SSH server", "listen", cfg.Server.SSH.Listen)
	return sshServer.Start()
}

// requestDefaults maps the config's generation block onto a request.
func requestDefaults(cfg *config.Config) generate.Request {
	gen := cfg.Generation

	caseMode, err := generate.ParseCase(gen.Case)
	if err != nil {
		log.Warn("invalid case in config, using lower", "case", gen.Case)
		caseMode = generate.CaseLower
	}
	suffixMode, err := generate.ParseSuffix(gen.Suffix)
	if err != nil {
		log.Warn("invalid suffix in config, using none", "suffix", gen.Suffix)
		suffixMode = generate.SuffixNone
	}
	policy, err := generate.ParsePickPolicy(gen.LanguagePolicy)
	if err != nil {
		log.Warn("invalid language policy in config, using uniform", "policy", gen.LanguagePolicy)
		policy = generate.PickUniform
	}

	count := gen.Count
	if count < 1 {
		count = 40
	}
	retryCap := gen.RetryCap
	if retryCap < 1 {
		retryCap = generate.DefaultRetryCap
	}

	return generate.Request{
		Count:           count,
		Case:            caseMode,
		Suffix:          suffixMode,
		Policy:          policy,
		RetryCap:        retryCap,
		SkipUnavailable: gen.Unavailable == "skip",
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
