// Package config handles configuration file parsing and hot-reloading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/johan-st/wordname-tui/internal/access"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Name   string       `yaml:"name"`
	Server ServerConfig `yaml:"server"`

	// Directory for the lexicon database, history database, host key
	// and log file.
	DataDir string `yaml:"data_dir"`

	// Wordlist sources - file paths, directories, or globs, optionally
	// with a download URL used when the file is missing.
	Wordlists []WordlistSource `yaml:"wordlists"`

	// Language tags enabled for generation. Empty means every language
	// with loaded words.
	Languages []string `yaml:"languages"`

	// Denylist extends the built-in profanity filter.
	Denylist DenylistConfig `yaml:"denylist"`

	// Generation defaults used when a request leaves a field unset.
	Generation GenerationConfig `yaml:"generation"`

	// Anonymous access level (none, generate, admin).
	AnonymousAccess string `yaml:"anonymous_access"`

	// Allow keyless SSH connections.
	AllowKeyless bool `yaml:"allow_keyless"`

	// Users and their language grants.
	Users []User `yaml:"users"`

	// Public language grants (apply to everyone).
	Public []PublicLanguage `yaml:"public"`

	// Internal: path to the config file
	path string

	// Internal: last modified time
	modTime time.Time

	mu sync.RWMutex
}

// ServerConfig contains server-related configuration.
type ServerConfig struct {
	SSH   SSHConfig   `yaml:"ssh"`
	Local LocalConfig `yaml:"local"`
}

// SSHConfig contains SSH server configuration.
type SSHConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Listen      string `yaml:"listen"`
	HostKeyPath string `yaml:"host_key_path"`
	IdleTimeout string `yaml:"idle_timeout"`
	MaxTimeout  string `yaml:"max_timeout"`
}

// LocalConfig contains local mode configuration.
type LocalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// WordlistSource defines a source of wordlist files. Path may be a
// single file, a directory, or a doublestar glob. Lang overrides the
// language tag derived from the filename stem.
type WordlistSource struct {
	Path        string `yaml:"path"`
	Lang        string `yaml:"lang"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Recursive   bool   `yaml:"recursive"`
}

// DenylistConfig extends the built-in denylist.
type DenylistConfig struct {
	Words    []string `yaml:"words"`
	Patterns []string `yaml:"patterns"`
	Files    []string `yaml:"files"`
}

// GenerationConfig holds generation defaults.
type GenerationConfig struct {
	Count          int    `yaml:"count"`
	Case           string `yaml:"case"`
	Suffix         string `yaml:"suffix"`
	LanguagePolicy string `yaml:"language_policy"`
	RetryCap       int    `yaml:"retry_cap"`
	// What to do when a requested language has no loaded words:
	// "fail" aborts the run, "skip" proceeds with the remaining languages.
	Unavailable string `yaml:"unavailable"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name: "wordname-tui",
		Server: ServerConfig{
			SSH: SSHConfig{
				Enabled:     true,
				Listen:      ":2222",
				HostKeyPath: ".wordname-tui/host_key",
				IdleTimeout: "30m",
				MaxTimeout:  "24h",
			},
			Local: LocalConfig{
				Enabled: true,
			},
		},
		DataDir:   ".wordname-tui",
		Wordlists: []WordlistSource{},
		Generation: GenerationConfig{
			Count:          40,
			Case:           "lower",
			Suffix:         "none",
			LanguagePolicy: "uniform",
			RetryCap:       50,
			Unavailable:    "fail",
		},
		AnonymousAccess: "none",
		AllowKeyless:    false,
		Users:           []User{},
		Public:          []PublicLanguage{},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.path = absPath

	// Get file modification time
	info, err := os.Stat(absPath)
	if err == nil {
		cfg.modTime = info.ModTime()
	}

	return cfg, nil
}

// Path returns the path to the config file.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Reload reloads the configuration from disk.
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newCfg := DefaultConfig()
	if err := yaml.Unmarshal(data, newCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Update fields
	c.Name = newCfg.Name
	c.Server = newCfg.Server
	c.DataDir = newCfg.DataDir
	c.Wordlists = newCfg.Wordlists
	c.Languages = newCfg.Languages
	c.Denylist = newCfg.Denylist
	c.Generation = newCfg.Generation
	c.AnonymousAccess = newCfg.AnonymousAccess
	c.AllowKeyless = newCfg.AllowKeyless
	c.Users = newCfg.Users
	c.Public = newCfg.Public

	// Update mod time
	info, err := os.Stat(c.path)
	if err == nil {
		c.modTime = info.ModTime()
	}

	return nil
}

// HasChanged checks if the config file has been modified.
func (c *Config) HasChanged() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, err := os.Stat(c.path)
	if err != nil {
		return false
	}
	return info.ModTime().After(c.modTime)
}

// BuildResolver creates an access.Resolver from the configuration.
func (c *Config) BuildResolver() *access.Resolver {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resolver := access.NewResolver()

	resolver.SetAnonymousAccess(access.ParseLevel(c.AnonymousAccess))

	for _, pub := range c.Public {
		resolver.AddPublicGrant(pub.Pattern, access.ParseLevel(pub.Level))
	}

	for _, user := range c.Users {
		if user.Admin {
			resolver.AddAdmin(user.Name)
		}
		for _, g := range user.Languages {
			resolver.AddUserGrant(user.Name, g.Pattern, access.ParseLevel(g.Level))
		}
	}

	return resolver
}

// GetIdleTimeout parses and returns the idle timeout duration.
func (c *Config) GetIdleTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := time.ParseDuration(c.Server.SSH.IdleTimeout)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// GetMaxTimeout parses and returns the max timeout duration.
func (c *Config) GetMaxTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := time.ParseDuration(c.Server.SSH.MaxTimeout)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetDataDir returns the data directory path (for the lexicon, history,
// keys and log file).
func (c *Config) GetDataDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.DataDir == "" {
		return ".wordname-tui"
	}
	return c.DataDir
}

// LogFilePath returns the path of the log file inside the data dir.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.GetDataDir(), "wordname-tui.log")
}
