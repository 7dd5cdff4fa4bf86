package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/johan-st/wordname-tui/internal/config"
)

// DiscoveredWordlist represents a wordlist file found on disk.
type DiscoveredWordlist struct {
	Path        string
	Lang        Tag
	Description string
	Size        int64
	ModTime     int64
	Source      *config.WordlistSource
}

// Discovery handles wordlist file discovery and watching.
type Discovery struct {
	sources   []config.WordlistSource
	wordlists map[string]*DiscoveredWordlist
	watcher   *fsnotify.Watcher
	callbacks []func(added, removed []*DiscoveredWordlist)
	stop      chan struct{}
	mu        sync.RWMutex
}

// NewDiscovery creates a new wordlist discovery service.
func NewDiscovery(sources []config.WordlistSource) (*Discovery, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	d := &Discovery{
		sources:   sources,
		wordlists: make(map[string]*DiscoveredWordlist),
		watcher:   watcher,
		callbacks: make([]func(added, removed []*DiscoveredWordlist), 0),
		stop:      make(chan struct{}),
	}

	return d, nil
}

// OnChange registers a callback for when wordlists are added or removed.
func (d *Discovery) OnChange(callback func(added, removed []*DiscoveredWordlist)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, callback)
}

// Start begins discovering and watching for wordlist files.
func (d *Discovery) Start() error {
	// Initial scan
	if err := d.scan(); err != nil {
		return err
	}

	// Start watching
	go d.watch()

	return nil
}

// Stop stops the discovery service.
func (d *Discovery) Stop() {
	close(d.stop)
	d.watcher.Close()
}

// GetWordlists returns all discovered wordlists.
func (d *Discovery) GetWordlists() []*DiscoveredWordlist {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*DiscoveredWordlist, 0, len(d.wordlists))
	for _, wl := range d.wordlists {
		result = append(result, wl)
	}
	return result
}

// GetWordlist returns a specific wordlist by path or language tag.
func (d *Discovery) GetWordlist(pathOrLang string) *DiscoveredWordlist {
	d.mu.RLock()
	defer d.mu.RUnlock()

	// Try exact path match
	if wl, ok := d.wordlists[pathOrLang]; ok {
		return wl
	}

	// Try language tag match
	for _, wl := range d.wordlists {
		if string(wl.Lang) == pathOrLang {
			return wl
		}
	}

	return nil
}

// scan discovers all wordlist files from configured sources.
func (d *Discovery) scan() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	newWordlists := make(map[string]*DiscoveredWordlist)
	watchPaths := make(map[string]bool)

	for i := range d.sources {
		source := &d.sources[i]
		found, watchDirs, err := discoverSource(source)
		if err != nil {
			log.Warn("failed to discover wordlists", "path", source.Path, "err", err)
			continue
		}

		for _, wl := range found {
			newWordlists[wl.Path] = wl
		}

		for _, dir := range watchDirs {
			watchPaths[dir] = true
		}
	}

	// Determine added and removed wordlists
	var added, removed []*DiscoveredWordlist

	for path, wl := range newWordlists {
		if _, exists := d.wordlists[path]; !exists {
			added = append(added, wl)
		}
	}

	for path, wl := range d.wordlists {
		if _, exists := newWordlists[path]; !exists {
			removed = append(removed, wl)
		}
	}

	d.wordlists = newWordlists

	// Update watched paths
	for path := range watchPaths {
		d.watcher.Add(path)
	}

	// Notify callbacks (outside lock)
	if len(added) > 0 || len(removed) > 0 {
		go d.notifyCallbacks(added, removed)
	}

	return nil
}

// discoverSource discovers wordlists from a single source.
func discoverSource(source *config.WordlistSource) ([]*DiscoveredWordlist, []string, error) {
	var wordlists []*DiscoveredWordlist
	var watchDirs []string

	path := source.Path

	// Check if it's a glob pattern
	if strings.ContainsAny(path, "*?[") {
		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			return nil, nil, err
		}

		for _, match := range matches {
			if isWordlistFile(match) {
				wl, err := discoveredFromPath(match, source)
				if err != nil {
					log.Warn("failed to stat wordlist", "path", match, "err", err)
					continue
				}
				wordlists = append(wordlists, wl)
			}
		}

		// Watch the parent directory of the glob pattern
		dir := filepath.Dir(strings.Split(path, "*")[0])
		if dir != "" && dir != "." {
			watchDirs = append(watchDirs, dir)
		}

		return wordlists, watchDirs, nil
	}

	// Check if path is a directory
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	if info.IsDir() {
		// Discover all wordlist files in directory
		walkFn := func(filePath string, entry os.DirEntry, err error) error {
			if err != nil {
				return nil // Skip errors
			}
			if entry.IsDir() && filePath != path && !source.Recursive {
				return filepath.SkipDir
			}
			if !entry.IsDir() && isWordlistFile(filePath) {
				wl, err := discoveredFromPath(filePath, source)
				if err == nil {
					wordlists = append(wordlists, wl)
				}
			}
			return nil
		}

		filepath.WalkDir(path, walkFn)
		watchDirs = append(watchDirs, path)

		return wordlists, watchDirs, nil
	}

	// Single file
	if isWordlistFile(path) {
		wl, err := discoveredFromPath(path, source)
		if err != nil {
			return nil, nil, err
		}
		wordlists = append(wordlists, wl)
		watchDirs = append(watchDirs, filepath.Dir(path))
	}

	return wordlists, watchDirs, nil
}

func discoveredFromPath(path string, source *config.WordlistSource) (*DiscoveredWordlist, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	// Determine the language tag. An explicit source tag wins,
	// otherwise the filename stem is used ("eng.txt" -> eng).
	lang := Tag(source.Lang)
	if lang == "" {
		stem := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
		lang = Tag(strings.ToLower(stem))
	}
	if !lang.Valid() {
		return nil, &UnknownLanguageError{Name: string(lang)}
	}

	return &DiscoveredWordlist{
		Path:        absPath,
		Lang:        lang,
		Description: source.Description,
		Size:        info.Size(),
		ModTime:     info.ModTime().Unix(),
		Source:      source,
	}, nil
}

// isWordlistFile checks if a file looks like a wordlist.
func isWordlistFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".txt" || ext == ".tsv" || ext == ".wl" || ext == ".words"
}

// watch watches for file system changes.
func (d *Discovery) watch() {
	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}

			// Handle file changes
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
				if isWordlistFile(event.Name) {
					// Rescan to pick up changes
					d.scan()
				}
			}

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			log.Error("discovery watcher error", "err", err)

		case <-d.stop:
			return
		}
	}
}

// notifyCallbacks notifies all registered callbacks.
func (d *Discovery) notifyCallbacks(added, removed []*DiscoveredWordlist) {
	d.mu.RLock()
	callbacks := make([]func(added, removed []*DiscoveredWordlist), len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.mu.RUnlock()

	for _, cb := range callbacks {
		cb(added, removed)
	}
}

// Refresh forces a rescan of all sources.
func (d *Discovery) Refresh() error {
	return d.scan()
}

// UpdateSources updates the wordlist sources and rescans.
func (d *Discovery) UpdateSources(sources []config.WordlistSource) error {
	d.mu.Lock()
	d.sources = sources
	d.mu.Unlock()

	return d.scan()
}
