package lexicon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/johan-st/wordname-tui/internal/config"
)

// minWordLength rejects lemmas too short to make usable usernames.
const minWordLength = 3

// Importer loads wordlist files into the lexicon store, downloading
// missing sources first.
type Importer struct {
	store  *Store
	lock   *ImportLock
	client *http.Client
}

// NewImporter creates an importer backed by the given store.
func NewImporter(store *Store, lock *ImportLock) *Importer {
	if lock == nil {
		lock = NewImportLock()
	}
	return &Importer{
		store: store,
		lock:  lock,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Bootstrap fetches missing wordlist sources, discovers the resulting
// files and imports every wordlist the store has not seen yet. It is
// called once at startup and again when sources change.
func (im *Importer) Bootstrap(ctx context.Context, sources []config.WordlistSource) error {
	for i := range sources {
		source := &sources[i]
		if source.URL == "" {
			continue
		}
		if _, err := os.Stat(source.Path); err == nil {
			continue
		}
		log.Info("downloading wordlist", "url", source.URL, "path", source.Path)
		if err := im.fetch(ctx, source.URL, source.Path); err != nil {
			log.Error("wordlist download failed", "url", source.URL, "err", err)
		}
	}

	for i := range sources {
		source := &sources[i]
		found, _, err := discoverSource(source)
		if err != nil {
			log.Warn("failed to discover wordlists", "path", source.Path, "err", err)
			continue
		}
		for _, wl := range found {
			if _, err := im.Import(ctx, wl, false); err != nil {
				log.Error("wordlist import failed", "path", wl.Path, "lang", wl.Lang, "err", err)
			}
		}
	}

	return nil
}

// Import loads one wordlist file into the store. Unless force is set,
// a wordlist already imported from the same source with the same
// modification time is skipped. Returns the number of words imported.
func (im *Importer) Import(ctx context.Context, wl *DiscoveredWordlist, force bool) (int, error) {
	if !force && !im.store.NeedsImport(wl.Lang, wl.Path, wl.ModTime) {
		return 0, nil
	}

	var imported int
	err := im.lock.WithLock(wl.Lang, "importer", wl.Path, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		words, err := ReadWordlist(wl.Path)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return fmt.Errorf("wordlist %s contains no usable words", wl.Path)
		}

		imported, err = im.store.ImportWords(wl.Lang, words, wl.Path, wl.ModTime)
		return err
	})
	if err != nil {
		return 0, err
	}

	if imported > 0 {
		log.Info("wordlist imported", "lang", wl.Lang, "words", imported, "path", wl.Path)
	}
	return imported, nil
}

// fetch downloads a wordlist over HTTP to the destination path.
func (im *Importer) fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := im.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	// Write to a temp file first so a partial download never looks
	// like a valid wordlist.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}

// ReadWordlist parses a wordlist file into lowercase words, dropping
// lines that cannot make valid usernames. Lines are one word each;
// tab-separated files use the first column.
func ReadWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			line = line[:i]
		}

		word := strings.ToLower(line)
		if !IsValidWord(word) {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// IsValidWord reports whether a lemma is usable as username material:
// at least three runes, letters only with underscores or hyphens
// allowed as internal separators.
func IsValidWord(word string) bool {
	runes := []rune(word)
	if len(runes) < minWordLength {
		return false
	}
	for i, r := range runes {
		if unicode.IsLetter(r) {
			continue
		}
		if (r == '_' || r == '-') && i > 0 && i < len(runes)-1 {
			continue
		}
		return false
	}
	return true
}
