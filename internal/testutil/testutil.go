// Package testutil provides test utilities for wordname-tui tests.
package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// TestLexicon creates a temporary lexicon store loaded with the given
// words per language. The store is closed when the test ends.
func TestLexicon(t *testing.T, words map[lexicon.Tag][]string) *lexicon.Store {
	t.Helper()

	store, err := lexicon.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open lexicon store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for lang, ws := range words {
		if _, err := store.ImportWords(lang, ws, "test", time.Now().Unix()); err != nil {
			t.Fatalf("failed to import words for %s: %v", lang, err)
		}
	}

	return store
}

// WriteWordlist writes a wordlist fixture file with one word per line
// and returns its path.
func WriteWordlist(t *testing.T, dir, name string, words []string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(words, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write wordlist %s: %v", name, err)
	}
	return path
}

// CaptureOutput captures stdout and stderr from a function.
func CaptureOutput(fn func(out, errOut io.Writer)) (stdout, stderr string) {
	var outBuf, errBuf bytes.Buffer
	fn(&outBuf, &errBuf)
	return outBuf.String(), errBuf.String()
}

// OutputCapture is a helper for capturing CLI output.
type OutputCapture struct {
	Out bytes.Buffer
	Err bytes.Buffer
}

// Stdout returns captured stdout as string.
func (c *OutputCapture) Stdout() string {
	return c.Out.String()
}

// Stderr returns captured stderr as string.
func (c *OutputCapture) Stderr() string {
	return c.Err.String()
}
