package generate

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes words and removes combining marks, turning
// "café" into "cafe". Words that still hold non-ASCII runes afterwards
// are rejected.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Formatter turns raw lexicon words into username tokens. The suffix
// draw is its only randomized step.
type Formatter struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewFormatter creates a formatter with a time-seeded random source.
func NewFormatter() *Formatter {
	return NewSeededFormatter(time.Now().UnixNano())
}

// NewSeededFormatter creates a formatter with a fixed seed. Used by
// tests that need reproducible suffixes.
func NewSeededFormatter(seed int64) *Formatter {
	return &Formatter{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Normalize collapses a raw lexicon entry into a single ASCII-letter
// token: whitespace, underscores and hyphens between words are
// removed, diacritics are stripped, and any remaining non-ASCII rune
// fails with NonASCIIWordError.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '_' || r == '-' || r == '\'' || r == '.' {
			continue
		}
		if !unicode.IsLetter(r) {
			return "", &NonASCIIWordError{Word: raw}
		}
		b.WriteRune(r)
	}

	word := b.String()
	if word == "" {
		return "", &NonASCIIWordError{Word: raw}
	}

	stripped, _, err := transform.String(stripMarks, word)
	if err != nil {
		return "", &NonASCIIWordError{Word: raw}
	}

	for _, r := range stripped {
		if r > unicode.MaxASCII || !isASCIILetter(byte(r)) {
			return "", &NonASCIIWordError{Word: raw}
		}
	}

	return stripped, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ApplyCase applies a case transform to a normalized word.
func ApplyCase(word string, c Case) string {
	switch c {
	case CaseUpper:
		return strings.ToUpper(word)
	case CaseCapitalized:
		lower := strings.ToLower(word)
		if lower == "" {
			return lower
		}
		return strings.ToUpper(lower[:1]) + lower[1:]
	default:
		return strings.ToLower(word)
	}
}

// Word normalizes and cases a raw lexicon entry without appending a
// suffix. Deterministic given (raw, case mode).
func (f *Formatter) Word(raw string, c Case) (string, error) {
	word, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return ApplyCase(word, c), nil
}

// DrawSuffix draws a zero-padded random suffix of the requested width.
// Returns the empty string for SuffixNone.
func (f *Formatter) DrawSuffix(s Suffix) string {
	width := s.Width()
	if width <= 0 {
		return ""
	}

	max := 1
	for i := 0; i < width; i++ {
		max *= 10
	}

	f.mu.Lock()
	n := f.rng.Intn(max)
	f.mu.Unlock()

	return fmt.Sprintf("%0*d", width, n)
}

// Format runs the full pipeline for one raw word: normalize, case,
// suffix. The pre-suffix word is returned separately so callers can
// filter on it.
func (f *Formatter) Format(raw string, c Case, s Suffix) (word, suffix string, err error) {
	word, err = f.Word(raw, c)
	if err != nil {
		return "", "", err
	}
	return word, f.DrawSuffix(s), nil
}
