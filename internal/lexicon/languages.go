// Package lexicon manages the multilingual word database that usernames
// are sampled from.
package lexicon

import "fmt"

// Tag is a three-letter language code identifying one wordlist in the
// lexicon (ISO 639-3 style, matching the upstream word-sense database).
type Tag string

// knownLanguages maps every supported tag to its display name. The set
// is fixed; wordlists for other tags are ignored at import time.
var knownLanguages = map[Tag]string{
	"eng": "English",
	"spa": "Spanish",
	"fra": "French",
	"ita": "Italian",
	"por": "Portuguese",
	"nld": "Dutch",
	"pol": "Polish",
	"swe": "Swedish",
	"fin": "Finnish",
	"nno": "Norwegian Nynorsk",
	"nob": "Norwegian Bokmål",
	"ron": "Romanian",
	"slk": "Slovak",
	"slv": "Slovenian",
	"zsm": "Malay",
	"eus": "Basque",
	"cat": "Catalan",
	"dan": "Danish",
	"lit": "Lithuanian",
}

// tagOrder fixes the listing order for Supported.
var tagOrder = []Tag{
	"eng", "spa", "fra", "ita", "por", "nld", "pol", "swe", "fin",
	"nno", "nob", "ron", "slk", "slv", "zsm", "eus", "cat", "dan", "lit",
}

// Supported returns all supported language tags in stable order.
func Supported() []Tag {
	tags := make([]Tag, len(tagOrder))
	copy(tags, tagOrder)
	return tags
}

// Valid reports whether the tag is one of the supported languages.
func (t Tag) Valid() bool {
	_, ok := knownLanguages[t]
	return ok
}

// DisplayName returns the human-readable language name for the tag,
// or the tag itself if unknown.
func (t Tag) DisplayName() string {
	if name, ok := knownLanguages[t]; ok {
		return name
	}
	return string(t)
}

// UnknownLanguageError indicates a tag outside the supported set.
type UnknownLanguageError struct {
	Name string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q", e.Name)
}

// ParseTag validates a raw string as a language tag.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !t.Valid() {
		return "", &UnknownLanguageError{Name: s}
	}
	return t, nil
}

// Entry is one (language, word) pair drawn from the lexicon.
type Entry struct {
	Lang Tag
	Word string
}
