package generate

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Sampler provides random words per language. *lexicon.Store satisfies
// it.
type Sampler interface {
	Sample(lang lexicon.Tag) (lexicon.Entry, error)
	Ready(lang lexicon.Tag) bool
}

// Cleaner checks words against the denylist. *filter.Filter satisfies
// it.
type Cleaner interface {
	IsClean(word string) bool
}

// ProgressFunc receives each accepted username as it is produced,
// with the running total and the requested count.
type ProgressFunc func(u Username, produced, requested int)

// Generator orchestrates one or more generation runs over an injected
// sampler and filter. Runs are synchronous; callers wanting a
// responsive UI invoke Run on their own goroutine.
type Generator struct {
	sampler   Sampler
	filter    Cleaner
	formatter *Formatter
	logger    *log.Logger

	rng   *rand.Rand
	rngMu sync.Mutex
}

// New creates a generator.
func New(sampler Sampler, filter Cleaner, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		sampler:   sampler,
		filter:    filter,
		formatter: NewFormatter(),
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetFormatter replaces the formatter. Used by tests that need
// reproducible suffixes.
func (g *Generator) SetFormatter(f *Formatter) {
	g.formatter = f
}

// Run executes one generation run. It returns the run's result and, if
// the run ended early, an error: lexicon.UnavailableError when no
// requested language is usable, ExhaustedError when the retry cap was
// hit. Cancellation via ctx yields State Cancelled with the results
// accepted so far and a nil error.
func (g *Generator) Run(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error) {
	result := &Result{State: StateIdle}

	retryCap := req.RetryCap
	if retryCap <= 0 {
		retryCap = DefaultRetryCap
	}

	langs, err := g.usableLanguages(req)
	if err != nil {
		g.logger.Error("generation aborted", "err", err)
		return result, err
	}

	g.logger.Info("generation started",
		"count", req.Count,
		"case", req.Case,
		"suffix", req.Suffix,
		"languages", tagStrings(langs),
		"policy", req.Policy,
	)

	result.State = StateRunning
	seen := make(map[string]bool, req.Count)
	var roundRobin int

	for len(result.Usernames) < req.Count {
		accepted := false

		for attempt := 0; attempt < retryCap; attempt++ {
			if ctx.Err() != nil {
				result.State = StateCancelled
				g.logger.Info("generation cancelled", "produced", len(result.Usernames), "requested", req.Count)
				return result, nil
			}

			lang := g.pickLanguage(langs, req.Policy, roundRobin)

			entry, err := g.sampler.Sample(lang)
			if err != nil {
				var unavail *lexicon.UnavailableError
				if errors.As(err, &unavail) && req.SkipUnavailable && len(langs) > 1 {
					langs = removeTag(langs, lang)
					g.logger.Warn("language dropped mid-run", "lang", lang)
					continue
				}
				result.State = StateCompleted
				g.logger.Error("sampling failed", "lang", lang, "err", err)
				return result, err
			}

			word, err := g.formatter.Word(entry.Word, req.Case)
			if err != nil {
				result.NonASCII++
				g.logger.Debug("candidate rejected", "reason", "non-ascii", "lang", lang, "word", entry.Word)
				continue
			}

			// Filter on the pre-suffix word so digits cannot mask a
			// denied word.
			if !g.filter.IsClean(word) {
				result.Profanity++
				g.logger.Debug("candidate rejected", "reason", "profanity", "lang", lang)
				continue
			}

			suffix := g.formatter.DrawSuffix(req.Suffix)
			value := word + suffix

			if seen[value] {
				result.Duplicate++
				g.logger.Debug("candidate rejected", "reason", "duplicate", "lang", lang, "value", value)
				continue
			}

			seen[value] = true
			// The round-robin turn advances only on acceptance, so
			// rejections do not skew the language alternation.
			roundRobin++
			u := Username{Value: value, Lang: lang, Suffix: suffix}
			result.Usernames = append(result.Usernames, u)
			g.logger.Debug("candidate accepted", "value", value, "lang", lang)

			if onProgress != nil {
				onProgress(u, len(result.Usernames), req.Count)
			}
			accepted = true
			break
		}

		if !accepted {
			result.State = StateCompleted
			err := &ExhaustedError{
				Requested: req.Count,
				Produced:  len(result.Usernames),
				RetryCap:  retryCap,
			}
			g.logger.Error("generation exhausted",
				"produced", err.Produced,
				"requested", err.Requested,
				"retry_cap", retryCap,
			)
			return result, err
		}
	}

	result.State = StateCompleted
	g.logger.Info("generation completed",
		"produced", len(result.Usernames),
		"rejected_profanity", result.Profanity,
		"rejected_duplicate", result.Duplicate,
		"rejected_non_ascii", result.NonASCII,
	)
	return result, nil
}

// usableLanguages validates the requested set against sampler
// readiness.
func (g *Generator) usableLanguages(req Request) ([]lexicon.Tag, error) {
	if len(req.Languages) == 0 {
		return nil, errors.New("no languages requested")
	}

	var usable []lexicon.Tag
	for _, lang := range req.Languages {
		if !lang.Valid() {
			return nil, &lexicon.UnknownLanguageError{Name: string(lang)}
		}
		if g.sampler.Ready(lang) {
			usable = append(usable, lang)
			continue
		}
		if !req.SkipUnavailable {
			return nil, &lexicon.UnavailableError{Lang: lang}
		}
		g.logger.Warn("language not loaded, skipping", "lang", lang)
	}

	if len(usable) == 0 {
		return nil, &lexicon.UnavailableError{Lang: req.Languages[0]}
	}
	return usable, nil
}

// pickLanguage selects the next language per the configured policy.
// turn counts accepted usernames, not attempts.
func (g *Generator) pickLanguage(langs []lexicon.Tag, policy PickPolicy, turn int) lexicon.Tag {
	if len(langs) == 1 {
		return langs[0]
	}

	if policy == PickRoundRobin {
		return langs[turn%len(langs)]
	}

	g.rngMu.Lock()
	i := g.rng.Intn(len(langs))
	g.rngMu.Unlock()
	return langs[i]
}

func removeTag(langs []lexicon.Tag, lang lexicon.Tag) []lexicon.Tag {
	out := langs[:0]
	for _, l := range langs {
		if l != lang {
			out = append(out, l)
		}
	}
	return out
}

func tagStrings(langs []lexicon.Tag) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = string(l)
	}
	return out
}
