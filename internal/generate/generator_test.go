package generate

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

var validUsername = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// fakeSampler cycles through a fixed word list per language.
type fakeSampler struct {
	words map[lexicon.Tag][]string
	idx   map[lexicon.Tag]int
	mu    sync.Mutex
}

func newFakeSampler(words map[lexicon.Tag][]string) *fakeSampler {
	return &fakeSampler{
		words: words,
		idx:   make(map[lexicon.Tag]int),
	}
}

func (s *fakeSampler) Ready(lang lexicon.Tag) bool {
	return len(s.words[lang]) > 0
}

func (s *fakeSampler) Sample(lang lexicon.Tag) (lexicon.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := s.words[lang]
	if len(words) == 0 {
		return lexicon.Entry{}, &lexicon.UnavailableError{Lang: lang}
	}
	word := words[s.idx[lang]%len(words)]
	s.idx[lang]++
	return lexicon.Entry{Lang: lang, Word: word}, nil
}

// denyFilter rejects an explicit word set.
type denyFilter struct {
	denied map[string]bool
}

func (f *denyFilter) IsClean(word string) bool {
	return !f.denied[word]
}

func allowAll() *denyFilter {
	return &denyFilter{denied: map[string]bool{}}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// TestRun_ProducesRequestedCount tests that a run yields exactly the
// requested number of unique, well-formed usernames.
func TestRun_ProducesRequestedCount(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"cat", "dog", "bird", "fish", "horse", "mouse", "otter", "crow"},
		"swe": {"katt", "hund", "lax", "varg", "mus"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	var progress []Username
	result, err := gen.Run(context.Background(), Request{
		Count:     10,
		Case:      CaseLower,
		Suffix:    SuffixTwo,
		Languages: []lexicon.Tag{"eng", "swe"},
	}, func(u Username, produced, requested int) {
		progress = append(progress, u)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.State != StateCompleted {
		t.Errorf("state = %v, want %v", result.State, StateCompleted)
	}
	if len(result.Usernames) != 10 {
		t.Fatalf("got %d usernames, want 10", len(result.Usernames))
	}
	if len(progress) != 10 {
		t.Errorf("got %d progress notifications, want 10", len(progress))
	}

	seen := make(map[string]bool)
	for _, u := range result.Usernames {
		if !validUsername.MatchString(u.Value) {
			t.Errorf("username %q contains invalid characters", u.Value)
		}
		if len(u.Suffix) != 2 {
			t.Errorf("username %q suffix = %q, want 2 digits", u.Value, u.Suffix)
		}
		if seen[u.Value] {
			t.Errorf("duplicate username %q", u.Value)
		}
		seen[u.Value] = true
		if u.Lang != "eng" && u.Lang != "swe" {
			t.Errorf("username %q has unexpected language %q", u.Value, u.Lang)
		}
	}
}

// TestRun_ZeroCount tests that requesting zero usernames completes
// immediately with no progress notifications.
func TestRun_ZeroCount(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{"eng": {"cat"}})
	gen := New(sampler, allowAll(), quietLogger())

	calls := 0
	result, err := gen.Run(context.Background(), Request{
		Count:     0,
		Languages: []lexicon.Tag{"eng"},
	}, func(u Username, produced, requested int) {
		calls++
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.State != StateCompleted {
		t.Errorf("state = %v, want %v", result.State, StateCompleted)
	}
	if len(result.Usernames) != 0 {
		t.Errorf("got %d usernames, want 0", len(result.Usernames))
	}
	if calls != 0 {
		t.Errorf("got %d progress notifications, want 0", calls)
	}
}

// TestRun_UnreadyLanguage tests that a run over only unloaded
// languages fails without producing entries.
func TestRun_UnreadyLanguage(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{})
	gen := New(sampler, allowAll(), quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     5,
		Languages: []lexicon.Tag{"fin"},
	}, nil)

	var unavail *lexicon.UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("Run error = %v, want UnavailableError", err)
	}
	if unavail.Lang != "fin" {
		t.Errorf("error names language %q, want %q", unavail.Lang, "fin")
	}
	if len(result.Usernames) != 0 {
		t.Errorf("got %d usernames, want 0", len(result.Usernames))
	}
}

// TestRun_SkipUnavailable tests that an unloaded language is dropped
// when the request allows it.
func TestRun_SkipUnavailable(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"cat", "dog", "bird"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:           3,
		Languages:       []lexicon.Tag{"eng", "fin"},
		SkipUnavailable: true,
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Usernames) != 3 {
		t.Fatalf("got %d usernames, want 3", len(result.Usernames))
	}
	for _, u := range result.Usernames {
		if u.Lang != "eng" {
			t.Errorf("username %q has language %q, want eng", u.Value, u.Lang)
		}
	}
}

// TestRun_FiltersProfanity tests that denied words never appear, with
// the rejection tallied.
func TestRun_FiltersProfanity(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"crud", "cat", "dog", "bird"},
	})
	f := &denyFilter{denied: map[string]bool{"crud": true}}
	gen := New(sampler, f, quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     3,
		Languages: []lexicon.Tag{"eng"},
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, u := range result.Usernames {
		if u.Value == "crud" {
			t.Errorf("denied word %q was accepted", u.Value)
		}
	}
	if result.Profanity == 0 {
		t.Error("expected at least one profanity rejection")
	}
}

// TestRun_FilterSeesPreSuffixWord tests that the suffix cannot mask a
// denied word.
func TestRun_FilterSeesPreSuffixWord(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"crud", "cat", "dog", "bird", "fish"},
	})
	f := &denyFilter{denied: map[string]bool{"crud": true}}
	gen := New(sampler, f, quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     4,
		Suffix:    SuffixThree,
		Languages: []lexicon.Tag{"eng"},
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, u := range result.Usernames {
		word := u.Value[:len(u.Value)-len(u.Suffix)]
		if word == "crud" {
			t.Errorf("denied word %q slipped through with suffix %q", word, u.Suffix)
		}
	}
}

// TestRun_Exhausted tests that the retry cap surfaces as a partial
// result plus ExhaustedError.
func TestRun_Exhausted(t *testing.T) {
	// Two words without suffixes can only ever make two usernames.
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"cat", "dog"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     3,
		Suffix:    SuffixNone,
		Languages: []lexicon.Tag{"eng"},
		RetryCap:  10,
	}, nil)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Run error = %v, want ExhaustedError", err)
	}
	if exhausted.Produced != 2 || exhausted.Requested != 3 {
		t.Errorf("exhausted produced=%d requested=%d, want 2 and 3", exhausted.Produced, exhausted.Requested)
	}
	if len(result.Usernames) != 2 {
		t.Errorf("got %d partial usernames, want 2", len(result.Usernames))
	}
	if result.Duplicate == 0 {
		t.Error("expected duplicate rejections before exhaustion")
	}
}

// TestRun_Cancelled tests that cancelling mid-run yields a prefix of
// the results with state Cancelled.
func TestRun_Cancelled(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"cat", "dog", "bird", "fish", "horse", "mouse"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	result, err := gen.Run(ctx, Request{
		Count:     6,
		Languages: []lexicon.Tag{"eng"},
	}, func(u Username, produced, requested int) {
		if produced == 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.State != StateCancelled {
		t.Errorf("state = %v, want %v", result.State, StateCancelled)
	}
	if len(result.Usernames) != 2 {
		t.Errorf("got %d usernames after cancel, want 2", len(result.Usernames))
	}

	// Acceptance order matches an uncancelled run's prefix: the fake
	// sampler is deterministic, so the first two are cat and dog.
	want := []string{"cat", "dog"}
	for i, u := range result.Usernames {
		if u.Value != want[i] {
			t.Errorf("username[%d] = %q, want %q", i, u.Value, want[i])
		}
	}
}

// TestRun_RoundRobin tests deterministic language alternation.
func TestRun_RoundRobin(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"cat", "dog"},
		"swe": {"katt", "hund"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     4,
		Policy:    PickRoundRobin,
		Languages: []lexicon.Tag{"eng", "swe"},
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantLangs := []lexicon.Tag{"eng", "swe", "eng", "swe"}
	for i, u := range result.Usernames {
		if u.Lang != wantLangs[i] {
			t.Errorf("username[%d] language = %q, want %q", i, u.Lang, wantLangs[i])
		}
	}
}

// TestRun_RoundRobinUnskewedByRejection tests that a rejected candidate
// retries the same language instead of shifting the alternation.
func TestRun_RoundRobinUnskewedByRejection(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"eng": {"bad", "cat", "dog"},
		"swe": {"katt", "hund"},
	})
	gen := New(sampler, &denyFilter{denied: map[string]bool{"bad": true}}, quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     4,
		Policy:    PickRoundRobin,
		Languages: []lexicon.Tag{"eng", "swe"},
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Profanity != 1 {
		t.Errorf("profanity rejections = %d, want 1", result.Profanity)
	}
	wantLangs := []lexicon.Tag{"eng", "swe", "eng", "swe"}
	for i, u := range result.Usernames {
		if u.Lang != wantLangs[i] {
			t.Errorf("username[%d] language = %q, want %q", i, u.Lang, wantLangs[i])
		}
	}
}

// TestRun_NonASCIIRecovered tests that unformattable words are skipped
// by re-sampling rather than failing the run.
func TestRun_NonASCIIRecovered(t *testing.T) {
	sampler := newFakeSampler(map[lexicon.Tag][]string{
		"pol": {"żółw", "kot", "pies", "ryba"},
	})
	gen := New(sampler, allowAll(), quietLogger())

	result, err := gen.Run(context.Background(), Request{
		Count:     3,
		Languages: []lexicon.Tag{"pol"},
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Usernames) != 3 {
		t.Fatalf("got %d usernames, want 3", len(result.Usernames))
	}
	if result.NonASCII == 0 {
		t.Error("expected at least one non-ascii rejection")
	}
	for _, u := range result.Usernames {
		if !validUsername.MatchString(u.Value) {
			t.Errorf("username %q contains invalid characters", u.Value)
		}
	}
}
