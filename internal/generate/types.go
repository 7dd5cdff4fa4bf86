// Package generate produces ASCII usernames by sampling words from the
// lexicon, formatting them and filtering them against a denylist.
package generate

import (
	"fmt"
	"strings"

	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Case selects the case transform applied to a sampled word.
type Case int

const (
	CaseLower Case = iota
	CaseUpper
	CaseCapitalized
)

func (c Case) String() string {
	switch c {
	case CaseLower:
		return "lower"
	case CaseUpper:
		return "upper"
	case CaseCapitalized:
		return "capitalized"
	}
	return "unknown"
}

// ParseCase parses a case mode name.
func ParseCase(s string) (Case, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower", "":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	case "capitalized", "capitalize", "cap":
		return CaseCapitalized, nil
	}
	return CaseLower, fmt.Errorf("unknown case mode %q", s)
}

// Suffix selects the width of the random numeric suffix. Zero means no
// suffix.
type Suffix int

const (
	SuffixNone  Suffix = 0
	SuffixOne   Suffix = 1
	SuffixTwo   Suffix = 2
	SuffixThree Suffix = 3
)

func (s Suffix) String() string {
	switch s {
	case SuffixNone:
		return "none"
	case SuffixOne:
		return "1-digit"
	case SuffixTwo:
		return "2-digit"
	case SuffixThree:
		return "3-digit"
	}
	return "unknown"
}

// Width returns the number of digits the suffix adds.
func (s Suffix) Width() int {
	return int(s)
}

// ParseSuffix parses a suffix mode name.
func ParseSuffix(s string) (Suffix, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0", "":
		return SuffixNone, nil
	case "1", "1-digit", "one":
		return SuffixOne, nil
	case "2", "2-digit", "two":
		return SuffixTwo, nil
	case "3", "3-digit", "three":
		return SuffixThree, nil
	}
	return SuffixNone, fmt.Errorf("unknown suffix mode %q", s)
}

// PickPolicy selects how the next language is chosen from the
// requested set.
type PickPolicy int

const (
	PickUniform PickPolicy = iota
	PickRoundRobin
)

func (p PickPolicy) String() string {
	switch p {
	case PickUniform:
		return "uniform"
	case PickRoundRobin:
		return "round-robin"
	}
	return "unknown"
}

// ParsePickPolicy parses a language pick policy name.
func ParsePickPolicy(s string) (PickPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform", "random", "":
		return PickUniform, nil
	case "round-robin", "roundrobin", "rr":
		return PickRoundRobin, nil
	}
	return PickUniform, fmt.Errorf("unknown language policy %q", s)
}

// Request is the immutable configuration for one generation run.
type Request struct {
	Count     int
	Case      Case
	Suffix    Suffix
	Languages []lexicon.Tag
	Policy    PickPolicy

	// RetryCap bounds the attempts per result slot. Zero uses
	// DefaultRetryCap.
	RetryCap int

	// SkipUnavailable proceeds with the remaining languages when a
	// requested language has no loaded words. When false the run
	// aborts with lexicon.UnavailableError.
	SkipUnavailable bool
}

// DefaultRetryCap bounds attempts per result slot when the request
// does not set its own cap.
const DefaultRetryCap = 50

// Username is one accepted result.
type Username struct {
	Value  string
	Lang   lexicon.Tag
	Suffix string
}

// State tracks the lifecycle of a generation run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is the terminal outcome of a run. Usernames are in acceptance
// order. State is Completed when the run ended on its own (fully or
// with an ExhaustedError) and Cancelled when the caller cancelled it.
type Result struct {
	State     State
	Usernames []Username

	// Rejection tallies by reason.
	Profanity int
	Duplicate int
	NonASCII  int
}

// ExhaustedError is returned when the retry cap is hit while results
// are still needed. The run's partial results accompany it.
type ExhaustedError struct {
	Requested int
	Produced  int
	RetryCap  int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("generation exhausted after %d retries: produced %d of %d usernames",
		e.RetryCap, e.Produced, e.Requested)
}

// NonASCIIWordError indicates a sampled word that cannot be reduced to
// ASCII letters. It is always recovered by re-sampling and never
// surfaces to the caller.
type NonASCIIWordError struct {
	Word string
}

func (e *NonASCIIWordError) Error() string {
	return fmt.Sprintf("word %q cannot be reduced to ASCII", e.Word)
}
