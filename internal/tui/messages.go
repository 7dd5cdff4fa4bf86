package tui

import (
	"time"

	"github.com/johan-st/wordname-tui/internal/generate"
)

// Messages for async operations

// LanguagesLoadedMsg is sent when the available languages are loaded.
type LanguagesLoadedMsg struct {
	Languages []langOption
	Error     error
}

// UsernameAcceptedMsg is sent for each username a running generation accepts.
type UsernameAcceptedMsg struct {
	Username  generate.Username
	Produced  int
	Requested int
}

// GenerationDoneMsg is sent when a generation run reaches a terminal state.
type GenerationDoneMsg struct {
	Result   *generate.Result
	Err      error
	Duration time.Duration
}

// RunRecordedMsg is sent after a finished run is written to history.
type RunRecordedMsg struct {
	Error error
}

// FlashClearMsg clears the transient status message.
type FlashClearMsg struct{}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}
