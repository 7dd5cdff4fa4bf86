package tui

import (
	"errors"
	"testing"

	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

func newTestApp() *App {
	defaults := generate.Request{
		Count:  40,
		Case:   generate.CaseLower,
		Suffix: generate.SuffixTwo,
		Policy: generate.PickUniform,
	}
	app := NewApp(nil, nil, nil, nil, nil, "test-session", defaults, 120, 40)
	app.langs = []langOption{
		{tag: "eng", words: 1000, enabled: true},
		{tag: "swe", words: 500, enabled: true},
		{tag: "fin", words: 200, enabled: false},
	}
	return app
}

func TestBuildRequest(t *testing.T) {
	app := newTestApp()

	req := app.buildRequest()
	if req.Count != 40 {
		t.Errorf("count = %d, want 40", req.Count)
	}
	if len(req.Languages) != 2 {
		t.Fatalf("languages = %v, want eng and swe", req.Languages)
	}
	if req.Languages[0] != lexicon.Tag("eng") || req.Languages[1] != lexicon.Tag("swe") {
		t.Errorf("languages = %v, want [eng swe]", req.Languages)
	}
	if req.RetryCap != generate.DefaultRetryCap {
		t.Errorf("retry cap = %d, want %d", req.RetryCap, generate.DefaultRetryCap)
	}
}

func TestAdjustSettingCountClamps(t *testing.T) {
	app := newTestApp()
	app.settingsCursor = fieldCount

	app.count = 3
	app.adjustSetting(-1)
	if app.count != 1 {
		t.Errorf("count = %d, want clamp to 1", app.count)
	}

	app.count = maxCount
	app.adjustSetting(1)
	if app.count != maxCount {
		t.Errorf("count = %d, want clamp to %d", app.count, maxCount)
	}
}

func TestAdjustSettingTogglesLanguage(t *testing.T) {
	app := newTestApp()
	app.settingsCursor = fieldLangBase + 2

	app.adjustSetting(1)
	if !app.langs[2].enabled {
		t.Error("expected fin to be enabled after toggle")
	}
	app.adjustSetting(1)
	if app.langs[2].enabled {
		t.Error("expected fin to be disabled after second toggle")
	}
}

func TestCycleCase(t *testing.T) {
	c := generate.CaseLower
	c = cycleCase(c, 1)
	c = cycleCase(c, 1)
	c = cycleCase(c, 1)
	if c != generate.CaseLower {
		t.Errorf("case after full cycle = %v, want lower", c)
	}
	if cycleCase(generate.CaseLower, -1) == generate.CaseLower {
		t.Error("cycling backwards should change the case")
	}
}

func TestCycleSuffix(t *testing.T) {
	s := generate.SuffixNone
	for i := 0; i < 4; i++ {
		s = cycleSuffix(s, 1)
	}
	if s != generate.SuffixNone {
		t.Errorf("suffix after full cycle = %v, want none", s)
	}
}

func TestUpdateAcceptedAppendsResult(t *testing.T) {
	app := newTestApp()

	msg := UsernameAcceptedMsg{
		Username:  generate.Username{Value: "otter42", Lang: "eng", Suffix: "42"},
		Produced:  1,
		Requested: 5,
	}
	model, cmd := app.Update(msg)
	app = model.(*App)

	if len(app.results) != 1 || app.results[0].Value != "otter42" {
		t.Fatalf("results = %v, want [otter42]", app.results)
	}
	if app.produced != 1 || app.requested != 5 {
		t.Errorf("progress = %d/%d, want 1/5", app.produced, app.requested)
	}
	if cmd == nil {
		t.Error("expected a listen command to keep draining events")
	}
}

func TestUpdateGenerationDone(t *testing.T) {
	app := newTestApp()
	app.running = true
	app.runState = generate.StateRunning

	result := &generate.Result{
		State:     generate.StateCompleted,
		Usernames: []generate.Username{{Value: "otter42", Lang: "eng"}},
	}
	model, _ := app.Update(GenerationDoneMsg{Result: result})
	app = model.(*App)

	if app.running {
		t.Error("expected running to be false after done")
	}
	if app.runState != generate.StateCompleted {
		t.Errorf("run state = %v, want completed", app.runState)
	}
}

func TestUpdateGenerationDoneCancelled(t *testing.T) {
	app := newTestApp()
	app.running = true

	result := &generate.Result{State: generate.StateCancelled}
	model, _ := app.Update(GenerationDoneMsg{Result: result})
	app = model.(*App)

	if app.runState != generate.StateCancelled {
		t.Errorf("run state = %v, want cancelled", app.runState)
	}
}

func TestUpdateGenerationFailed(t *testing.T) {
	app := newTestApp()
	app.running = true

	runErr := errors.New("boom")
	model, _ := app.Update(GenerationDoneMsg{Err: runErr})
	app = model.(*App)

	if app.runErr == nil {
		t.Error("expected run error to be kept for display")
	}
}

func TestSortedView(t *testing.T) {
	app := newTestApp()
	app.results = []generate.Username{
		{Value: "zebra"},
		{Value: "Aardvark"},
		{Value: "moose"},
	}

	view := app.viewResults()
	if view[0].Value != "zebra" {
		t.Errorf("unsorted view should keep insertion order, got %q first", view[0].Value)
	}

	app.sortAlpha = true
	view = app.viewResults()
	if view[0].Value != "Aardvark" || view[2].Value != "zebra" {
		t.Errorf("sorted view = %v, want case-insensitive a-z", view)
	}
	if app.results[0].Value != "zebra" {
		t.Error("sorting must not mutate the underlying results")
	}
}
