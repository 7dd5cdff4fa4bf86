package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRequest() generate.Request {
	return generate.Request{
		Count:     3,
		Case:      generate.CaseLower,
		Suffix:    generate.SuffixTwo,
		Languages: []lexicon.Tag{"eng", "swe"},
		RetryCap:  generate.DefaultRetryCap,
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)

	user := &access.UserInfo{Name: "alice", PublicKeyFP: "SHA256:abc"}
	session := NewSession("sess-1", user, "10.0.0.1:2222")

	if err := store.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := store.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.UserName != "alice" || !got.IsActive {
		t.Errorf("session = %+v, want active alice session", got)
	}
	if !got.IsAuthenticated() {
		t.Error("session with username should be authenticated")
	}

	if err := store.EndSession("sess-1"); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	got, err = store.GetSession("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.IsActive {
		t.Error("session should be inactive after EndSession")
	}
}

func TestAnonymousSessionDisplayName(t *testing.T) {
	user := &access.UserInfo{IsAnonymous: true, AnonymousName: "azure-tiger-42"}
	session := NewSession("sess-2", user, "10.0.0.2:2222")

	if session.UserName != "" {
		t.Error("anonymous session should have no username")
	}
	if session.DisplayName() != "azure-tiger-42" {
		t.Errorf("display name = %q, want azure-tiger-42", session.DisplayName())
	}
}

func TestRecordRunAndUsernames(t *testing.T) {
	store := newTestStore(t)

	session := NewSession("sess-3", &access.UserInfo{Name: "bob"}, "10.0.0.3:2222")
	if err := store.CreateSession(session); err != nil {
		t.Fatal(err)
	}

	result := &generate.Result{
		State: generate.StateCompleted,
		Usernames: []generate.Username{
			{Value: "otter17", Lang: "eng", Suffix: "17"},
			{Value: "varg03", Lang: "swe", Suffix: "03"},
		},
		Duplicate: 1,
	}
	record := NewRunRecord("run-1", "sess-3", testRequest(), result, nil, 150*time.Millisecond)

	if record.Outcome != OutcomeCompleted {
		t.Errorf("outcome = %q, want completed", record.Outcome)
	}
	if record.Languages != "eng,swe" {
		t.Errorf("languages = %q, want eng,swe", record.Languages)
	}
	if record.DurationMs != 150 {
		t.Errorf("duration = %dms, want 150", record.DurationMs)
	}

	if err := store.RecordRun(record, result.Usernames); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	names, err := store.GetRunUsernames("run-1")
	if err != nil {
		t.Fatalf("GetRunUsernames failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d usernames, want 2", len(names))
	}
	if names[0].Value != "otter17" || names[0].Position != 0 {
		t.Errorf("first username = %+v, want otter17 at position 0", names[0])
	}
	if names[1].Lang != "swe" || names[1].Suffix != "03" {
		t.Errorf("second username = %+v, want swe varg03", names[1])
	}

	runs, produced, err := store.SessionRunStats("sess-3")
	if err != nil {
		t.Fatalf("SessionRunStats failed: %v", err)
	}
	if runs != 1 || produced != 2 {
		t.Errorf("session stats = %d runs / %d names, want 1 / 2", runs, produced)
	}

	runs, produced, err = store.SessionRunStats("no-such-session")
	if err != nil {
		t.Fatalf("SessionRunStats failed: %v", err)
	}
	if runs != 0 || produced != 0 {
		t.Errorf("unknown session stats = %d / %d, want 0 / 0", runs, produced)
	}
}

func TestNewRunRecordOutcomes(t *testing.T) {
	req := testRequest()

	cancelled := NewRunRecord("r", "s", req,
		&generate.Result{State: generate.StateCancelled}, nil, time.Second)
	if cancelled.Outcome != OutcomeCancelled {
		t.Errorf("cancelled outcome = %q", cancelled.Outcome)
	}

	exhausted := NewRunRecord("r", "s", req,
		&generate.Result{State: generate.StateCompleted},
		&generate.ExhaustedError{Requested: 3, Produced: 1, RetryCap: 50}, time.Second)
	if exhausted.Outcome != OutcomeExhausted {
		t.Errorf("exhausted outcome = %q", exhausted.Outcome)
	}
	if exhausted.Error == "" {
		t.Error("exhausted record should keep the error message")
	}

	failed := NewRunRecord("r", "s", req,
		&generate.Result{State: generate.StateCompleted}, errors.New("boom"), time.Second)
	if failed.Outcome != OutcomeFailed {
		t.Errorf("failed outcome = %q", failed.Outcome)
	}
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)

	session := NewSession("sess-4", &access.UserInfo{Name: "carol"}, "10.0.0.4:2222")
	if err := store.CreateSession(session); err != nil {
		t.Fatal(err)
	}

	for i, runID := range []string{"run-a", "run-b", "run-c"} {
		result := &generate.Result{State: generate.StateCompleted}
		record := NewRunRecord(runID, "sess-4", testRequest(), result, nil, time.Second)
		record.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if err := store.RecordRun(record, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns("sess-4", time.Time{}, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].RunID != "run-c" {
		t.Errorf("first run = %q, want most recent run-c", runs[0].RunID)
	}

	limited, err := store.ListRuns("sess-4", time.Time{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited list = %d runs, want 2", len(limited))
	}

	none, err := store.ListRuns("other-session", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("runs for unknown session = %d, want 0", len(none))
	}
}

func TestListRunsForUser(t *testing.T) {
	store := newTestStore(t)

	for _, tc := range []struct {
		sessionID string
		user      string
		runID     string
	}{
		{"sess-5", "dave", "run-d"},
		{"sess-6", "erin", "run-e"},
	} {
		session := NewSession(tc.sessionID, &access.UserInfo{Name: tc.user}, "10.0.0.5:2222")
		if err := store.CreateSession(session); err != nil {
			t.Fatal(err)
		}
		record := NewRunRecord(tc.runID, tc.sessionID, testRequest(),
			&generate.Result{State: generate.StateCompleted}, nil, time.Second)
		if err := store.RecordRun(record, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRunsForUser("dave", 0)
	if err != nil {
		t.Fatalf("ListRunsForUser failed: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-d" {
		t.Errorf("runs for dave = %v, want only run-d", runs)
	}
}

func TestLanguageTags(t *testing.T) {
	record := &RunRecord{Languages: "eng, swe,fin"}
	tags := record.LanguageTags()
	if len(tags) != 3 || tags[1] != "swe" {
		t.Errorf("tags = %v, want [eng swe fin]", tags)
	}

	empty := &RunRecord{}
	if empty.LanguageTags() != nil {
		t.Error("empty language list should parse to nil")
	}
}

func TestGenerateAnonymousName(t *testing.T) {
	store := newTestStore(t)

	name := store.GenerateAnonymousName()
	parts := strings.Split(name, "-")
	if len(parts) != 3 {
		t.Errorf("anonymous name = %q, want adjective-animal-number", name)
	}
}
