package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/config"
	"github.com/johan-st/wordname-tui/internal/filter"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/lexicon"
	"github.com/johan-st/wordname-tui/internal/testutil"
)

// testEnv sets up a CLI handler over a temp lexicon.
type testEnv struct {
	t        *testing.T
	store    *lexicon.Store
	handler  *Handler
	resolver *access.Resolver

	adminUser *access.UserInfo
	engUser   *access.UserInfo
	anonUser  *access.UserInfo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.TestLexicon(t, map[lexicon.Tag][]string{
		"eng": {"cat", "dog", "bird", "fish", "horse", "mouse", "otter", "crow"},
		"swe": {"katt", "hund", "lax", "varg", "mus", "uggla"},
	})

	cfg := &config.Config{
		AnonymousAccess: "none",
		Users: []config.User{
			{Name: "admin", Admin: true},
			{Name: "english", Languages: []config.LanguageGrant{{Pattern: "eng", Level: "generate"}}},
		},
	}
	resolver := cfg.BuildResolver()

	f := filter.New()
	gen := generate.New(store, f, log.New(io.Discard))

	env := &testEnv{
		t:        t,
		store:    store,
		resolver: resolver,
		handler:  NewHandler(store, gen, nil, nil, resolver, f, "test"),

		adminUser: &access.UserInfo{Name: "admin", IsAdmin: true},
		engUser:   &access.UserInfo{Name: "english"},
		anonUser:  &access.UserInfo{IsAnonymous: true, AnonymousName: "misty-otter-01"},
	}

	return env
}

func (e *testEnv) run(user *access.UserInfo, args ...string) (stdout, stderr string, exitCode int) {
	e.t.Helper()

	var outBuf, errBuf bytes.Buffer
	ctx := &CommandContext{
		User:      user,
		Lexicon:   e.store,
		Generator: e.handler.generator,
		Resolver:  e.resolver,
		Args:      args[1:],
		Out:       &outBuf,
		Err:       &errBuf,
		exitCode:  0,
	}

	e.handler.routeCommand(args[0], ctx)

	return outBuf.String(), errBuf.String(), ctx.exitCode
}

// --- Generation ---

func TestCLI_Generate_Plain(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, exitCode := env.run(env.adminUser,
		"generate", "--count=5", "--format=plain")

	if exitCode != 0 {
		t.Fatalf("generate failed: stderr=%q", stderr)
	}

	lines := strings.Fields(stdout)
	if len(lines) != 5 {
		t.Errorf("expected 5 usernames, got %d: %q", len(lines), stdout)
	}
	seen := map[string]bool{}
	for _, l := range lines {
		if seen[l] {
			t.Errorf("duplicate username %q", l)
		}
		seen[l] = true
	}
}

func TestCLI_Generate_SuffixAndCase(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, exitCode := env.run(env.adminUser,
		"generate", "--count=4", "--case=upper", "--suffix=2", "--format=plain")

	if exitCode != 0 {
		t.Fatalf("generate failed: stderr=%q", stderr)
	}

	for _, l := range strings.Fields(stdout) {
		word := l[:len(l)-2]
		suffix := l[len(l)-2:]
		if word != strings.ToUpper(word) {
			t.Errorf("username %q not upper-cased", l)
		}
		for _, c := range suffix {
			if c < '0' || c > '9' {
				t.Errorf("username %q does not end in a 2-digit suffix", l)
			}
		}
	}
}

func TestCLI_Generate_LanguageDenied(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, exitCode := env.run(env.engUser,
		"generate", "--langs=swe", "--count=2")

	if exitCode == 0 {
		t.Fatalf("expected failure, got stdout=%q", stdout)
	}
	if !strings.Contains(stderr, "Access denied") {
		t.Errorf("expected access denied, got stderr=%q", stderr)
	}
}

func TestCLI_Generate_GrantedLanguageOnly(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, exitCode := env.run(env.engUser,
		"generate", "--count=3", "--format=json")

	if exitCode != 0 {
		t.Fatalf("generate failed: stderr=%q", stderr)
	}
	if strings.Contains(stdout, `"language": "swe"`) {
		t.Errorf("user without swe grant received swedish words: %q", stdout)
	}
}

func TestCLI_Generate_UnknownLanguage(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, exitCode := env.run(env.adminUser, "generate", "--langs=xyz")

	if exitCode == 0 {
		t.Fatal("expected failure for unknown language")
	}
	if !strings.Contains(stderr, "unsupported language") {
		t.Errorf("expected unsupported language error, got %q", stderr)
	}
}

// --- Lexicon ---

func TestCLI_Langs(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, exitCode := env.run(env.adminUser, "langs")

	if exitCode != 0 {
		t.Fatalf("langs failed: stderr=%q", stderr)
	}
	if !strings.Contains(stdout, "English") || !strings.Contains(stdout, "Swedish") {
		t.Errorf("expected language names in output, got %q", stdout)
	}
	if !strings.Contains(stdout, "Finnish") {
		t.Errorf("expected unloaded languages to be listed, got %q", stdout)
	}
}

func TestCLI_Import_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, exitCode := env.run(env.engUser, "import", "words.txt")

	if exitCode == 0 {
		t.Fatal("expected failure for non-admin import")
	}
	if !strings.Contains(stderr, "admin access required") {
		t.Errorf("expected admin error, got %q", stderr)
	}
}

// --- Check ---

func TestCLI_Check(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		word     string
		wantExit int
		wantOut  string
	}{
		{name: "clean word", word: "otter", wantExit: 0, wantOut: "ok"},
		{name: "accented word", word: "café", wantExit: 0, wantOut: `"cafe"`},
		{name: "profane word", word: "shit", wantExit: 1, wantOut: "content filter"},
		{name: "non-ascii word", word: "猫", wantExit: 1, wantOut: "not usable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, exitCode := env.run(env.adminUser, "check", tt.word)
			if exitCode != tt.wantExit {
				t.Errorf("check %q exit = %d, want %d", tt.word, exitCode, tt.wantExit)
			}
			if !strings.Contains(stdout, tt.wantOut) {
				t.Errorf("check %q output = %q, want substring %q", tt.word, stdout, tt.wantOut)
			}
		})
	}
}

// --- Utility ---

func TestCLI_Whoami(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, _ := env.run(env.anonUser, "whoami")

	if !strings.Contains(stdout, "misty-otter-01") {
		t.Errorf("expected anonymous name in output, got %q", stdout)
	}
	if !strings.Contains(stdout, "Anonymous:\ttrue") {
		t.Errorf("expected anonymous flag, got %q", stdout)
	}
}

func TestCLI_Version(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, _ := env.run(env.adminUser, "version")

	if !strings.Contains(stdout, "wordname-tui test") {
		t.Errorf("unexpected version output: %q", stdout)
	}
}

func TestCLI_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, exitCode := env.run(env.adminUser, "frobnicate")

	if exitCode == 0 {
		t.Fatal("expected non-zero exit for unknown command")
	}
	if !strings.Contains(stderr, "Unknown command") {
		t.Errorf("expected unknown command error, got %q", stderr)
	}
}
