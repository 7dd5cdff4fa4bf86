package access

import (
	"reflect"
	"testing"
)

func TestResolveAnonymous(t *testing.T) {
	r := NewResolver()
	anon := &UserInfo{Name: "brave-otter", IsAnonymous: true}

	if got := r.Resolve(anon, "eng"); got != None {
		t.Errorf("default anonymous level = %v, want none", got)
	}

	r.SetAnonymousAccess(Generate)
	if got := r.Resolve(anon, "eng"); got != Generate {
		t.Errorf("anonymous level = %v, want generate", got)
	}
}

func TestAnonymousLevelOnlyCoversAnonymousUsers(t *testing.T) {
	r := NewResolver()
	r.SetAnonymousAccess(Generate)
	r.AddUserGrant("bob", "eng", Generate)

	bob := &UserInfo{Name: "bob"}
	if got := r.Resolve(bob, "jpn"); got != None {
		t.Errorf("ungranted language for authenticated user = %v, want none", got)
	}
	if !r.CanGenerate(bob, "eng") {
		t.Error("granted language should still resolve for bob")
	}

	if got := r.Resolve(nil, "jpn"); got != Generate {
		t.Errorf("nil user level = %v, want generate", got)
	}
}

func TestResolveAdmin(t *testing.T) {
	r := NewResolver()
	r.AddAdmin("alice")

	alice := &UserInfo{Name: "alice"}
	if got := r.Resolve(alice, "eng"); got != Admin {
		t.Errorf("admin-list user level = %v, want admin", got)
	}

	flagged := &UserInfo{Name: "bob", IsAdmin: true}
	if got := r.Resolve(flagged, "swe"); got != Admin {
		t.Errorf("admin-flagged user level = %v, want admin", got)
	}

	// Anonymous users never get the admin list treatment, even if an
	// anonymous display name collides with an admin username.
	anon := &UserInfo{Name: "alice", IsAnonymous: true}
	if got := r.Resolve(anon, "eng"); got != None {
		t.Errorf("anonymous user with admin name = %v, want none", got)
	}
}

func TestResolveUserGrants(t *testing.T) {
	r := NewResolver()
	r.AddUserGrant("carol", "eng", Generate)
	r.AddUserGrant("carol", "swe", Admin)

	carol := &UserInfo{Name: "carol"}
	if got := r.Resolve(carol, "eng"); got != Generate {
		t.Errorf("eng level = %v, want generate", got)
	}
	if got := r.Resolve(carol, "swe"); got != Admin {
		t.Errorf("swe level = %v, want admin", got)
	}
	if got := r.Resolve(carol, "fin"); got != None {
		t.Errorf("ungranted language = %v, want none", got)
	}
}

func TestResolvePatternGrants(t *testing.T) {
	r := NewResolver()
	r.AddUserGrant("dave", "*", Generate)

	dave := &UserInfo{Name: "dave"}
	for _, lang := range []string{"eng", "swe", "jpn"} {
		if !r.CanGenerate(dave, lang) {
			t.Errorf("wildcard grant should allow %s", lang)
		}
	}
}

func TestResolvePublicGrants(t *testing.T) {
	r := NewResolver()
	r.AddPublicGrant("eng", Generate)

	anon := &UserInfo{Name: "quiet-heron", IsAnonymous: true}
	if !r.CanGenerate(anon, "eng") {
		t.Error("public grant should apply to anonymous users")
	}
	if r.CanGenerate(anon, "swe") {
		t.Error("public grant for eng should not cover swe")
	}
}

func TestUserGrantBeatsPublicGrant(t *testing.T) {
	r := NewResolver()
	r.AddPublicGrant("eng", Generate)
	r.AddUserGrant("erin", "eng", Admin)

	erin := &UserInfo{Name: "erin"}
	if got := r.Resolve(erin, "eng"); got != Admin {
		t.Errorf("level = %v, user grant should win over public grant", got)
	}
}

func TestFilterLanguages(t *testing.T) {
	r := NewResolver()
	r.AddUserGrant("frank", "eng", Generate)
	r.AddUserGrant("frank", "fin", Generate)

	frank := &UserInfo{Name: "frank"}
	got := r.FilterLanguages(frank, []string{"eng", "swe", "fin"})
	want := []string{"eng", "fin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterLanguages = %v, want %v", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"none", None},
		{"generate", Generate},
		{"admin", Admin},
		{"ADMIN", Admin},
		{"bogus", None},
		{"", None},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
