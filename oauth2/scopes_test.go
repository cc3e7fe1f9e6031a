package oauth2

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoinScopes(t *testing.T) {
	got := JoinScopes([]Scope{ScopeTweetRead, ScopeDMWrite, ScopeOfflineAccess})
	if want := "tweet.read dm.write offline.access"; got != want {
		t.Errorf("JoinScopes = %q, want %q", got, want)
	}
	if got := JoinScopes(nil); got != "" {
		t.Errorf("JoinScopes(nil) = %q, want empty", got)
	}
}

func TestParseScopesRoundTrip(t *testing.T) {
	scopes := []Scope{ScopeTweetRead, ScopeUsersRead, ScopeOfflineAccess}
	if diff := cmp.Diff(scopes, ParseScopes(JoinScopes(scopes))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got := ParseScopes("   "); len(got) != 0 {
		t.Errorf("ParseScopes(blank) = %v, want empty", got)
	}
}

func TestAllScopesDistinct(t *testing.T) {
	seen := make(map[Scope]bool)
	for _, s := range AllScopes() {
		if seen[s] {
			t.Errorf("duplicate scope %q", s)
		}
		seen[s] = true
	}
	if len(seen) != 22 {
		t.Errorf("AllScopes() has %d distinct entries, want 22", len(seen))
	}
}
