package oauth2

import "strings"

// Scope is one X API OAuth2 scope.
type Scope string

// Scopes the provider defines. ScopeOfflineAccess is what makes the token
// endpoint return a refresh token.
const (
	ScopeTweetRead          Scope = "tweet.read"
	ScopeTweetWrite         Scope = "tweet.write"
	ScopeTweetModerateWrite Scope = "tweet.moderate.write"
	ScopeUsersEmail         Scope = "users.email"
	ScopeUsersRead          Scope = "users.read"
	ScopeFollowsRead        Scope = "follows.read"
	ScopeFollowsWrite       Scope = "follows.write"
	ScopeOfflineAccess      Scope = "offline.access"
	ScopeSpaceRead          Scope = "space.read"
	ScopeMuteRead           Scope = "mute.read"
	ScopeMuteWrite          Scope = "mute.write"
	ScopeLikeRead           Scope = "like.read"
	ScopeLikeWrite          Scope = "like.write"
	ScopeListRead           Scope = "list.read"
	ScopeListWrite          Scope = "list.write"
	ScopeBlockRead          Scope = "block.read"
	ScopeBlockWrite         Scope = "block.write"
	ScopeBookmarkRead       Scope = "bookmark.read"
	ScopeBookmarkWrite      Scope = "bookmark.write"
	ScopeDMRead             Scope = "dm.read"
	ScopeDMWrite            Scope = "dm.write"
	ScopeMediaWrite         Scope = "media.write"
)

// AllScopes returns every scope the provider defines.
func AllScopes() []Scope {
	return []Scope{
		ScopeTweetRead,
		ScopeTweetWrite,
		ScopeTweetModerateWrite,
		ScopeUsersEmail,
		ScopeUsersRead,
		ScopeFollowsRead,
		ScopeFollowsWrite,
		ScopeOfflineAccess,
		ScopeSpaceRead,
		ScopeMuteRead,
		ScopeMuteWrite,
		ScopeLikeRead,
		ScopeLikeWrite,
		ScopeListRead,
		ScopeListWrite,
		ScopeBlockRead,
		ScopeBlockWrite,
		ScopeBookmarkRead,
		ScopeBookmarkWrite,
		ScopeDMRead,
		ScopeDMWrite,
		ScopeMediaWrite,
	}
}

// JoinScopes renders scopes as the space-separated authorize parameter.
func JoinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// ParseScopes splits a space-separated scope string, e.g. from
// configuration or a token response.
func ParseScopes(s string) []Scope {
	fields := strings.Fields(s)
	scopes := make([]Scope, len(fields))
	for i, f := range fields {
		scopes[i] = Scope(f)
	}
	return scopes
}
