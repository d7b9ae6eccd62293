package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidatesAbsolutePrimary(t *testing.T) {
	got := Candidates("https://status.example.com/status", statusFallbackPath, "app.example.com", "https://api.example.com")
	assert.Equal(t, []string{
		"https://status.example.com/status",
		"https://api.example.com/api/prime/status",
	}, got)
}

func TestCandidatesStaticHostPrependsProxy(t *testing.T) {
	got := Candidates("https://status.example.com/status", statusFallbackPath, "player.github.io", "https://api.example.com")
	assert.Equal(t, []string{
		corsProxyPrefix + "https://status.example.com/status",
		"https://status.example.com/status",
		"https://api.example.com/api/prime/status",
	}, got)
}

func TestCandidatesStaticHostRelativePrimary(t *testing.T) {
	// a relative primary contributes nothing of its own; only the
	// well-known fallback path remains
	got := Candidates("/api/prime/status", statusFallbackPath, "player.github.io", "https://api.example.com")
	assert.Equal(t, []string{"https://api.example.com/api/prime/status"}, got)
}

func TestCandidatesRelativeDroppedWithoutBase(t *testing.T) {
	got := Candidates("/api/prime/status", statusFallbackPath, "app.example.com", "")
	assert.Empty(t, got)

	got = Candidates("https://status.example.com/status", statusFallbackPath, "app.example.com", "")
	assert.Equal(t, []string{"https://status.example.com/status"}, got)
}

func TestCandidatesBadBaseDropsRelative(t *testing.T) {
	got := Candidates("https://status.example.com/status", statusFallbackPath, "app.example.com", "not-a-url")
	assert.Equal(t, []string{"https://status.example.com/status"}, got)
}

func TestStaticHost(t *testing.T) {
	assert.True(t, staticHost("player.github.io"))
	assert.False(t, staticHost("example.com"))
	assert.False(t, staticHost(""))
}
