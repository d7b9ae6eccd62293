package upstream

import (
	"net/url"
	"strings"
)

// corsProxyPrefix wraps absolute URLs when the frontend is served from a
// static host that has no server-side proxy of its own.
const corsProxyPrefix = "https://cors.isomorphic-git.org/"

// staticHost reports whether the given public hostname is a static
// hosting origin (GitHub Pages) that cannot proxy cross-origin calls.
func staticHost(host string) bool {
	return strings.HasSuffix(host, "github.io")
}

func isAbsolute(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Candidates builds the ordered endpoint list for one upstream call.
// On a static host the proxy-wrapped variant of an absolute primary
// endpoint is tried before the raw one; the well-known relative path
// always closes the list. Relative paths resolve against base and are
// dropped when no base is configured, since only a browser can resolve
// them against its own origin.
func Candidates(primary, fallbackPath, publicHost, base string) []string {
	var raw []string
	if isAbsolute(primary) {
		if staticHost(publicHost) {
			raw = append(raw, corsProxyPrefix+primary)
		}
		raw = append(raw, primary)
	}
	raw = append(raw, fallbackPath)

	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if isAbsolute(c) {
			out = append(out, c)
			continue
		}
		resolved, ok := resolveAgainst(base, c)
		if ok {
			out = append(out, resolved)
		}
	}
	return out
}

func resolveAgainst(base, path string) (string, bool) {
	if base == "" {
		return "", false
	}
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() {
		return "", false
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", false
	}
	return u.ResolveReference(ref).String(), true
}
