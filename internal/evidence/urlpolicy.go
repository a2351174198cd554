package evidence

import (
	"net/url"
	"strings"
)

// hostList matches a host against a fixed list, either exactly or as a
// subdomain of a listed entry.
type hostList []string

func newHostList(hosts []string) hostList {
	out := make(hostList, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

func (l hostList) matches(host string) bool {
	for _, h := range l {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// hostOf returns the lowercase hostname (no port, no userinfo) of rawURL.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// URLPolicy rejects URLs that cannot carry a textual interpretation.
type URLPolicy struct {
	hosts     hostList
	fragments []string
}

// NewURLPolicy builds a policy from the blocked host and path lists.
func NewURLPolicy(cfg Config) *URLPolicy {
	fragments := make([]string, 0, len(cfg.BlockedPathFragments))
	for _, f := range cfg.BlockedPathFragments {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			fragments = append(fragments, f)
		}
	}
	return &URLPolicy{
		hosts:     newHostList(cfg.BlockedHosts),
		fragments: fragments,
	}
}

// IsBlocked reports whether rawURL must be skipped.
func (p *URLPolicy) IsBlocked(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return true
	}

	lower := strings.ToLower(rawURL)
	if strings.HasSuffix(lower, ".pdf") {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return true
	}
	if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return true
	}
	if p.hosts.matches(strings.ToLower(u.Hostname())) {
		return true
	}

	for _, f := range p.fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
