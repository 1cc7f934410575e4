package upstream

import (
	"net/url"
	"strings"
)

// DefaultProxyPrefix is the public prefix proxy the anime site tolerates.
const DefaultProxyPrefix = "https://api.codetabs.com/v1/proxy/?quest="

// ProxyPolicy selects, per target host, whether a request goes out directly or
// through a prefix-style proxy (the target URL appended verbatim to PrefixURL).
// The zero value fetches everything directly.
type ProxyPolicy struct {
	PrefixURL string
	hosts     map[string]struct{}
}

// NewProxyPolicy proxies the given hosts and their subdomains through prefixURL.
func NewProxyPolicy(prefixURL string, hosts []string) ProxyPolicy {
	p := ProxyPolicy{PrefixURL: prefixURL, hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			p.hosts[h] = struct{}{}
		}
	}
	return p
}

// Proxied reports whether requests to host go through the prefix proxy.
func (p ProxyPolicy) Proxied(host string) bool {
	if p.PrefixURL == "" || len(p.hosts) == 0 {
		return false
	}
	host = strings.ToLower(host)
	for {
		if _, ok := p.hosts[host]; ok {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			return false
		}
		host = host[i+1:]
	}
}

// Rewrite returns the URL that should actually be requested for target.
func (p ProxyPolicy) Rewrite(target string) string {
	u, err := url.Parse(target)
	if err != nil || !p.Proxied(u.Hostname()) {
		return target
	}
	return p.PrefixURL + target
}
