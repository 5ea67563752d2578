package parser

import (
	"net/url"
	"sort"
	"strings"
)

// resolveLink resolves href against base and keeps it only when the result is
// an http(s) address whose host is domain or one of its subdomains.
func resolveLink(base *url.URL, domain, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !IsSameDomain(abs.String(), domain) {
		return "", false
	}
	return abs.String(), true
}

// IsSameDomain reports whether link's host is domain or a subdomain of it.
func IsSameDomain(link, domain string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// linkSet collects unique addresses; membership is the dedup.
type linkSet map[string]struct{}

func (s linkSet) add(link string) { s[link] = struct{}{} }

// sorted returns the members in a stable order for one run.
func (s linkSet) sorted() []string {
	links := make([]string, 0, len(s))
	for l := range s {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}

func mustParseBase(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		panic("parser: invalid base URL " + raw)
	}
	return u
}
