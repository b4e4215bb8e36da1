package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// Site names a known extraction recipe.
type Site string

const (
	SiteGreenhouse Site = "greenhouse"
	SiteLinkedIn   Site = "linkedin"
	SiteIndeed     Site = "indeed"
	SiteGeneric    Site = "generic"
)

// knownHosts is checked in order; the first substring hit wins.
var knownHosts = []struct {
	host string
	site Site
}{
	{"greenhouse.io", SiteGreenhouse},
	{"linkedin.com", SiteLinkedIn},
	{"indeed.com", SiteIndeed},
}

// DetectSite classifies rawURL by substring match on the lowercased URL.
// Unknown hosts are SiteGeneric.
func DetectSite(rawURL string) Site {
	lower := strings.ToLower(rawURL)
	for _, k := range knownHosts {
		if strings.Contains(lower, k.host) {
			return k.site
		}
	}
	return SiteGeneric
}

// RequiresSession reports whether pages of s are only visible with a
// logged-in session.
func (s Site) RequiresSession() bool {
	return s == SiteLinkedIn
}

func (s Site) String() string {
	return string(s)
}

// ParseURL checks that rawURL is an absolute http(s) URL a browser can open.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	return u, nil
}
