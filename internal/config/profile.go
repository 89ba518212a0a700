package config

import (
	"maps"
	"net/url"
	"strings"
	"time"
)

// Profile holds per-host request and crawl settings.
type Profile struct {
	// Cookie is sent with every request to the host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are added to every request to the host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy overrides the global proxy.
	Proxy string `yaml:"proxy,omitempty"`

	// Depth overrides the crawl depth when non-zero.
	Depth int `yaml:"depth,omitempty"`

	// Delay is the crawl delay between requests, e.g. "500ms".
	Delay time.Duration `yaml:"delay,omitempty"`

	// Exclude lists URL substrings the crawler never follows.
	Exclude []string `yaml:"exclude,omitempty"`

	// IgnorePatterns are glob patterns for URL paths to skip.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to matching URL paths when set.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// Cookies parses Cookie into a name to value map.
func (p Profile) Cookies() map[string]string {
	return ParseCookies(p.Cookie)
}

// File is the structure of the .webrecon profile file.
type File struct {
	// Targets maps a host (with port when non-standard) to its profile.
	Targets map[string]Profile `yaml:"targets,omitempty"`

	// Defaults apply to every host unless overridden.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the profile for host merged over the defaults.
func (cf *File) GetProfile(host string) Profile {
	if cf == nil {
		return Profile{}
	}

	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	p, ok := cf.Targets[host]
	if !ok {
		return result
	}
	if p.Cookie != "" {
		result.Cookie = p.Cookie
	}
	if p.UserAgent != "" {
		result.UserAgent = p.UserAgent
	}
	if p.Proxy != "" {
		result.Proxy = p.Proxy
	}
	if p.Depth != 0 {
		result.Depth = p.Depth
	}
	if p.Delay != 0 {
		result.Delay = p.Delay
	}
	if len(p.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(p.Headers))
		}
		maps.Copy(result.Headers, p.Headers)
	}
	if len(p.Exclude) > 0 {
		result.Exclude = p.Exclude
	}
	if len(p.IgnorePatterns) > 0 {
		result.IgnorePatterns = p.IgnorePatterns
	}
	if len(p.FollowPatterns) > 0 {
		result.FollowPatterns = p.FollowPatterns
	}
	return result
}

// ProfileFor returns the profile matching the host of target.
func (cf *File) ProfileFor(target string) Profile {
	u, err := url.Parse(target)
	if err != nil {
		return cf.GetProfile("")
	}
	return cf.GetProfile(u.Host)
}

// ParseCookies parses "a=1; b=2" into a map. Pairs without '=' are ignored.
func ParseCookies(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out
}
