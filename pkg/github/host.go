package github

import (
	"fmt"
	"net/url"
	"strings"
)

// APIHost holds the REST endpoints for a GitHub deployment.
// The zero value means github.com.
type APIHost struct {
	BaseURL   *url.URL
	UploadURL *url.URL
}

// IsDotcom reports whether the host is github.com.
func (h APIHost) IsDotcom() bool {
	return h.BaseURL == nil || h.BaseURL.Host == "api.github.com"
}

// ParseAPIHost resolves a --gh-host value. It accepts github.com, a ghe.com
// tenant or a GitHub Enterprise Server URL; a missing scheme means https.
func ParseAPIHost(s string) (APIHost, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return newDotcomHost()
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return APIHost{}, fmt.Errorf("could not parse host as URL: %s", s)
	}
	if u.Hostname() == "" {
		return APIHost{}, fmt.Errorf("host has no hostname: %s", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return APIHost{}, fmt.Errorf("host must use http or https: %s", s)
	}

	switch hostname := strings.ToLower(u.Hostname()); {
	case hostname == "github.com" || hostname == "api.github.com":
		return newDotcomHost()
	case strings.HasSuffix(hostname, ".ghe.com"):
		return newGHECHost(u)
	default:
		return newGHESHost(u)
	}
}

func newDotcomHost() (APIHost, error) {
	return newAPIHost("https://api.github.com/", "https://uploads.github.com/")
}

func newGHECHost(u *url.URL) (APIHost, error) {
	return newAPIHost(
		fmt.Sprintf("https://api.%s/", u.Hostname()),
		fmt.Sprintf("https://uploads.%s/", u.Hostname()),
	)
}

func newGHESHost(u *url.URL) (APIHost, error) {
	return newAPIHost(
		fmt.Sprintf("%s://%s/api/v3/", u.Scheme, u.Host),
		fmt.Sprintf("%s://%s/api/uploads/", u.Scheme, u.Host),
	)
}

func newAPIHost(base, upload string) (APIHost, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return APIHost{}, fmt.Errorf("failed to parse REST URL: %w", err)
	}
	uploadURL, err := url.Parse(upload)
	if err != nil {
		return APIHost{}, fmt.Errorf("failed to parse upload URL: %w", err)
	}
	return APIHost{BaseURL: baseURL, UploadURL: uploadURL}, nil
}
