package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsChecker consults the page host's robots.txt before the page is
// fetched. It only ever blocks on an explicit Disallow rule.
type RobotsChecker struct {
	client *http.Client
	header http.Header
}

// NewRobotsChecker creates a RobotsChecker that fetches robots.txt with client.
func NewRobotsChecker(client *http.Client, cfg Config) *RobotsChecker {
	return &RobotsChecker{client: client, header: requestHeader(cfg)}
}

// Allowed reports whether userAgent may fetch rawURL. It returns true along
// with the error when robots.txt cannot be fetched or parsed.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL, userAgent string) (bool, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if target.Host == "" {
		return true, nil
	}

	rules, err := r.load(ctx, target)
	if err != nil || rules == nil {
		return true, err
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return rules.TestAgent(path, userAgent), nil
}

// load fetches and parses robots.txt for target's host. A nil result with a
// nil error means no rules apply.
func (r *RobotsChecker) load(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := (&url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("robots.txt request for %s: %w", target.Host, err)
	}
	req.Header = r.header.Clone()

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", target.Host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Only a 2xx body carries rules. 4xx and 5xx both fail open.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt for %s: %w", target.Host, err)
	}
	rules, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", target.Host, err)
	}
	return rules, nil
}
