package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

var (
	// ErrFetch wraps network failures of the page request itself.
	ErrFetch = errors.New("fetch page")
	// ErrDisallowed is returned when robots.txt forbids fetching the page.
	ErrDisallowed = errors.New("page disallowed by robots.txt")
)

// acceptableStatus lists page statuses the run proceeds with.
var acceptableStatus = map[int]bool{
	http.StatusOK:               true,
	http.StatusMovedPermanently: true,
	http.StatusFound:            true,
	http.StatusNotModified:      true,
}

// knownBadStatus lists page statuses that abort the run as a recognized error.
var knownBadStatus = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusNotFound:            true,
	http.StatusInternalServerError: true,
}

// StatusError reports a page that answered with a status the run cannot
// continue with. Known is true for the recognized error statuses
// (403, 404, 500) and false for anything outside both lists.
type StatusError struct {
	URL        string
	StatusCode int
	Known      bool
}

func (e *StatusError) Error() string {
	if e.Known {
		return fmt.Sprintf("page %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("page %s returned unhandled status %d", e.URL, e.StatusCode)
}

// Page is the fetched document of the checked URL.
type Page struct {
	SourceURL  string
	StatusCode int
	Body       string
}

// Length returns the length of the page body in characters.
func (p *Page) Length() int {
	return utf8.RuneCountInString(p.Body)
}

// Fetcher retrieves the page whose links are checked.
type Fetcher struct {
	client    *http.Client
	header    http.Header
	userAgent string
	robots    *RobotsChecker
	logger    *log.Logger
}

// NewFetcher creates a Fetcher. A nil robots checker disables the
// robots.txt gate.
func NewFetcher(client *http.Client, cfg Config, robots *RobotsChecker, logger *log.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		header:    requestHeader(cfg),
		userAgent: cfg.UserAgent,
		robots:    robots,
		logger:    logger,
	}
}

// Fetch issues one GET for pageURL and returns the page when its status is
// acceptable. Recognized and unrecognized error statuses yield a
// *StatusError; failures before any status is observed wrap ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (page *Page, err error) {
	f.logger.Info("Fetching page...", "url", pageURL)

	if f.robots != nil {
		allowed, robotsErr := f.robots.Allowed(ctx, pageURL, f.userAgent)
		if robotsErr != nil {
			f.logger.Warn("robots.txt check failed, continuing", "err", robotsErr)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, pageURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetch, err)
	}
	req.Header = f.header.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close response body: %w", ErrFetch, closeErr)
		}
	}()

	status := resp.StatusCode
	f.logger.Info("Status code", "status", status)

	switch {
	case acceptableStatus[status]:
	case knownBadStatus[status]:
		return nil, &StatusError{URL: pageURL, StatusCode: status, Known: true}
	default:
		return nil, &StatusError{URL: pageURL, StatusCode: status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}

	page = &Page{SourceURL: pageURL, StatusCode: status, Body: string(body)}
	f.logger.Info("Retrieved page", "length", page.Length())
	return page, nil
}

// requestHeader builds the identifying header set shared by the page
// request and every link probe.
func requestHeader(cfg Config) http.Header {
	header := make(http.Header)
	header.Set("User-Agent", cfg.UserAgent)
	header.Set("Accept", cfg.Accept)
	return header
}
