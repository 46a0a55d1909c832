// Package checker checks a single web page for broken external links.
// It fetches the page, extracts anchor hrefs, classifies them as internal or
// external and probes every external link with a HEAD request.
package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/linkprobe/result"
	"github.com/lukemcguire/linkprobe/urlutil"
)

const (
	// DefaultUserAgent identifies requests the same way curl does.
	DefaultUserAgent = "curl/8.11.1"
	// DefaultAccept accepts any response type.
	DefaultAccept = "*/*"
)

// Config holds checker configuration.
type Config struct {
	PageURL        string        // The page whose links are checked
	UserAgent      string        // User-Agent header for every request
	Accept         string        // Accept header for every request
	FetchTimeout   time.Duration // Timeout for the page request (0 = none)
	RequestTimeout time.Duration // Timeout for each link probe (default 5s)
	RateLimit      float64       // Link probes per second (0 = unlimited)
	RespectRobots  bool          // Refuse pages disallowed by robots.txt
	MatchRule      MatchRule     // Internal/external matching rule
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(pageURL string) Config {
	return Config{
		PageURL:        pageURL,
		UserAgent:      DefaultUserAgent,
		Accept:         DefaultAccept,
		FetchTimeout:   30 * time.Second,
		RequestTimeout: 5 * time.Second,
	}
}

// Checker runs the fetch, extract, classify and validate pipeline for one page.
type Checker struct {
	cfg        Config
	fetcher    *Fetcher
	validator  *Validator
	logger     *log.Logger
	progressCh chan<- Event
}

// New creates a Checker with the given configuration.
// The logger may be nil to discard log output.
// The progressCh parameter is optional; pass nil to disable progress events.
func New(cfg Config, logger *log.Logger, progressCh chan<- Event) *Checker {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Accept == "" {
		cfg.Accept = DefaultAccept
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var robots *RobotsChecker
	if cfg.RespectRobots {
		// Separate client for robots.txt with shorter timeout
		robots = NewRobotsChecker(&http.Client{Timeout: 5 * time.Second}, cfg)
	}

	return &Checker{
		cfg:        cfg,
		fetcher:    NewFetcher(&http.Client{Timeout: cfg.FetchTimeout}, cfg, robots, logger),
		validator:  NewValidator(&http.Client{Timeout: cfg.RequestTimeout}, cfg, logger, progressCh),
		logger:     logger,
		progressCh: progressCh,
	}
}

// Run checks cfg.PageURL and returns the classified links and the
// validation of every external link. All state lives in the returned result.
func (c *Checker) Run(ctx context.Context) (*result.Result, error) {
	start := time.Now()

	target, err := urlutil.ParseTarget(c.cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("check page: %w", err)
	}
	pageURL := target.String()

	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	c.emit(Event{Stage: StageFetched, URL: pageURL, StatusCode: page.StatusCode})

	links, err := ExtractLinks(strings.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("extract links from %s: %w", pageURL, err)
	}
	for _, link := range links {
		c.logger.Debug("Found link", "href", link)
	}

	classified, err := Classify(links, pageURL, c.cfg.MatchRule)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Classified links",
		"found", len(links),
		"internal", len(classified.Internal),
		"external", len(classified.External))
	c.emit(Event{Stage: StageClassified, URL: pageURL, Total: len(classified.External)})

	validation, err := c.validator.Validate(ctx, classified.External)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Validated external links",
		"valid", len(validation.Valid),
		"invalid", len(validation.Invalid))

	return &result.Result{
		PageURL:    pageURL,
		PageStatus: page.StatusCode,
		PageLength: page.Length(),
		Links:      classified,
		Validation: validation,
		Stats: result.Stats{
			Internal: len(classified.Internal),
			External: len(classified.External),
			Valid:    len(validation.Valid),
			Invalid:  len(validation.Invalid),
			Duration: time.Since(start),
		},
	}, nil
}

func (c *Checker) emit(evt Event) {
	if c.progressCh != nil {
		c.progressCh <- evt
	}
}
