package checker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/lukemcguire/linkprobe/result"
)

// Validator probes external links one at a time with HEAD requests.
type Validator struct {
	client     *http.Client
	header     http.Header
	limiter    *rate.Limiter
	logger     *log.Logger
	progressCh chan<- Event
}

// NewValidator creates a Validator. The client should carry the per-request
// timeout; redirects are followed by its default policy.
// The progressCh parameter is optional; pass nil to disable progress events.
func NewValidator(client *http.Client, cfg Config, logger *log.Logger, progressCh chan<- Event) *Validator {
	return &Validator{
		client:     client,
		header:     requestHeader(cfg),
		limiter:    newPacer(cfg.RateLimit),
		logger:     logger,
		progressCh: progressCh,
	}
}

// Validate probes every link in order and files each outcome under valid or
// invalid. A failing link never stops the loop; only cancellation of ctx
// does, in which case the partial validation is returned with the error.
func (v *Validator) Validate(ctx context.Context, links []string) (result.Validation, error) {
	validation := result.Validation{
		Valid:   []result.LinkStatus{},
		Invalid: []result.LinkStatus{},
	}

	for _, link := range links {
		if err := v.limiter.Wait(ctx); err != nil {
			return validation, fmt.Errorf("validate links: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return validation, fmt.Errorf("validate links: %w", err)
		}

		status := v.Check(ctx, link)
		// A probe cut short by cancellation says nothing about the link.
		if err := ctx.Err(); err != nil {
			return validation, fmt.Errorf("validate links: %w", err)
		}
		validation.Add(status)

		if status.Valid() {
			v.logger.Debug("Valid link", "url", link, "status", status.StatusCode)
		} else {
			v.logger.Debug("Invalid link", "url", link, "value", status.Value())
		}

		if v.progressCh != nil {
			v.progressCh <- Event{
				Stage:         StageValidated,
				URL:           link,
				StatusCode:    status.StatusCode,
				Error:         status.Err,
				ErrorCategory: status.Category,
				Checked:       validation.Len(),
				Total:         len(links),
				Valid:         len(validation.Valid),
				Invalid:       len(validation.Invalid),
			}
		}
	}

	return validation, nil
}

// Check issues one HEAD request for link and records its final status code,
// or the request failure.
func (v *Validator) Check(ctx context.Context, link string) result.LinkStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return result.Failure(link, err)
	}
	req.Header = v.header.Clone()

	resp, err := v.client.Do(req)
	if err != nil {
		return result.Failure(link, err)
	}
	if closeErr := resp.Body.Close(); closeErr != nil {
		v.logger.Debug("close response body", "url", link, "err", closeErr)
	}

	return result.Status(link, resp.StatusCode)
}
