// Package suggest asks a language model for replacements of broken links.
// It is an optional post-processing step: its output is markdown appended to
// an already written report.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lukemcguire/linkprobe/result"
)

// SectionTitle is the report heading the suggestions are appended under.
const SectionTitle = "🔁 Suggested Replacements"

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 1024
)

// ErrNoAPIKey is returned when suggestions are enabled without credentials.
var ErrNoAPIKey = errors.New("suggestions need an API key")

const promptTemplate = `You're a helpful web assistant. I have a list of broken external links from a blog post or article. For each one, suggest a high-quality, trustworthy, and up-to-date replacement link with similar content or value. Return your suggestions in markdown format with a short description.

Broken links:
%s

Return format:
- [Replacement Title](https://replacement.url) - short description of what this link offers.
`

// Suggester turns broken links into markdown replacement suggestions.
type Suggester interface {
	Suggest(ctx context.Context, invalid []result.LinkStatus) (string, error)
}

// BuildPrompt renders the request sent to the model, one "[value] url" line
// per broken link.
func BuildPrompt(invalid []result.LinkStatus) string {
	lines := make([]string, 0, len(invalid))
	for _, link := range invalid {
		lines = append(lines, fmt.Sprintf("[%s] %s", link.Value(), link.URL))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))
}

// Config holds the model settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// AnthropicSuggester implements Suggester with the Anthropic Messages API.
type AnthropicSuggester struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates an AnthropicSuggester. Extra request options are
// passed to the API client.
func NewAnthropic(cfg Config, opts ...option.RequestOption) (*AnthropicSuggester, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &AnthropicSuggester{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Suggest returns markdown suggestions for the broken links. It returns an
// empty string without calling the API when there is nothing to replace.
func (s *AnthropicSuggester) Suggest(ctx context.Context, invalid []result.LinkStatus) (string, error) {
	if len(invalid) == 0 {
		return "", nil
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(invalid))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("request suggestions: %w", err)
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(builder.String()), nil
}
