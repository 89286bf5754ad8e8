// Package caption generates training captions for images using a local or
// remote Ollama vision model, writing one-line .txt sidecars named after the
// image stem.
package caption

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Options configures the captioning client.
type Options struct {
	// Host is the Ollama server URL, e.g. http://127.0.0.1:11434.
	Host string

	// Model must be a vision-capable model such as qwen2.5vl or llava.
	Model string

	// MaxTokens bounds the caption length.
	MaxTokens int

	SystemPrompt string
	UserPrompt   string
}

// Client wraps the Ollama API client for image captioning.
type Client struct {
	api  *api.Client
	opts Options
}

// NewClient creates a captioning client against the given Ollama host.
func NewClient(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", opts.Host, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q: expected scheme://host[:port]", opts.Host)
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Client{
		api:  api.NewClient(base, http.DefaultClient),
		opts: opts,
	}, nil
}

// Caption produces a single-line caption for raw image bytes.
func (c *Client) Caption(ctx context.Context, imageData []byte) (string, error) {
	// Vision models on CPU can be slow; bound the call if the caller didn't.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
	}

	var msgs []api.Message
	if c.opts.SystemPrompt != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: c.opts.SystemPrompt})
	}
	msgs = append(msgs, api.Message{
		Role:    "user",
		Content: c.opts.UserPrompt,
		Images:  []api.ImageData{api.ImageData(imageData)},
	})

	// Deterministic decoding keeps captions reproducible across runs.
	options := map[string]any{
		"temperature": 0,
		"seed":        1,
	}
	if c.opts.MaxTokens > 0 {
		options["num_predict"] = c.opts.MaxTokens
	}

	req := &api.ChatRequest{
		Model:    c.opts.Model,
		Messages: msgs,
		Options:  options,
	}

	var response strings.Builder
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		response.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	caption := NormalizeCaption(response.String())
	if caption == "" {
		return "", fmt.Errorf("model %s returned an empty caption", c.opts.Model)
	}
	return caption, nil
}

// NormalizeCaption collapses all whitespace runs (including newlines and
// tabs) into single spaces. Training captions must be one continuous line.
func NormalizeCaption(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
