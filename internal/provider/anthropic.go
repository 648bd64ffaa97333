// Package provider constructs the completion-service client.
package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hmunir/eduguide/internal/config"
)

// DefaultModel is used when no EDU_MODEL override is configured.
const DefaultModel = anthropic.ModelClaude3_5HaikuLatest

// NewClient returns a Messages API client built from configuration.
// extra options come last so tests can inject a transport.
func NewClient(cfg *config.Config, extra ...option.RequestOption) *anthropic.Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)
	c := anthropic.NewClient(opts...)
	return &c
}

// Model resolves the model to request.
func Model(cfg *config.Config) anthropic.Model {
	if cfg.Model != "" {
		return anthropic.Model(cfg.Model)
	}
	return DefaultModel
}
