// Package intelligence sends single-turn prompts to a chat agent built with
// go-agents. The provider (Ollama or Azure) is chosen by configuration.
package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

// Errors returned by Client.
var (
	ErrDisabled      = errors.New("intelligence service not configured")
	ErrEmptyResponse = errors.New("intelligence service returned no content")
)

// Completer produces a text completion for a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatFunc sends one prompt through an agent and returns the reply text.
type ChatFunc func(ctx context.Context, cfg *gaconfig.AgentConfig, prompt string) (string, error)

// Option customizes a Client.
type Option func(*Client)

// WithChat replaces the agent call. Tests use it to stand in for a provider.
func WithChat(fn ChatFunc) Option {
	return func(c *Client) { c.chat = fn }
}

// Client sends single-turn prompts to the configured provider.
type Client struct {
	cfg    Config
	agent  gaconfig.AgentConfig
	chat   ChatFunc
	logger *slog.Logger
}

// New creates a Client. A client built from a config without a provider
// answers every call with ErrDisabled.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:    *cfg,
		agent:  cfg.Agent(),
		chat:   agentChat,
		logger: logger.With("system", "intelligence", "provider", cfg.Provider),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client has a provider to talk to.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled()
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (_ string, err error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	ctx, span := tracing.StartSpan(ctx, "intelligence.complete", tracing.KindClient)
	span.WithAttributes(map[string]string{"provider": c.cfg.Provider, "model": c.cfg.Model})
	defer func() { tracing.EndSpan(span, err) }()

	if timeout := c.cfg.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cfg := c.agent
	content, err := c.chat(ctx, &cfg, prompt)
	if err != nil {
		c.logger.Warn("agent chat failed", "error", err)
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	span.SetInt("response_chars", len(content))
	return content, nil
}

func agentChat(ctx context.Context, cfg *gaconfig.AgentConfig, prompt string) (string, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("agent chat: %w", err)
	}

	return resp.Content(), nil
}
