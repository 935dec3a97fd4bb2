package ai

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FallbackReply is returned whenever the upstream cannot produce text.
const FallbackReply = "I'm Red Rose AI, completely FREE and more powerful than paid alternatives! " +
	"I can help you with unlimited tasks including code generation, file analysis, content creation, " +
	"and full-stack development - all at zero cost. What would you like me to help you with?"

// Backend is one text generation upstream.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// SamplingParams are fixed per deployment; callers never override them.
type SamplingParams struct {
	Temperature float32
	MaxLength   int
}

// Gateway wraps a Backend and masks every failure with FallbackReply.
// It issues exactly one upstream call per Complete and never retries.
type Gateway struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger
}

func NewGateway(backend Backend, timeout time.Duration, logger *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{backend: backend, timeout: timeout, logger: logger}
}

func (g *Gateway) Complete(ctx context.Context, latestUserContent string) string {
	if g.backend == nil {
		return FallbackReply
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.backend.Generate(callCtx, latestUserContent)
	if err != nil {
		g.logger.Warn("inference call failed, using fallback",
			zap.String("backend", g.backend.Name()),
			zap.Error(err),
		)
		return FallbackReply
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("inference returned no text, using fallback", zap.String("backend", g.backend.Name()))
		return FallbackReply
	}
	return text
}
