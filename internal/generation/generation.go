// Package generation implements the text generation service for Inkwell.
// It wraps a go-agents chat agent behind a narrow interface so workflow
// executors stay independent of the provider wiring.
package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/inkwell-ai/inkwell/pkg/formatting"
	"github.com/inkwell-ai/inkwell/workflow"
)

// Kind identifies what a generation call is producing.
type Kind string

// Generation kinds, one per producing pipeline step.
const (
	KindTitle        Kind = "title"
	KindTOC          Kind = "toc"
	KindChapter      Kind = "chapter"
	KindIntroduction Kind = "introduction"
	KindConclusion   Kind = "conclusion"
	KindReview       Kind = "review"
)

// System defines the generation service contract. A failed call is a step
// failure; no retry is performed at this layer.
type System interface {
	Generate(ctx context.Context, kind Kind, prompt string) (string, error)
}

type generator struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// New creates a generation system backed by the configured agent.
func New(cfg gaconfig.AgentConfig, logger *slog.Logger) System {
	return &generator{
		agent:  cfg,
		logger: logger.With("system", "generation"),
	}
}

func (g *generator) Generate(ctx context.Context, kind Kind, prompt string) (string, error) {
	a, err := agent.New(&g.agent)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", workflow.ErrGeneration, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s call: %w", workflow.ErrGeneration, kind, err)
	}

	g.logger.InfoContext(ctx, "generation complete", "kind", kind)
	return resp.Content(), nil
}

// Structured runs a generation call and parses the response as JSON into T,
// tolerating markdown code fences around the payload.
func Structured[T any](ctx context.Context, sys System, kind Kind, prompt string) (T, error) {
	var zero T

	content, err := sys.Generate(ctx, kind, prompt)
	if err != nil {
		return zero, err
	}

	parsed, err := formatting.Parse[T](content)
	if err != nil {
		return zero, fmt.Errorf("%w: parse %s response: %w", workflow.ErrGeneration, kind, err)
	}

	return parsed, nil
}
