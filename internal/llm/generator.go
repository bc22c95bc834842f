package llm

import (
	"context"
	"fmt"

	"wikirag/internal/config"
)

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIGenerator(cfg, false), nil
	case "openai-chat":
		return NewOpenAIGenerator(cfg, true), nil
	case "bedrock":
		return NewBedrockGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
