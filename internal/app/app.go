// Package app builds the comparison pipeline from configuration. It is shared
// by the HTTP server, the Lambda handler and the command line tool.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"wikirag/internal/compare"
	"wikirag/internal/config"
	"wikirag/internal/llm"
	"wikirag/internal/wiki"
)

// NewRetriever creates the Wikipedia retriever described by cfg.
func NewRetriever(cfg config.WikipediaConfig) *wiki.Retriever {
	client := wiki.NewClient(cfg.APIURL, cfg.UserAgent, time.Duration(cfg.Timeout))
	return wiki.NewRetriever(client, cfg.TopK, cfg.MaxChars,
		wiki.WithFullPageFallback(cfg.FullPageFallback))
}

// NewPipeline wires the retriever and the configured generator.
func NewPipeline(ctx context.Context, cfg *config.Config) (*compare.Pipeline, error) {
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm init: %w", err)
	}
	log.Printf("[Main] wikipedia %s (top_k=%d, max_chars=%d), llm %s/%s (temperature=%.2f)",
		cfg.Wikipedia.APIURL, cfg.Wikipedia.TopK, cfg.Wikipedia.MaxChars,
		cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.Temperature)
	return compare.NewPipeline(NewRetriever(cfg.Wikipedia), gen), nil
}
