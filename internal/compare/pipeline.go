package compare

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs retrieval, direct generation and augmented generation for a query.
type Pipeline struct {
	retriever Retriever
	generator TextGenerator
}

// NewPipeline creates a pipeline. Both collaborators are shared by all runs
// and must be safe for concurrent use.
func NewPipeline(retriever Retriever, generator TextGenerator) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		generator: generator,
	}
}

// Run answers query three ways. A blank query returns an unsubmitted
// comparison without calling anything. Failures are reported per panel and
// never stop the other stages, except that the augmented answer is skipped
// when retrieval failed.
func (p *Pipeline) Run(ctx context.Context, query string) *Comparison {
	c := &Comparison{
		ID:    uuid.New(),
		Query: query,
	}
	if strings.TrimSpace(query) == "" {
		return c
	}
	c.Submitted = true
	start := time.Now()
	log.Printf("[Compare] %s: query %q", c.ID, query)

	retrieved, retrievalErr := p.retrieve(ctx, c)
	p.direct(ctx, c)

	c.Augmented = Panel{Title: TitleAugmented}
	if retrievalErr != nil {
		c.Augmented.Err = fmt.Errorf("%w: skipped augmented answer", ErrRetrievalUnavailable)
	} else {
		c.Prompt = ComposePrompt(query, retrieved)
		stageStart := time.Now()
		text, err := p.generator.Generate(ctx, c.Prompt)
		c.Timings.Augmented = time.Since(stageStart)
		if err != nil {
			log.Printf("[Compare] %s: augmented generation failed: %v", c.ID, err)
			c.Augmented.Err = fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
		} else {
			c.Augmented.Text = text
		}
	}

	c.Timings.Total = time.Since(start)
	log.Printf("[Compare] %s: done in %s (wiki %s, llm %s, wiki+llm %s)",
		c.ID, c.Timings.Total, c.Timings.Retrieval, c.Timings.Direct, c.Timings.Augmented)
	return c
}

func (p *Pipeline) retrieve(ctx context.Context, c *Comparison) (string, error) {
	c.Wikipedia = Panel{Title: TitleWikipedia}
	start := time.Now()
	text, err := p.retriever.Retrieve(ctx, c.Query)
	c.Timings.Retrieval = time.Since(start)
	if err != nil {
		log.Printf("[Compare] %s: retrieval failed: %v", c.ID, err)
		c.Wikipedia.Err = fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
		return "", err
	}
	c.Wikipedia.Text = text
	if text == "" {
		c.Wikipedia.Notice = NoResultsNotice
	}
	return text, nil
}

func (p *Pipeline) direct(ctx context.Context, c *Comparison) {
	c.Direct = Panel{Title: TitleDirect}
	start := time.Now()
	text, err := p.generator.Generate(ctx, c.Query)
	c.Timings.Direct = time.Since(start)
	if err != nil {
		log.Printf("[Compare] %s: direct generation failed: %v", c.ID, err)
		c.Direct.Err = fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
		return
	}
	c.Direct.Text = text
}
