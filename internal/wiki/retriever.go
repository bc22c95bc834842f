package wiki

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// maxQueryRunes is the longest query the search endpoint accepts.
const maxQueryRunes = 300

// Retriever answers a query with the intros of the best matching articles,
// formatted as one text block.
type Retriever struct {
	client           *Client
	topK             int
	maxChars         int
	fullPageFallback bool
}

// Option configures a Retriever
type Option func(*Retriever)

// WithFullPageFallback reads the whole article when its intro extract is empty.
func WithFullPageFallback(enabled bool) Option {
	return func(r *Retriever) {
		r.fullPageFallback = enabled
	}
}

// NewRetriever creates a retriever returning at most topK pages and maxChars runes.
func NewRetriever(client *Client, topK, maxChars int, opts ...Option) *Retriever {
	if topK <= 0 {
		topK = 2
	}
	if maxChars <= 0 {
		maxChars = 2000
	}
	r := &Retriever{
		client:   client,
		topK:     topK,
		maxChars: maxChars,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns "Page: <title>\nSummary: <text>" blocks separated by a blank
// line. It returns an empty string when nothing usable is found.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	hits, err := r.client.Search(ctx, truncate(query, maxQueryRunes), r.topK)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	log.Printf("[Wiki] %d search hits for %q", len(hits), query)

	summaries := make([]string, 0, len(hits))
	for _, hit := range hits {
		page, err := r.client.Page(ctx, hit.Title)
		if err != nil {
			return "", fmt.Errorf("fetching %q: %w", hit.Title, err)
		}
		if page.Missing || page.Disambiguation {
			log.Printf("[Wiki] skipping %q (missing=%t disambiguation=%t)", hit.Title, page.Missing, page.Disambiguation)
			continue
		}

		summary := page.Extract
		if summary == "" && r.fullPageFallback && page.URL != "" {
			text, err := r.client.Article(ctx, page.URL)
			if err != nil {
				log.Printf("[Wiki] full page fallback failed for %q: %v", page.Title, err)
			} else {
				summary = text
			}
		}
		if summary == "" {
			summary = cleanSnippet(hit.Snippet)
		}
		if summary == "" {
			continue
		}
		summaries = append(summaries, fmt.Sprintf("Page: %s\nSummary: %s", page.Title, summary))
	}

	return truncate(strings.Join(summaries, "\n\n"), r.maxChars), nil
}
