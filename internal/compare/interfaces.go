package compare

import "context"

// Retriever fetches reference text for a query. An empty string with a nil
// error means nothing relevant was found.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
