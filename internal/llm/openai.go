package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"wikirag/internal/config"
)

// OpenAIGenerator calls the OpenAI text completion endpoint, or the chat
// completion endpoint when chat is set. Any OpenAI-compatible server
// (llama.cpp, vLLM) works through BaseURL.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	chat        bool
	temperature float64
	maxTokens   int
}

// NewOpenAIGenerator creates a generator from the llm config block
func NewOpenAIGenerator(cfg config.LLMConfig, chat bool) *OpenAIGenerator {
	// no SDK retries: one request per Generate call
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		chat:        chat,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}
}

// Generate returns the model's completion for prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	var (
		text string
		err  error
	)
	if g.chat {
		text, err = g.generateChat(ctx, prompt)
	} else {
		text, err = g.generateCompletion(ctx, prompt)
	}
	if err != nil {
		log.Printf("[LLM] %s failed after %s: %v", g.model, time.Since(start), err)
		return "", err
	}
	log.Printf("[LLM] %s answered %d chars in %s", g.model, len(text), time.Since(start))
	return text, nil
}

func (g *OpenAIGenerator) generateCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Completions.New(ctx, openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(g.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(KindResponse, "openai", "completion returned no choices", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

func (g *OpenAIGenerator) generateChat(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(KindResponse, "openai", "chat completion returned no choices", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return NewError(KindService, "openai", "request failed", err)
	}

	msg := fmt.Sprintf("status %d", apiErr.StatusCode)
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewError(KindAuth, "openai", msg, err)
	case http.StatusTooManyRequests:
		return NewError(KindQuota, "openai", msg, err)
	default:
		return NewError(KindService, "openai", msg, err)
	}
}
