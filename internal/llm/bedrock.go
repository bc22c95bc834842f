package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"wikirag/internal/config"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// modelInvoker is the part of the bedrockruntime client the generator uses
type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator calls an Anthropic messages model hosted on AWS Bedrock.
type BedrockGenerator struct {
	client      modelInvoker
	modelID     string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewBedrockGenerator loads the default AWS credential chain for cfg.Region.
func NewBedrockGenerator(ctx context.Context, cfg config.LLMConfig) (*BedrockGenerator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return newBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newBedrockGenerator(client modelInvoker, cfg config.LLMConfig) *BedrockGenerator {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &BedrockGenerator{
		client:      client,
		modelID:     cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(cfg.Timeout),
	}
}

type bedrockContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockMessage struct {
	Role    string           `json:"role"`
	Content []bedrockContent `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      float64          `json:"temperature"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockResponse struct {
	Content []bedrockContent `json:"content"`
}

// Generate returns the model's completion for prompt.
func (g *BedrockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        g.maxTokens,
		Temperature:      g.temperature,
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContent{{Type: "text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", NewError(KindService, "bedrock", "marshaling request", err)
	}

	start := time.Now()
	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Printf("[LLM] bedrock %s failed after %s: %v", g.modelID, time.Since(start), err)
		return "", classifyBedrockError(err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", NewError(KindResponse, "bedrock", "decoding response", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", NewError(KindResponse, "bedrock", "response has no text content", nil)
	}
	log.Printf("[LLM] bedrock %s answered %d chars in %s", g.modelID, sb.Len(), time.Since(start))
	return strings.TrimSpace(sb.String()), nil
}

func classifyBedrockError(err error) error {
	var denied *types.AccessDeniedException
	var throttled *types.ThrottlingException
	switch {
	case errors.As(err, &denied):
		return NewError(KindAuth, "bedrock", "access denied", err)
	case errors.As(err, &throttled):
		return NewError(KindQuota, "bedrock", "throttled", err)
	default:
		return NewError(KindService, "bedrock", "invoke failed", err)
	}
}
