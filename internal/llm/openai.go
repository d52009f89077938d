package llm

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	client := openai.NewClientWithConfig(clientConfig)

	return &OpenAIProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: try to list models (lightweight API call)
	_, err := p.client.ListModels(ctx)
	if err != nil {
		// Log the actual error for debugging (this helps users diagnose API key issues)
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Summarize generates a summary using OpenAI's Chat Completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	// Build prompt if not provided
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.EvidenceQuotes)
	}

	// Determine model
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini // Default to gpt-4o-mini
	}

	// Determine max tokens
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}

	// Create timeout context
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Make API call
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant that summarizes insurance benefit extraction reports with strict adherence to evidence constraints.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3, // Lower temperature for more focused, factual output
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)

	// Extract quoted passages from the summary
	citedQuotes := extractQuotedPassages(summary)

	// CRITICAL: Verify strict evidence mode
	if p.config.StrictEvidence {
		for _, cited := range citedQuotes {
			if !quotedFromAllowlist(req.EvidenceQuotes, cited) {
				return nil, fmt.Errorf("QUOTE LEAK: LLM quoted text outside the evidence set: %q", cited)
			}
		}
	}

	return &SummarizeResponse{
		Summary:     summary,
		CitedQuotes: citedQuotes,
		Model:       model,
		TokensUsed:  resp.Usage.TotalTokens,
	}, nil
}

// extractQuotedPassages extracts passages the LLM wrapped in quotation
// marks. Both straight and typographic double quotes are recognized.
func extractQuotedPassages(text string) []string {
	quotePattern := regexp.MustCompile(`"([^"]{4,})"|“([^”]{4,})”`)
	matches := quotePattern.FindAllStringSubmatch(text, -1)

	// Deduplicate
	seen := make(map[string]bool)
	var unique []string
	for _, m := range matches {
		passage := m[1]
		if passage == "" {
			passage = m[2]
		}
		passage = strings.TrimSpace(passage)
		if passage != "" && !seen[passage] {
			seen[passage] = true
			unique = append(unique, passage)
		}
	}

	return unique
}

// quotedFromAllowlist reports whether the cited passage is contained in
// at least one allowed evidence quote.
func quotedFromAllowlist(allowed []string, cited string) bool {
	for _, q := range allowed {
		if strings.Contains(q, cited) {
			return true
		}
	}
	return false
}
