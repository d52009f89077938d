package llm

import (
	"context"
	"fmt"

	"github.com/zakaut/zakaut/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the report with strict evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the extraction report to summarize
	Report model.Report

	// EvidenceQuotes is the STRICT allowlist of verbatim quotes the LLM
	// can repeat. The LLM cannot quote any policy text not in this list.
	EvidenceQuotes []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedQuotes are the quoted passages the LLM actually used (for verification)
	CitedQuotes []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the quote allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		StrictEvidence: true, // CRITICAL: Always enforce
		MaxTokens:      1000,
	}
}

// BuildPrompt constructs the default prompt for summarization with strict evidence mode
func BuildPrompt(report model.Report, evidenceQuotes []string) string {
	prompt := fmt.Sprintf(`You are summarizing a policy benefit extraction run. The extraction engine only records benefits backed by verbatim policy text - it NEVER invents entitlements.

CRITICAL RULES:
1. When you quote policy text, you MUST ONLY use passages from this allowed list:
%s

2. DO NOT infer, speculate, or paraphrase in a way that adds entitlements beyond this list.
3. If evidence is incomplete or a schedule document is missing, state that explicitly.
4. Answer in the dominant language of the quotes (Hebrew or English).
5. Never promise that a benefit will be paid - only describe what the documents state.

Run Summary:
- Source: %s
- Benefits exported: %d
- Rejected for incomplete evidence: %d
- Evidence coverage: %.2f
- Documents: %d

Layer distribution:
`, joinQuotes(evidenceQuotes), report.Source, report.Metrics.BenefitsCount, report.Metrics.RejectedCount, report.Metrics.EvidenceCoverageRatio, len(report.Documents))

	for layer, count := range report.Metrics.LayerDistribution {
		prompt += fmt.Sprintf("- %s: %d\n", layer, count)
	}

	for i, warning := range report.Metrics.Warnings {
		if i >= 3 {
			break
		}
		prompt += fmt.Sprintf("- warning: %s\n", warning)
	}

	prompt += "\nProvide a 3-5 sentence summary of what the insured is entitled to, focusing on documented coverage, not promises."

	return prompt
}

// Helper functions

func joinQuotes(quotes []string) string {
	if len(quotes) == 0 {
		return "(No evidence quotes available)"
	}
	result := ""
	for i, q := range quotes {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more quotes", len(quotes)-20)
			break
		}
		result += fmt.Sprintf("\n- %q", q)
	}
	return result
}
