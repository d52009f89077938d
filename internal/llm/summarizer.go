package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/zakaut/zakaut/internal/model"
)

// Summarizer wraps an optional LLM provider. A nil provider means the
// feature is disabled and GenerateSummary returns nothing.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty
// provider name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces the optional LLM summary for a finished run.
// It runs after validation and never alters the benefit set. Failures
// degrade to warnings instead of failing the run.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("Provider %s is not available", s.provider.Name())},
		}, nil
	}

	quotes := evidenceQuotes(report)

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:         report,
		EvidenceQuotes: quotes,
		Model:          s.config.Model,
		MaxTokens:      s.config.MaxTokens,
	})
	if err != nil {
		return &model.LLMSummary{
			Enabled:        true,
			Provider:       s.provider.Name(),
			Model:          s.config.Model,
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("Summary generation failed: %v", err)},
		}, nil
	}

	return &model.LLMSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictEvidence: s.config.StrictEvidence,
		SummaryMD:      resp.Summary,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
			fmt.Sprintf("Verified %d citations against the evidence set", len(resp.CitedQuotes)),
		},
	}, nil
}

// evidenceQuotes collects the verbatim quote allowlist from the exported
// benefit set.
func evidenceQuotes(report model.Report) []string {
	seen := make(map[string]bool)
	var quotes []string
	for _, b := range report.Benefits {
		for _, span := range b.Evidence.Spans {
			if span.Quote == "" || seen[span.Quote] {
				continue
			}
			seen[span.Quote] = true
			quotes = append(quotes, span.Quote)
		}
	}
	return quotes
}

// RenderSeparateMarkdown renders the LLM summary as a standalone
// markdown document, clearly labelled as generated content.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("# LLM Summary\n\n")
	sb.WriteString("> ⚠️ GENERATED CONTENT. The benefit set and its metrics were determined independently of this summary.\n\n")
	sb.WriteString(fmt.Sprintf("- Provider: %s\n", summary.Provider))
	sb.WriteString(fmt.Sprintf("- Model: %s\n", summary.Model))
	sb.WriteString(fmt.Sprintf("- Strict Evidence Mode: %t\n\n", summary.StrictEvidence))

	if summary.SummaryMD == "" {
		sb.WriteString("No summary generated.\n")
	} else {
		sb.WriteString(summary.SummaryMD)
		sb.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		sb.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return sb.String()
}
