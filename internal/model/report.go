package model

import "time"

// RunQualityMetrics is the derived quality snapshot of a run, recomputed
// per run and never mutated independently.
type RunQualityMetrics struct {
	EvidenceCoverageRatio float64       `json:"evidence_coverage_ratio"` // |valid| / |valid ∪ invalid|, 0 for an empty set
	BenefitsCount         int           `json:"benefits_count"`
	RejectedCount         int           `json:"rejected_count"`
	LayerDistribution     map[Layer]int `json:"layer_distribution"`
	Warnings              []string      `json:"warnings,omitempty"`
}

/// Report is the complete output of one extraction run: the exported
// benefit set plus quality metrics. Benefits holds only the valid subset;
// rejected benefits are counted in the metrics but never exported.
type Report struct {
	Source      string    `json:"source"` // Directory or upload the documents came from
	GeneratedAt time.Time `json:"generated_at"`

	Documents []DocumentSummary `json:"documents"`
	Benefits  []Benefit         `json:"benefits"`
	Metrics   RunQualityMetrics `json:"metrics"`

	// LLM holds the optional model-generated summary. It is produced after
	// validation and never affects the benefit set.
	LLM *LLMSummary `json:"llm,omitempty"`
}

// DocumentSummary is the per-document slice of a report.
type DocumentSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	DocType     DocType `json:"doc_type"`
	PageCount   int     `json:"page_count"`
}

// LLMSummary contains the optional model-generated run summary.
// It is clearly separated from the extracted data and never feeds back
// into harvesting, dedup, or validation.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"` // Whether quote enforcement was enabled
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"` // e.g. quote leaks detected
}
