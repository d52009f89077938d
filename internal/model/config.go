package model

// Config is the full runtime configuration.
// Hierarchy (highest to lowest priority): CLI flags, ZAKAUT_* environment
// variables, ~/.zakaut/config.yaml, the defaults below.
type Config struct {
	Intake      IntakeConfig      `yaml:"intake"`
	Dedup       DedupConfig       `yaml:"dedup"`
	Validation  ValidationConfig  `yaml:"validation"`
	LLM         LLMConfig         `yaml:"llm"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// IntakeConfig controls document loading.
type IntakeConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes"` // Per-file size ceiling
	CacheTTL     int   `yaml:"cache_ttl"`      // Parsed-document cache TTL, seconds (0 disables)
}

// DedupConfig controls the deduplicator and the external merge service.
type DedupConfig struct {
	SpanCap     int     `yaml:"span_cap"`      // Max evidence spans kept per benefit
	MaxBenefits int     `yaml:"max_benefits"`  // Ceiling above which the external merge runs
	MergeURL    string  `yaml:"merge_url"`     // External similarity-merge endpoint ("" disables)
	MergeRPS    float64 `yaml:"merge_rps"`     // Rate limit for merge calls
	MergeAPIKey string  `yaml:"merge_api_key"` // Bearer token for the merge service
	Timeout     int     `yaml:"timeout"`       // Merge call timeout, seconds
}

// ValidationConfig resolves the severity policy for incomplete evidence.
type ValidationConfig struct {
	// StrictCoverage aborts the run when the evidence coverage ratio is
	// below 1.0. When false the valid subset is still exported and the
	// gap is reported as a warning.
	StrictCoverage bool `yaml:"strict_coverage"`
}

// LLMConfig configures the optional run summarizer.
type LLMConfig struct {
	Provider       string `yaml:"provider"` // "openai" or "" (disabled)
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Timeout        int    `yaml:"timeout"` // seconds
	StrictEvidence bool   `yaml:"strict_evidence"`
	MaxTokens      int    `yaml:"max_tokens"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"` // Bearer token required on /api routes ("" disables auth)
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	IncludeFooter bool `yaml:"include_footer"`
}

// ConcurrencyConfig controls the batch command.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Intake: IntakeConfig{
			MaxFileBytes: 20_000_000,
			CacheTTL:     600,
		},
		Dedup: DedupConfig{
			SpanCap:     5,
			MaxBenefits: 500,
			MergeURL:    "",
			MergeRPS:    2,
			Timeout:     30,
		},
		Validation: ValidationConfig{
			StrictCoverage: false,
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			StrictEvidence: true,
			MaxTokens:      1000,
		},
		Server: ServerConfig{
			Addr: ":8520",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
	}
}
