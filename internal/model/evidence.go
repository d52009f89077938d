package model

// EvidenceSpan is a citation-bearing excerpt backing a benefit: the exact
// document, page, and quoted text a claimed right was derived from, plus
// the structural context resolved around the quote.
type EvidenceSpan struct {
	EvidenceID   string  `json:"evidence_id"`
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page"`
	Quote        string  `json:"quote"`
	Confidence   float64 `json:"confidence"`

	// Structural context, omitted when it could not be resolved
	SectionPath     string `json:"section_path,omitempty"`     // e.g. "סעיף 12" / "Section 12"
	ClauseNumber    string `json:"clause_number,omitempty"`    // Number of the nearest preceding clause reference
	HeadingTitle    string `json:"heading_title,omitempty"`    // Nearest preceding heading
	ParagraphAnchor string `json:"paragraph_anchor,omitempty"` // First words of the containing paragraph (no clause found)
	ExcerptContext  string `json:"excerpt_context,omitempty"`  // Surrounding text, sentence-trimmed
	HighlightedText string `json:"highlighted_text,omitempty"` // The right-conferring sentence inside the quote

	IsAnnex   bool   `json:"is_annex"`
	AnnexName string `json:"annex_name,omitempty"`

	// Verbatim is always true: quotes are copied from the source text,
	// never paraphrased
	Verbatim bool `json:"verbatim"`
}

// Complete reports whether the span satisfies the evidence-completeness
// rule: non-empty quote, non-empty document id, and a positive page.
// Only complete spans count as valid evidence.
func (s EvidenceSpan) Complete() bool {
	return s.Quote != "" && s.DocumentID != "" && s.Page > 0
}

// EvidenceSet groups the spans backing a single benefit.
type EvidenceSet struct {
	Spans []EvidenceSpan `json:"spans"`
}
