package model

// DocType classifies a source document within a run
type DocType string

const (
	DocTypePolicy         DocType = "policy"         // Base policy wording
	DocTypeSchedule       DocType = "schedule"       // Amounts/limits table (דף פרטי ביטוח)
	DocTypeEndorsement    DocType = "endorsement"    // Annex/rider modifying the base policy
	DocTypeClaimForm      DocType = "claim_form"     // Claim submission form
	DocTypeCorrespondence DocType = "correspondence" // Letters, notices
	DocTypeUnknown        DocType = "unknown"        // Could not be classified
)

// Document is one source document owned by a run. Immutable once
// produced by intake; all extraction stages treat it as read-only.
type Document struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	DocType     DocType  `json:"doc_type"`
	Text        string   `json:"text"`
	PageTexts   []string `json:"page_texts,omitempty"`
	PageCount   int      `json:"page_count"`
}

// HasSchedule reports whether any document in the set is a schedule.
// Monetary amounts are never surfaced without one.
func HasSchedule(docs []Document) bool {
	for _, d := range docs {
		if d.DocType == DocTypeSchedule {
			return true
		}
	}
	return false
}

// HasPolicy reports whether any document in the set is a base policy.
func HasPolicy(docs []Document) bool {
	for _, d := range docs {
		if d.DocType == DocTypePolicy {
			return true
		}
	}
	return false
}
