package dedup

import (
	"sort"

	"github.com/zakaut/zakaut/internal/model"
)

// capSpans keeps at most limit evidence spans: spans are deduplicated by
// exact quote, grouped by source document, each group sorted by page
// ascending, then selected round-robin across the document groups so
// that no single document crowds out the others.
func capSpans(spans []model.EvidenceSpan, limit int) []model.EvidenceSpan {
	unique := unionSpans(spans, nil)
	if len(unique) <= limit {
		return unique
	}

	var docOrder []string
	groups := make(map[string][]model.EvidenceSpan)
	for _, s := range unique {
		if _, ok := groups[s.DocumentID]; !ok {
			docOrder = append(docOrder, s.DocumentID)
		}
		groups[s.DocumentID] = append(groups[s.DocumentID], s)
	}
	for _, docID := range docOrder {
		g := groups[docID]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Page < g[j].Page })
		groups[docID] = g
	}

	out := make([]model.EvidenceSpan, 0, limit)
	for round := 0; len(out) < limit; round++ {
		took := false
		for _, docID := range docOrder {
			g := groups[docID]
			if round >= len(g) {
				continue
			}
			out = append(out, g[round])
			took = true
			if len(out) == limit {
				break
			}
		}
		if !took {
			break
		}
	}
	return out
}
