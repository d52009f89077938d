package dedup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zakaut/zakaut/internal/model"
)

func benefit(id, title, summary string, spans ...model.EvidenceSpan) model.Benefit {
	return model.Benefit{
		BenefitID: id,
		Layer:     model.LayerCertain,
		Title:     title,
		Summary:   summary,
		Status:    model.StatusIncluded,
		Evidence:  model.EvidenceSet{Spans: spans},
		Amounts:   model.Amounts{ValueState: model.ValueUnknownScheduleRequired, Values: []model.AmountValue{}},
	}
}

func span(docID, quote string, page int) model.EvidenceSpan {
	return model.EvidenceSpan{
		EvidenceID: "ev-" + docID + quote[:1],
		DocumentID: docID,
		Page:       page,
		Quote:      quote,
		Verbatim:   true,
	}
}

func TestNormalize_FuzzyMergeByTitle(t *testing.T) {
	d := New(5, 500, nil)

	benefits := []model.Benefit{
		benefit("b1", "כיסוי אשפוז בבית חולים", "קצר", span("d1", "quote one", 1)),
		benefit("b2", "אשפוז בבית חולים!", "תקציר ארוך יותר מהראשון", span("d2", "quote two", 3)),
		benefit("b3", "Dental treatments abroad", "unrelated", span("d1", "quote three", 2)),
	}

	merged, _ := d.Normalize(context.Background(), benefits)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 benefits after fuzzy merge, got %d", len(merged))
	}

	first := merged[0]
	if first.BenefitID != "b1" {
		t.Errorf("Identity must stay with the first-seen benefit, got %s", first.BenefitID)
	}
	if len(first.Evidence.Spans) != 2 {
		t.Errorf("Expected unioned evidence spans, got %d", len(first.Evidence.Spans))
	}
	if first.Summary != "תקציר ארוך יותר מהראשון" {
		t.Errorf("Expected the longer summary to win, got %q", first.Summary)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	d := New(5, 500, nil)

	benefits := []model.Benefit{
		benefit("b1", "כיסוי אשפוז", "a", span("d1", "q1", 1)),
		benefit("b2", "אשפוז", "bb", span("d1", "q2", 1)),
		benefit("b3", "זכות לטיפולי שיניים", "c", span("d2", "q3", 1)),
	}

	once, _ := d.Normalize(context.Background(), benefits)
	twice, _ := d.Normalize(context.Background(), once)

	if len(once) != len(twice) {
		t.Fatalf("Fuzzy pass not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].BenefitID != twice[i].BenefitID {
			t.Errorf("Benefit %d changed identity on second pass", i)
		}
		if len(once[i].Evidence.Spans) != len(twice[i].Evidence.Spans) {
			t.Errorf("Benefit %d changed span count on second pass", i)
		}
	}
}

func TestCapSpans_RoundRobinAcrossDocuments(t *testing.T) {
	// 8 spans across 3 documents; the cap must keep 5 unique quotes with
	// round-robin balance: no document contributes a 2nd span before
	// every document contributed its 1st
	spans := []model.EvidenceSpan{
		span("docA", "a1", 4),
		span("docA", "a2", 1),
		span("docA", "a3", 2),
		span("docB", "b1", 9),
		span("docB", "b2", 2),
		span("docB", "b3", 5),
		span("docC", "c1", 7),
		span("docC", "c2", 3),
	}

	capped := capSpans(spans, 5)
	if len(capped) != 5 {
		t.Fatalf("Expected 5 spans, got %d", len(capped))
	}

	quotes := make(map[string]bool)
	perDoc := make(map[string]int)
	for _, s := range capped {
		if quotes[s.Quote] {
			t.Errorf("Duplicate quote kept: %q", s.Quote)
		}
		quotes[s.Quote] = true
		perDoc[s.DocumentID]++
	}

	// ceil(5/3) = 2: no document may supply more than 2
	for docID, n := range perDoc {
		if n > 2 {
			t.Errorf("Document %s supplies %d spans, want at most 2", docID, n)
		}
	}
	if len(perDoc) != 3 {
		t.Errorf("Expected all 3 documents represented, got %d", len(perDoc))
	}

	// First round takes each document's lowest page
	if capped[0].DocumentID != "docA" || capped[0].Page != 1 {
		t.Errorf("Expected docA page 1 first, got %s page %d", capped[0].DocumentID, capped[0].Page)
	}
	if capped[1].DocumentID != "docB" || capped[1].Page != 2 {
		t.Errorf("Expected docB page 2 second, got %s page %d", capped[1].DocumentID, capped[1].Page)
	}
	if capped[2].DocumentID != "docC" || capped[2].Page != 3 {
		t.Errorf("Expected docC page 3 third, got %s page %d", capped[2].DocumentID, capped[2].Page)
	}
}

func TestCapSpans_DedupByQuote(t *testing.T) {
	spans := []model.EvidenceSpan{
		span("d1", "same quote", 1),
		span("d2", "same quote", 2),
		span("d1", "other quote", 3),
	}
	capped := capSpans(spans, 5)
	if len(capped) != 2 {
		t.Errorf("Expected quote-level dedup to leave 2 spans, got %d", len(capped))
	}
}

func TestNormalize_ExternalMergeAboveCeiling(t *testing.T) {
	var received mergeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = readJSON(r, &received)
		resp := mergeResponse{Benefits: received.Benefits[:received.MaxBenefits], Method: "similarity"}
		writeJSON(w, resp)
	}))
	defer srv.Close()

	client := NewHTTPMergeClient(srv.URL, "", 5*time.Second, 100)
	d := New(5, 2, client)

	benefits := []model.Benefit{
		benefit("b1", "aaaa aaaa aaaa", "s", span("d1", "q1", 1)),
		benefit("b2", "bbbb bbbb bbbb", "s", span("d1", "q2", 1)),
		benefit("b3", "cccc cccc cccc", "s", span("d1", "q3", 1)),
	}

	merged, warnings := d.Normalize(context.Background(), benefits)
	if len(merged) != 2 {
		t.Fatalf("Expected external merge to cap at 2, got %d", len(merged))
	}
	if received.MaxBenefits != 2 {
		t.Errorf("Expected ceiling 2 sent to service, got %d", received.MaxBenefits)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning about the external merge, got %v", warnings)
	}
}

func TestNormalize_FallbackWhenServiceFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPMergeClient(srv.URL, "", 2*time.Second, 100)
	d := New(5, 2, client)

	benefits := []model.Benefit{
		benefit("b1", "aaaa aaaa aaaa", "s", span("d1", "q1", 1)),
		benefit("b2", "bbbb bbbb bbbb", "s", span("d1", "q2", 1)),
		benefit("b3", "cccc cccc cccc", "s", span("d1", "q3", 1)),
	}

	merged, warnings := d.Normalize(context.Background(), benefits)
	if len(merged) != 2 {
		t.Fatalf("Expected local fallback capped at 2, got %d", len(merged))
	}
	if len(warnings) < 2 {
		t.Errorf("Expected failure + fallback warnings, got %v", warnings)
	}
}

func TestFuzzyKey_Normalization(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"כיסוי אשפוז 12", "אשפוז!"},
		{"Coverage for dental care", "for dental care"},
		{"  benefit   Dental Care  ", "dental care"},
	}
	for _, tt := range tests {
		if fuzzyKey(tt.a) != fuzzyKey(tt.b) {
			t.Errorf("Expected %q and %q to share a key: %q vs %q", tt.a, tt.b, fuzzyKey(tt.a), fuzzyKey(tt.b))
		}
	}

	if fuzzyKey("אשפוז") == fuzzyKey("שיניים") {
		t.Error("Distinct titles must not collide")
	}
}

func readJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
