package harvest

import (
	"strings"
	"testing"

	"github.com/zakaut/zakaut/internal/model"
)

func doc(id, name string, docType model.DocType, text string, pages ...string) model.Document {
	if len(pages) == 0 {
		pages = []string{text}
	}
	return model.Document{
		ID:          id,
		DisplayName: name,
		DocType:     docType,
		Text:        text,
		PageTexts:   pages,
		PageCount:   len(pages),
	}
}

func TestHarvest_HebrewCertainIncluded(t *testing.T) {
	h := New()

	text := "זכאי להחזר הוצאות אשפוז בבית חולים בישראל.\n"
	benefits := h.Harvest(doc("d1", "פוליסה", model.DocTypePolicy, text), false, NewDedupState())

	if len(benefits) != 1 {
		t.Fatalf("Expected 1 benefit, got %d", len(benefits))
	}
	b := benefits[0]
	if b.Layer != model.LayerCertain {
		t.Errorf("Expected layer certain, got %s", b.Layer)
	}
	if b.Status != model.StatusIncluded {
		t.Errorf("Expected status included, got %s", b.Status)
	}
	if b.Amounts.ValueState != model.ValueUnknownScheduleRequired {
		t.Errorf("Expected unknown_schedule_required without a schedule, got %s", b.Amounts.ValueState)
	}
	if len(b.Amounts.Values) != 0 {
		t.Errorf("Expected no amount values without a schedule, got %v", b.Amounts.Values)
	}
	if len(b.Evidence.Spans) != 1 {
		t.Fatalf("Expected exactly one evidence span at creation, got %d", len(b.Evidence.Spans))
	}
	if !b.Evidence.Spans[0].Complete() {
		t.Error("Expected complete evidence span")
	}
}

func TestHarvest_ConditionalWithAmounts(t *testing.T) {
	h := New()

	text := "Subject to pre-authorization, the insured is entitled to reimbursement up to 5,000 ILS.\n"
	benefits := h.Harvest(doc("d2", "policy.pdf", model.DocTypePolicy, text), true, NewDedupState())

	if len(benefits) != 1 {
		t.Fatalf("Expected 1 benefit, got %d", len(benefits))
	}
	b := benefits[0]
	if b.Layer != model.LayerConditional {
		t.Errorf("Expected layer conditional, got %s", b.Layer)
	}
	if b.Amounts.ValueState != model.ValueKnown {
		t.Errorf("Expected known amounts with a schedule present, got %s", b.Amounts.ValueState)
	}
	if len(b.Amounts.Values) != 1 {
		t.Fatalf("Expected exactly 1 amount value, got %d: %v", len(b.Amounts.Values), b.Amounts.Values)
	}
	if b.Amounts.Values[0].Numeric != 5000 {
		t.Errorf("Expected numeric 5000, got %v", b.Amounts.Values[0].Numeric)
	}
}

func TestHarvest_ScheduleGatingDiscardsNumbers(t *testing.T) {
	// Numbers exist in the raw text; without a schedule they must be
	// discarded, not merely hidden
	amounts := scanAmounts("המבוטח זכאי להחזר של עד 3,000 ₪ לשנה.", false)
	if amounts.ValueState != model.ValueUnknownScheduleRequired {
		t.Errorf("Expected unknown_schedule_required, got %s", amounts.ValueState)
	}
	if len(amounts.Values) != 0 {
		t.Errorf("Expected empty values, got %v", amounts.Values)
	}

	withSchedule := scanAmounts("המבוטח זכאי להחזר של עד 3,000 ₪ לשנה.", true)
	if withSchedule.ValueState != model.ValueKnown {
		t.Errorf("Expected known, got %s", withSchedule.ValueState)
	}
	if len(withSchedule.Values) != 1 || withSchedule.Values[0].Numeric != 3000 {
		t.Errorf("Expected one value of 3000, got %v", withSchedule.Values)
	}
}

func TestHarvest_ExclusionStatus(t *testing.T) {
	h := New()

	text := "Cosmetic surgery is not covered under this policy, even when the insured is otherwise eligible for treatment.\n"
	benefits := h.Harvest(doc("d3", "policy.txt", model.DocTypePolicy, text), false, NewDedupState())
	if len(benefits) != 1 {
		t.Fatalf("Expected 1 benefit, got %d", len(benefits))
	}
	if benefits[0].Status != model.StatusExcluded {
		t.Errorf("Expected status excluded, got %s", benefits[0].Status)
	}
}

func TestHarvest_ServiceLayerWinsOverConditional(t *testing.T) {
	chunk := "Subject to availability, members are covered for a 24/7 medical assistance helpline."
	if layer := classifyLayer(chunk); layer != model.LayerService {
		t.Errorf("Service keywords must win over conditional, got %s", layer)
	}
}

func TestHarvest_RightsFilterDropsPlainText(t *testing.T) {
	h := New()

	text := "This paragraph describes the history of the company and how it was founded in 1952 in Tel Aviv.\n\nהמבוטח זכאי לפיצוי בגין אובדן כושר עבודה מלא או חלקי.\n"
	benefits := h.Harvest(doc("d4", "policy.txt", model.DocTypePolicy, text), false, NewDedupState())
	if len(benefits) != 1 {
		t.Fatalf("Expected only the rights-conferring chunk, got %d benefits", len(benefits))
	}
	if !strings.Contains(benefits[0].Evidence.Spans[0].Quote, "זכאי לפיצוי") {
		t.Errorf("Unexpected quote: %q", benefits[0].Evidence.Spans[0].Quote)
	}
}

func TestHarvest_WithinDocumentDedup(t *testing.T) {
	h := New()

	para := "המבוטח זכאי להחזר הוצאות רפואיות בהתאם לתנאי הפוליסה."
	text := para + "\n\n" + para + "\n"
	benefits := h.Harvest(doc("d5", "policy.txt", model.DocTypePolicy, text), false, NewDedupState())
	if len(benefits) != 1 {
		t.Errorf("Expected duplicate chunk to be skipped, got %d benefits", len(benefits))
	}
}

func TestHarvest_PageResolution(t *testing.T) {
	h := New()

	page1 := "עמוד ראשון עם מבוא כללי ולא מעניין."
	page2 := "המבוטח זכאי להחזר הוצאות שיניים לפי הפוליסה הזו."
	text := page1 + "\n\n" + page2 + "\n"
	benefits := h.Harvest(doc("d6", "policy.pdf", model.DocTypePolicy, text, page1, page2), false, NewDedupState())

	if len(benefits) != 1 {
		t.Fatalf("Expected 1 benefit, got %d", len(benefits))
	}
	if got := benefits[0].Evidence.Spans[0].Page; got != 2 {
		t.Errorf("Expected page 2, got %d", got)
	}
}

func TestHarvest_PageDefaultsToOne(t *testing.T) {
	if page := resolvePage([]string{"other text entirely"}, "missing chunk text"); page != 1 {
		t.Errorf("Expected default page 1, got %d", page)
	}
}

func TestSegment_BlankLinesAndListMarkers(t *testing.T) {
	text := "First paragraph that is long enough to be kept around here.\n\nSecond paragraph also long enough to be kept in the output.\n1. First list item with enough text to pass the lower bound.\n2. Second list item with enough text to pass the lower bound.\n"
	chunks := Segment(text)
	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d: %+v", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[2].Text, "1.") || !strings.HasPrefix(chunks[3].Text, "2.") {
		t.Errorf("Expected list items split into chunks: %+v", chunks)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Offset <= chunks[i-1].Offset {
			t.Errorf("Offsets not increasing: %d then %d", chunks[i-1].Offset, chunks[i].Offset)
		}
	}
}

func TestSegment_SizeBounds(t *testing.T) {
	short := "too short"
	long := strings.Repeat("very long paragraph ", 150) // ~3000 chars
	ok := "This paragraph is comfortably inside the size bounds for harvesting."
	text := short + "\n\n" + long + "\n\n" + ok + "\n"

	chunks := Segment(text)
	if len(chunks) != 1 {
		t.Fatalf("Expected only the in-bounds chunk, got %d", len(chunks))
	}
	if chunks[0].Text != ok {
		t.Errorf("Unexpected surviving chunk: %q", chunks[0].Text)
	}
}

func TestSynthesizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		chunk   string
		heading string
		want    string
	}{
		{
			name:    "heading preferred",
			chunk:   "המבוטח זכאי להחזר הוצאות אשפוז.",
			heading: "כיסוי אשפוז",
			want:    "כיסוי אשפוז",
		},
		{
			name:    "heading too short falls through to phrase",
			chunk:   "המבוטח זכאי להחזר הוצאות אשפוז בבית חולים.",
			heading: "א",
			want:    "החזר הוצאות אשפוז בבית חולים",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synthesizeTitle(tt.chunk, tt.heading)
			if got != tt.want {
				t.Errorf("synthesizeTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesizeTitle_StripsClauseNumbers(t *testing.T) {
	chunk := "12.3 The insured is entitled to reimbursement of ambulance transport costs."
	title := synthesizeTitle(chunk, "")
	if strings.HasPrefix(title, "12.3") {
		t.Errorf("Expected clause number stripped, got %q", title)
	}
	if title != "reimbursement of ambulance transport costs" {
		t.Errorf("Expected the phrase following the entitlement trigger, got %q", title)
	}
}

func TestSynthesizeSummary_Truncation(t *testing.T) {
	long := strings.Repeat("word ", 60) + "tail"
	summary := synthesizeSummary(long)
	if len([]rune(summary)) > 210 {
		t.Errorf("Summary too long: %d runes", len([]rune(summary)))
	}
	if !strings.HasSuffix(summary, "…") {
		t.Errorf("Expected ellipsis on mid-text truncation, got %q", summary)
	}

	short := "Short summary stays as is."
	if got := synthesizeSummary(short); got != short {
		t.Errorf("Expected unmodified summary, got %q", got)
	}
}

func TestScanAmounts_NoDoubleCounting(t *testing.T) {
	amounts := scanAmounts("entitled to reimbursement up to 5,000 ILS per year", true)
	if len(amounts.Values) != 1 {
		t.Fatalf("Expected 1 value for overlapping patterns, got %d: %v", len(amounts.Values), amounts.Values)
	}
	v := amounts.Values[0]
	if v.Numeric != 5000 {
		t.Errorf("Expected 5000, got %v", v.Numeric)
	}
	if v.Position != strings.Index("entitled to reimbursement up to 5,000 ILS per year", "5,000") {
		t.Errorf("Unexpected position %d", v.Position)
	}
}
