package harvest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zakaut/zakaut/internal/lexicon"
	"github.com/zakaut/zakaut/internal/model"
)

// amountPatterns locate monetary figures. The first capture group must
// be the numeric part; overlapping matches are deduplicated by the
// number's position so "up to 5,000 ILS" yields one value, not two.
var amountPatterns = []*regexp.Regexp{
	// Currency-suffixed numbers: 5,000 ILS / 300 ₪ / 120.50 ש"ח
	regexp.MustCompile(`(\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:₪|ש"ח|שקלים|ILS|NIS|USD|EUR|\$|€)`),
	// Currency-prefixed numbers: $1,200 / €50
	regexp.MustCompile(`(?:\$|€|₪)\s*(\d[\d,]*(?:\.\d+)?)`),
	// Bounded phrases: up to 5,000 / maximum 10,000 / עד 3,000
	regexp.MustCompile(`(?i)(?:up to|maximum(?: of)?|עד לסך(?: של)?|עד|מקסימום|תקרה של)\s+(\d[\d,]*(?:\.\d+)?)`),
}

// scanAmounts extracts the schedule-gated monetary figures of a chunk.
//
// The scan only runs when the chunk mentions money at all. When no
// schedule document exists in the run the value state is forced to
// unknown_schedule_required and any extracted numbers are discarded:
// numeric amounts are never surfaced without a schedule backing them.
func scanAmounts(chunk string, hasSchedule bool) model.Amounts {
	if !hasSchedule {
		return model.Amounts{ValueState: model.ValueUnknownScheduleRequired, Values: []model.AmountValue{}}
	}

	amounts := model.Amounts{ValueState: model.ValueKnown, Values: []model.AmountValue{}}
	if !lexicon.HasCurrencyKeyword(chunk) {
		return amounts
	}

	seen := make(map[int]bool)
	for _, pattern := range amountPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(chunk, -1) {
			numStart, numEnd := m[2], m[3]
			if seen[numStart] {
				continue
			}
			raw := chunk[numStart:numEnd]
			numeric, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				continue
			}
			seen[numStart] = true
			amounts.Values = append(amounts.Values, model.AmountValue{
				Raw:      strings.TrimSpace(chunk[m[0]:m[1]]),
				Numeric:  numeric,
				Position: numStart,
			})
		}
	}
	return amounts
}
