// Package lexicon holds the bilingual (Hebrew/English) keyword tables
// used by the extraction stages. The tables are immutable configuration
// built once; matching is plain case-insensitive substring search, which
// is what the phrasing of policy text actually calls for.
package lexicon

import "strings"

// RightKeywords mark rights-conferring language. A chunk must contain at
// least one of these to be harvested as a benefit candidate.
var RightKeywords = []string{
	// English
	"entitled",
	"covered",
	"coverage",
	"reimburse",
	"compensate",
	"indemnif",
	"benefit",
	"eligible",
	// Hebrew
	"זכאי",
	"זכאית",
	"זכאות",
	"כיסוי",
	"מכוסה",
	"יכוסה",
	"החזר",
	"שיפוי",
	"פיצוי",
	"הטבה",
	"תגמול",
}

// ExclusionKeywords flip a benefit's status to excluded.
var ExclusionKeywords = []string{
	"not covered",
	"excluded",
	"exclusion",
	"except",
	"shall not apply",
	"לא יכוסה",
	"לא מכוסה",
	"אינו מכסה",
	"לא תכסה",
	"חריג",
	"למעט",
	"אינו זכאי",
}

// ServiceKeywords classify a benefit as an assistance service rather
// than a payment.
var ServiceKeywords = []string{
	"assistance",
	"helpline",
	"hotline",
	"support line",
	"concierge",
	"מוקד",
	"סיוע",
	"קו חם",
	"שירות לקוחות",
	"ליווי",
}

// ConditionalKeywords classify a benefit as requiring approval or a
// qualifying condition.
var ConditionalKeywords = []string{
	"subject to",
	"pre-authorization",
	"prior approval",
	"approval",
	"waiting period",
	"provided that",
	"conditional upon",
	"בכפוף",
	"אישור מראש",
	"באישור",
	"תקופת המתנה",
	"תקופת אכשרה",
	"בתנאי ש",
}

// CurrencyKeywords gate the amount scanner: a chunk with none of these
// and no numeric-currency pattern is not scanned for amounts.
var CurrencyKeywords = []string{
	"₪",
	`ש"ח`,
	"שקלים",
	"ils",
	"nis",
	"$",
	"usd",
	"eur",
	"€",
	"עד לסך",
	"up to",
	"maximum",
	"מקסימום",
	"תקרה",
}

// GenericTitlePrefixes are stripped when normalizing benefit titles into
// dedup keys.
var GenericTitlePrefixes = []string{
	"coverage",
	"cover",
	"right",
	"service",
	"benefit",
	"insurance",
	"כיסוי",
	"זכות",
	"זכאות",
	"שירות",
	"הטבה",
	"ביטוח",
}

// HasRightKeyword reports whether s contains rights-conferring language.
func HasRightKeyword(s string) bool { return containsAny(s, RightKeywords) }

// HasExclusionKeyword reports whether s contains exclusion language.
func HasExclusionKeyword(s string) bool { return containsAny(s, ExclusionKeywords) }

// HasServiceKeyword reports whether s describes an assistance service.
func HasServiceKeyword(s string) bool { return containsAny(s, ServiceKeywords) }

// HasConditionalKeyword reports whether s carries a qualifying condition.
func HasConditionalKeyword(s string) bool { return containsAny(s, ConditionalKeywords) }

// HasCurrencyKeyword reports whether s mentions money at all.
func HasCurrencyKeyword(s string) bool { return containsAny(s, CurrencyKeywords) }

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
